package domain

import "time"

type TransactionStatus string

const (
	TxnPending  TransactionStatus = "pending"
	TxnComplete TransactionStatus = "complete"
	TxnExpired  TransactionStatus = "expired"
)

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
)

type Transaction struct {
	TransactionID     string            `json:"transaction_id"`
	UserID            string            `json:"user_id"`
	CheckoutSessionID string            `json:"session_id"`
	PlanID            string            `json:"plan_id"`
	Amount            float64           `json:"amount"`
	Currency          string            `json:"currency"`
	Status            TransactionStatus `json:"status"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// CheckoutSession is the processor-side view of a hosted checkout.
type CheckoutSession struct {
	SessionID     string  `json:"session_id"`
	URL           string  `json:"url"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	AmountTotal   float64 `json:"amount_total"`
	Currency      string  `json:"currency"`
}

// WebhookEvent is a verified payment notification from the processor.
type WebhookEvent struct {
	SessionID     string            `json:"session_id"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}
