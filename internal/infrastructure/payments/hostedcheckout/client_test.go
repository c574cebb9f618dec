package hostedcheckout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func TestCreateSessionPostsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["amount"] != 49.0 {
			t.Errorf("amount = %v", body["amount"])
		}
		_, _ = w.Write([]byte(`{"session_id":"cs_1","url":"https://pay.example/cs_1","status":"open","payment_status":"initiated"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "sk_test", "whsec", Options{})
	session, err := client.CreateSession(context.Background(), 49.00, "EUR", "https://app/billing?session_id={CHECKOUT_SESSION_ID}", "https://app/billing", map[string]string{"plan_id": "pro"})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if session.SessionID != "cs_1" || session.URL == "" {
		t.Fatalf("session = %+v", session)
	}
}

func TestGetSessionStatusMapsUnknownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, "sk_test", "whsec", Options{})
	_, err := client.GetSessionStatus(context.Background(), "cs_missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookAcceptsSignedEvent(t *testing.T) {
	client := New("https://pay.example", "sk", "whsec_123", Options{})
	payload := []byte(`{"session_id":"cs_9","payment_status":"paid","metadata":{"user_id":"u-1","plan_id":"pro"}}`)

	event, err := client.VerifyWebhook(payload, signPayload("whsec_123", payload))
	if err != nil {
		t.Fatalf("VerifyWebhook() error = %v", err)
	}
	if event.SessionID != "cs_9" || event.PaymentStatus != "paid" {
		t.Fatalf("event = %+v", event)
	}
	if event.Metadata["plan_id"] != "pro" {
		t.Fatalf("metadata = %v", event.Metadata)
	}
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	client := New("https://pay.example", "sk", "whsec_123", Options{})
	payload := []byte(`{"session_id":"cs_9","payment_status":"paid"}`)

	_, err := client.VerifyWebhook(payload, "deadbeef")
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyWebhookRejectsEventWithoutSession(t *testing.T) {
	client := New("https://pay.example", "sk", "whsec_123", Options{})
	payload := []byte(`{"payment_status":"paid"}`)

	_, err := client.VerifyWebhook(payload, signPayload("whsec_123", payload))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
