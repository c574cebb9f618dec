package domain

import "time"

// Quota tracks remaining paid units per capability. A value of zero blocks
// the corresponding operation for everyone except the master admin.
type Quota struct {
	PeriziaScansRemaining      int `json:"perizia_scans_remaining" yaml:"perizia_scans_remaining"`
	ImageScansRemaining        int `json:"image_scans_remaining" yaml:"image_scans_remaining"`
	AssistantMessagesRemaining int `json:"assistant_messages_remaining" yaml:"assistant_messages_remaining"`
}

type User struct {
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Picture       string    `json:"picture,omitempty"`
	Plan          string    `json:"plan"`
	IsMasterAdmin bool      `json:"is_master_admin"`
	Quota         Quota     `json:"quota"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Session struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// BrokerIdentity is what the hosted OAuth broker returns for a session id.
type BrokerIdentity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuditEntry records an admin mutation of another user's account.
type AuditEntry struct {
	EntryID      string    `json:"entry_id"`
	AdminID      string    `json:"admin_id"`
	TargetUserID string    `json:"target_user_id"`
	Action       string    `json:"action"`
	Changes      string    `json:"changes"`
	CreatedAt    time.Time `json:"created_at"`
}
