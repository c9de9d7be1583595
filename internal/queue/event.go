// Package queue defines message payloads exchanged over the message broker.
package queue

// AccountEventQueue is the durable queue carrying account lifecycle
// notifications (signup confirmations, password-reset mails).
const AccountEventQueue = "account.events"

// Event types carried in the envelope.
const (
    TypeAccountCreated         = "account.created"
    TypePasswordResetRequested = "password.reset.requested"
)

// Envelope wraps every message on the account.events queue so a single
// consumer can dispatch on Type.
type Envelope struct {
    Type                   string                       `json:"type"`
    AccountCreated         *AccountCreatedEvent         `json:"account_created,omitempty"`
    PasswordResetRequested *PasswordResetRequestedEvent `json:"password_reset_requested,omitempty"`
}

// AccountCreatedEvent is published after a successful signup. It carries
// enough information for downstream consumers to send a welcome mail or
// feed an audit trail without querying the primary database.
type AccountCreatedEvent struct {
    AccountID uint64 `json:"account_id"`
    Username  string `json:"username"`
    Email     string `json:"email"`
    Role      string `json:"role"`
    CreatedAt string `json:"created_at"`
}

// PasswordResetRequestedEvent is published when a reset ticket is
// minted. A mail consumer is expected to deliver the token to the
// account's email address; the token itself is short-lived and single
// use.
type PasswordResetRequestedEvent struct {
    Email       string `json:"email"`
    ResetToken  string `json:"reset_token"`
    ExpiresAt   string `json:"expires_at"`
    RequestedAt string `json:"requested_at"`
}
