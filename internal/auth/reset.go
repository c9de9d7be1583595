package auth

import (
    "crypto/rand"
    "encoding/hex"
    "errors"
    "sync"
    "time"
)

// DefaultResetTTL is how long a password-reset ticket stays usable.
const DefaultResetTTL = 15 * time.Minute

var (
    ErrTicketNotFound = errors.New("auth: reset ticket not found")
    ErrTicketExpired  = errors.New("auth: reset ticket expired")
)

// ResetTicket is an ephemeral, single-use credential authorizing exactly
// one password change for the target email.
type ResetTicket struct {
    Token     string
    Email     string
    ExpiresAt time.Time
}

// ResetTickets is a concurrency-safe, process-local store of reset
// tickets keyed by ticket token.  Instances are injected wherever they
// are needed so tests can run against isolated stores; there is no
// package-level instance.
type ResetTickets struct {
    mu      sync.Mutex
    ttl     time.Duration
    tickets map[string]ResetTicket
}

// NewResetTickets builds an empty store.  A non-positive ttl falls back
// to DefaultResetTTL.
func NewResetTickets(ttl time.Duration) *ResetTickets {
    if ttl <= 0 {
        ttl = DefaultResetTTL
    }
    return &ResetTickets{
        ttl:     ttl,
        tickets: make(map[string]ResetTicket),
    }
}

// Create mints a ticket for the given email with a cryptographically
// random token and stores it.
func (s *ResetTickets) Create(email string) (ResetTicket, error) {
    token, err := randomHex(32) // 32 bytes -> 64 hex chars
    if err != nil {
        return ResetTicket{}, err
    }
    t := ResetTicket{
        Token:     token,
        Email:     email,
        ExpiresAt: time.Now().UTC().Add(s.ttl),
    }
    s.mu.Lock()
    s.tickets[token] = t
    s.mu.Unlock()
    return t, nil
}

// Consume removes the ticket and returns its target email.  A missing
// token fails with ErrTicketNotFound.  An expired ticket fails with
// ErrTicketExpired and is removed, so it can never be retried.  A ticket
// is usable at most once: a second Consume of the same token always
// fails.
func (s *ResetTickets) Consume(token string) (string, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    t, ok := s.tickets[token]
    if !ok {
        return "", ErrTicketNotFound
    }
    delete(s.tickets, token)
    if !time.Now().UTC().Before(t.ExpiresAt) {
        return "", ErrTicketExpired
    }
    return t.Email, nil
}

// PurgeExpired drops every expired ticket and reports how many were
// removed.  Not required for correctness (expiry is checked on use) but
// bounds memory when tickets are requested and never consumed.
func (s *ResetTickets) PurgeExpired() int {
    now := time.Now().UTC()
    s.mu.Lock()
    defer s.mu.Unlock()
    n := 0
    for token, t := range s.tickets {
        if !now.Before(t.ExpiresAt) {
            delete(s.tickets, token)
            n++
        }
    }
    return n
}

// StartPurgeLoop purges expired tickets on the given interval until the
// stop channel closes.
func (s *ResetTickets) StartPurgeLoop(interval time.Duration, stop <-chan struct{}) {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    for {
        select {
        case <-ticker.C:
            s.PurgeExpired()
        case <-stop:
            return
        }
    }
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
