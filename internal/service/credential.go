package service

import (
    "context"
    "errors"
    "fmt"
    "log"
    "net/mail"
    "strings"
    "time"

    "github.com/iliyamo/corporate-directory/internal/auth"
    "github.com/iliyamo/corporate-directory/internal/model"
    "github.com/iliyamo/corporate-directory/internal/queue"
    "github.com/iliyamo/corporate-directory/internal/repository"
)

// AccountStore is the slice of the credential store the service writes
// through. repository.AccountRepo satisfies it; tests inject fakes.
type AccountStore interface {
    FindByEmail(ctx context.Context, email string) (model.Account, error)
    ExistsByUsername(ctx context.Context, username string) (bool, error)
    ExistsByEmail(ctx context.Context, email string) (bool, error)
    Create(ctx context.Context, a model.Account) (uint64, error)
    UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// RoleStore resolves role names against the configured vocabulary.
type RoleStore interface {
    FindByName(ctx context.Context, name string) (model.Role, error)
}

// Notifier delivers account lifecycle events to interested consumers.
// Delivery is best-effort: implementations log failures and the request
// flow never depends on them.
type Notifier interface {
    AccountCreated(ctx context.Context, ev queue.AccountCreatedEvent)
    PasswordResetRequested(ctx context.Context, ev queue.PasswordResetRequestedEvent)
}

// QueueNotifier publishes events to RabbitMQ via the queue publisher.
type QueueNotifier struct{}

func (QueueNotifier) AccountCreated(ctx context.Context, ev queue.AccountCreatedEvent) {
    _ = PublishAccountCreated(ctx, ev) // errors already logged by the publisher
}

func (QueueNotifier) PasswordResetRequested(ctx context.Context, ev queue.PasswordResetRequestedEvent) {
    _ = PublishPasswordResetRequested(ctx, ev)
}

// ----- request/response shapes -----

type SignupRequest struct {
    Username string `json:"username"`
    Email    string `json:"email"`
    Password string `json:"password"`
    Role     string `json:"role"` // optional; defaults to USER
}

type LoginRequest struct {
    UsernameOrEmail string `json:"usernameOrEmail"`
    Password        string `json:"password"`
}

// TokenResult is the login response body.
type TokenResult struct {
    Token            string `json:"token"`
    TokenType        string `json:"tokenType"`
    ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// ForgotPasswordResult carries the reset ticket back to the caller. In
// production the token would travel only by mail; returning it here
// matches the established API and keeps the flow testable without a
// mail server.
type ForgotPasswordResult struct {
    Message    string `json:"message"`
    ResetToken string `json:"resetToken"`
}

// CredentialService implements signup, login, the password-reset
// lifecycle and logout.
type CredentialService struct {
    accounts   AccountStore
    roles      RoleStore
    resolver   *auth.Resolver
    codec      *auth.Codec
    tickets    *auth.ResetTickets
    notifier   Notifier
    bcryptCost int
}

// NewCredentialService wires the service. notifier may be nil to
// disable event publishing (tests, broker-less deployments).
func NewCredentialService(accounts AccountStore, roles RoleStore, resolver *auth.Resolver,
    codec *auth.Codec, tickets *auth.ResetTickets, notifier Notifier, bcryptCost int) *CredentialService {
    return &CredentialService{
        accounts:   accounts,
        roles:      roles,
        resolver:   resolver,
        codec:      codec,
        tickets:    tickets,
        notifier:   notifier,
        bcryptCost: bcryptCost,
    }
}

// Signup validates and persists a new account. The role defaults to
// USER; creating an ADMIN account requires the requester to already
// hold ROLE_ADMIN — self-escalation is rejected.
func (s *CredentialService) Signup(ctx context.Context, req SignupRequest, requester *auth.Identity) (uint64, error) {
    username := strings.TrimSpace(req.Username)
    email := strings.ToLower(strings.TrimSpace(req.Email))
    if username == "" {
        return 0, fmt.Errorf("%w: username is required", ErrValidation)
    }
    if err := validateEmail(email); err != nil {
        return 0, err
    }
    if err := auth.ValidatePassword(req.Password); err != nil {
        return 0, fmt.Errorf("%w: %s", ErrValidation, err)
    }

    roleName := strings.ToUpper(strings.TrimSpace(req.Role))
    if roleName == "" {
        roleName = string(model.RoleUser)
    }
    role, ok := model.ParseRole(roleName)
    if !ok {
        return 0, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
    }
    if role == model.RoleAdmin {
        if requester == nil || !requester.HasAuthority(model.RoleAdmin.Authority()) {
            return 0, fmt.Errorf("%w: only an ADMIN may create ADMIN accounts", ErrAuthorization)
        }
    }

    if taken, err := s.accounts.ExistsByUsername(ctx, username); err != nil {
        return 0, err
    } else if taken {
        return 0, fmt.Errorf("%w: username already taken", ErrConflict)
    }
    if taken, err := s.accounts.ExistsByEmail(ctx, email); err != nil {
        return 0, err
    } else if taken {
        return 0, fmt.Errorf("%w: email already in use", ErrConflict)
    }

    // The role row must exist; seeding guarantees it, so a miss here is
    // a deployment problem, not a client error.
    if _, err := s.roles.FindByName(ctx, string(role)); err != nil {
        return 0, fmt.Errorf("resolve role %s: %w", role, err)
    }

    hash, err := auth.HashPassword(req.Password, s.bcryptCost)
    if err != nil {
        return 0, err
    }
    id, err := s.accounts.Create(ctx, model.Account{
        Username:     username,
        Email:        email,
        PasswordHash: hash,
        Enabled:      true,
        Roles:        []model.Role{role},
    })
    if err != nil {
        if errors.Is(err, repository.ErrUsernameExists) {
            return 0, fmt.Errorf("%w: username already taken", ErrConflict)
        }
        if errors.Is(err, repository.ErrEmailExists) {
            return 0, fmt.Errorf("%w: email already in use", ErrConflict)
        }
        return 0, err
    }
    log.Printf("credential: new account %q created with role %s", username, role)

    if s.notifier != nil {
        s.notifier.AccountCreated(ctx, queue.AccountCreatedEvent{
            AccountID: id,
            Username:  username,
            Email:     email,
            Role:      string(role),
            CreatedAt: time.Now().UTC().Format(time.RFC3339),
        })
    }
    return id, nil
}

// Authenticate verifies credentials and mints a bearer token. Unknown
// identity, wrong password and disabled account all collapse to
// ErrAuthentication; the distinction is only logged.
func (s *CredentialService) Authenticate(ctx context.Context, req LoginRequest) (TokenResult, error) {
    subject := strings.TrimSpace(req.UsernameOrEmail)
    if subject == "" || req.Password == "" {
        return TokenResult{}, fmt.Errorf("%w: usernameOrEmail and password are required", ErrValidation)
    }

    acc, err := s.resolver.ResolveAccount(ctx, subject)
    if err != nil {
        if errors.Is(err, auth.ErrIdentityNotFound) {
            log.Printf("credential: login failed, unknown identity %q", subject)
            return TokenResult{}, ErrAuthentication
        }
        return TokenResult{}, err
    }
    if !acc.Enabled {
        log.Printf("credential: login rejected for disabled account %q", acc.Username)
        return TokenResult{}, ErrAuthentication
    }
    if !auth.VerifyPassword(acc.PasswordHash, req.Password) {
        log.Printf("credential: login failed, bad password for %q", acc.Username)
        return TokenResult{}, ErrAuthentication
    }

    roles := make([]string, 0, len(acc.Roles))
    for _, r := range acc.Roles {
        roles = append(roles, string(r))
    }
    token, err := s.codec.Issue(acc.Username, roles)
    if err != nil {
        return TokenResult{}, err
    }
    log.Printf("credential: user %q authenticated", acc.Username)
    return TokenResult{
        Token:            token,
        TokenType:        "Bearer",
        ExpiresInSeconds: s.codec.LifetimeSeconds(),
    }, nil
}

// ForgotPassword mints a single-use reset ticket for the account owning
// the email. An unknown email fails — a deliberate, documented account
// enumeration trade-off kept for API compatibility.
func (s *CredentialService) ForgotPassword(ctx context.Context, email string) (ForgotPasswordResult, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    if err := validateEmail(email); err != nil {
        return ForgotPasswordResult{}, err
    }
    if _, err := s.accounts.FindByEmail(ctx, email); err != nil {
        if errors.Is(err, repository.ErrAccountNotFound) {
            return ForgotPasswordResult{}, fmt.Errorf("%w: no account with that email", ErrValidation)
        }
        return ForgotPasswordResult{}, err
    }

    ticket, err := s.tickets.Create(email)
    if err != nil {
        return ForgotPasswordResult{}, err
    }
    log.Printf("credential: reset ticket issued for %q, expires %s", email, ticket.ExpiresAt.Format(time.RFC3339))

    if s.notifier != nil {
        s.notifier.PasswordResetRequested(ctx, queue.PasswordResetRequestedEvent{
            Email:       email,
            ResetToken:  ticket.Token,
            ExpiresAt:   ticket.ExpiresAt.Format(time.RFC3339),
            RequestedAt: time.Now().UTC().Format(time.RFC3339),
        })
    }
    return ForgotPasswordResult{
        Message:    "Password reset token generated",
        ResetToken: ticket.Token,
    }, nil
}

// ResetPassword consumes a reset ticket exactly once and persists the
// new password hash. Expired or unknown tickets fail; an expired ticket
// is removed on detection and can never be retried.
func (s *CredentialService) ResetPassword(ctx context.Context, ticketToken, newPassword string) error {
    if strings.TrimSpace(ticketToken) == "" {
        return fmt.Errorf("%w: reset token is required", ErrValidation)
    }
    if err := auth.ValidatePassword(newPassword); err != nil {
        return fmt.Errorf("%w: %s", ErrValidation, err)
    }

    email, err := s.tickets.Consume(ticketToken)
    if err != nil {
        if errors.Is(err, auth.ErrTicketNotFound) || errors.Is(err, auth.ErrTicketExpired) {
            log.Printf("credential: reset rejected: %v", err)
            return fmt.Errorf("%w: invalid or expired reset token", ErrValidation)
        }
        return err
    }

    hash, err := auth.HashPassword(newPassword, s.bcryptCost)
    if err != nil {
        return err
    }
    if err := s.accounts.UpdatePassword(ctx, email, hash); err != nil {
        return err
    }
    log.Printf("credential: password reset completed for %q", email)
    return nil
}

// Logout is stateless: tokens stay valid until their natural expiration
// because there is no revocation list. The subject is logged on a
// best-effort basis; clients discard the token.
func (s *CredentialService) Logout(token string) {
    claims, err := s.codec.Verify(token)
    if err != nil {
        log.Printf("credential: logout with unverifiable token: %v", err)
        return
    }
    log.Printf("credential: user %q logged out (token valid until %s)", claims.Subject, claims.ExpiresAt.Format(time.RFC3339))
}

func validateEmail(email string) error {
    if email == "" {
        return fmt.Errorf("%w: email is required", ErrValidation)
    }
    if _, err := mail.ParseAddress(email); err != nil {
        return fmt.Errorf("%w: invalid email address", ErrValidation)
    }
    return nil
}
