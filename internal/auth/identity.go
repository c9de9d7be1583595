package auth

import (
    "context"
    "errors"
    "log"

    "github.com/iliyamo/corporate-directory/internal/model"
    "github.com/iliyamo/corporate-directory/internal/repository"
)

// Resolution failure kinds.  Both collapse to a generic authentication
// failure at the boundary so callers cannot probe which accounts exist;
// the distinction exists only for audit logging.
var (
    ErrIdentityNotFound = errors.New("auth: identity not found")
    ErrAccountDisabled  = errors.New("auth: account disabled")
)

// AccountSource is the slice of the credential store the resolver needs.
// Implementations must return repository.ErrAccountNotFound for missing
// accounts, never raw driver errors.
type AccountSource interface {
    FindByUsername(ctx context.Context, username string) (model.Account, error)
    FindByEmail(ctx context.Context, email string) (model.Account, error)
}

// Identity is the request-scoped result of successful authentication.
// It is attached to a single request's context and never shared across
// requests or persisted.
type Identity struct {
    Username    string
    Authorities []string
}

// HasAuthority reports whether the identity carries the given authority
// string (e.g. "ROLE_ADMIN").
func (id Identity) HasAuthority(want string) bool {
    for _, a := range id.Authorities {
        if a == want {
            return true
        }
    }
    return false
}

// Authorities maps a role set to wire authority strings ("ROLE_" prefix
// convention).  An empty role set maps to an empty slice.
func Authorities(roles []model.Role) []string {
    out := make([]string, 0, len(roles))
    for _, r := range roles {
        out = append(out, r.Authority())
    }
    return out
}

// Resolver turns a username or email into an authenticated identity,
// applying the account-status check.
type Resolver struct {
    accounts AccountSource
}

func NewResolver(accounts AccountSource) *Resolver {
    return &Resolver{accounts: accounts}
}

// ResolveAccount looks up the raw account record by username first, then
// by email.  Username takes priority so a crafted email can never shadow
// another user's username.  Returns ErrIdentityNotFound when neither
// lookup matches; the enabled flag is NOT checked here.
func (r *Resolver) ResolveAccount(ctx context.Context, usernameOrEmail string) (model.Account, error) {
    acc, err := r.accounts.FindByUsername(ctx, usernameOrEmail)
    if err == nil {
        return acc, nil
    }
    if !errors.Is(err, repository.ErrAccountNotFound) {
        return model.Account{}, err
    }
    acc, err = r.accounts.FindByEmail(ctx, usernameOrEmail)
    if err == nil {
        return acc, nil
    }
    if !errors.Is(err, repository.ErrAccountNotFound) {
        return model.Account{}, err
    }
    return model.Account{}, ErrIdentityNotFound
}

// Resolve returns the identity for a username or email, failing with
// ErrIdentityNotFound or ErrAccountDisabled.  An account with zero roles
// resolves successfully with an empty authority set; that is a policy
// warning condition, not an error.
func (r *Resolver) Resolve(ctx context.Context, usernameOrEmail string) (Identity, error) {
    acc, err := r.ResolveAccount(ctx, usernameOrEmail)
    if err != nil {
        return Identity{}, err
    }
    if !acc.Enabled {
        return Identity{}, ErrAccountDisabled
    }
    if len(acc.Roles) == 0 {
        log.Printf("auth: account %q resolved with no roles", acc.Username)
    }
    return Identity{
        Username:    acc.Username,
        Authorities: Authorities(acc.Roles),
    }, nil
}
