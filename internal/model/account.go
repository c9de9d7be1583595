package model

import (
    "strings"
    "time"
)

// Role is the closed vocabulary of access roles.  Roles are stored by
// name in the `roles` table and referenced by accounts through the
// `user_roles` join table; callers never invent new ones at runtime.
type Role string

const (
    RoleAdmin Role = "ADMIN"
    RoleUser  Role = "USER"
)

// AllRoles lists every role the application knows about.  The seeder
// uses it to make sure the corresponding rows exist at startup.
var AllRoles = []Role{RoleAdmin, RoleUser}

// ParseRole maps a free-form string onto the closed Role vocabulary.
// Matching is case-insensitive; the second return value reports whether
// the input named a known role.
func ParseRole(s string) (Role, bool) {
    switch Role(strings.ToUpper(strings.TrimSpace(s))) {
    case RoleAdmin:
        return RoleAdmin, true
    case RoleUser:
        return RoleUser, true
    }
    return "", false
}

// Authority returns the wire-string convention used in token claims and
// policy checks, e.g. ADMIN -> "ROLE_ADMIN".  The prefix convention
// lives only here and in the identity resolver.
func (r Role) Authority() string {
    return "ROLE_" + string(r)
}

// Account mirrors the `users` table plus the roles joined through
// `user_roles`.  The password is stored only as a bcrypt hash; disabled
// accounts (Enabled=false) must fail both login and token-based
// re-authentication.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Enabled      – whether the account may authenticate.
//  Roles        – assigned roles (usually exactly one).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Enabled      bool      // users.enabled
    Roles        []Role    // joined from user_roles/roles
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// HasRole reports whether the account carries the given role.
func (a Account) HasRole(r Role) bool {
    for _, have := range a.Roles {
        if have == r {
            return true
        }
    }
    return false
}
