// Package repository implements the MySQL-backed stores for accounts,
// roles, employees and managers. Sentinel errors defined here let
// higher layers distinguish failure scenarios without inspecting
// driver errors; "not found" is always one of these sentinels, never a
// raw sql.ErrNoRows.
package repository

import "errors"

// ErrAccountNotFound is returned when no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// ErrUsernameExists is returned when an insert collides with the unique
// username index.
var ErrUsernameExists = errors.New("username already taken")

// ErrEmailExists is returned when an insert collides with the unique
// email index.
var ErrEmailExists = errors.New("email already in use")

// ErrRoleNotConfigured is returned when a role name has no row in the
// roles table. Reaching it at request time means seeding was skipped;
// it is a configuration error, not a client error.
var ErrRoleNotConfigured = errors.New("role not configured")

// ErrNotFound is the generic missing-record sentinel used by the
// employee and manager stores. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("record not found")
