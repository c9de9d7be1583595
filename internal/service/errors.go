// Package service orchestrates the credential workflows (signup, login,
// password reset, logout) over the stores, the token codec and the
// reset-ticket store, and publishes account lifecycle events.
package service

import "errors"

// Domain error taxonomy. Handlers translate these into status codes;
// anything not matching one of them is an unexpected error (500, logged
// server-side, generic message client-side).
var (
    // ErrValidation covers malformed input (400).
    ErrValidation = errors.New("validation failed")
    // ErrConflict covers duplicate username/email (400, matching the
    // established API behavior rather than 409).
    ErrConflict = errors.New("conflict")
    // ErrAuthentication covers bad credentials, unknown identities and
    // disabled accounts (401). Its message must stay generic so the
    // response never reveals which of those happened.
    ErrAuthentication = errors.New("invalid credentials")
    // ErrAuthorization covers a valid identity lacking a required role
    // (403).
    ErrAuthorization = errors.New("insufficient permissions")
    // ErrNotFound covers missing referenced entities (404).
    ErrNotFound = errors.New("not found")
)
