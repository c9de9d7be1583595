// Package middleware provides the per-request authentication gate, the
// authorization policy enforcement and the rate limiter.
package middleware

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/corporate-directory/internal/auth"
)

// identityKey is the context key under which the gate stores the
// request's identity. Echo contexts are per-request, so nothing leaks
// between requests; the gate still writes the key on every request so a
// handler can never observe a stale value.
const identityKey = "identity"

// IdentityFrom returns the authenticated identity for the request, or
// nil when the request is anonymous.
func IdentityFrom(c echo.Context) *auth.Identity {
    id, _ := c.Get(identityKey).(*auth.Identity)
    return id
}

// BearerToken extracts the raw token from a standard bearer-scheme
// Authorization header. The second return value reports whether a
// bearer header was present at all.
func BearerToken(c echo.Context) (string, bool) {
    header := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(header, "Bearer ") {
        return "", false
    }
    return strings.TrimPrefix(header, "Bearer "), true
}

// Authenticate returns the authentication gate. For paths the policy
// classifies as public it skips verification entirely, so those stay
// reachable even with a garbage token. Otherwise it verifies the bearer
// token, re-resolves the subject against the store (the enabled flag is
// rechecked per request, never trusted from the token) and attaches the
// identity to the request. Verification or resolution failures degrade
// to an anonymous request — the policy layer decides whether that
// becomes a 401 — except for a disabled account, which is rejected with
// 403 outright.
func Authenticate(codec *auth.Codec, resolver *auth.Resolver, policy *auth.Policy) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            c.Set(identityKey, (*auth.Identity)(nil))

            req := c.Request()
            if policy.IsPublic(req.Method, req.URL.Path) {
                return next(c)
            }

            raw, ok := BearerToken(c)
            if !ok {
                // No credential at all; authorization will turn this
                // into a 401 where identity is required.
                return next(c)
            }

            claims, err := codec.Verify(raw)
            if err != nil {
                c.Logger().Warnf("auth: token rejected for %s %s: %v", req.Method, req.URL.Path, err)
                return next(c)
            }

            identity, err := resolver.Resolve(req.Context(), claims.Subject)
            if err != nil {
                if errors.Is(err, auth.ErrAccountDisabled) {
                    c.Logger().Warnf("auth: disabled account %q presented a valid token", claims.Subject)
                    return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden: account disabled"})
                }
                c.Logger().Warnf("auth: subject %q did not resolve: %v", claims.Subject, err)
                return next(c)
            }

            c.Set(identityKey, &identity)
            return next(c)
        }
    }
}

// Authorize enforces the policy table after the gate has run. It alone
// owns the 401-versus-403 split: no identity where one is required is
// 401, a present identity lacking a required role is 403.
func Authorize(policy *auth.Policy) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            switch policy.Authorize(req.Method, req.URL.Path, IdentityFrom(c)) {
            case auth.DenyUnauthenticated:
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized: invalid or missing authentication token"})
            case auth.DenyForbidden:
                return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden: insufficient permissions"})
            default:
                return next(c)
            }
        }
    }
}
