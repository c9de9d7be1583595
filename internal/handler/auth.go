package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/corporate-directory/internal/auth"
    "github.com/iliyamo/corporate-directory/internal/middleware"
    "github.com/iliyamo/corporate-directory/internal/service"
)

// AuthHandler bundles dependencies for the credential endpoints.
type AuthHandler struct {
    Credentials *service.CredentialService
    Codec       *auth.Codec
    Resolver    *auth.Resolver
}

func NewAuthHandler(credentials *service.CredentialService, codec *auth.Codec, resolver *auth.Resolver) *AuthHandler {
    return &AuthHandler{Credentials: credentials, Codec: codec, Resolver: resolver}
}

// ----- DTOs -----

type forgotPasswordReq struct {
    Email string `json:"email"`
}

type resetPasswordReq struct {
    ResetToken  string `json:"resetToken"`
    NewPassword string `json:"newPassword"`
}

// Signup creates a new account. The /api/auth prefix is public, so the
// gate never runs here; the optional bearer is parsed inline instead,
// because an authenticated ADMIN is allowed to create another ADMIN
// while anonymous callers are not.
func (h *AuthHandler) Signup(c echo.Context) error {
    var req service.SignupRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    requester := h.requesterIdentity(c)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Credentials.Signup(ctx, req, requester); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusCreated)
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
    var req service.LoginRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Credentials.Authenticate(ctx, req)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// ForgotPassword mints a password-reset ticket for the given email.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
    var req forgotPasswordReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Credentials.ForgotPassword(ctx, req.Email)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// ResetPassword consumes a reset ticket and stores the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
    var req resetPasswordReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Credentials.ResetPassword(ctx, req.ResetToken, req.NewPassword); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset successfully"})
}

// Logout logs the subject of the presented token. Tokens are stateless,
// so this cannot invalidate anything server-side; clients discard the
// token.
func (h *AuthHandler) Logout(c echo.Context) error {
    if raw, ok := middleware.BearerToken(c); ok {
        h.Credentials.Logout(raw)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Me returns the authenticated caller's identity; a simple protected
// endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
    id := middleware.IdentityFrom(c)
    if id == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized: invalid or missing authentication token"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "username":    id.Username,
        "authorities": id.Authorities,
    })
}

// requesterIdentity resolves the optional bearer on a public endpoint.
// Any failure yields an anonymous requester; signup itself decides what
// anonymity is allowed to do.
func (h *AuthHandler) requesterIdentity(c echo.Context) *auth.Identity {
    raw, ok := middleware.BearerToken(c)
    if !ok {
        return nil
    }
    claims, err := h.Codec.Verify(raw)
    if err != nil {
        c.Logger().Warnf("signup: ignoring invalid bearer: %v", err)
        return nil
    }
    identity, err := h.Resolver.Resolve(c.Request().Context(), claims.Subject)
    if err != nil {
        c.Logger().Warnf("signup: ignoring unresolvable bearer subject %q: %v", claims.Subject, err)
        return nil
    }
    return &identity
}
