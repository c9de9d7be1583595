// Package auth implements the stateless authentication core: the token
// codec, the identity resolver, the password hasher and strength policy,
// the reset-ticket store and the declarative authorization policy table.
package auth

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// minSecretBytes is the floor for the HS256 signing key: 32 bytes = 256
// bits of entropy.  A shorter key is a configuration error and is
// rejected when the codec is constructed, never at request time.
const minSecretBytes = 32

// Verification failure kinds.  They stay distinct so the gate can log
// what actually went wrong; callers treat any of them as "invalid".
var (
    ErrTokenMalformed   = errors.New("auth: malformed token")
    ErrTokenUnsupported = errors.New("auth: unsupported signing method")
    ErrTokenSignature   = errors.New("auth: signature mismatch")
    ErrTokenExpired     = errors.New("auth: token expired")
    ErrTokenNoSubject   = errors.New("auth: token has no subject")
)

// Claims is the verified content of a bearer token.
type Claims struct {
    Subject   string
    Roles     []string
    IssuedAt  time.Time
    ExpiresAt time.Time
}

// Codec signs and verifies compact HS256 bearer tokens carrying
// {sub, roles, iat, exp}.  Tokens are never persisted; validity is a
// pure function of signature and expiration.
type Codec struct {
    secret   []byte
    lifetime time.Duration
}

// NewCodec validates the signing secret and token lifetime.  The secret
// must be at least 256 bits; lifetimeSeconds must be positive.
func NewCodec(secret string, lifetimeSeconds int64) (*Codec, error) {
    if len(secret) < minSecretBytes {
        return nil, fmt.Errorf("auth: signing secret must be at least %d bytes, got %d", minSecretBytes, len(secret))
    }
    if lifetimeSeconds <= 0 {
        return nil, fmt.Errorf("auth: token lifetime must be positive, got %d", lifetimeSeconds)
    }
    return &Codec{
        secret:   []byte(secret),
        lifetime: time.Duration(lifetimeSeconds) * time.Second,
    }, nil
}

// LifetimeSeconds returns the configured token lifetime.  Exposed as an
// accessor so callers building login responses never reach into codec
// internals.
func (c *Codec) LifetimeSeconds() int64 {
    return int64(c.lifetime / time.Second)
}

// Issue builds and signs a token for the subject with the given role
// names.  exp = iat + lifetime.
func (c *Codec) Issue(subject string, roles []string) (string, error) {
    now := time.Now().UTC()
    claims := jwt.MapClaims{
        "sub":   subject,
        "roles": roles,
        "iat":   now.Unix(),
        "exp":   now.Add(c.lifetime).Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString(c.secret)
    if err != nil {
        return "", err
    }
    return signed, nil
}

// Verify parses and checks a token string.  It fails with one of the
// sentinel errors above for: malformed encoding, a non-HMAC signing
// method, a signature mismatch, a missing/empty subject, or an
// expiration at or before now.  Expiration is strict: exp == now is
// already expired, with no grace window.
func (c *Codec) Verify(token string) (Claims, error) {
    tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenUnsupported
        }
        return c.secret, nil
    })
    if err != nil {
        switch {
        case errors.Is(err, ErrTokenUnsupported):
            return Claims{}, ErrTokenUnsupported
        case errors.Is(err, jwt.ErrTokenMalformed):
            return Claims{}, ErrTokenMalformed
        case errors.Is(err, jwt.ErrTokenSignatureInvalid):
            return Claims{}, ErrTokenSignature
        case errors.Is(err, jwt.ErrTokenExpired):
            return Claims{}, ErrTokenExpired
        default:
            return Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
        }
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok || !tok.Valid {
        return Claims{}, ErrTokenMalformed
    }

    out := Claims{}
    if sub, _ := mc["sub"].(string); sub != "" {
        out.Subject = sub
    } else {
        return Claims{}, ErrTokenNoSubject
    }
    if raw, ok := mc["roles"].([]interface{}); ok {
        for _, v := range raw {
            if s, ok := v.(string); ok {
                out.Roles = append(out.Roles, s)
            }
        }
    }
    if iat, ok := mc["iat"].(float64); ok {
        out.IssuedAt = time.Unix(int64(iat), 0).UTC()
    }
    exp, ok := mc["exp"].(float64)
    if !ok {
        return Claims{}, ErrTokenMalformed
    }
    out.ExpiresAt = time.Unix(int64(exp), 0).UTC()
    // exp is an exclusive upper bound; the library allows exp == now so
    // the strict check lives here.
    if !time.Now().UTC().Before(out.ExpiresAt) {
        return Claims{}, ErrTokenExpired
    }
    return out, nil
}
