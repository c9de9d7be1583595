package auth

import (
    "errors"
    "strings"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func newTestCodec(t *testing.T, lifetimeSeconds int64) *Codec {
    t.Helper()
    c, err := NewCodec(testSecret, lifetimeSeconds)
    if err != nil {
        t.Fatalf("NewCodec: %v", err)
    }
    return c
}

func TestNewCodecRejectsBadConfig(t *testing.T) {
    t.Parallel()
    cases := []struct {
        name     string
        secret   string
        lifetime int64
    }{
        {"short secret", "too-short", 3600},
        {"31 byte secret", strings.Repeat("x", 31), 3600},
        {"zero lifetime", testSecret, 0},
        {"negative lifetime", testSecret, -5},
    }
    for _, tc := range cases {
        tc := tc
        t.Run(tc.name, func(t *testing.T) {
            t.Parallel()
            if _, err := NewCodec(tc.secret, tc.lifetime); err == nil {
                t.Fatal("expected construction to fail")
            }
        })
    }
}

func TestIssueVerifyRoundTrip(t *testing.T) {
    t.Parallel()
    codec := newTestCodec(t, 3600)

    token, err := codec.Issue("alice", []string{"USER"})
    if err != nil {
        t.Fatalf("Issue: %v", err)
    }
    claims, err := codec.Verify(token)
    if err != nil {
        t.Fatalf("Verify: %v", err)
    }
    if claims.Subject != "alice" {
        t.Errorf("subject = %q, want %q", claims.Subject, "alice")
    }
    if len(claims.Roles) != 1 || claims.Roles[0] != "USER" {
        t.Errorf("roles = %v, want [USER]", claims.Roles)
    }
    if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
        t.Errorf("exp-iat = %v, want %v", got, time.Hour)
    }
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
    t.Parallel()
    codec := newTestCodec(t, 3600)
    token, err := codec.Issue("alice", []string{"USER"})
    if err != nil {
        t.Fatalf("Issue: %v", err)
    }
    // Swap the first signature character for another base64url rune.
    // (The trailing character only carries padding bits, so flipping it
    // would not reliably change the decoded signature.)
    sig := strings.LastIndexByte(token, '.') + 1
    repl := byte('A')
    if token[sig] == 'A' {
        repl = 'B'
    }
    tampered := token[:sig] + string(repl) + token[sig+1:]

    if _, err := codec.Verify(tampered); !errors.Is(err, ErrTokenSignature) {
        t.Fatalf("err = %v, want ErrTokenSignature", err)
    }
}

func TestVerifyRejectsWrongKey(t *testing.T) {
    t.Parallel()
    codec := newTestCodec(t, 3600)
    other, err := NewCodec(strings.Repeat("k", 32), 3600)
    if err != nil {
        t.Fatalf("NewCodec: %v", err)
    }
    token, err := other.Issue("alice", nil)
    if err != nil {
        t.Fatalf("Issue: %v", err)
    }
    if _, err := codec.Verify(token); !errors.Is(err, ErrTokenSignature) {
        t.Fatalf("err = %v, want ErrTokenSignature", err)
    }
}

func TestVerifyRejectsMalformed(t *testing.T) {
    t.Parallel()
    codec := newTestCodec(t, 3600)
    for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
        if _, err := codec.Verify(raw); !errors.Is(err, ErrTokenMalformed) {
            t.Errorf("Verify(%q) err = %v, want ErrTokenMalformed", raw, err)
        }
    }
}

// signRaw builds a token with arbitrary claims using the test secret,
// bypassing Issue so expired and subject-less tokens can be produced.
func signRaw(t *testing.T, claims jwt.MapClaims) string {
    t.Helper()
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    if err != nil {
        t.Fatalf("sign: %v", err)
    }
    return signed
}

func TestVerifyRejectsExpired(t *testing.T) {
    t.Parallel()
    codec := newTestCodec(t, 3600)
    now := time.Now().UTC()
    for _, exp := range []time.Time{now.Add(-time.Hour), now} {
        token := signRaw(t, jwt.MapClaims{
            "sub":   "alice",
            "roles": []string{"USER"},
            "iat":   exp.Add(-time.Hour).Unix(),
            "exp":   exp.Unix(),
        })
        if _, err := codec.Verify(token); !errors.Is(err, ErrTokenExpired) {
            t.Errorf("Verify(exp=%v) err = %v, want ErrTokenExpired", exp, err)
        }
    }
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
    t.Parallel()
    codec := newTestCodec(t, 3600)
    now := time.Now().UTC()
    for _, claims := range []jwt.MapClaims{
        {"roles": []string{"USER"}, "iat": now.Unix(), "exp": now.Add(time.Hour).Unix()},
        {"sub": "", "iat": now.Unix(), "exp": now.Add(time.Hour).Unix()},
    } {
        if _, err := codec.Verify(signRaw(t, claims)); !errors.Is(err, ErrTokenNoSubject) {
            t.Errorf("err = %v, want ErrTokenNoSubject", err)
        }
    }
}

func TestVerifyRejectsUnsupportedMethod(t *testing.T) {
    t.Parallel()
    codec := newTestCodec(t, 3600)
    now := time.Now().UTC()
    unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
        "sub": "alice",
        "iat": now.Unix(),
        "exp": now.Add(time.Hour).Unix(),
    })
    token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
    if err != nil {
        t.Fatalf("sign: %v", err)
    }
    if _, err := codec.Verify(token); !errors.Is(err, ErrTokenUnsupported) {
        t.Fatalf("err = %v, want ErrTokenUnsupported", err)
    }
}
