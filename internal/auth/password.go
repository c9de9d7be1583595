package auth

import (
    "fmt"
    "strings"
    "unicode"

    "golang.org/x/crypto/bcrypt"
)

// Password strength bounds.  Special characters follow the same set the
// directory has always accepted.
const (
    minPasswordLen = 8
    maxPasswordLen = 128
    specialChars   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
    b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword checks the strength policy: 8..128 characters with at
// least one uppercase letter, one lowercase letter, one digit and one
// special character.  The returned error message is safe to show to
// clients.
func ValidatePassword(plain string) error {
    if len(plain) < minPasswordLen || len(plain) > maxPasswordLen {
        return fmt.Errorf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
    }
    var hasUpper, hasLower, hasDigit, hasSpecial bool
    for _, ch := range plain {
        switch {
        case unicode.IsUpper(ch):
            hasUpper = true
        case unicode.IsLower(ch):
            hasLower = true
        case unicode.IsDigit(ch):
            hasDigit = true
        case strings.ContainsRune(specialChars, ch):
            hasSpecial = true
        }
    }
    if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
        return fmt.Errorf("password must contain at least one uppercase letter, one lowercase letter, one digit, and one special character (%s)", specialChars)
    }
    return nil
}
