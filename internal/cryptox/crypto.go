// Package cryptox hashes and verifies account passwords.
package cryptox

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/farmportal/internal/common"
)

// DefaultCost is the bcrypt work factor used for stored passwords.
const DefaultCost = 10

// HashPassword returns the bcrypt hash of password.
//
// Parameters:
//   - password: the plaintext password; bcrypt only reads the first 72 bytes
//     and rejects longer input with an error.
//
// Returns:
//   - the encoded hash suitable for the password column.
//   - err: non-nil if bcrypt refuses the input.
//
// Example:
//
//	hash, err := cryptox.HashPassword([]byte("secret"))
//	if err != nil {
//	    return err
//	}
func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword compares password with a stored hash.
//
// The OAuth sentinel and any other value that is not a bcrypt hash never
// match. A mismatch yields common.ErrorUnauthorized; malformed hashes are
// reported the same way so callers cannot tell the two apart.
func CheckPassword(hash string, password []byte) error {
	if hash == "" || hash == common.OAuthPasswordSentinel {
		return common.ErrorUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), password); err != nil {
		return common.ErrorUnauthorized
	}
	return nil
}
