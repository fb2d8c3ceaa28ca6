package user

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// scrypt parameters
const (
	scryptN   = 1 << 15
	scryptR   = 8
	scryptP   = 1
	keyLength = 64
	saltSize  = 16
)

// MakeHash derives a scrypt key for pwd with a fresh random salt and
// returns it as "hex(key).hex(salt)". Two calls with the same password
// yield different results.
func MakeHash(pwd string) (string, error) {
	saltBytes := make([]byte, saltSize)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", errors.Wrap(err, "generating salt")
	}
	salt := hex.EncodeToString(saltBytes)

	key, err := scrypt.Key([]byte(pwd), []byte(salt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", errors.Wrap(err, "deriving key")
	}
	return hex.EncodeToString(key) + "." + salt, nil
}

// VerifyPassword re-derives the key for `supplied` with the salt found in
// `stored` and compares in constant time. A stored value without a "."
// separator is compared directly: a legacy/dev-only escape hatch for
// records seeded with plaintext passwords; do not extend it.
// Any derivation or decoding error counts as a failed verification.
func VerifyPassword(supplied, stored string) bool {
	if !strings.Contains(stored, ".") {
		return supplied == stored
	}

	parts := strings.SplitN(stored, ".", 2)
	hash, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	key, err := scrypt.Key([]byte(supplied), []byte(parts[1]), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(hash, key) == 1
}

func (u *User) SetPassword(pwd string) error {
	hash, err := MakeHash(pwd)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) bool {
	return VerifyPassword(pwd, u.PasswordHash)
}
