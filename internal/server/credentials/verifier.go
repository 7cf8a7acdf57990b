// Package credentials decides how a password is stored on sign-up and how a
// login attempt is checked against the stored value.
//
// The default scheme is plaintext: the stored value is the password itself.
// This is a known weakness kept for compatibility with existing user rows.
// The argon2id scheme can be selected in configuration; it changes how new
// passwords are stored and still verifies old plaintext rows.
package credentials

import (
	"fmt"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/cryptox"
)

const (
	SchemePlain    = "plain"
	SchemeArgon2id = "argon2id"
)

// Verifier turns passwords into stored values and checks them.
type Verifier interface {
	// Hash returns the value to persist for password.
	Hash(password string) (string, error)
	// Verify reports whether password matches stored.
	Verify(stored, password string) bool
}

// New returns the verifier for scheme ("plain" or "argon2id").
func New(scheme string) (Verifier, error) {
	switch scheme {
	case "", SchemePlain:
		return Plaintext{}, nil
	case SchemeArgon2id:
		return Argon2id{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown password scheme %q", common.ErrorValidation, scheme)
	}
}

// Plaintext stores passwords as-is and compares them exactly.
type Plaintext struct{}

func (Plaintext) Hash(password string) (string, error) {
	return password, nil
}

func (Plaintext) Verify(stored, password string) bool {
	return cryptox.Equal([]byte(stored), []byte(password))
}

// Argon2id stores "argon2id$salt$key". Rows that predate the switch hold
// plaintext and are compared as such.
type Argon2id struct{}

func (Argon2id) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(cryptox.SaltLen)
	return cryptox.Encode(salt, cryptox.DeriveKey([]byte(password), salt)), nil
}

func (Argon2id) Verify(stored, password string) bool {
	if !cryptox.IsEncoded(stored) {
		return Plaintext{}.Verify(stored, password)
	}
	salt, key, err := cryptox.Decode(stored)
	if err != nil {
		return false
	}
	return cryptox.Equal(key, cryptox.DeriveKey([]byte(password), salt))
}
