// Package cryptox wraps the key-derivation primitives used for stored
// password hashes.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them only affects newly derived hashes;
// Encode records nothing but salt and key, so keep them stable.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32

	// SaltLen is the salt size used by callers of DeriveKey.
	SaltLen = 16

	hashPrefix = "argon2id"
)

var ErrMalformedHash = errors.New("malformed password hash")

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// Encode renders salt and key as "argon2id$<salt>$<key>" using raw base64.
func Encode(salt, key []byte) string {
	enc := base64.RawStdEncoding
	return hashPrefix + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key)
}

// Decode is the inverse of Encode.
func Decode(s string) (salt, key []byte, err error) {
	parts := strings.Split(s, "$")
	if len(parts) != 3 || parts[0] != hashPrefix {
		return nil, nil, ErrMalformedHash
	}

	enc := base64.RawStdEncoding
	if salt, err = enc.DecodeString(parts[1]); err != nil {
		return nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if key, err = enc.DecodeString(parts[2]); err != nil {
		return nil, nil, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	return salt, key, nil
}

// IsEncoded reports whether s looks like an Encode result.
func IsEncoded(s string) bool {
	return strings.HasPrefix(s, hashPrefix+"$")
}

// Equal compares two byte slices in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
