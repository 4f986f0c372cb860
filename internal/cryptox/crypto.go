// Package cryptox derives password verifiers for locally stored accounts.
//
// Passwords never hit the store in clear text. A random salt and an
// argon2id-derived key are combined into a verifier which is encoded as
//
//	argon2id$<base64 salt>$<base64 sha256(key)>
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	scheme  = "argon2id"
	saltLen = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword returns the encoded verifier for password using a fresh salt.
func HashPassword(password []byte) string {
	salt := common.GenerateRandByteArray(saltLen)
	return encode(salt, MakeVerifier(DeriveMasterKey(password, salt)))
}

// VerifyPassword reports whether password matches the encoded verifier.
// Malformed input never matches.
func VerifyPassword(encoded string, password []byte) bool {
	salt, verifier, err := decode(encoded)
	if err != nil {
		return false
	}
	candidate := MakeVerifier(DeriveMasterKey(password, salt))
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}

// IsHash reports whether s looks like a value produced by HashPassword.
func IsHash(s string) bool {
	_, _, err := decode(s)
	return err == nil
}

func encode(salt, verifier []byte) string {
	enc := base64.RawStdEncoding
	return scheme + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(verifier)
}

func decode(s string) (salt, verifier []byte, err error) {
	parts := strings.Split(s, "$")
	if len(parts) != 3 || parts[0] != scheme {
		return nil, nil, ErrMalformedHash
	}
	enc := base64.RawStdEncoding
	if salt, err = enc.DecodeString(parts[1]); err != nil {
		return nil, nil, ErrMalformedHash
	}
	if verifier, err = enc.DecodeString(parts[2]); err != nil || len(verifier) != sha256.Size {
		return nil, nil, ErrMalformedHash
	}
	return salt, verifier, nil
}
