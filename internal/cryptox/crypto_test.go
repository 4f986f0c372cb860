package cryptox

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)
	assert.True(t, bytes.Equal(key1, key2))

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	assert.Equal(t, expectedHex, hex.EncodeToString(key1))
}

func TestMakeVerifier_Length(t *testing.T) {
	assert.Len(t, MakeVerifier([]byte("k")), 32)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h := HashPassword([]byte("hunter2"))

	assert.True(t, strings.HasPrefix(h, "argon2id$"))
	assert.True(t, IsHash(h))
	assert.True(t, VerifyPassword(h, []byte("hunter2")))
	assert.False(t, VerifyPassword(h, []byte("hunter3")))
}

func TestHashPassword_Salted(t *testing.T) {
	a := HashPassword([]byte("same"))
	b := HashPassword([]byte("same"))
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"plain-text",
		"bcrypt$abc$def",
		"argon2id$!!!$AAAA",
		"argon2id$c2FsdA$c2hvcnQ",
	} {
		assert.False(t, VerifyPassword(s, []byte("x")), s)
		assert.False(t, IsHash(s), s)
	}
}
