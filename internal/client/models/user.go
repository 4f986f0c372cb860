package models

import (
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/cryptox"
)

// User owns an ordered list of saved sessions. Password holds the encoded
// verifier produced by cryptox.HashPassword, never the clear text.
type User struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Sessions []*Session `json:"sessions" validate:"dive,required"`
}

func NewUser(username, password string) *User {
	return &User{Username: username, Password: cryptox.HashPassword([]byte(password))}
}

// CheckPassword also accepts registries written before passwords were
// hashed, where Password holds the clear text.
func (u *User) CheckPassword(password string) bool {
	if u.NeedsRehash() {
		return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
	}
	return cryptox.VerifyPassword(u.Password, []byte(password))
}

// NeedsRehash reports whether Password is still stored in clear text.
func (u *User) NeedsRehash() bool {
	return !cryptox.IsHash(u.Password)
}

func (u *User) SetPassword(password []byte) {
	u.Password = cryptox.HashPassword(password)
}

func (u *User) AddSession(s *Session) {
	u.Sessions = append(u.Sessions, s)
}

func (u *User) Session(index int) (*Session, error) {
	if index < 0 || index >= len(u.Sessions) {
		return nil, fmt.Errorf("%w: index %d of %d", common.ErrSessionNotFound, index, len(u.Sessions))
	}
	return u.Sessions[index], nil
}

// RemoveSession deletes the session at index, keeping the order of the rest.
func (u *User) RemoveSession(index int) error {
	if _, err := u.Session(index); err != nil {
		return err
	}
	u.Sessions = append(u.Sessions[:index], u.Sessions[index+1:]...)
	return nil
}
