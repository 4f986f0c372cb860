package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeUser parses a stored user. Unknown fields, shape violations and
// broken session invariants are reported as common.ErrDeserialization.
func DecodeUser(data []byte) (*User, error) {
	var u User
	if err := decodeStrict(data, &u); err != nil {
		return nil, err
	}
	if err := u.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDeserialization, err)
	}
	return &u, nil
}

// DecodeRegistry parses a stored account registry.
func DecodeRegistry(data []byte) (*Registry, error) {
	var r Registry
	if err := decodeStrict(data, &r); err != nil {
		return nil, err
	}
	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDeserialization, err)
	}

	seen := make(map[string]struct{}, len(r.Users))
	for _, u := range r.Users {
		if _, dup := seen[u.Username]; dup {
			return nil, fmt.Errorf("%w: duplicate username %q", common.ErrDeserialization, u.Username)
		}
		seen[u.Username] = struct{}{}
		if err := u.validate(); err != nil {
			return nil, fmt.Errorf("%w: user %q: %w", common.ErrDeserialization, u.Username, err)
		}
	}
	return &r, nil
}

func (u *User) validate() error {
	if err := validate.Struct(u); err != nil {
		return err
	}
	for i, s := range u.Sessions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("session %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks field rules and the parallel-sequence invariant.
func (s *Session) Validate() error {
	if s.Date.IsZero() {
		return errors.New("session date is missing")
	}
	if err := validate.Struct(s); err != nil {
		return err
	}
	return s.checkParallel()
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", common.ErrDeserialization, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after document", common.ErrDeserialization)
	}
	return nil
}
