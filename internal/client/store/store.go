// Package store reads and writes the gophtrip documents kept in the local
// key-value store: the account registry (users_key), the signed-in user
// (user_key) and the selected trip index (index_key). Values are JSON.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophtrip/internal/common"
)

type Store struct {
	repo kv.Repository
}

func New(repo kv.Repository) *Store {
	return &Store{repo: repo}
}

// Update JSON-encodes every value and writes them in one atomic batch.
func (s *Store) Update(ctx context.Context, values map[string]any) error {
	batch := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		batch[k] = b
	}
	return s.repo.SetMany(ctx, batch)
}

func (s *Store) Remove(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if err := s.repo.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Registry loads the account registry; an empty one when none is stored.
func (s *Store) Registry(ctx context.Context) (*models.Registry, error) {
	data, err := s.repo.Get(ctx, common.UsersKey)
	if errors.Is(err, common.ErrorNotFound) {
		return models.NewRegistry(), nil
	}
	if err != nil {
		return nil, err
	}
	reg, err := models.DecodeRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", common.UsersKey, err)
	}
	return reg, nil
}

// CurrentUser loads the signed-in user or returns common.ErrUserNotFound.
func (s *Store) CurrentUser(ctx context.Context) (*models.User, error) {
	data, err := s.repo.Get(ctx, common.UserKey)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u, err := models.DecodeUser(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", common.UserKey, err)
	}
	return u, nil
}

// Index loads the selected trip index, 0 when none is stored.
func (s *Store) Index(ctx context.Context) (int, error) {
	data, err := s.repo.Get(ctx, common.IndexKey)
	if errors.Is(err, common.ErrorNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	idx, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", common.ErrDeserialization, common.IndexKey, err)
	}
	return idx, nil
}

func (s *Store) Close() error {
	return s.repo.Close()
}
