package store

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/client/storage"
	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	repo, err := storage.InitSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	s := New(repo)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleUser(t *testing.T) *models.User {
	t.Helper()
	u := models.NewUser("alice", "pw")
	s := models.NewSession("Australia", time.Date(2031, 5, 6, 7, 8, 0, 0, time.UTC))
	base := models.Airport{AirportID: "3361", Name: "Sydney", Latitude: -33.94, Longitude: 151.17}
	dest := models.Airport{AirportID: "3339", Name: "Melbourne", Latitude: -37.67, Longitude: 144.84}
	require.NoError(t, s.AddTour(models.NewLeg(base, []models.Airport{dest})))
	u.AddSession(s)
	return u
}

func TestStore_EmptyDefaults(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	reg, err := s.Registry(ctx)
	require.NoError(t, err)
	assert.Empty(t, reg.Users)

	_, err = s.CurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrUserNotFound)

	idx, err := s.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestStore_UserRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := sampleUser(t)
	reg := models.NewRegistry()
	reg.AddUser(u)

	require.NoError(t, s.Update(ctx, map[string]any{
		common.UserKey:  u,
		common.UsersKey: reg,
		common.IndexKey: 0,
	}))

	got, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.True(t, got.Sessions[0].Date.Equal(u.Sessions[0].Date))

	gotReg, err := s.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, reg, gotReg)
}

func TestStore_Index(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, map[string]any{common.IndexKey: 4}))
	idx, err := s.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	require.NoError(t, s.Update(ctx, map[string]any{common.IndexKey: "four"}))
	_, err = s.Index(ctx)
	require.ErrorIs(t, err, common.ErrDeserialization)
}

func TestStore_CorruptUser(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.repo.Set(ctx, common.UserKey, []byte(`{"_username":"legacy"}`)))
	_, err := s.CurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrDeserialization)

	require.NoError(t, s.repo.Set(ctx, common.UsersKey, []byte(`[]`)))
	_, err = s.Registry(ctx)
	require.ErrorIs(t, err, common.ErrDeserialization)
}

func TestStore_Remove(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, map[string]any{common.UserKey: sampleUser(t), common.IndexKey: 1}))
	require.NoError(t, s.Remove(ctx, common.UserKey, common.IndexKey))

	_, err := s.CurrentUser(ctx)
	require.ErrorIs(t, err, common.ErrUserNotFound)
	idx, err := s.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}
