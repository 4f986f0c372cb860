package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now  = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past = now.Add(-72 * time.Hour)
	soon = now.Add(72 * time.Hour)
)

func signedIn(t *testing.T) (TripService, *models.User, context.Context) {
	t.Helper()
	st := setupStore(t)
	ctx := context.Background()
	u, err := NewAuthService(st, logging.Discard()).SignIn(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	return NewTripService(st, logging.Discard()), u, ctx
}

func TestTrips_SaveAndSelected(t *testing.T) {
	svc, u, ctx := signedIn(t)

	idx, err := svc.Save(ctx, u, sampleSession(past))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	idx, err = svc.Save(ctx, u, sampleSession(soon))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	cur, index, s, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, "alice", cur.Username)
	assert.True(t, s.Date.Equal(soon))
	assert.Equal(t, "Riga -> Ventspils", s.Summary().Path)
}

func TestTrips_SaveRejectsEmptySession(t *testing.T) {
	svc, u, ctx := signedIn(t)

	_, err := svc.Save(ctx, u, models.NewSession("Latvia", soon))
	require.ErrorIs(t, err, common.ErrEmptySession)
	_, err = svc.Save(ctx, u, nil)
	require.ErrorIs(t, err, common.ErrEmptySession)
	assert.Empty(t, u.Sessions)
}

func TestTrips_SaveStoresACopy(t *testing.T) {
	svc, u, ctx := signedIn(t)
	s := sampleSession(soon)

	_, err := svc.Save(ctx, u, s)
	require.NoError(t, err)
	require.NoError(t, s.PopLastData())

	_, _, saved, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Len())
}

func TestTrips_List(t *testing.T) {
	svc, u, ctx := signedIn(t)
	for _, d := range []time.Time{past, soon, past.Add(-time.Hour)} {
		_, err := svc.Save(ctx, u, sampleSession(d))
		require.NoError(t, err)
	}

	list := svc.List(u, now)
	require.Len(t, list.Upcoming, 1)
	require.Len(t, list.Completed, 2)
	assert.Equal(t, TripCard{Index: 1, Start: "Riga", End: "Ventspils", Date: soon}, list.Upcoming[0])
	assert.Equal(t, 0, list.Completed[0].Index)
	assert.Equal(t, 2, list.Completed[1].Index)

	empty := svc.List(&models.User{}, now)
	assert.NotNil(t, empty.Upcoming)
	assert.Empty(t, empty.Completed)
}

func TestTrips_Select(t *testing.T) {
	svc, u, ctx := signedIn(t)
	_, err := svc.Save(ctx, u, sampleSession(past))
	require.NoError(t, err)
	_, err = svc.Save(ctx, u, sampleSession(soon))
	require.NoError(t, err)

	require.NoError(t, svc.Select(ctx, u, 0))
	_, index, s, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	assert.True(t, s.Date.Equal(past))

	require.ErrorIs(t, svc.Select(ctx, u, 5), common.ErrSessionNotFound)
	require.ErrorIs(t, svc.Select(ctx, u, -1), common.ErrSessionNotFound)
}

func TestTrips_SelectedWithoutUser(t *testing.T) {
	svc := NewTripService(setupStore(t), logging.Discard())
	_, _, _, err := svc.Selected(context.Background())
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestTrips_Delete(t *testing.T) {
	svc, u, ctx := signedIn(t)
	_, err := svc.Save(ctx, u, sampleSession(past))
	require.NoError(t, err)
	_, err = svc.Save(ctx, u, sampleSession(soon))
	require.NoError(t, err)

	err = svc.Delete(ctx, u, 0, now)
	require.ErrorIs(t, err, common.ErrTripCompleted)
	assert.Len(t, u.Sessions, 2)

	require.NoError(t, svc.Delete(ctx, u, 1, now))
	assert.Len(t, u.Sessions, 1)

	require.ErrorIs(t, svc.Delete(ctx, u, 3, now), common.ErrSessionNotFound)

	cur, index, s, err := svc.Selected(ctx)
	require.NoError(t, err)
	assert.Len(t, cur.Sessions, 1)
	assert.Equal(t, 0, index)
	assert.True(t, s.Date.Equal(past))
}

func TestTrips_DeleteUpdatesRegistry(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	auth := NewAuthService(st, logging.Discard())
	svc := NewTripService(st, logging.Discard())

	u, err := auth.SignIn(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	_, err = svc.Save(ctx, u, sampleSession(soon))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, u, 0, now))

	reg, err := st.Registry(ctx)
	require.NoError(t, err)
	stored, ok := reg.UserByUsername("alice")
	require.True(t, ok)
	assert.Empty(t, stored.Sessions)
}

func TestTrips_FailedWritesLeaveUserUntouched(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	u, err := NewAuthService(st, logging.Discard()).SignIn(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	svc := NewTripService(st, logging.Discard())

	first, second := sampleSession(soon), sampleSession(soon.Add(time.Hour))
	_, err = svc.Save(ctx, u, first)
	require.NoError(t, err)
	_, err = svc.Save(ctx, u, second)
	require.NoError(t, err)
	before := append([]*models.Session(nil), u.Sessions...)

	require.NoError(t, st.Close())

	require.Error(t, svc.Delete(ctx, u, 0, now))
	assert.Equal(t, before, u.Sessions)

	_, err = svc.Save(ctx, u, sampleSession(soon))
	require.Error(t, err)
	assert.Equal(t, before, u.Sessions)
}
