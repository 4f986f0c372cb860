package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/client/store"
	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
)

// TripCard is one row of the trip overview.
type TripCard struct {
	Index int       `json:"index"`
	Start string    `json:"start"`
	End   string    `json:"end"`
	Date  time.Time `json:"date"`
}

// TripList splits a user's trips by departure time.
type TripList struct {
	Upcoming  []TripCard `json:"upcoming"`
	Completed []TripCard `json:"completed"`
}

// TripService manages the saved trips of the signed-in user.
//
// Every mutation rewrites both the signed-in user (user_key) and that user's
// entry in the registry (users_key) so trips survive signing out.
type TripService interface {
	List(user *models.User, now time.Time) TripList
	Save(ctx context.Context, user *models.User, s *models.Session) (int, error)
	Select(ctx context.Context, user *models.User, index int) error
	Selected(ctx context.Context) (*models.User, int, *models.Session, error)
	Delete(ctx context.Context, user *models.User, index int, now time.Time) error
}

type tripService struct {
	store *store.Store
	log   logging.Logger
}

func NewTripService(st *store.Store, log logging.Logger) TripService {
	return &tripService{store: st, log: log}
}

// List builds the overview cards. A trip is upcoming while now is before its
// departure.
func (t *tripService) List(user *models.User, now time.Time) TripList {
	list := TripList{Upcoming: []TripCard{}, Completed: []TripCard{}}
	for i, s := range user.Sessions {
		sum := s.Summary()
		card := TripCard{Index: i, Start: sum.Origin, End: sum.Final, Date: s.Date}
		if s.IsUpcoming(now) {
			list.Upcoming = append(list.Upcoming, card)
		} else {
			list.Completed = append(list.Completed, card)
		}
	}
	return list
}

// Save attaches a copy of s to user, selects it and returns its index.
func (t *tripService) Save(ctx context.Context, user *models.User, s *models.Session) (int, error) {
	if s == nil || s.Len() == 0 {
		return 0, common.ErrEmptySession
	}

	user.AddSession(s.Clone())
	index := len(user.Sessions) - 1

	if err := t.persist(ctx, user, map[string]any{common.IndexKey: index}); err != nil {
		user.Sessions = user.Sessions[:index]
		return 0, err
	}

	t.log.Info(ctx, "trip saved", "username", user.Username, "index", index)
	return index, nil
}

func (t *tripService) Select(ctx context.Context, user *models.User, index int) error {
	if _, err := user.Session(index); err != nil {
		return err
	}
	return t.store.Update(ctx, map[string]any{
		common.IndexKey: index,
		common.UserKey:  user,
	})
}

// Selected returns the signed-in user and the trip chosen by the last Select
// or Save (the first trip when nothing was chosen).
func (t *tripService) Selected(ctx context.Context) (*models.User, int, *models.Session, error) {
	user, err := t.store.CurrentUser(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	index, err := t.store.Index(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	s, err := user.Session(index)
	if err != nil {
		return nil, 0, nil, err
	}
	return user, index, s, nil
}

// Delete removes an upcoming trip. Completed trips are kept as history and
// yield common.ErrTripCompleted.
func (t *tripService) Delete(ctx context.Context, user *models.User, index int, now time.Time) error {
	s, err := user.Session(index)
	if err != nil {
		return err
	}
	if !s.IsUpcoming(now) {
		return fmt.Errorf("%w: trip %d departed %s", common.ErrTripCompleted, index, s.Date.Format(time.RFC3339))
	}

	if err := user.RemoveSession(index); err != nil {
		return err
	}
	if err := t.persist(ctx, user, map[string]any{common.IndexKey: 0}); err != nil {
		user.Sessions = slices.Insert(user.Sessions, index, s)
		return err
	}

	t.log.Info(ctx, "trip deleted", "username", user.Username, "index", index)
	return nil
}

// persist writes user to user_key and users_key, plus any extra keys, in one
// batch.
func (t *tripService) persist(ctx context.Context, user *models.User, extra map[string]any) error {
	reg, err := t.store.Registry(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	reg.Put(user)

	values := map[string]any{
		common.UserKey:  user,
		common.UsersKey: reg,
	}
	for k, v := range extra {
		values[k] = v
	}
	if err := t.store.Update(ctx, values); err != nil {
		return fmt.Errorf("save trips: %w", err)
	}
	return nil
}
