// Package services contains the application services of the gophtrip CLI.
// This file defines the sign-in service: account creation on first use,
// password check for returning users, and the signed-in user record.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/client/store"
	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: create the account if the username is new, otherwise verify the
//     password; on success persist the registry and the signed-in user.
//   - SignOut: forget the signed-in user and the selected trip.
//   - CurrentUser: load the signed-in user, common.ErrUserNotFound if none.
type AuthService interface {
	SignIn(ctx context.Context, username string, password []byte) (*models.User, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

type authService struct {
	store *store.Store
	log   logging.Logger
}

func NewAuthService(st *store.Store, log logging.Logger) AuthService {
	return &authService{store: st, log: log}
}

// SignIn returns common.ErrEmptyCredentials for a blank username or
// password and common.ErrAuthenticationFailed for a wrong password.
func (a *authService) SignIn(ctx context.Context, username string, password []byte) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return nil, common.ErrEmptyCredentials
	}

	reg, err := a.store.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	user, found := reg.UserByUsername(username)
	if found {
		if !user.CheckPassword(string(password)) {
			a.log.Warn(ctx, "sign-in rejected", "username", username)
			return nil, common.ErrAuthenticationFailed
		}
		if user.NeedsRehash() {
			user.SetPassword(password)
			reg.Put(user)
			a.log.Info(ctx, "password upgraded to verifier", "username", username)
		}
	} else {
		user = models.NewUser(username, string(password))
		reg.AddUser(user)
		a.log.Info(ctx, "account created", "username", username)
	}

	if err := a.store.Update(ctx, map[string]any{
		common.UsersKey: reg,
		common.UserKey:  user,
	}); err != nil {
		return nil, fmt.Errorf("save sign-in: %w", err)
	}

	a.log.Info(ctx, "signed in", "username", username, "trips", len(user.Sessions))
	return user, nil
}

func (a *authService) SignOut(ctx context.Context) error {
	return a.store.Remove(ctx, common.UserKey, common.IndexKey)
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	return a.store.CurrentUser(ctx)
}
