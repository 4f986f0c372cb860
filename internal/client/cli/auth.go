package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophtrip/internal/common"
)

// SignIn prompts for credentials. An unknown username creates the account.
func (a *App) SignIn(ctx context.Context) error {
	if a.user != nil {
		fmt.Fprintf(a.out, "Already signed in as %s\n", a.user.Username)
		return nil
	}

	username, err := ReadLine(a.reader, a.out, "Username:")
	if err != nil {
		return err
	}

	password, err := ReadSecret(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.SignIn(ctx, username, password)
	if err != nil {
		return err
	}

	a.user = u
	fmt.Fprintf(a.out, "Signed in as %s (%d saved trips)\n", u.Username, len(u.Sessions))
	return nil
}

// SignOut forgets the signed-in user and drops any plan in progress.
func (a *App) SignOut(ctx context.Context) error {
	if a.user == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	if err := a.authService.SignOut(ctx); err != nil {
		return err
	}
	a.planner.Reset()
	a.user = nil
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
