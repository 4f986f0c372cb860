package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/client/geo"
	"github.com/dmitrijs2005/gophtrip/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	isPlanning() bool
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	Plan(ctx context.Context, args []string) error
	Airports(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Undo(ctx context.Context) error
	Map(ctx context.Context) error
	Summary(ctx context.Context) error
	Save(ctx context.Context) error
	Cancel(ctx context.Context) error
	Trips(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Locate(ctx context.Context, args []string) error
	Where(ctx context.Context, args []string) error
	Drive(ctx context.Context, args []string) error
}

// commands that need a signed-in user.
var signedInOnly = map[string]bool{
	"plan": true, "airports": true, "add": true, "undo": true, "map": true,
	"summary": true, "save": true, "cancel": true, "trips": true, "show": true,
	"delete": true, "list": true, "l": true,
}

// runREPL reads commands from reader until EOF, "exit" or "quit". The first
// word of a line selects the command, the rest are its arguments.
// Commands that touch trips need a signed-in user; "help" lists what is
// available in the current state. Command errors are printed and the loop
// carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("trip> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if signedInOnly[cmd] && !a.isSignedIn() {
			printlnFn("Please sign in first")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			printHelp(a)
		case "signin", "login":
			cmdErr = a.SignIn(ctx)
		case "signout", "logout":
			cmdErr = a.SignOut(ctx)
		case "plan":
			cmdErr = a.Plan(ctx, args)
		case "airports":
			cmdErr = a.Airports(ctx)
		case "add":
			cmdErr = a.Add(ctx, args)
		case "undo":
			cmdErr = a.Undo(ctx)
		case "map":
			cmdErr = a.Map(ctx)
		case "summary":
			cmdErr = a.Summary(ctx)
		case "save":
			cmdErr = a.Save(ctx)
		case "cancel":
			cmdErr = a.Cancel(ctx)
		case "trips", "l", "list":
			cmdErr = a.Trips(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "locate":
			cmdErr = a.Locate(ctx, args)
		case "where":
			cmdErr = a.Where(ctx, args)
		case "drive":
			cmdErr = a.Drive(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
		if err != nil {
			return
		}
	}
}

func printHelp(a execIface) {
	switch {
	case !a.isSignedIn():
		printlnFn("Available commands: signin, locate, where, exit")
	case a.isPlanning():
		printlnFn("Available commands: airports, add, undo, map, summary, save, cancel, drive, locate, where, exit")
	default:
		printlnFn("Available commands: plan, trips, show, delete, locate, where, signout, exit")
	}
}

// describe turns an error into a message for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrEmptyCredentials):
		return "username and password must not be empty"
	case errors.Is(err, common.ErrAuthenticationFailed):
		return "wrong password"
	case errors.Is(err, common.ErrNotPlanning):
		return "no trip is being planned, start with 'plan'"
	case errors.Is(err, common.ErrEmptySession):
		return "the plan has no legs yet"
	case errors.Is(err, common.ErrAirportNotReachable):
		return "no flight to that airport from the last stop, see 'airports'"
	case errors.Is(err, common.ErrStaleResponse):
		return "the plan changed while routes were loading, please try again"
	case errors.Is(err, common.ErrGatewayUnavailable):
		return "flight data service is unavailable, please try again later"
	case errors.Is(err, common.ErrTripCompleted):
		return "completed trips cannot be deleted"
	case errors.Is(err, common.ErrSessionNotFound):
		return "no such trip"
	case errors.Is(err, geo.ErrNoAPIKey):
		return err.Error() + " (set GOPHTRIP_OPENCAGE_KEY / GOPHTRIP_MAPBOX_TOKEN)"
	default:
		return err.Error()
	}
}
