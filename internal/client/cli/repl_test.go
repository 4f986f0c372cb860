package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	signedIn bool
	planning bool
	failWith error

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.failWith
}

func (f *fakeExec) isSignedIn() bool { return f.signedIn }
func (f *fakeExec) isPlanning() bool { return f.planning }
func (f *fakeExec) SignIn(ctx context.Context) error {
	f.signedIn = true
	return f.record("signin", nil)
}
func (f *fakeExec) SignOut(ctx context.Context) error {
	f.signedIn = false
	return f.record("signout", nil)
}
func (f *fakeExec) Plan(ctx context.Context, args []string) error {
	f.planning = true
	return f.record("plan", args)
}
func (f *fakeExec) Airports(ctx context.Context) error { return f.record("airports", nil) }
func (f *fakeExec) Add(ctx context.Context, args []string) error {
	return f.record("add", args)
}
func (f *fakeExec) Undo(ctx context.Context) error    { return f.record("undo", nil) }
func (f *fakeExec) Map(ctx context.Context) error     { return f.record("map", nil) }
func (f *fakeExec) Summary(ctx context.Context) error { return f.record("summary", nil) }
func (f *fakeExec) Save(ctx context.Context) error {
	f.planning = false
	return f.record("save", nil)
}
func (f *fakeExec) Cancel(ctx context.Context) error { return f.record("cancel", nil) }
func (f *fakeExec) Trips(ctx context.Context) error  { return f.record("trips", nil) }
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Locate(ctx context.Context, args []string) error {
	return f.record("locate", args)
}
func (f *fakeExec) Where(ctx context.Context, args []string) error {
	return f.record("where", args)
}
func (f *fakeExec) Drive(ctx context.Context, args []string) error {
	return f.record("drive", args)
}

// capturePrint replaces printlnFn for the duration of the test.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func run(exec execIface, lines ...string) {
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, reader)
}

func TestRunREPL_SignInFlowAndCommands(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{}

	run(exec,
		"help",
		"plan",
		"signin",
		"help",
		"plan Latvia",
		"add Riga International",
		"undo",
		"summary",
		"map",
		"save",
		"trips",
		"show 0",
		"delete 0",
		"foobar",
		"exit",
		"trips",
	)

	assert.Equal(t, []string{"signin", "plan", "add", "undo", "summary", "map", "save", "trips", "show", "delete"}, exec.calls)
	assert.Equal(t, []string{"Latvia"}, exec.args[1])
	assert.Equal(t, []string{"Riga", "International"}, exec.args[2])
	assert.Equal(t, []string{"0"}, exec.args[8])

	assert.Contains(t, *out, "Available commands: signin, locate, where, exit")
	assert.Contains(t, *out, "Please sign in first")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_HelpWhilePlanning(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{signedIn: true, planning: true}

	run(exec, "help", "quit")

	assert.Contains(t, *out, "Available commands: airports, add, undo, map, summary, save, cancel, drive, locate, where, exit")
}

func TestRunREPL_GeoCommandsDoNotNeedSignIn(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{}

	run(exec, "locate Riga", "where 56.9 24.1", "drive 1 2")

	assert.Equal(t, []string{"locate", "where", "drive"}, exec.calls)
	assert.Equal(t, []string{"56.9", "24.1"}, exec.args[1])
}

func TestRunREPL_ErrorsArePrinted(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{signedIn: true, failWith: fmt.Errorf("load routes: %w", common.ErrGatewayUnavailable)}

	run(exec, "add 1", "exit")

	assert.Equal(t, []string{"add"}, exec.calls)
	assert.Contains(t, *out, "Error: flight data service is unavailable, please try again later")
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{signedIn: true}

	run(exec, "", "   ", "trips")

	assert.Equal(t, []string{"trips"}, exec.calls)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{common.ErrEmptyCredentials, "username and password must not be empty"},
		{common.ErrAuthenticationFailed, "wrong password"},
		{common.ErrNotPlanning, "no trip is being planned, start with 'plan'"},
		{fmt.Errorf("x: %w", common.ErrTripCompleted), "completed trips cannot be deleted"},
		{fmt.Errorf("x: %w", common.ErrAirportNotReachable), "no flight to that airport from the last stop, see 'airports'"},
		{common.ErrStaleResponse, "the plan changed while routes were loading, please try again"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.err))
	}
}
