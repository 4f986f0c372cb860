package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophtrip/internal/client/render"
	"github.com/dmitrijs2005/gophtrip/internal/client/services"
)

// Trips lists saved trips, upcoming first.
func (a *App) Trips(ctx context.Context) error {
	list := a.tripService.List(a.user, a.now())
	if len(list.Upcoming) == 0 && len(list.Completed) == 0 {
		fmt.Fprintln(a.out, "No saved trips")
		return nil
	}

	writeCards(a, "Upcoming", list.Upcoming)
	writeCards(a, "Completed", list.Completed)
	return nil
}

func writeCards(a *App, title string, cards []services.TripCard) {
	if len(cards) == 0 {
		return
	}
	fmt.Fprintf(a.out, "%s:\n", title)
	for _, c := range cards {
		fmt.Fprintf(a.out, "  #%d  %s  %s -> %s\n", c.Index, render.FormatDate(c.Date), c.Start, c.End)
	}
}

// Show prints a saved trip and writes its committed path to the map file.
func (a *App) Show(ctx context.Context, args []string) error {
	index, err := parseIndex(args)
	if err != nil {
		return err
	}
	s, err := a.user.Session(index)
	if err != nil {
		return err
	}
	if err := a.tripService.Select(ctx, a.user, index); err != nil {
		return err
	}

	render.WriteSummary(a.out, s.Summary())
	if s.IsUpcoming(a.now()) {
		fmt.Fprintln(a.out, "Status:  upcoming")
	} else {
		fmt.Fprintln(a.out, "Status:  completed")
	}

	if err := a.mapRenderer.RenderBases(ctx, s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Map written to %s\n", a.mapRenderer.Path())
	return nil
}

// Delete removes an upcoming trip.
func (a *App) Delete(ctx context.Context, args []string) error {
	index, err := parseIndex(args)
	if err != nil {
		return err
	}
	if err := a.tripService.Delete(ctx, a.user, index, a.now()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Trip #%d deleted\n", index)
	return nil
}

func parseIndex(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected a trip number")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid trip number %q", args[0])
	}
	return index, nil
}
