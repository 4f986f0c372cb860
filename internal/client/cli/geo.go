package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/client/geo"
	"github.com/dmitrijs2005/gophtrip/internal/client/models"
)

// Locate geocodes a free-form address.
func (a *App) Locate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: locate <address>")
	}
	places, err := a.geo.Forward(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.writePlaces(places)
	return nil
}

// Where reverse-geocodes a latitude and longitude.
func (a *App) Where(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: where <lat> <lng>")
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude %q", args[0])
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil || lng < -180 || lng > 180 {
		return fmt.Errorf("invalid longitude %q", args[1])
	}

	places, err := a.geo.Reverse(ctx, lat, lng)
	if err != nil {
		return err
	}
	a.writePlaces(places)
	return nil
}

func (a *App) writePlaces(places []geo.Place) {
	if len(places) == 0 {
		fmt.Fprintln(a.out, "No matches")
		return
	}
	for _, p := range places {
		fmt.Fprintf(a.out, "  %s (%.5f, %.5f)\n", p.Formatted, p.Position.Lat, p.Position.Lng)
	}
}

// Drive prints driving directions between two airports of the planned
// country.
func (a *App) Drive(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: drive <airport id> <airport id>")
	}
	from, err := a.planner.FindAirport(args[0])
	if err != nil {
		return err
	}
	to, err := a.planner.FindAirport(args[1])
	if err != nil {
		return err
	}

	d, err := a.geo.Drive(ctx, models.MarkerOf(from), models.MarkerOf(to))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s -> %s: %.1f km, %.0f min by car\n",
		from.Name, to.Name, d.DistanceMeters/1000, d.DurationSeconds/60)
	return nil
}
