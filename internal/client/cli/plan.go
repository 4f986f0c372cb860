package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/render"
)

// Plan starts a new trip. The country may be given as arguments, the
// departure date is always prompted for.
func (a *App) Plan(ctx context.Context, args []string) error {
	country := strings.Join(args, " ")
	if country == "" {
		var err error
		country, err = ReadLine(a.reader, a.out, "Country:")
		if err != nil {
			return err
		}
	}

	raw, err := ReadLine(a.reader, a.out, "Departure (YYYY-MM-DD [HH:MM]):")
	if err != nil {
		return err
	}
	date, err := ParseDeparture(raw, time.Local)
	if err != nil {
		return err
	}

	if err := a.planner.Start(ctx, country, date); err != nil {
		return err
	}

	airports, err := a.planner.Airports()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Planning a trip in %s on %s, %d airports available\n",
		strings.TrimSpace(country), render.FormatDate(date), len(airports))
	fmt.Fprintln(a.out, "Use 'airports' to list them and 'add <id|name>' to choose the first one")
	return nil
}

// Airports lists where the next leg may start: any airport of the country
// at first, then only the destinations of the last leg.
func (a *App) Airports(ctx context.Context) error {
	airports, err := a.planner.Candidates()
	if err != nil {
		return err
	}
	if len(airports) == 0 {
		fmt.Fprintln(a.out, "No domestic flights from here, use 'undo' or 'save'")
		return nil
	}
	render.WriteAirports(a.out, airports)
	return nil
}

// Add extends the plan from the airport named by args (ID or name).
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <airport id|name>")
	}

	airport, err := a.planner.FindAirport(strings.Join(args, " "))
	if err != nil {
		return err
	}

	leg, err := a.planner.Extend(ctx, airport)
	if err != nil {
		return err
	}
	if len(leg.Destinations) == 0 {
		fmt.Fprintln(a.out, "Dead end: use 'undo' or 'save'")
	}
	return nil
}

func (a *App) Undo(ctx context.Context) error {
	if err := a.planner.Undo(ctx); err != nil {
		return err
	}
	s, err := a.planner.Session()
	if err != nil {
		return err
	}
	if s.Len() == 0 {
		fmt.Fprintln(a.out, "Plan is empty")
	}
	return nil
}

// Map writes the current plan to the map file.
func (a *App) Map(ctx context.Context) error {
	s, err := a.planner.Session()
	if err != nil {
		return err
	}
	g, err := s.Points()
	if err != nil {
		return err
	}
	if err := a.mapRenderer.Render(ctx, s, g); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Map written to %s\n", a.mapRenderer.Path())
	return nil
}

func (a *App) Summary(ctx context.Context) error {
	sum, err := a.planner.Summary()
	if err != nil {
		return err
	}
	render.WriteSummary(a.out, sum)
	return nil
}

// Save stores the plan as a trip and ends planning.
func (a *App) Save(ctx context.Context) error {
	s, err := a.planner.Session()
	if err != nil {
		return err
	}
	index, err := a.tripService.Save(ctx, a.user, s)
	if err != nil {
		return err
	}
	a.planner.Reset()
	fmt.Fprintf(a.out, "Trip saved as #%d\n", index)
	return nil
}

// Cancel discards the plan.
func (a *App) Cancel(ctx context.Context) error {
	if !a.planner.Planning() {
		fmt.Fprintln(a.out, "Nothing to cancel")
		return nil
	}
	a.planner.Reset()
	fmt.Fprintln(a.out, "Plan discarded")
	return nil
}
