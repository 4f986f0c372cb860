package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
)

// DateLayout is how departure times are shown to the user.
const DateLayout = "2006-01-02 15:04"

// TextRenderer prints the plan after every change.
type TextRenderer struct {
	w io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(_ context.Context, s *models.Session, g models.Geometry) error {
	sum := s.Summary()
	fmt.Fprintf(r.w, "Route: %s\n", sum.Path)

	n := len(s.Destinations)
	if n == 0 || len(s.Destinations[n-1]) == 0 {
		fmt.Fprintln(r.w, "No domestic flights from here.")
		return nil
	}

	fmt.Fprintf(r.w, "Flights from %s (%d):\n", sum.Final, g.NumDestinations)
	for _, a := range s.Destinations[n-1] {
		fmt.Fprintf(r.w, "  [%s] %s\n", a.AirportID, a.Name)
	}
	return nil
}

// WriteSummary prints the trip summary block.
func WriteSummary(w io.Writer, sum models.Summary) {
	fmt.Fprintf(w, "Country: %s\n", sum.Country)
	fmt.Fprintf(w, "Date:    %s\n", sum.Date.Local().Format(DateLayout))
	fmt.Fprintf(w, "Path:    %s\n", sum.Path)
	fmt.Fprintf(w, "Stops:   %d\n", sum.Stops)
}

// WriteAirports prints an airport listing.
func WriteAirports(w io.Writer, airports []models.Airport) {
	for _, a := range airports {
		fmt.Fprintf(w, "  [%s] %s", a.AirportID, a.Name)
		if a.City != "" {
			fmt.Fprintf(w, " (%s)", a.City)
		}
		fmt.Fprintln(w)
	}
}

// FormatDate renders t in the local zone.
func FormatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}
