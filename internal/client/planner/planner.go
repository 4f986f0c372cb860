// Package planner drives the interactive tour-building workflow: choose a
// country and date, add airports leg by leg, undo, and hand the current
// geometry to a renderer after every change.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/gateway"
	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
	"github.com/google/uuid"
)

// Renderer is notified with the current geometry after the session changes.
type Renderer interface {
	Render(ctx context.Context, s *models.Session, g models.Geometry) error
}

// ticket tags an in-flight route fetch. Its result is applied only while the
// ticket is still the latest one issued for the same generation and leg.
type ticket struct {
	id         uuid.UUID
	generation uint64
	leg        int
}

// Planner owns the session being built. All methods are safe for concurrent
// use; network calls run without holding the lock.
type Planner struct {
	gw       gateway.Gateway
	renderer Renderer
	log      logging.Logger

	mu         sync.Mutex
	session    *models.Session
	airports   []models.Airport
	generation uint64
	latest     uuid.UUID
}

func New(gw gateway.Gateway, renderer Renderer, log logging.Logger) *Planner {
	return &Planner{gw: gw, renderer: renderer, log: log}
}

// Start begins a new session for country departing at date and loads the
// country's airports. The previous session stays in place if loading fails,
// but its in-flight extensions are invalidated either way.
func (p *Planner) Start(ctx context.Context, country string, date time.Time) error {
	country = strings.TrimSpace(country)
	if country == "" {
		return errors.New("country is required")
	}

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	airports, err := p.gw.FetchAirports(ctx, country)
	if err != nil {
		return fmt.Errorf("load airports: %w", err)
	}
	if len(airports) == 0 {
		return fmt.Errorf("%w: no airports in %q", common.ErrAirportNotFound, country)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen {
		p.log.Warn(ctx, "discarding airports of superseded plan", "country", country)
		return common.ErrStaleResponse
	}
	p.session = models.NewSession(country, date)
	p.airports = airports
	p.log.Info(ctx, "plan started", "country", country, "date", date, "airports", len(airports))
	return nil
}

// Airports returns the airports of the planned country.
func (p *Planner) Airports() ([]models.Airport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, common.ErrNotPlanning
	}
	return append([]models.Airport(nil), p.airports...), nil
}

// FindAirport looks an airport up by exact ID, then by case-insensitive
// name.
func (p *Planner) FindAirport(query string) (models.Airport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return models.Airport{}, common.ErrNotPlanning
	}

	query = strings.TrimSpace(query)
	for _, a := range p.airports {
		if string(a.AirportID) == query {
			return a, nil
		}
	}
	for _, a := range p.airports {
		if strings.EqualFold(a.Name, query) {
			return a, nil
		}
	}
	return models.Airport{}, fmt.Errorf("%w: %q", common.ErrAirportNotFound, query)
}

// Candidates returns the airports the next leg may start from: every airport
// of the country for the first leg, then the destinations of the last leg.
func (p *Planner) Candidates() ([]models.Airport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, common.ErrNotPlanning
	}
	if n := p.session.Len(); n > 0 {
		return append([]models.Airport(nil), p.session.Destinations[n-1]...), nil
	}
	return append([]models.Airport(nil), p.airports...), nil
}

// Extend adds a leg based at airport. After the first leg, airport must be
// one of the last leg's destinations (common.ErrAirportNotReachable), so
// every trunk segment follows a route. Destinations are the domestic
// airports reachable from it. If the session changed while routes were being
// fetched the result is dropped and ErrStaleResponse returned.
func (p *Planner) Extend(ctx context.Context, airport models.Airport) (models.Leg, error) {
	p.mu.Lock()
	if p.session == nil {
		p.mu.Unlock()
		return models.Leg{}, common.ErrNotPlanning
	}
	if err := p.reachableLocked(airport); err != nil {
		p.mu.Unlock()
		return models.Leg{}, err
	}
	t := ticket{id: uuid.New(), generation: p.generation, leg: p.session.Len()}
	p.latest = t.id
	p.mu.Unlock()

	log := p.log.With("ticket", t.id.String(), "airport", airport.AirportID)
	log.Debug(ctx, "fetching routes")

	routes, err := p.gw.FetchRoutes(ctx, airport.AirportID)
	if err != nil {
		return models.Leg{}, fmt.Errorf("load routes: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.current(t) {
		log.Warn(ctx, "discarding stale routes", "generation", t.generation, "leg", t.leg)
		return models.Leg{}, common.ErrStaleResponse
	}

	leg := models.NewLeg(airport, DomesticDestinations(p.airports, routes))
	if err := p.session.AddTour(leg); err != nil {
		return models.Leg{}, err
	}
	log.Info(ctx, "leg added", "destinations", len(leg.Destinations))

	p.renderLocked(ctx)
	return leg, nil
}

func (p *Planner) reachableLocked(airport models.Airport) error {
	n := p.session.Len()
	if n == 0 {
		return nil
	}
	for _, d := range p.session.Destinations[n-1] {
		if d.AirportID == airport.AirportID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", common.ErrAirportNotReachable,
		airport.Name, p.session.BaseAirports[n-1].Name)
}

func (p *Planner) current(t ticket) bool {
	return p.session != nil &&
		t.generation == p.generation &&
		t.leg == p.session.Len() &&
		t.id == p.latest
}

// Undo removes the last leg and invalidates in-flight extensions.
func (p *Planner) Undo(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return common.ErrNotPlanning
	}

	if err := p.session.PopLastData(); err != nil {
		return err
	}
	p.generation++

	if p.session.Len() > 0 {
		p.renderLocked(ctx)
	}
	return nil
}

// Session returns a copy of the session being planned.
func (p *Planner) Session() (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, common.ErrNotPlanning
	}
	return p.session.Clone(), nil
}

func (p *Planner) Geometry() (models.Geometry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return models.Geometry{}, common.ErrNotPlanning
	}
	return p.session.Points()
}

func (p *Planner) Summary() (models.Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return models.Summary{}, common.ErrNotPlanning
	}
	return p.session.Summary(), nil
}

// Planning reports whether a session is in progress.
func (p *Planner) Planning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Reset abandons the current session.
func (p *Planner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.session, p.airports = nil, nil
}

func (p *Planner) renderLocked(ctx context.Context) {
	if p.renderer == nil {
		return
	}
	g, err := p.session.Points()
	if err != nil {
		p.log.Warn(ctx, "nothing to render", "error", err)
		return
	}
	if err := p.renderer.Render(ctx, p.session, g); err != nil {
		p.log.Error(ctx, "render failed", "error", err)
	}
}

// DomesticDestinations keeps the routes that land in one of airports, one
// per destination in first-seen order, and returns the destination
// airports.
func DomesticDestinations(airports []models.Airport, routes []models.Route) []models.Airport {
	byID := make(map[models.AirportID]models.Airport, len(airports))
	for _, a := range airports {
		byID[a.AirportID] = a
	}

	seen := make(map[models.AirportID]struct{})
	out := make([]models.Airport, 0)
	for _, r := range routes {
		a, ok := byID[r.DestinationAirportID]
		if !ok {
			continue
		}
		if _, dup := seen[r.DestinationAirportID]; dup {
			continue
		}
		seen[r.DestinationAirportID] = struct{}{}
		out = append(out, a)
	}
	return out
}
