package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	riga      = models.Airport{AirportID: "3953", Name: "Riga International Airport", Country: "Latvia", Latitude: 56.92, Longitude: 23.97}
	liepaja   = models.Airport{AirportID: "3954", Name: "Liepaja International Airport", Country: "Latvia", Latitude: 56.52, Longitude: 21.10}
	ventspils = models.Airport{AirportID: "3955", Name: "Ventspils International Airport", Country: "Latvia", Latitude: 57.36, Longitude: 21.54}
)

type fakeGateway struct {
	mu       sync.Mutex
	airports map[string][]models.Airport
	routes   map[models.AirportID][]models.Route
	err      error
	// gate, when set, blocks FetchRoutes until a value is received.
	gate    chan struct{}
	started chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		airports: map[string][]models.Airport{"Latvia": {riga, liepaja, ventspils}},
		routes: map[models.AirportID][]models.Route{
			"3953": {
				{SourceAirportID: "3953", DestinationAirportID: "3954"},
				{SourceAirportID: "3953", DestinationAirportID: "415"},
				{SourceAirportID: "3953", DestinationAirportID: "3955"},
				{SourceAirportID: "3953", DestinationAirportID: "3954", Airline: "other"},
			},
			"3954": {{SourceAirportID: "3954", DestinationAirportID: "3953"}},
		},
	}
}

func (g *fakeGateway) FetchAirports(_ context.Context, country string) ([]models.Airport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.airports[country], nil
}

func (g *fakeGateway) FetchRoutes(ctx context.Context, id models.AirportID) ([]models.Route, error) {
	g.mu.Lock()
	gate, started, err := g.gate, g.started, g.err
	routes := g.routes[id]
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return routes, nil
}

type recordingRenderer struct {
	calls []models.Geometry
	err   error
}

func (r *recordingRenderer) Render(_ context.Context, _ *models.Session, g models.Geometry) error {
	r.calls = append(r.calls, g)
	return r.err
}

var departure = time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)

func startedPlanner(t *testing.T) (*Planner, *fakeGateway, *recordingRenderer) {
	t.Helper()
	gw := newFakeGateway()
	r := &recordingRenderer{}
	p := New(gw, r, logging.Discard())
	require.NoError(t, p.Start(context.Background(), "Latvia", departure))
	return p, gw, r
}

func TestPlanner_NotPlanning(t *testing.T) {
	p := New(newFakeGateway(), nil, logging.Discard())
	ctx := context.Background()

	assert.False(t, p.Planning())
	_, err := p.Airports()
	assert.ErrorIs(t, err, common.ErrNotPlanning)
	_, err = p.FindAirport("3953")
	assert.ErrorIs(t, err, common.ErrNotPlanning)
	_, err = p.Candidates()
	assert.ErrorIs(t, err, common.ErrNotPlanning)
	_, err = p.Extend(ctx, riga)
	assert.ErrorIs(t, err, common.ErrNotPlanning)
	assert.ErrorIs(t, p.Undo(ctx), common.ErrNotPlanning)
	_, err = p.Session()
	assert.ErrorIs(t, err, common.ErrNotPlanning)
	_, err = p.Geometry()
	assert.ErrorIs(t, err, common.ErrNotPlanning)
	_, err = p.Summary()
	assert.ErrorIs(t, err, common.ErrNotPlanning)
}

func TestPlanner_Start(t *testing.T) {
	p, _, _ := startedPlanner(t)

	assert.True(t, p.Planning())
	airports, err := p.Airports()
	require.NoError(t, err)
	assert.Len(t, airports, 3)

	s, err := p.Session()
	require.NoError(t, err)
	assert.Equal(t, "Latvia", s.Country)
	assert.Equal(t, departure, s.Date)
	assert.Zero(t, s.Len())
}

func TestPlanner_StartErrors(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	p := New(gw, nil, logging.Discard())

	require.Error(t, p.Start(ctx, "  ", departure))
	require.ErrorIs(t, p.Start(ctx, "Atlantis", departure), common.ErrAirportNotFound)

	gw.err = common.ErrGatewayUnavailable
	require.ErrorIs(t, p.Start(ctx, "Latvia", departure), common.ErrGatewayUnavailable)
	assert.False(t, p.Planning())
}

func TestPlanner_FindAirport(t *testing.T) {
	p, _, _ := startedPlanner(t)

	a, err := p.FindAirport("3954")
	require.NoError(t, err)
	assert.Equal(t, liepaja, a)

	a, err = p.FindAirport("riga international airport")
	require.NoError(t, err)
	assert.Equal(t, riga, a)

	_, err = p.FindAirport("Tallinn Airport")
	assert.ErrorIs(t, err, common.ErrAirportNotFound)
}

func TestPlanner_ExtendAndUndo(t *testing.T) {
	ctx := context.Background()
	p, _, r := startedPlanner(t)

	leg, err := p.Extend(ctx, riga)
	require.NoError(t, err)
	assert.Equal(t, []models.Airport{liepaja, ventspils}, leg.Destinations, "foreign and duplicate destinations are dropped")
	require.Len(t, r.calls, 1)
	assert.Equal(t, 2, r.calls[0].NumDestinations)

	_, err = p.Extend(ctx, liepaja)
	require.NoError(t, err)

	g, err := p.Geometry()
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumDestinations)
	require.Len(t, g.Trunk(), 1)
	assert.Equal(t, models.MarkerOf(riga), g.Trunk()[0].From)

	sum, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, "Riga International Airport -> Liepaja International Airport", sum.Path)

	require.NoError(t, p.Undo(ctx))
	s, err := p.Session()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, s.NumDestinations)
	assert.Len(t, r.calls, 3)

	require.NoError(t, p.Undo(ctx))
	assert.Len(t, r.calls, 3, "an emptied session is not rendered")
	assert.ErrorIs(t, p.Undo(ctx), common.ErrEmptySession)
}

func TestPlanner_ExtendOnlyAlongRoutes(t *testing.T) {
	ctx := context.Background()
	p, gw, _ := startedPlanner(t)
	gw.started = make(chan struct{}, 4)

	first, err := p.Candidates()
	require.NoError(t, err)
	assert.Equal(t, []models.Airport{riga, liepaja, ventspils}, first)

	_, err = p.Extend(ctx, liepaja)
	require.NoError(t, err)
	<-gw.started

	next, err := p.Candidates()
	require.NoError(t, err)
	assert.Equal(t, []models.Airport{riga}, next)

	_, err = p.Extend(ctx, ventspils)
	require.ErrorIs(t, err, common.ErrAirportNotReachable)
	assert.Empty(t, gw.started, "no routes are fetched for an unreachable airport")

	g, err := p.Geometry()
	require.NoError(t, err)
	assert.Empty(t, g.Trunk())

	_, err = p.Extend(ctx, riga)
	require.NoError(t, err)
	g, err = p.Geometry()
	require.NoError(t, err)
	require.Len(t, g.Trunk(), 1)
	assert.Equal(t, models.Segment{From: models.MarkerOf(liepaja), To: models.MarkerOf(riga), Kind: models.SegmentTrunk}, g.Trunk()[0])
}

func TestPlanner_RenderErrorDoesNotFailExtend(t *testing.T) {
	p, _, r := startedPlanner(t)
	r.err = errors.New("disk full")

	_, err := p.Extend(context.Background(), riga)
	require.NoError(t, err)
}

func TestPlanner_SessionIsACopy(t *testing.T) {
	ctx := context.Background()
	p, _, _ := startedPlanner(t)
	_, err := p.Extend(ctx, riga)
	require.NoError(t, err)

	s, err := p.Session()
	require.NoError(t, err)
	require.NoError(t, s.PopLastData())

	s, err = p.Session()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

// extendAsync starts Extend and returns once the gateway call is in flight.
func extendAsync(t *testing.T, p *Planner, gw *fakeGateway, a models.Airport) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := p.Extend(context.Background(), a)
		done <- err
	}()
	select {
	case <-gw.started:
	case <-time.After(time.Second):
		t.Fatal("route fetch did not start")
	}
	return done
}

func TestPlanner_StaleAfterUndo(t *testing.T) {
	ctx := context.Background()
	p, gw, _ := startedPlanner(t)
	_, err := p.Extend(ctx, riga)
	require.NoError(t, err)

	gw.gate = make(chan struct{})
	gw.started = make(chan struct{}, 1)
	done := extendAsync(t, p, gw, liepaja)

	require.NoError(t, p.Undo(ctx))
	close(gw.gate)

	require.ErrorIs(t, <-done, common.ErrStaleResponse)
	s, err := p.Session()
	require.NoError(t, err)
	assert.Zero(t, s.Len(), "stale result must not touch the session")
}

func TestPlanner_StaleAfterNewerExtend(t *testing.T) {
	p, gw, _ := startedPlanner(t)

	gw.gate = make(chan struct{})
	gw.started = make(chan struct{}, 1)
	first := extendAsync(t, p, gw, riga)
	second := extendAsync(t, p, gw, liepaja)

	gw.gate <- struct{}{}
	gw.gate <- struct{}{}

	errs := []error{<-first, <-second}
	var stale, ok int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrStaleResponse):
			stale++
		}
	}
	assert.Equal(t, 1, stale)
	assert.Equal(t, 1, ok)

	s, err := p.Session()
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, liepaja, s.BaseAirports[0], "only the latest request wins")
}

func TestPlanner_StaleAfterRestart(t *testing.T) {
	ctx := context.Background()
	p, gw, _ := startedPlanner(t)

	gw.gate = make(chan struct{})
	gw.started = make(chan struct{}, 1)
	done := extendAsync(t, p, gw, riga)

	require.NoError(t, p.Start(ctx, "Latvia", departure.Add(24*time.Hour)))
	close(gw.gate)

	require.ErrorIs(t, <-done, common.ErrStaleResponse)
}

func TestPlanner_ExtendCancelled(t *testing.T) {
	p, gw, _ := startedPlanner(t)
	gw.gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Extend(ctx, riga)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlanner_Reset(t *testing.T) {
	p, _, _ := startedPlanner(t)
	p.Reset()
	assert.False(t, p.Planning())
}

func TestDomesticDestinations(t *testing.T) {
	routes := []models.Route{
		{DestinationAirportID: "415"},
		{DestinationAirportID: "3955"},
		{DestinationAirportID: "3954"},
		{DestinationAirportID: "3955"},
	}
	got := DomesticDestinations([]models.Airport{riga, liepaja, ventspils}, routes)
	assert.Equal(t, []models.Airport{ventspils, liepaja}, got)

	assert.Empty(t, DomesticDestinations([]models.Airport{riga}, routes))
	assert.NotNil(t, DomesticDestinations(nil, nil))
}
