package gateway

import (
	"context"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
	"golang.org/x/sync/singleflight"
)

// CachedGateway reads through a Cache and coalesces identical in-flight
// fetches. Cache failures are logged and otherwise ignored.
type CachedGateway struct {
	next  Gateway
	cache Cache
	log   logging.Logger
	group singleflight.Group
}

func NewCachedGateway(next Gateway, cache Cache, log logging.Logger) *CachedGateway {
	return &CachedGateway{next: next, cache: cache, log: log}
}

func (g *CachedGateway) FetchAirports(ctx context.Context, country string) ([]models.Airport, error) {
	if airports, ok, err := g.cache.Airports(ctx, country); err != nil {
		g.log.Warn(ctx, "airport cache read failed", "country", country, "error", err)
	} else if ok {
		return airports, nil
	}

	return shared(ctx, &g.group, "airports:"+countryKey(country), func(ctx context.Context) ([]models.Airport, error) {
		airports, err := g.next.FetchAirports(ctx, country)
		if err != nil {
			return nil, err
		}
		if err := g.cache.SetAirports(ctx, country, airports); err != nil {
			g.log.Warn(ctx, "airport cache write failed", "country", country, "error", err)
		}
		return airports, nil
	})
}

func (g *CachedGateway) FetchRoutes(ctx context.Context, sourceID models.AirportID) ([]models.Route, error) {
	if routes, ok, err := g.cache.Routes(ctx, sourceID); err != nil {
		g.log.Warn(ctx, "route cache read failed", "source", sourceID, "error", err)
	} else if ok {
		return routes, nil
	}

	return shared(ctx, &g.group, "routes:"+string(sourceID), func(ctx context.Context) ([]models.Route, error) {
		routes, err := g.next.FetchRoutes(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		if err := g.cache.SetRoutes(ctx, sourceID, routes); err != nil {
			g.log.Warn(ctx, "route cache write failed", "source", sourceID, "error", err)
		}
		return routes, nil
	})
}

// shared runs fetch once for all concurrent callers of key. The fetch does
// not inherit the first caller's cancellation; the HTTP client timeout and
// retry limit bound it instead. Each caller stops waiting when its own ctx
// is done.
func shared[T any](ctx context.Context, group *singleflight.Group, key string, fetch func(context.Context) (T, error)) (T, error) {
	detached := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (any, error) {
		v, err := fetch(detached)
		return v, err
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
