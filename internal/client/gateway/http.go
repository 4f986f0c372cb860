package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/netx"
)

const (
	airportsCallback = "getAirports"
	routesCallback   = "getRoutes"
)

// HTTPGateway queries an OpenFlights-compatible web service:
//
//	GET {base}/airports/?country=<country>&callback=getAirports
//	GET {base}/routes/?sourceAirport=<id>&callback=getRoutes
type HTTPGateway struct {
	base   string
	client *netx.Client
}

func NewHTTPGateway(baseURL string, client *netx.Client) *HTTPGateway {
	return &HTTPGateway{base: strings.TrimRight(baseURL, "/"), client: client}
}

func (g *HTTPGateway) FetchAirports(ctx context.Context, country string) ([]models.Airport, error) {
	q := url.Values{}
	q.Set("country", country)
	q.Set("callback", airportsCallback)

	var airports []models.Airport
	if err := g.client.GetJSON(ctx, g.base+"/airports/?"+q.Encode(), &airports); err != nil {
		return nil, fmt.Errorf("fetch airports of %s: %w", country, err)
	}
	return airports, nil
}

func (g *HTTPGateway) FetchRoutes(ctx context.Context, sourceID models.AirportID) ([]models.Route, error) {
	q := url.Values{}
	q.Set("sourceAirport", string(sourceID))
	q.Set("callback", routesCallback)

	var routes []models.Route
	if err := g.client.GetJSON(ctx, g.base+"/routes/?"+q.Encode(), &routes); err != nil {
		return nil, fmt.Errorf("fetch routes from %s: %w", sourceID, err)
	}
	return routes, nil
}
