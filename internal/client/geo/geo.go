// Package geo wraps the OpenCage geocoder and the Mapbox directions API.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/netx"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	DefaultOpenCageURL = "https://api.opencagedata.com/geocode/v1/json"
	DefaultMapboxURL   = "https://api.mapbox.com/directions/v5/mapbox/driving"
)

var ErrNoAPIKey = errors.New("api key is not configured")

// Place is a geocoding match.
type Place struct {
	Formatted  string
	Country    string
	Confidence int
	Position   models.Marker
}

// Directions is a driving route between two points.
type Directions struct {
	DistanceMeters  float64
	DurationSeconds float64
	Path            orb.LineString
}

type Config struct {
	OpenCageURL string
	OpenCageKey string
	MapboxURL   string
	MapboxToken string
}

type Client struct {
	cfg  Config
	http *netx.Client
}

func NewClient(cfg Config, http *netx.Client) *Client {
	if cfg.OpenCageURL == "" {
		cfg.OpenCageURL = DefaultOpenCageURL
	}
	if cfg.MapboxURL == "" {
		cfg.MapboxURL = DefaultMapboxURL
	}
	cfg.MapboxURL = strings.TrimRight(cfg.MapboxURL, "/")
	return &Client{cfg: cfg, http: http}
}

type openCageResponse struct {
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Results []struct {
		Formatted  string `json:"formatted"`
		Confidence int    `json:"confidence"`
		Components struct {
			Country string `json:"country"`
		} `json:"components"`
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// Forward resolves an address to coordinates.
func (c *Client) Forward(ctx context.Context, query string) ([]Place, error) {
	return c.geocode(ctx, query)
}

// Reverse resolves coordinates to addresses.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) ([]Place, error) {
	q := strconv.FormatFloat(lat, 'f', -1, 64) + "+" + strconv.FormatFloat(lng, 'f', -1, 64)
	return c.geocode(ctx, q)
}

func (c *Client) geocode(ctx context.Context, q string) ([]Place, error) {
	if c.cfg.OpenCageKey == "" {
		return nil, fmt.Errorf("opencage: %w", ErrNoAPIKey)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("key", c.cfg.OpenCageKey)
	params.Set("no_annotations", "1")

	var resp openCageResponse
	if err := c.http.GetJSON(ctx, c.cfg.OpenCageURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("geocode %q: %w", q, err)
	}
	if resp.Status.Code != 0 && resp.Status.Code != 200 {
		return nil, fmt.Errorf("geocode %q: %d %s", q, resp.Status.Code, resp.Status.Message)
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, Place{
			Formatted:  r.Formatted,
			Country:    r.Components.Country,
			Confidence: r.Confidence,
			Position:   models.Marker{Lng: r.Geometry.Lng, Lat: r.Geometry.Lat},
		})
	}
	return places, nil
}

type mapboxResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64          `json:"distance"`
		Duration float64          `json:"duration"`
		Geometry geojson.Geometry `json:"geometry"`
	} `json:"routes"`
}

// Drive returns the first driving route Mapbox suggests between from and to.
func (c *Client) Drive(ctx context.Context, from, to models.Marker) (*Directions, error) {
	if c.cfg.MapboxToken == "" {
		return nil, fmt.Errorf("mapbox: %w", ErrNoAPIKey)
	}

	params := url.Values{}
	params.Set("geometries", "geojson")
	params.Set("access_token", c.cfg.MapboxToken)
	u := fmt.Sprintf("%s/%s;%s?%s", c.cfg.MapboxURL, coord(from), coord(to), params.Encode())

	var resp mapboxResponse
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	if resp.Code != "Ok" {
		return nil, fmt.Errorf("directions: %s %s", resp.Code, resp.Message)
	}
	if len(resp.Routes) == 0 {
		return nil, errors.New("directions: no route found")
	}

	r := resp.Routes[0]
	path, ok := r.Geometry.Coordinates.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("directions: unexpected geometry %T", r.Geometry.Coordinates)
	}
	return &Directions{DistanceMeters: r.Distance, DurationSeconds: r.Duration, Path: path}, nil
}

func coord(m models.Marker) string {
	return strconv.FormatFloat(m.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(m.Lat, 'f', -1, 64)
}
