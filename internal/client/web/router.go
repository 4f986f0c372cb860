// Package web serves a read-only JSON view of the signed-in user's saved
// trips, plus trip deletion, for use by a local map viewer.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/client/render"
	"github.com/dmitrijs2005/gophtrip/internal/client/services"
	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TripDetail is the body of GET /api/trips/{index}.
type TripDetail struct {
	Index    int             `json:"index"`
	Upcoming bool            `json:"upcoming"`
	Summary  models.Summary  `json:"summary"`
	Session  *models.Session `json:"session"`
}

type handler struct {
	auth  services.AuthService
	trips services.TripService
	log   logging.Logger
	now   func() time.Time
}

// NewRouter builds the viewer API:
//
//	GET    /api/trips
//	GET    /api/trips/{index}
//	GET    /api/trips/{index}/map
//	DELETE /api/trips/{index}
func NewRouter(auth services.AuthService, trips services.TripService, log logging.Logger, now func() time.Time) http.Handler {
	h := &handler{auth: auth, trips: trips, log: log, now: now}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Route("/api/trips", func(r chi.Router) {
		r.Get("/", h.listTrips)
		r.Get("/{index}", h.getTrip)
		r.Get("/{index}/map", h.getTripMap)
		r.Delete("/{index}", h.deleteTrip)
	})
	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *handler) listTrips(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, h.trips.List(user, h.now()), http.StatusOK)
}

func (h *handler) getTrip(w http.ResponseWriter, r *http.Request) {
	index, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, TripDetail{
		Index:    index,
		Upcoming: s.IsUpcoming(h.now()),
		Summary:  s.Summary(),
		Session:  s,
	}, http.StatusOK)
}

func (h *handler) getTripMap(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	fc, err := render.BasesMap(s)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) deleteTrip(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		respondError(w, "invalid trip index", http.StatusBadRequest)
		return
	}
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.trips.Delete(r.Context(), user, index, h.now()); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) (int, *models.Session, bool) {
	index, err := parseIndex(r)
	if err != nil {
		respondError(w, "invalid trip index", http.StatusBadRequest)
		return 0, nil, false
	}
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return 0, nil, false
	}
	s, err := user.Session(index)
	if err != nil {
		h.respondError(w, r, err)
		return 0, nil, false
	}
	return index, s, true
}

func parseIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

// respondError maps domain errors to HTTP status codes.
func (h *handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrUserNotFound):
		respondError(w, "nobody is signed in", http.StatusUnauthorized)
	case errors.Is(err, common.ErrSessionNotFound):
		respondError(w, "trip not found", http.StatusNotFound)
	case errors.Is(err, common.ErrTripCompleted):
		respondError(w, "completed trips cannot be deleted", http.StatusConflict)
	case errors.Is(err, common.ErrEmptySession):
		respondError(w, "trip has no legs", http.StatusUnprocessableEntity)
	default:
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
