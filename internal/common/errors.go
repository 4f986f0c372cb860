// Package common defines shared constants and sentinel errors used across
// gophtrip layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")

	// Itinerary errors.
	ErrInvalidLegData = errors.New("invalid leg data")
	ErrEmptySession   = errors.New("session has no legs")
	ErrNotPlanning    = errors.New("no trip is being planned")

	// Account errors.
	ErrEmptyCredentials     = errors.New("username and password are required")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUserNotFound         = errors.New("user not found")

	// Saved trip errors.
	ErrSessionNotFound = errors.New("session not found")
	ErrTripCompleted   = errors.New("completed trips cannot be deleted")

	// Gateway errors.
	ErrGatewayUnavailable  = errors.New("gateway unavailable")
	ErrStaleResponse       = errors.New("stale response")
	ErrAirportNotFound     = errors.New("airport not found")
	ErrAirportNotReachable = errors.New("airport not reachable from the last stop")

	// Persistence errors.
	ErrDeserialization = errors.New("deserialization error")
)
