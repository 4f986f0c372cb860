// Package cli provides the interactive gophtrip command-line client.
//
// It wires configuration, the local store, the flight data gateway, the
// planner and the renderers, and runs an interactive REPL. Typical flow:
// sign in, plan a trip by country and departure date, add airports leg by
// leg while the GeoJSON map is rewritten, then save the trip and review it
// later.
//
// Key features:
//   - Sign in / sign out (accounts are created on first sign-in)
//   - Plan, add, undo, map, summary, save, cancel
//   - Trips overview, show and delete saved trips
//   - Geocoding helpers: locate, where, drive
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// With -serve, Run starts the trip viewer web server instead.
package cli
