// Package config loads runtime configuration for the gophtrip CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or -config.
//     JSON by default, YAML when the file ends in .yaml or .yml.
//  3. Environment variables prefixed GOPHTRIP_ (see parseEnv), after loading
//     a .env file from the working directory if there is one.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "storage_backend": "sqlite",
//	  "storage_path": "gophtrip.db",
//	  "gateway_url": "https://eng1003.monash/OpenFlights",
//	  "request_timeout": "10s",
//	  "redis_addr": "127.0.0.1:6379",
//	  "cache_ttl": "24h",
//	  "map_path": "gophtrip-map.geojson"
//	}
//
// API keys (opencage_key, mapbox_token) are usually kept in .env rather than
// in the file.
package config
