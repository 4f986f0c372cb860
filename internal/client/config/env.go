package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	dotEnvFile = ".env"
	envPrefix  = "GOPHTRIP_"
)

// parseEnv overlays Config with GOPHTRIP_* environment variables. Variables
// from dotEnv are loaded first without overriding ones already set; a
// missing dotEnv file is ignored. It panics on malformed values.
//
// Recognised variables (without the prefix): STORAGE_BACKEND, STORAGE_PATH,
// GATEWAY_URL, OPENFLIGHTS_DIR, REQUEST_TIMEOUT, REQUEST_RETRIES,
// REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, CACHE_TTL, OPENCAGE_KEY,
// MAPBOX_TOKEN, MAP_PATH, WEB_ADDR, LOG_LEVEL, LOG_FORMAT.
func parseEnv(cfg *Config, dotEnv string) {
	if dotEnv != "" {
		if err := godotenv.Load(dotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	envString(&cfg.StorageBackend, "STORAGE_BACKEND")
	envString(&cfg.StoragePath, "STORAGE_PATH")
	envString(&cfg.GatewayURL, "GATEWAY_URL")
	envString(&cfg.OpenFlightsDir, "OPENFLIGHTS_DIR")
	envDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	envInt(&cfg.RequestRetries, "REQUEST_RETRIES")
	envString(&cfg.RedisAddr, "REDIS_ADDR")
	envString(&cfg.RedisPassword, "REDIS_PASSWORD")
	envInt(&cfg.RedisDB, "REDIS_DB")
	envDuration(&cfg.CacheTTL, "CACHE_TTL")
	envString(&cfg.OpenCageKey, "OPENCAGE_KEY")
	envString(&cfg.MapboxToken, "MAPBOX_TOKEN")
	envString(&cfg.MapPath, "MAP_PATH")
	envString(&cfg.WebAddr, "WEB_ADDR")
	envString(&cfg.LogLevel, "LOG_LEVEL")
	envString(&cfg.LogFormat, "LOG_FORMAT")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envDuration(dst *time.Duration, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
