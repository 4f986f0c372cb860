package config

import "time"

// Config holds runtime settings for the gophtrip CLI.
//
// Units: RequestTimeout and CacheTTL are time.Duration values.
type Config struct {
	StorageBackend string
	StoragePath    string

	GatewayURL     string
	OpenFlightsDir string
	RequestTimeout time.Duration
	RequestRetries int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	OpenCageKey string
	MapboxToken string

	MapPath string

	WebAddr string
	Serve   bool

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageBackend = "sqlite"
	c.StoragePath = "gophtrip.db"
	c.GatewayURL = "https://eng1003.monash/OpenFlights"
	c.RequestTimeout = 10 * time.Second
	c.RequestRetries = 3
	c.CacheTTL = 24 * time.Hour
	c.MapPath = "gophtrip-map.geojson"
	c.WebAddr = "127.0.0.1:8080"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), the environment (including a .env file in the
// working directory) and command-line flags. Later sources take precedence
// over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg, dotEnvFile)
	parseFlags(cfg)
	return cfg
}
