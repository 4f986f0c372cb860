package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/flagx"
	"github.com/dmitrijs2005/gophtrip/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for config file unmarshalling. It
// relies on timex.Duration so intervals can be written as "3s" or as integer
// nanoseconds. Pointer fields tell "absent" from "zero", so a file only
// overrides what it mentions.
type FileConfig struct {
	StorageBackend *string         `json:"storage_backend" yaml:"storage_backend"`
	StoragePath    *string         `json:"storage_path" yaml:"storage_path"`
	GatewayURL     *string         `json:"gateway_url" yaml:"gateway_url"`
	OpenFlightsDir *string         `json:"openflights_dir" yaml:"openflights_dir"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RequestRetries *int            `json:"request_retries" yaml:"request_retries"`
	RedisAddr      *string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword  *string         `json:"redis_password" yaml:"redis_password"`
	RedisDB        *int            `json:"redis_db" yaml:"redis_db"`
	CacheTTL       *timex.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	OpenCageKey    *string         `json:"opencage_key" yaml:"opencage_key"`
	MapboxToken    *string         `json:"mapbox_token" yaml:"mapbox_token"`
	MapPath        *string         `json:"map_path" yaml:"map_path"`
	WebAddr        *string         `json:"web_addr" yaml:"web_addr"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	LogFormat      *string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Files ending in .yaml or .yml are read as YAML, anything else as
// JSON. It panics on read or unmarshal errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFilePath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setIf(&cfg.StorageBackend, fc.StorageBackend)
	setIf(&cfg.StoragePath, fc.StoragePath)
	setIf(&cfg.GatewayURL, fc.GatewayURL)
	setIf(&cfg.OpenFlightsDir, fc.OpenFlightsDir)
	setIf(&cfg.RequestRetries, fc.RequestRetries)
	setIf(&cfg.RedisAddr, fc.RedisAddr)
	setIf(&cfg.RedisPassword, fc.RedisPassword)
	setIf(&cfg.RedisDB, fc.RedisDB)
	setIf(&cfg.OpenCageKey, fc.OpenCageKey)
	setIf(&cfg.MapboxToken, fc.MapboxToken)
	setIf(&cfg.MapPath, fc.MapPath)
	setIf(&cfg.WebAddr, fc.WebAddr)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.CacheTTL != nil {
		cfg.CacheTTL = fc.CacheTTL.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
