package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-b string   storage backend: sqlite or badger
//	-d string   storage path (SQLite file or Badger directory)
//	-g string   OpenFlights web service URL
//	-o string   directory with OpenFlights airports.dat/routes.dat (offline mode)
//	-t int      request timeout (in seconds)
//	-r int      request retries
//	-redis string  Redis address for the gateway cache
//	-m string   GeoJSON map output file
//	-w string   web viewer address
//	-serve      run the web viewer instead of the REPL
//	-l string   log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-b", "-d", "-g", "-o", "-t", "-r", "-redis", "-m", "-w", "-serve", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "storage backend (sqlite|badger)")
	fs.StringVar(&cfg.StoragePath, "d", cfg.StoragePath, "storage path")
	fs.StringVar(&cfg.GatewayURL, "g", cfg.GatewayURL, "OpenFlights web service URL")
	fs.StringVar(&cfg.OpenFlightsDir, "o", cfg.OpenFlightsDir, "OpenFlights CSV directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.RequestRetries, "r", cfg.RequestRetries, "request retries")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.MapPath, "m", cfg.MapPath, "GeoJSON map file")
	fs.StringVar(&cfg.WebAddr, "w", cfg.WebAddr, "web viewer address")
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "run the web viewer")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
