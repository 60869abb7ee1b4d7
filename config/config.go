// Package config holds the server settings of the proposal exporter.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"boqproposal/services"
)

// Environment variables read by Load.
const (
	EnvRatesURL     = "BOQ_RATES_URL"
	EnvRatesTimeout = "BOQ_RATES_TIMEOUT"
	EnvExportDir    = "BOQ_EXPORT_DIR"
)

// DefaultRatesTimeout bounds a single exchange rate request.
const DefaultRatesTimeout = 5 * time.Second

// Config holds the server settings.
type Config struct {
	RatesURL     string
	RatesTimeout time.Duration
	ExportDir    string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		RatesURL:     services.DefaultRatesURL,
		RatesTimeout: DefaultRatesTimeout,
		ExportDir:    ".",
	}
}

// Load returns Default overridden by the environment. Variables from an
// optional .env file in the working directory are loaded first; values
// already set in the process environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: could not read .env: %v", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv applies variables found by lookup on top of Default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvRatesURL); ok && v != "" {
		cfg.RatesURL = v
	}
	if v, ok := lookup(EnvRatesTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvRatesTimeout, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("config: %s must be positive, got %s", EnvRatesTimeout, v)
		}
		cfg.RatesTimeout = d
	}
	if v, ok := lookup(EnvExportDir); ok && v != "" {
		cfg.ExportDir = v
	}
	return cfg, nil
}

// BindFlags registers persistent flags that override the loaded values once
// the command line is parsed.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.RatesURL, "ratesUrl", c.RatesURL, "exchange rate endpoint (USD base)")
	fs.DurationVar(&c.RatesTimeout, "ratesTimeout", c.RatesTimeout, "timeout of a single exchange rate request")
	fs.StringVar(&c.ExportDir, "exportDir", c.ExportDir, "directory the export command writes workbooks to")
}
