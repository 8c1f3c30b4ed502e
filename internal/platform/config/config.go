// Package config handles environment-based configuration loading.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTP struct {
		Addr      string `default:":8080"`
		PublicURL string `default:"http://localhost:5173"`
	}
	Log struct {
		Level string `default:"info"`
	}
	Redis struct {
		Addr     string        `default:"localhost:6379"`
		Password string        `default:""`
		DB       int           `default:"0"`
		Timeout  time.Duration `default:"5s"`
	}
	Feeds struct {
		BaseURL  string        `default:"http://localhost:9091"`
		Timeout  time.Duration `default:"10s"`
		CacheTTL time.Duration `default:"30s"`
	}
	Sessions struct {
		IdleTTL       time.Duration `default:"30m"`
		SweepInterval time.Duration `default:"1m"`
	}
	Refresh struct {
		Debounce time.Duration `default:"400ms"`
	}
	Map struct {
		// AlertZoom is deliberately closer than LocateZoom: alert navigation
		// targets a point feature, locate-me targets a general area.
		LocateZoom float64 `default:"10"`
		AlertZoom  float64 `default:"12"`
	}
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("WILDFIRES", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
