// internal/maintenance/store-refresh/config.go
package storerefresh

import (
	"time"

	"pe-insights/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	MinInterval time.Duration
	Commands    map[string][]string
	WorkDir     string
	MaxOutput   int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:     config.GetDuration(cfg.Refresh.Timeout),
		MinInterval: config.GetDuration(cfg.Refresh.MinInterval),
		Commands:    cfg.Refresh.Commands,
		WorkDir:     cfg.Stores.DataDir,
		MaxOutput:   64 * 1024,
	}
}
