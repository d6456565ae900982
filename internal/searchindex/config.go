// internal/searchindex/config.go
package searchindex

import (
	"time"

	"pe-insights/internal/common/config"
)

type Config struct {
	NewsIndex      string
	PortfolioIndex string
	Timeout        time.Duration
	MaxResults     int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		NewsIndex:      cfg.SearchIndex.NewsIndex,
		PortfolioIndex: cfg.SearchIndex.PortfolioIndex,
		Timeout:        config.GetDuration(cfg.SearchIndex.Timeout),
		MaxResults:     cfg.SearchIndex.MaxResults,
	}
}
