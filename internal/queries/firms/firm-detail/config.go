// internal/queries/firms/firm-detail/config.go
package firmdetail

import (
	"time"

	"pe-insights/internal/common/config"
)

type Config struct {
	EmbeddedPortfolioFirms []string
	MaxNews                int
	ExcludeForeignTagged   bool
	CacheTTL               time.Duration
	CacheKeyPrefix         string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		EmbeddedPortfolioFirms: cfg.Firms.EmbeddedPortfolioFirms,
		MaxNews:                cfg.Firms.MaxNews,
		ExcludeForeignTagged:   cfg.Firms.ExcludeForeignTagged,
		CacheTTL:               config.GetDuration(cfg.Cache.FirmDetailTTL),
		CacheKeyPrefix:         cfg.Cache.KeyPrefix,
	}
}

func (c *Config) embedsPortfolio(firm string) bool {
	for _, name := range c.EmbeddedPortfolioFirms {
		if name == firm {
			return true
		}
	}
	return false
}

func (c *Config) maxNews() int {
	if c.MaxNews <= 0 {
		return 10
	}
	return c.MaxNews
}
