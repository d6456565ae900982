// internal/maintenance/news-dedupe/config.go
package newsdedupe

import (
	"pe-insights/internal/common/config"
	"pe-insights/internal/store"
)

type Config struct {
	Stores config.StoresConfig
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{Stores: cfg.Stores}
}

// listField names the article list inside each news document.
var listField = map[store.Collection]string{
	store.News:     "articles",
	store.FirmNews: "news",
}
