// internal/queries/portfolio/company-lookup/config.go
package companylookup

import "time"

type Config struct {
	Now func() time.Time
}

func LoadConfig() *Config {
	return &Config{
		Now: time.Now,
	}
}
