// internal/maintenance/integrity-audit/config.go
package integrityaudit

type Config struct {
	// MaxDangling caps the references listed in a report. Counts are
	// always complete.
	MaxDangling int
}

func LoadConfig() *Config {
	return &Config{MaxDangling: 500}
}
