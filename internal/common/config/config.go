// internal/common/config/config.go
package config

import (
	"fmt"
	"path/filepath"
)

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Stores      StoresConfig      `mapstructure:"stores"`
	Firms       FirmsConfig       `mapstructure:"firms"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	SearchIndex SearchIndexConfig `mapstructure:"search_index"`
	Refresh     RefreshConfig     `mapstructure:"refresh"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

// Address returns host:port for the API listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetricsConfig controls the separate health/metrics listener.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// StoresConfig names the JSON documents backing each collection. File
// names are resolved relative to DataDir unless absolute.
type StoresConfig struct {
	DataDir             string `mapstructure:"data_dir"`
	Firms               string `mapstructure:"firms"`
	Portfolio           string `mapstructure:"portfolio"`
	PortfolioLegacy     string `mapstructure:"portfolio_legacy"`
	News                string `mapstructure:"news"`
	FirmNews            string `mapstructure:"firm_news"`
	FamilyOffices       string `mapstructure:"family_offices"`
	InvestmentCompanies string `mapstructure:"investment_companies"`
	AICompanies         string `mapstructure:"ai_companies"`
	AIInvestors         string `mapstructure:"ai_investors"`
	DealFlow            string `mapstructure:"deal_flow"`
	Fundraising         string `mapstructure:"fundraising"`
	AIEducational       string `mapstructure:"ai_educational"`
}

// Path resolves a store file name against DataDir.
func (s StoresConfig) Path(file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.DataDir, file)
}

// FirmsConfig tunes the firm aggregation query.
type FirmsConfig struct {
	EmbeddedPortfolioFirms []string `mapstructure:"embedded_portfolio_firms"`
	MaxNews                int      `mapstructure:"max_news"`
	ExcludeForeignTagged   bool     `mapstructure:"exclude_foreign_tagged"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds view-cache settings.
type CacheConfig struct {
	FirmDetailTTL int    `mapstructure:"firm_detail_ttl"` // milliseconds
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// SearchIndexConfig names the Elasticsearch indices mirrored from the
// stores.
type SearchIndexConfig struct {
	NewsIndex      string `mapstructure:"news_index"`
	PortfolioIndex string `mapstructure:"portfolio_index"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
	MaxResults     int    `mapstructure:"max_results"`
}

// RefreshConfig configures the external data refresh commands. Each
// command is an argv list; an empty list means reload only.
type RefreshConfig struct {
	Timeout     int                 `mapstructure:"timeout"`      // milliseconds
	MinInterval int                 `mapstructure:"min_interval"` // milliseconds
	Commands    map[string][]string `mapstructure:"commands"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
