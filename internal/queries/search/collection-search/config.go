// internal/queries/search/collection-search/config.go
package collectionsearch

import "pe-insights/internal/store"

// Config lists the fields searched per collection.
type Config struct {
	Fields map[store.Collection][]string
}

func LoadConfig() *Config {
	return &Config{
		Fields: map[store.Collection][]string{
			store.News:                {"title", "description"},
			store.FirmNews:            {"title", "description"},
			store.Portfolio:           {"company", "sector", "market"},
			store.FamilyOffices:       {"name", "founding_family", "investment_focus"},
			store.InvestmentCompanies: {"name", "holdings", "investment_focus"},
			store.AICompanies:         {"name", "description", "category", "technology", "investors"},
			store.AIInvestors:         {"name", "type", "hq", "notable_investments"},
		},
	}
}
