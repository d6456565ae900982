// internal/store/collections.go
package store

import (
	"pe-insights/internal/common/config"
	"pe-insights/internal/common/validation"
)

// Collection names one store document.
type Collection string

const (
	Firms               Collection = "firms"
	Portfolio           Collection = "portfolio"
	News                Collection = "news"
	FirmNews            Collection = "firm_news"
	FamilyOffices       Collection = "family_offices"
	InvestmentCompanies Collection = "investment_companies"
	AICompanies         Collection = "ai_companies"
	AIInvestors         Collection = "ai_investors"
	DealFlow            Collection = "deal_flow"
	Fundraising         Collection = "fundraising"
	AIEducational       Collection = "ai_educational"
)

// AllCollections lists every collection in load order.
var AllCollections = []Collection{
	Firms, Portfolio, News, FirmNews,
	FamilyOffices, InvestmentCompanies, AICompanies, AIInvestors,
	DealFlow, Fundraising, AIEducational,
}

// Load outcomes, as reported to metrics and the reload ledger.
const (
	OutcomeLoaded    = "loaded"
	OutcomeNotFound  = "not_found"
	OutcomeMalformed = "malformed"
)

type collectionSpec struct {
	file   func(config.StoresConfig) string
	schema *validation.Schema
}

var collectionSpecs = map[Collection]collectionSpec{
	Firms: {
		file: func(s config.StoresConfig) string { return s.Firms },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field: "pe_firms",
			Kind:  validation.KindMap,
			ItemTypes: map[string]string{
				"name":                "string",
				"portfolio_companies": "array",
				"team":                "array",
			},
		}),
	},
	Portfolio: {
		file: func(s config.StoresConfig) string { return s.Portfolio },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field:     "companies",
			Kind:      validation.KindArray,
			ItemTypes: map[string]string{"company": "string", "source": "string"},
		}),
	},
	News: {
		file: func(s config.StoresConfig) string { return s.News },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field:     "articles",
			Kind:      validation.KindArray,
			ItemTypes: map[string]string{"title": "string", "date": "string"},
		}),
	},
	FirmNews: {
		file: func(s config.StoresConfig) string { return s.FirmNews },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field:     "news",
			Kind:      validation.KindArray,
			ItemTypes: map[string]string{"title": "string", "date": "string", "firm": "string", "link": "string"},
		}),
	},
	FamilyOffices: {
		file: func(s config.StoresConfig) string { return s.FamilyOffices },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field:     "family_offices",
			Kind:      validation.KindArray,
			ItemTypes: map[string]string{"name": "string"},
		}),
	},
	InvestmentCompanies: {
		file: func(s config.StoresConfig) string { return s.InvestmentCompanies },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field:     "investment_companies",
			Kind:      validation.KindArray,
			ItemTypes: map[string]string{"name": "string"},
		}),
	},
	AICompanies: {
		file: func(s config.StoresConfig) string { return s.AICompanies },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field:     "ai_companies",
			Kind:      validation.KindArray,
			ItemTypes: map[string]string{"name": "string", "category": "string"},
		}),
	},
	AIInvestors: {
		file: func(s config.StoresConfig) string { return s.AIInvestors },
		schema: validation.MustCompile(validation.DocumentSpec{
			Field:     "investors",
			Kind:      validation.KindArray,
			ItemTypes: map[string]string{"name": "string"},
		}),
	},
	DealFlow: {
		file:   func(s config.StoresConfig) string { return s.DealFlow },
		schema: validation.MustCompile(validation.DocumentSpec{Kind: validation.KindDocument}),
	},
	Fundraising: {
		file:   func(s config.StoresConfig) string { return s.Fundraising },
		schema: validation.MustCompile(validation.DocumentSpec{Kind: validation.KindDocument}),
	},
	AIEducational: {
		file:   func(s config.StoresConfig) string { return s.AIEducational },
		schema: validation.MustCompile(validation.DocumentSpec{Kind: validation.KindDocument}),
	},
}

// ParseCollection maps a name to a known collection.
func ParseCollection(name string) (Collection, bool) {
	c := Collection(name)
	_, ok := collectionSpecs[c]
	return c, ok
}

// FileFor returns the configured file path of c.
func FileFor(stores config.StoresConfig, c Collection) string {
	spec, ok := collectionSpecs[c]
	if !ok {
		return ""
	}
	return stores.Path(spec.file(stores))
}
