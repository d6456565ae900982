// internal/queries/portfolio/company-lookup/models.go
package companylookup

// Research sources.
const (
	SourceEnriched = "enriched_database"
	SourceBasic    = "basic"
)

type ResearchOutput struct {
	Company      string                 `json:"company"`
	ResearchData map[string]interface{} `json:"research_data"`
	Source       string                 `json:"source"`
	Note         string                 `json:"note"`
}

// researchFields maps response keys to the enriched record keys they are
// read from, in fallback order.
var researchFields = []struct {
	key     string
	sources []string
	empty   interface{}
}{
	{"overview", []string{"detailed_description", "description"}, ""},
	{"founded", []string{"founded_year"}, ""},
	{"ceo", []string{"ceo"}, ""},
	{"leadership", []string{"leadership_team"}, []interface{}{}},
	{"funding_history", []string{"funding_rounds"}, []interface{}{}},
	{"total_funding", []string{"total_funding"}, ""},
	{"valuation", []string{"valuation"}, ""},
	{"revenue", []string{"revenue"}, ""},
	{"recent_news", []string{"recent_news"}, []interface{}{}},
	{"products", []string{"key_products"}, []interface{}{}},
	{"technology", []string{"technology_stack"}, []interface{}{}},
	{"headquarters", []string{"headquarters"}, ""},
	{"employee_count", []string{"employee_count_detailed", "employees"}, ""},
	{"website", []string{"website"}, ""},
	{"key_milestones", []string{"key_milestones"}, []interface{}{}},
	{"competitive_advantages", []string{"competitive_advantages"}, []interface{}{}},
	{"market_position", []string{"market_share"}, ""},
	{"business_model", []string{"business_model"}, ""},
	{"target_market", []string{"target_customers"}, ""},
	{"strategic_focus", []string{"strategic_priorities"}, []interface{}{}},
	{"certifications", []string{"certifications"}, []interface{}{}},
	{"partnerships", []string{"partnerships"}, []interface{}{}},
	{"geographic_presence", []string{"geographic_presence"}, []interface{}{}},
	{"sustainability", []string{"sustainability_initiatives"}, []interface{}{}},
}

// basicFields are the keys of the preliminary research skeleton.
var basicFields = []struct {
	key   string
	empty interface{}
}{
	{"founded", ""},
	{"leadership", []interface{}{}},
	{"funding_history", []interface{}{}},
	{"total_funding", ""},
	{"recent_news", []interface{}{}},
	{"products", []interface{}{}},
	{"technology", []interface{}{}},
	{"key_milestones", []interface{}{}},
	{"competitive_advantages", []interface{}{}},
	{"market_position", ""},
	{"target_market", ""},
}
