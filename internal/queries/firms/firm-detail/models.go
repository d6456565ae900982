// internal/queries/firms/firm-detail/models.go
package firmdetail

import "pe-insights/internal/models"

type Input struct {
	FirmName string `json:"firmName"`
}

// Output is the aggregated firm view. Metadata holds the firm record as a
// generic object and is empty when the firm has no record.
type Output struct {
	Name           string                    `json:"name"`
	Companies      []models.PortfolioCompany `json:"companies"`
	CompanyCount   int                       `json:"company_count"`
	RealNews       []models.NewsArticle      `json:"real_news"`
	TotalNewsCount int                       `json:"total_news_count"`
	Metadata       map[string]interface{}    `json:"metadata,omitempty"`
	Version        uint64                    `json:"version"`
	Generation     string                    `json:"generation"`
}

// View flattens the output into the response object. Metadata keys
// override the computed ones.
func (o *Output) View() map[string]interface{} {
	view := map[string]interface{}{
		"name":             o.Name,
		"companies":        o.Companies,
		"company_count":    o.CompanyCount,
		"real_news":        o.RealNews,
		"total_news_count": o.TotalNewsCount,
	}
	for k, v := range o.Metadata {
		view[k] = v
	}
	return view
}
