// internal/models/portfolio.go
package models

import "strings"

// PortfolioCompany is one record of the portfolio store.
type PortfolioCompany struct {
	Company      string     `json:"company"`
	Sector       string     `json:"sector"`
	Market       string     `json:"market"`
	Entry        FlexString `json:"entry"`
	LogoURL      string     `json:"logo_url"`
	Website      string     `json:"website"`
	Description  string     `json:"description"`
	Source       FirmRef    `json:"source"`
	Status       string     `json:"status,omitempty"`
	Headquarters string     `json:"headquarters,omitempty"`
	DealSize     string     `json:"deal_size,omitempty"`
	Fund         string     `json:"fund,omitempty"`
	Geography    string     `json:"geography,omitempty"`
	Enriched     bool       `json:"enriched,omitempty"`

	Extra Extras `json:"-"`
}

func (p *PortfolioCompany) UnmarshalJSON(data []byte) error {
	type plain PortfolioCompany
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*p = PortfolioCompany(out)
	return nil
}

func (p PortfolioCompany) MarshalJSON() ([]byte, error) {
	type plain PortfolioCompany
	return encodeRecord(plain(p), p.Extra)
}

// Slug is the URL key of a company: lower-case company name with spaces as
// dashes and "&" spelled "and", then a dash and the dashed lower-case
// source.
func (p PortfolioCompany) Slug() string {
	name := strings.ToLower(p.Company)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "&", "and")
	source := strings.ReplaceAll(strings.ToLower(string(p.Source)), " ", "-")
	return name + "-" + source
}

var nordicCountries = map[string]struct{}{
	"Sweden":  {},
	"Denmark": {},
	"Norway":  {},
	"Finland": {},
}

// GeographyFor classifies a country as "Nordic" or "International".
func GeographyFor(country string) string {
	if _, ok := nordicCountries[country]; ok {
		return "Nordic"
	}
	return "International"
}
