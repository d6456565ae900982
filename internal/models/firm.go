// internal/models/firm.go
package models

// Firm is one entry of the firm store, keyed by display name.
type Firm struct {
	Name               string            `json:"name,omitempty"`
	LogoURL            string            `json:"logo_url,omitempty"`
	Website            string            `json:"website,omitempty"`
	Headquarters       string            `json:"headquarters,omitempty"`
	Founded            FlexString        `json:"founded,omitempty"`
	AUM                FlexString        `json:"aum,omitempty"`
	Employees          FlexString        `json:"employees,omitempty"`
	Offices            StringList        `json:"offices,omitempty"`
	Description        string            `json:"description,omitempty"`
	InvestmentFocus    *InvestmentFocus  `json:"investment_focus,omitempty"`
	Team               []TeamMember      `json:"team,omitempty"`
	RecentActivity     FlexString        `json:"recent_activity,omitempty"`
	PortfolioCompanies []EmbeddedCompany `json:"portfolio_companies,omitempty"`

	Extra Extras `json:"-"`
}

func (f *Firm) UnmarshalJSON(data []byte) error {
	type plain Firm
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*f = Firm(out)
	return nil
}

func (f Firm) MarshalJSON() ([]byte, error) {
	type plain Firm
	return encodeRecord(plain(f), f.Extra)
}

// Metadata returns the firm as a generic JSON object, as overlaid onto the
// firm detail view.
func (f Firm) Metadata() map[string]interface{} {
	m, err := ToMap(f)
	if err != nil {
		return map[string]interface{}{}
	}
	return m
}

type InvestmentFocus struct {
	Sectors        StringList `json:"sectors,omitempty"`
	Geography      StringList `json:"geography,omitempty"`
	DealSize       FlexString `json:"deal_size,omitempty"`
	InvestmentType StringList `json:"investment_type,omitempty"`

	Extra Extras `json:"-"`
}

func (i *InvestmentFocus) UnmarshalJSON(data []byte) error {
	type plain InvestmentFocus
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*i = InvestmentFocus(out)
	return nil
}

func (i InvestmentFocus) MarshalJSON() ([]byte, error) {
	type plain InvestmentFocus
	return encodeRecord(plain(i), i.Extra)
}

type TeamMember struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Location string `json:"location,omitempty"`
}

// EmbeddedCompany is the portfolio entry shape kept inside a firm record.
type EmbeddedCompany struct {
	Name        string     `json:"name"`
	Sector      string     `json:"sector,omitempty"`
	Country     string     `json:"country,omitempty"`
	EntryYear   FlexString `json:"entry_year,omitempty"`
	Website     string     `json:"website,omitempty"`
	Logo        string     `json:"logo,omitempty"`
	Description string     `json:"description,omitempty"`

	Extra Extras `json:"-"`
}

func (e *EmbeddedCompany) UnmarshalJSON(data []byte) error {
	type plain EmbeddedCompany
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*e = EmbeddedCompany(out)
	return nil
}

func (e EmbeddedCompany) MarshalJSON() ([]byte, error) {
	type plain EmbeddedCompany
	return encodeRecord(plain(e), e.Extra)
}

// ToPortfolioCompany maps an embedded entry onto the portfolio shape,
// attributing it to firm.
func (e EmbeddedCompany) ToPortfolioCompany(firm string) PortfolioCompany {
	return PortfolioCompany{
		Company:      e.Name,
		Sector:       e.Sector,
		Market:       e.Country,
		Entry:        e.EntryYear,
		Status:       "Active",
		Source:       FirmRef(firm),
		Website:      e.Website,
		LogoURL:      e.Logo,
		Description:  e.Description,
		Headquarters: e.Country,
		Geography:    GeographyFor(e.Country),
	}
}
