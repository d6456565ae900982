// internal/models/directory.go
package models

// AICompany is a record of the AI companies store.
type AICompany struct {
	Name         string     `json:"name"`
	Category     string     `json:"category,omitempty"`
	Description  string     `json:"description,omitempty"`
	Founded      FlexString `json:"founded,omitempty"`
	Headquarters string     `json:"headquarters,omitempty"`
	Employees    FlexString `json:"employees,omitempty"`
	Stage        string     `json:"stage,omitempty"`
	Valuation    FlexString `json:"valuation,omitempty"`
	Technology   StringList `json:"technology,omitempty"`
	Investors    StringList `json:"investors,omitempty"`
	Website      string     `json:"website,omitempty"`
	LogoURL      string     `json:"logo_url,omitempty"`

	Extra Extras `json:"-"`
}

func (c *AICompany) UnmarshalJSON(data []byte) error {
	type plain AICompany
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*c = AICompany(out)
	return nil
}

func (c AICompany) MarshalJSON() ([]byte, error) {
	type plain AICompany
	return encodeRecord(plain(c), c.Extra)
}

// AIInvestor is a record of the AI investors store.
type AIInvestor struct {
	Name               string     `json:"name"`
	Type               string     `json:"type,omitempty"`
	HQ                 string     `json:"hq,omitempty"`
	LogoURL            string     `json:"logo_url,omitempty"`
	NotableInvestments StringList `json:"notable_investments,omitempty"`
	TotalInvested      FlexString `json:"total_invested,omitempty"`
	AIDealsCount       FlexString `json:"ai_deals_count,omitempty"`

	Extra Extras `json:"-"`
}

func (i *AIInvestor) UnmarshalJSON(data []byte) error {
	type plain AIInvestor
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*i = AIInvestor(out)
	return nil
}

func (i AIInvestor) MarshalJSON() ([]byte, error) {
	type plain AIInvestor
	return encodeRecord(plain(i), i.Extra)
}

// FamilyOffice is a record of the family offices store.
type FamilyOffice struct {
	Name               string     `json:"name"`
	Type               string     `json:"type,omitempty"`
	FoundingFamily     string     `json:"founding_family,omitempty"`
	Founded            FlexString `json:"founded,omitempty"`
	Headquarters       string     `json:"headquarters,omitempty"`
	AUM                FlexString `json:"aum,omitempty"`
	Website            string     `json:"website,omitempty"`
	Description        string     `json:"description,omitempty"`
	InvestmentFocus    StringList `json:"investment_focus,omitempty"`
	InvestmentStrategy FlexString `json:"investment_strategy,omitempty"`
	NotableHoldings    StringList `json:"notable_holdings,omitempty"`

	Extra Extras `json:"-"`
}

func (o *FamilyOffice) UnmarshalJSON(data []byte) error {
	type plain FamilyOffice
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*o = FamilyOffice(out)
	return nil
}

func (o FamilyOffice) MarshalJSON() ([]byte, error) {
	type plain FamilyOffice
	return encodeRecord(plain(o), o.Extra)
}

// InvestmentCompany is a record of the listed investment companies store.
type InvestmentCompany struct {
	Name            string     `json:"name"`
	Ticker          string     `json:"ticker,omitempty"`
	Type            string     `json:"type,omitempty"`
	Holdings        StringList `json:"holdings,omitempty"`
	InvestmentFocus StringList `json:"investment_focus,omitempty"`
	Website         string     `json:"website,omitempty"`
	LogoURL         string     `json:"logo_url,omitempty"`
	Description     string     `json:"description,omitempty"`

	Extra Extras `json:"-"`
}

func (c *InvestmentCompany) UnmarshalJSON(data []byte) error {
	type plain InvestmentCompany
	var out plain
	extras, err := decodeRecord(data, &out)
	if err != nil {
		return err
	}
	out.Extra = extras
	*c = InvestmentCompany(out)
	return nil
}

func (c InvestmentCompany) MarshalJSON() ([]byte, error) {
	type plain InvestmentCompany
	return encodeRecord(plain(c), c.Extra)
}
