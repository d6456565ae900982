// internal/queries/search/collection-search/fields.go
package collectionsearch

import "pe-insights/internal/models"

func newsField(a models.NewsArticle, field string) string {
	switch field {
	case "title":
		return a.Title
	case "description":
		return a.Description
	case "category":
		return a.Category
	case "source":
		return a.Source
	case "firm":
		return string(a.Firm)
	}
	return a.Extra.String(field)
}

func portfolioField(p models.PortfolioCompany, field string) string {
	switch field {
	case "company":
		return p.Company
	case "sector":
		return p.Sector
	case "market":
		return p.Market
	case "description":
		return p.Description
	case "source":
		return string(p.Source)
	}
	return p.Extra.String(field)
}

func familyOfficeField(o models.FamilyOffice, field string) string {
	switch field {
	case "name":
		return o.Name
	case "founding_family":
		return o.FoundingFamily
	case "investment_focus":
		return o.InvestmentFocus.Joined()
	case "notable_holdings":
		return o.NotableHoldings.Joined()
	case "description":
		return o.Description
	}
	return o.Extra.String(field)
}

func investmentCompanyField(c models.InvestmentCompany, field string) string {
	switch field {
	case "name":
		return c.Name
	case "ticker":
		return c.Ticker
	case "holdings":
		return c.Holdings.Joined()
	case "investment_focus":
		return c.InvestmentFocus.Joined()
	case "description":
		return c.Description
	}
	return c.Extra.String(field)
}

func aiCompanyField(c models.AICompany, field string) string {
	switch field {
	case "name":
		return c.Name
	case "description":
		return c.Description
	case "category":
		return c.Category
	case "technology":
		return c.Technology.Joined()
	case "investors":
		return c.Investors.Joined()
	case "stage":
		return c.Stage
	}
	return c.Extra.String(field)
}

func aiInvestorField(i models.AIInvestor, field string) string {
	switch field {
	case "name":
		return i.Name
	case "type":
		return i.Type
	case "hq":
		return i.HQ
	case "notable_investments":
		return i.NotableInvestments.Joined()
	}
	return i.Extra.String(field)
}
