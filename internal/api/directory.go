// internal/api/directory.go
package api

import (
	"github.com/labstack/echo/v4"

	collectionsearch "pe-insights/internal/queries/search/collection-search"
	"pe-insights/internal/store"
)

func (s *Server) metadata(c store.Collection) interface{} {
	return s.deps.State.Snapshot().Document(c).Value("metadata", map[string]interface{}{})
}

func (s *Server) handleFamilyOffices(c echo.Context) error {
	return success(c, echo.Map{
		"family_offices": nonNil(s.deps.State.Snapshot().FamilyOffices),
		"metadata":       s.metadata(store.FamilyOffices),
	})
}

func (s *Server) handleInvestmentCompanies(c echo.Context) error {
	return success(c, echo.Map{
		"companies": nonNil(s.deps.State.Snapshot().InvestmentCompanies),
		"metadata":  s.metadata(store.InvestmentCompanies),
	})
}

func (s *Server) handleAICompanies(c echo.Context) error {
	snap := s.deps.State.Snapshot()
	return success(c, echo.Map{
		"companies":          nonNil(snap.AICompanies),
		"global_investments": snap.Document(store.AICompanies).Value("global_ai_investments", []interface{}{}),
		"metadata":           s.metadata(store.AICompanies),
	})
}

func (s *Server) handleAIInvestors(c echo.Context) error {
	return success(c, echo.Map{
		"investors": nonNil(s.deps.State.Snapshot().AIInvestors),
		"metadata":  s.metadata(store.AIInvestors),
	})
}

// searchHandler serves the directory searches, which always echo the query.
func (s *Server) searchHandler(collection store.Collection) echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := s.deps.Search.Execute(c.Request().Context(), &collectionsearch.Input{
			Collection: collection,
			Query:      c.QueryParam("q"),
		})
		if err != nil {
			return err
		}
		return success(c, echo.Map{
			"query":   out.Query,
			"count":   out.Count,
			"results": out.Results,
		})
	}
}

func (s *Server) handleAICategory(c echo.Context) error {
	category, err := pathParam(c, "category")
	if err != nil {
		return err
	}
	out, err := s.deps.AI.ByCategory(c.Request().Context(), category)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"category":  out.Category,
		"count":     out.Count,
		"companies": out.Companies,
	})
}

func (s *Server) handleAICompany(c echo.Context) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}
	company, err := s.deps.AI.ByName(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return success(c, echo.Map{"company": company})
}

func (s *Server) handleAIAnalytics(c echo.Context) error {
	analytics, err := s.deps.AI.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return success(c, echo.Map{"analytics": analytics})
}

func (s *Server) handleAIEducational(c echo.Context) error {
	doc := s.deps.State.Snapshot().Document(store.AIEducational)
	return success(c, echo.Map{"content": doc.Generic()})
}

func (s *Server) handleDealFlow(c echo.Context) error {
	doc := s.deps.State.Snapshot().Document(store.DealFlow)
	return success(c, echo.Map{
		"deals":    doc.Value("deals", []interface{}{}),
		"metadata": doc.Value("metadata", map[string]interface{}{}),
	})
}

func (s *Server) handleFundraising(c echo.Context) error {
	doc := s.deps.State.Snapshot().Document(store.Fundraising)
	return success(c, echo.Map{
		"fundraising": doc.Value("fundraising_activities", []interface{}{}),
		"metadata":    doc.Value("metadata", map[string]interface{}{}),
	})
}
