// internal/api/portfolio.go
package api

import (
	"fmt"
	"path/filepath"

	"github.com/labstack/echo/v4"

	apperrors "pe-insights/internal/common/errors"
	storerefresh "pe-insights/internal/maintenance/store-refresh"
	"pe-insights/internal/store"
)

func (s *Server) handleListPortfolio(c echo.Context) error {
	companies := s.deps.State.Snapshot().Portfolio
	return success(c, echo.Map{
		"count":     len(companies),
		"companies": nonNil(companies),
	})
}

func (s *Server) handleSearchPortfolio(c echo.Context) error {
	return s.searchWithFallback(c, store.Portfolio)
}

// handleReloadPortfolio re-reads the enriched portfolio file and reports
// the per-source counts the portfolio page shows.
func (s *Server) handleReloadPortfolio(c echo.Context) error {
	snap, event, err := s.deps.State.Reload(c.Request().Context(), store.Portfolio)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeStoreNotFound) {
			return apperrors.NewRecordNotFoundError(
				fmt.Sprintf("%s not found", reloadedFile(event, store.Portfolio)), "")
		}
		return err
	}

	var valedo, verdane int
	for _, company := range snap.Portfolio {
		switch {
		case company.Source.Is("Valedo Partners"):
			valedo++
		case company.Source.Is("Verdane"):
			verdane++
		}
	}

	return success(c, echo.Map{
		"message":         "Portfolio data reloaded successfully",
		"total":           len(snap.Portfolio),
		"valedo_partners": valedo,
		"verdane":         verdane,
	})
}

func reloadedFile(event *store.ReloadEvent, c store.Collection) string {
	for _, o := range event.Outcomes {
		if o.Collection == c && o.Path != "" {
			return filepath.Base(o.Path)
		}
	}
	return string(c) + " data file"
}

func (s *Server) handleScrapePortfolio(c echo.Context) error {
	out, err := s.deps.Refresh.Execute(c.Request().Context(), storerefresh.TargetPortfolio)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"message":     fmt.Sprintf("Successfully scraped %d companies", out.NewCount()),
		"new_count":   out.NewCount(),
		"total_count": out.After,
	})
}

func (s *Server) handleCompany(c echo.Context) error {
	slug, err := pathParam(c, "slug")
	if err != nil {
		return err
	}
	company, err := s.deps.Companies.BySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	return success(c, echo.Map{"company": company})
}

func (s *Server) handleResearch(c echo.Context) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}
	out, err := s.deps.Companies.Research(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"company":       out.Company,
		"research_data": out.ResearchData,
		"source":        out.Source,
		"note":          out.Note,
	})
}
