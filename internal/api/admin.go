// internal/api/admin.go
package api

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "pe-insights/internal/common/errors"
)

func (s *Server) handleSummary(c echo.Context) error {
	snap := s.deps.State.Snapshot()

	deals := 0
	for _, a := range snap.News {
		if strings.Contains(a.Category, "Deal") {
			deals++
		}
	}

	return success(c, echo.Map{
		"summary": echo.Map{
			"total_companies":      len(snap.Portfolio),
			"total_news":           len(snap.News),
			"total_pe_firms":       len(snap.Firms),
			"total_family_offices": len(snap.FamilyOffices),
			"latest_deals":         deals,
		},
	})
}

// handleIntegrity audits firm references in the current snapshot. Dangling
// references are reported, not treated as a failure.
func (s *Server) handleIntegrity(c echo.Context) error {
	report, err := s.deps.Audit.Execute(c.Request().Context(), s.deps.State.Snapshot())
	if err != nil {
		return err
	}
	return success(c, echo.Map{"report": report})
}

func (s *Server) handleReloads(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewInvalidQueryError("limit must be an integer")
		}
		limit = n
	}

	entries, err := s.deps.Ledger.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return success(c, echo.Map{
		"count":   len(entries),
		"reloads": nonNil(entries),
	})
}
