package collectionsearch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pe-insights/internal/common/config"
	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/models"
	"pe-insights/internal/store"
)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	dir := t.TempDir()
	stores := config.StoresConfig{
		DataDir:             dir,
		Portfolio:           "portfolio.json",
		News:                "news.json",
		FamilyOffices:       "family_offices.json",
		InvestmentCompanies: "investmentbolag.json",
		AICompanies:         "ai_companies.json",
		AIInvestors:         "ai_investors.json",
	}
	files := map[string]string{
		stores.Portfolio: `{"companies": [
			{"company": "Foo AB", "sector": "Software", "market": "Sweden", "source": "Acme"},
			{"company": "Bar Oy", "sector": "Retail", "market": "Finland", "source": "Acme"},
			{"company": "Baz AS", "sector": "Energy", "market": "Norway", "source": "Other"}
		]}`,
		stores.News: `{"articles": [
			{"title": "Merger announced", "description": "Two software firms combine"},
			{"title": "Quarterly report", "description": "Results beat expectations"}
		]}`,
		stores.FamilyOffices: `{"family_offices": [
			{"name": "Wallenberg Foundations", "founding_family": "Wallenberg", "investment_focus": ["Industrials", "Healthcare"]},
			{"name": "Stena Sessan", "founding_family": "Olsson", "investment_focus": "Real Estate"}
		]}`,
		stores.InvestmentCompanies: `{"investment_companies": [
			{"name": "Investor AB", "holdings": ["Atlas Copco", "ABB"], "investment_focus": ["Industrials"]},
			{"name": "Latour", "holdings": ["Assa Abloy"], "investment_focus": ["Industrials"]}
		]}`,
		stores.AICompanies: `{"ai_companies": [
			{"name": "Lovable", "category": "Unicorn", "technology": ["LLM"], "investors": ["Creandum"]},
			{"name": "Einride", "category": "Autonomous", "technology": ["Computer Vision"], "investors": ["Y Combinator"]}
		]}`,
		stores.AIInvestors: `{"investors": [
			{"name": "Creandum", "type": "VC", "hq": "Stockholm", "notable_investments": ["Spotify", "Lovable"]}
		]}`,
	}
	for file, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644))
	}

	st := store.New(stores, logger.NewNoOpLogger())
	st.Load(context.Background())
	return NewHandler(LoadConfig(), st, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	tests := []struct {
		name       string
		collection store.Collection
		query      string
		wantCount  int
		wantTotal  int
	}{
		{"empty query returns portfolio", store.Portfolio, "", 3, 3},
		{"portfolio by market", store.Portfolio, "finland", 1, 3},
		{"portfolio by sector is case insensitive", store.Portfolio, "SOFT", 1, 3},
		{"portfolio ignores source", store.Portfolio, "acme", 0, 3},
		{"news by description", store.News, "software", 1, 2},
		{"news empty query", store.News, "", 2, 2},
		{"family office list focus", store.FamilyOffices, "healthcare", 1, 2},
		{"family office string focus", store.FamilyOffices, "real estate", 1, 2},
		{"family office founding family", store.FamilyOffices, "olsson", 1, 2},
		{"investment company holdings", store.InvestmentCompanies, "atlas", 1, 2},
		{"investment company focus", store.InvestmentCompanies, "industrials", 2, 2},
		{"ai company technology", store.AICompanies, "vision", 1, 2},
		{"ai company investors", store.AICompanies, "combinator", 1, 2},
		{"ai investor notable investments", store.AIInvestors, "spotify", 1, 1},
		{"ai investor hq", store.AIInvestors, "stock", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Collection: tt.collection, Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, out.Count)
			assert.Equal(t, tt.wantTotal, out.Total)
		})
	}
}

func TestHandler_Execute_TypedResults(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{Collection: store.Portfolio, Query: "Foo"})
	require.NoError(t, err)

	companies, ok := out.Results.([]models.PortfolioCompany)
	require.True(t, ok)
	require.Len(t, companies, 1)
	assert.Equal(t, "Foo AB", companies[0].Company)
	assert.Equal(t, "foo", out.Query)
}

func TestHandler_Execute_EmptyQueryDoesNotAliasSnapshot(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{Collection: store.Portfolio})
	require.NoError(t, err)

	companies := out.Results.([]models.PortfolioCompany)
	companies[0].Company = "changed"
	assert.Equal(t, "Foo AB", h.state.Snapshot().Portfolio[0].Company)
}

func TestHandler_Execute_Errors(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Collection: store.Firms, Query: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidQuery))

	_, err = h.Execute(context.Background(), nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidQuery))
}
