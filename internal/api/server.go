// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pe-insights/internal/common/config"
	"pe-insights/internal/common/logger"
	integrityaudit "pe-insights/internal/maintenance/integrity-audit"
	storerefresh "pe-insights/internal/maintenance/store-refresh"
	aianalytics "pe-insights/internal/queries/ai/ai-analytics"
	firmdetail "pe-insights/internal/queries/firms/firm-detail"
	companylookup "pe-insights/internal/queries/portfolio/company-lookup"
	collectionsearch "pe-insights/internal/queries/search/collection-search"
	"pe-insights/internal/reloadlog"
	"pe-insights/internal/searchindex"
	"pe-insights/internal/store"
)

// Deps are the handlers behind the routes. Index and Ledger may be
// disabled; their routes then answer 503.
type Deps struct {
	State      *store.State
	FirmDetail *firmdetail.Handler
	Search     *collectionsearch.Handler
	Companies  *companylookup.Handler
	AI         *aianalytics.Handler
	Audit      *integrityaudit.Handler
	Refresh    *storerefresh.Handler
	Index      *searchindex.Index
	Ledger     *reloadlog.Ledger
}

// Server serves the JSON API.
type Server struct {
	echo   *echo.Echo
	deps   Deps
	config config.ServerConfig
	logger logger.Logger
}

func NewServer(cfg config.ServerConfig, deps Deps, log logger.Logger) (*Server, error) {
	if deps.State == nil {
		return nil, fmt.Errorf("store state is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = config.GetDuration(cfg.ReadTimeout)
	e.Server.WriteTimeout = config.GetDuration(cfg.WriteTimeout)

	s := &Server{
		echo:   e,
		deps:   deps,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "api"}),
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		}))
	}
	e.Use(s.requestLogger)
	e.Use(requestMetrics)

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")

	api.GET("/pe-firms", s.handleListFirms)
	api.GET("/pe-firm/:name", s.handleFirmDetail)

	api.GET("/portfolio", s.handleListPortfolio)
	api.GET("/portfolio/search", s.handleSearchPortfolio)
	api.POST("/portfolio/reload", s.handleReloadPortfolio)
	api.POST("/portfolio/scrape", s.handleScrapePortfolio)
	api.GET("/portfolio/research/:name", s.handleResearch)
	api.GET("/company/:slug", s.handleCompany)

	api.GET("/news", s.handleListNews)
	api.GET("/search", s.handleSearchNews)
	api.DELETE("/news/:index", s.handleDeleteNews)
	api.POST("/scrape", s.handleScrapeNews)
	api.POST("/news/update-real", s.handleUpdateFirmNews)
	api.GET("/news/fulltext", s.handleFullText)
	api.GET("/investment-news", s.handleFirmNews)

	api.GET("/family-offices", s.handleFamilyOffices)
	api.GET("/family-offices/search", s.searchHandler(store.FamilyOffices))
	api.GET("/investment-companies", s.handleInvestmentCompanies)
	api.GET("/investment-companies/search", s.searchHandler(store.InvestmentCompanies))
	api.GET("/ai-companies", s.handleAICompanies)
	api.GET("/ai-companies/search", s.searchHandler(store.AICompanies))
	api.GET("/ai-companies/analytics", s.handleAIAnalytics)
	api.GET("/ai-companies/category/:category", s.handleAICategory)
	api.GET("/ai-companies/:name", s.handleAICompany)
	api.GET("/ai-investors", s.handleAIInvestors)
	api.GET("/ai-investors/search", s.searchHandler(store.AIInvestors))
	api.GET("/ai-educational", s.handleAIEducational)
	api.GET("/deal-flow", s.handleDealFlow)
	api.GET("/fundraising", s.handleFundraising)

	api.GET("/analytics/summary", s.handleSummary)
	api.GET("/integrity", s.handleIntegrity)
	api.GET("/reloads", s.handleReloads)
}

// ServeHTTP lets the server be mounted or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving on the configured address until Shutdown.
func (s *Server) Start() error {
	addr := s.config.Address()
	s.logger.Info("starting api server", map[string]interface{}{"addr": addr})
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server", nil)
	return s.echo.Shutdown(ctx)
}

// success writes a 200 envelope. body may be nil.
func success(c echo.Context, body echo.Map) error {
	out := echo.Map{"success": true}
	for k, v := range body {
		out[k] = v
	}
	return c.JSON(http.StatusOK, out)
}

// nonNil keeps empty result lists serialized as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
