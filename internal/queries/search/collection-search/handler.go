// internal/queries/search/collection-search/handler.go
package collectionsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/common/observability"
	"pe-insights/internal/store"
)

const QueryName = "collection-search"

type Handler struct {
	config *Config
	state  *store.State
	otel   *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, state *store.State, otel *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		state:  state,
		otel:   otel,
		logger: log.WithFields(map[string]interface{}{"query": QueryName}),
	}
}

// Execute filters one collection. An empty query returns every record;
// otherwise a record matches when the lower-cased query is a substring of
// any configured field.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	output, err := h.execute(input)

	status := "success"
	if err != nil {
		status = string(apperrors.Normalize(err).Code)
	}
	h.otel.RecordQuery(ctx, QueryName, time.Since(start), status)
	return output, err
}

func (h *Handler) execute(input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidQueryError("input cannot be nil")
	}
	fields, ok := h.config.Fields[input.Collection]
	if !ok {
		return nil, apperrors.NewInvalidQueryError(fmt.Sprintf("collection %q is not searchable", input.Collection))
	}

	query := strings.ToLower(input.Query)
	snap := h.state.Snapshot()
	output := &Output{Collection: input.Collection, Query: query}

	switch input.Collection {
	case store.News:
		output.Results, output.Count = filter(snap.News, query, fields, newsField)
		output.Total = len(snap.News)
	case store.FirmNews:
		output.Results, output.Count = filter(snap.FirmNews.News, query, fields, newsField)
		output.Total = len(snap.FirmNews.News)
	case store.Portfolio:
		output.Results, output.Count = filter(snap.Portfolio, query, fields, portfolioField)
		output.Total = len(snap.Portfolio)
	case store.FamilyOffices:
		output.Results, output.Count = filter(snap.FamilyOffices, query, fields, familyOfficeField)
		output.Total = len(snap.FamilyOffices)
	case store.InvestmentCompanies:
		output.Results, output.Count = filter(snap.InvestmentCompanies, query, fields, investmentCompanyField)
		output.Total = len(snap.InvestmentCompanies)
	case store.AICompanies:
		output.Results, output.Count = filter(snap.AICompanies, query, fields, aiCompanyField)
		output.Total = len(snap.AICompanies)
	case store.AIInvestors:
		output.Results, output.Count = filter(snap.AIInvestors, query, fields, aiInvestorField)
		output.Total = len(snap.AIInvestors)
	default:
		return nil, apperrors.NewInvalidQueryError(fmt.Sprintf("collection %q is not searchable", input.Collection))
	}

	h.logger.Debug("search executed", map[string]interface{}{
		"collection": string(input.Collection),
		"query":      query,
		"count":      output.Count,
	})
	return output, nil
}

func filter[T any](records []T, query string, fields []string, value func(T, string) string) ([]T, int) {
	if query == "" {
		out := make([]T, len(records))
		copy(out, records)
		return out, len(out)
	}
	out := make([]T, 0)
	for _, rec := range records {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(value(rec, field)), query) {
				out = append(out, rec)
				break
			}
		}
	}
	return out, len(out)
}
