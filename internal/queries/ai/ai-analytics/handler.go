// internal/queries/ai/ai-analytics/handler.go
package aianalytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/common/observability"
	"pe-insights/internal/models"
	"pe-insights/internal/store"
)

const QueryName = "ai-analytics"

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

// ByCategory returns the AI companies whose category contains category,
// ignoring case.
func (h *Handler) ByCategory(ctx context.Context, category string) (*CategoryOutput, error) {
	start := time.Now()
	defer h.record(ctx, "by-category", start, nil)

	want := strings.ToLower(category)
	out := &CategoryOutput{Category: category, Companies: make([]models.AICompany, 0)}
	for _, c := range h.state.Snapshot().AICompanies {
		if strings.Contains(strings.ToLower(c.Category), want) {
			out.Companies = append(out.Companies, c)
		}
	}
	out.Count = len(out.Companies)
	return out, nil
}

// ByName finds an AI company from its URL form, where '-' and '_' stand
// for spaces. Matching ignores case.
func (h *Handler) ByName(ctx context.Context, urlName string) (*models.AICompany, error) {
	start := time.Now()
	name := strings.NewReplacer("-", " ", "_", " ").Replace(urlName)

	for _, c := range h.state.Snapshot().AICompanies {
		if strings.EqualFold(c.Name, name) {
			h.record(ctx, "by-name", start, nil)
			company := c
			return &company, nil
		}
	}
	err := apperrors.NewRecordNotFoundError("Company not found", fmt.Sprintf("name: %s", name))
	h.record(ctx, "by-name", start, err)
	return nil, err
}

// Analytics summarizes the AI company collection.
func (h *Handler) Analytics(ctx context.Context) (*Analytics, error) {
	start := time.Now()
	defer h.record(ctx, "analytics", start, nil)

	companies := h.state.Snapshot().AICompanies
	out := &Analytics{
		TotalCompanies: len(companies),
		Categories:     make(map[string]int),
		Stages:         make(map[string]int),
	}

	techCounts := make(map[string]int)
	var techOrder []string
	for _, c := range companies {
		out.Categories[orUnknown(c.Category)]++
		out.Stages[orUnknown(c.Stage)]++

		for _, tech := range c.Technology {
			if _, seen := techCounts[tech]; !seen {
				techOrder = append(techOrder, tech)
			}
			techCounts[tech]++
		}

		if strings.Contains(c.Category, h.config.UnicornMarker) {
			out.Unicorns++
		}
		if c.Investors.Contains(h.config.YCMarker) {
			out.YCAlumni++
		}
	}

	ranked := make(RankedCounts, 0, len(techOrder))
	for _, tech := range techOrder {
		ranked = append(ranked, RankedCount{Name: tech, Count: techCounts[tech]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > h.config.TopTechnologies {
		ranked = ranked[:h.config.TopTechnologies]
	}
	out.TopTechnologies = ranked
	return out, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func (h *Handler) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = string(apperrors.Normalize(err).Code)
	}
	h.otel.RecordQuery(ctx, QueryName+"."+op, time.Since(start), status)
}
