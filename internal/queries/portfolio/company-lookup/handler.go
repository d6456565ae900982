// internal/queries/portfolio/company-lookup/handler.go
package companylookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/common/observability"
	"pe-insights/internal/models"
	"pe-insights/internal/store"
)

const QueryName = "company-lookup"

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

// BySlug finds a portfolio company by its URL slug. An exact slug match
// wins; otherwise the last two dash-separated parts are matched against the
// source and the rest against the company name, both as substrings.
func (h *Handler) BySlug(ctx context.Context, slug string) (*models.PortfolioCompany, error) {
	start := time.Now()
	company, err := h.bySlug(slug)
	h.record(ctx, "by-slug", start, err)
	return company, err
}

func (h *Handler) bySlug(slug string) (*models.PortfolioCompany, error) {
	notFound := apperrors.NewRecordNotFoundError("Company not found", fmt.Sprintf("slug: %s", slug))

	parts := strings.Split(slug, "-")
	if len(parts) < 2 {
		return nil, notFound
	}

	companies := h.state.Snapshot().Portfolio
	want := strings.ToLower(slug)
	for i := range companies {
		if companies[i].Slug() == want {
			c := companies[i]
			return &c, nil
		}
	}

	sourceMatch := strings.ToLower(strings.Join(parts[len(parts)-2:], "-"))
	nameParts := []string{parts[0]}
	if len(parts) > 2 {
		nameParts = parts[:len(parts)-2]
	}
	nameMatch := strings.ToLower(strings.Join(nameParts, " "))

	for i := range companies {
		name := strings.ToLower(companies[i].Company)
		source := strings.ToLower(string(companies[i].Source))
		if strings.Contains(name, nameMatch) && strings.Contains(source, sourceMatch) {
			c := companies[i]
			return &c, nil
		}
	}
	return nil, notFound
}

// Research builds the research view for a company. Records marked enriched
// are mapped field by field; anything else gets the preliminary skeleton.
func (h *Handler) Research(ctx context.Context, name string) (*ResearchOutput, error) {
	start := time.Now()
	output := h.research(name)
	h.record(ctx, "research", start, nil)
	return output, nil
}

func (h *Handler) research(name string) *ResearchOutput {
	var enriched map[string]interface{}
	for _, pc := range h.state.Snapshot().Portfolio {
		if strings.EqualFold(pc.Company, name) {
			if pc.Enriched {
				m, err := models.ToMap(pc)
				if err == nil {
					enriched = m
				}
			}
			break
		}
	}

	if enriched != nil {
		data := map[string]interface{}{
			"company_name": name,
			"data_status":  "enriched",
			"timestamp":    lookup(enriched, []string{"research_date"}, h.config.Now().Format(time.RFC3339)),
		}
		for _, f := range researchFields {
			data[f.key] = lookup(enriched, f.sources, f.empty)
		}
		return &ResearchOutput{
			Company:      name,
			ResearchData: data,
			Source:       SourceEnriched,
			Note:         "Comprehensive researched data from curated database.",
		}
	}

	h.logger.Debug("no enriched data, returning basic structure", map[string]interface{}{"company": name})
	data := map[string]interface{}{
		"company_name": name,
		"timestamp":    h.config.Now().Format(time.RFC3339),
		"overview": fmt.Sprintf("%s is a portfolio company. Detailed information is being researched "+
			"from public sources including company websites, press releases, and industry databases.", name),
		"data_status": "preliminary",
	}
	for _, f := range basicFields {
		data[f.key] = f.empty
	}
	return &ResearchOutput{
		Company:      name,
		ResearchData: data,
		Source:       SourceBasic,
		Note:         "Basic data structure. Run research script to enrich with comprehensive information.",
	}
}

// lookup returns the first present key, or fallback.
func lookup(record map[string]interface{}, keys []string, fallback interface{}) interface{} {
	for _, k := range keys {
		if v, ok := record[k]; ok {
			return v
		}
	}
	return fallback
}

func (h *Handler) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = string(apperrors.Normalize(err).Code)
	}
	h.otel.RecordQuery(ctx, QueryName+"."+op, time.Since(start), status)
}
