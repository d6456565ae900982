// internal/queries/firms/firm-detail/handler.go
package firmdetail

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/common/observability"
	"pe-insights/internal/models"
	"pe-insights/internal/store"
)

const QueryName = "firm-detail"

type Handler struct {
	config *Config
	state  *store.State
	redis  *redis.Client
	otel   *observability.Observability
	logger logger.Logger
}

// NewHandler wires the query. redisClient and otel may be nil.
func NewHandler(config *Config, state *store.State, redisClient *redis.Client, otel *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		state:  state,
		redis:  redisClient,
		otel:   otel,
		logger: log.WithFields(map[string]interface{}{"query": QueryName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	output, err := h.execute(ctx, input)

	status := "success"
	if err != nil {
		status = string(apperrors.Normalize(err).Code)
	}
	h.otel.RecordQuery(ctx, QueryName, time.Since(start), status)
	return output, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.FirmName == "" {
		return nil, apperrors.NewInvalidQueryError("firm name is required")
	}

	snap := h.state.Snapshot()
	if cached, ok := h.getCached(ctx, snap.Generation, input.FirmName); ok {
		return cached, nil
	}

	output := h.aggregate(snap, input.FirmName)
	if output == nil {
		h.logger.Debug("firm not found", map[string]interface{}{"firm": input.FirmName})
		return nil, apperrors.NewFirmNotFoundError(input.FirmName)
	}

	h.setCached(ctx, output)
	return output, nil
}

// aggregate joins the firm record, its portfolio and its news. It returns
// nil when the firm has neither a record nor any companies.
func (h *Handler) aggregate(snap *store.Snapshot, name string) *Output {
	firm, found := snap.Firm(name)

	companies := h.companiesFor(snap, name, firm)
	if len(companies) == 0 && !found {
		return nil
	}

	news := h.newsFor(snap, name, companies)
	total := len(news)
	if limit := h.config.maxNews(); len(news) > limit {
		news = news[:limit]
	}

	output := &Output{
		Name:           name,
		Companies:      companies,
		CompanyCount:   len(companies),
		RealNews:       news,
		TotalNewsCount: total,
		Version:        snap.Version,
		Generation:     snap.Generation,
	}
	if found {
		output.Metadata = firm.Metadata()
	}
	return output
}

func (h *Handler) companiesFor(snap *store.Snapshot, name string, firm models.Firm) []models.PortfolioCompany {
	if h.config.embedsPortfolio(name) && len(firm.PortfolioCompanies) > 0 {
		companies := make([]models.PortfolioCompany, 0, len(firm.PortfolioCompanies))
		for _, ec := range firm.PortfolioCompanies {
			companies = append(companies, ec.ToPortfolioCompany(name))
		}
		return companies
	}

	companies := make([]models.PortfolioCompany, 0)
	for _, pc := range snap.Portfolio {
		if pc.Source.Is(name) {
			companies = append(companies, pc)
		}
	}
	return companies
}

// newsFor scans the firm news once. Articles tagged with the firm come in
// as they are; otherwise the first portfolio company named in the title or
// description as a whole word attributes the article. Articles are
// deduplicated by link and returned newest first. A blank or whitespace-only
// firm tag counts as untagged, so such articles may still match by company.
func (h *Handler) newsFor(snap *store.Snapshot, name string, companies []models.PortfolioCompany) []models.NewsArticle {
	news := make([]models.NewsArticle, 0)
	seen := make(map[string]struct{})

	for _, article := range snap.FirmNews.News {
		if _, dup := seen[article.Link]; dup {
			continue
		}

		if !article.Firm.IsZero() && article.Firm.EqualFold(name) {
			news = append(news, article)
			seen[article.Link] = struct{}{}
			continue
		}

		if h.config.ExcludeForeignTagged && !article.Firm.IsZero() {
			continue
		}

		for _, company := range companies {
			if company.Company == "" {
				continue
			}
			if containsWord(article.Title, company.Company) || containsWord(article.Description, company.Company) {
				related := article
				related.RelatedFirm = name
				related.RelatedCompany = company.Company
				news = append(news, related)
				seen[article.Link] = struct{}{}
				break
			}
		}
	}

	sort.SliceStable(news, func(i, j int) bool { return models.Newer(news[i], news[j]) })
	return news
}
