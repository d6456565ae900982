// internal/maintenance/integrity-audit/handler.go
package integrityaudit

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/models"
	"pe-insights/internal/store"
)

const TaskName = "integrity-audit"

var ErrNoSnapshot = errors.New("NO_SNAPSHOT")

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"task": TaskName}),
	}
}

// Execute checks every firm reference of snap against its firm keys.
func (h *Handler) Execute(ctx context.Context, snap *store.Snapshot) (*Report, error) {
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Version:     snap.Version,
		CheckedAt:   time.Now().UTC(),
		Firms:       len(snap.Firms),
		Collections: make(map[string]CollectionCount),
		Dangling:    make([]*models.DanglingReferenceError, 0),
	}
	a := &audit{index: snap.FirmIndex(), limit: h.config.MaxDangling, report: report}

	referenced := make(map[string]bool)
	for i, p := range snap.Portfolio {
		a.check(store.Portfolio, i, "source", p.Source, p.Company, referenced)
	}
	for i, n := range snap.News {
		a.check(store.News, i, "firm", n.Firm, n.Title, referenced)
	}
	for i, n := range snap.FirmNews.News {
		a.check(store.FirmNews, i, "firm", n.Firm, n.Title, referenced)
	}

	a.report.Orphans = make([]string, 0)
	for _, name := range snap.FirmNames() {
		if referenced[name] || len(snap.Firms[name].PortfolioCompanies) > 0 {
			continue
		}
		a.report.Orphans = append(a.report.Orphans, name)
	}

	a.report.Valid = a.report.DanglingCount() == 0
	h.logger.Info("integrity audit finished", map[string]interface{}{
		"version":  snap.Version,
		"dangling": a.report.DanglingCount(),
		"orphans":  len(a.report.Orphans),
	})
	return a.report, nil
}

// Err turns a report with dangling references into a DANGLING_REFERENCE
// error.
func Err(r *Report) error {
	if r == nil || r.Valid {
		return nil
	}
	return apperrors.NewDanglingReferenceError(r.DanglingCount()).
		WithMetadata("collections", r.Collections)
}

type audit struct {
	index  *models.FirmIndex
	limit  int
	report *Report
}

func (a *audit) check(c store.Collection, i int, field string, ref models.FirmRef, record string, referenced map[string]bool) {
	count := a.report.Collections[string(c)]
	defer func() { a.report.Collections[string(c)] = count }()

	if ref.IsZero() {
		count.Untagged++
		return
	}
	count.Checked++

	id, err := a.index.Resolve(ref)
	if err == nil {
		referenced[id.Name()] = true
		return
	}

	count.Dangling++
	var dangling *models.DanglingReferenceError
	if !errors.As(err, &dangling) {
		dangling = &models.DanglingReferenceError{Ref: ref}
	}
	dangling.Collection = string(c)
	dangling.Index = i
	dangling.Field = field
	dangling.Record = record

	if a.limit > 0 && len(a.report.Dangling) >= a.limit {
		a.report.Truncated = true
		return
	}
	a.report.Dangling = append(a.report.Dangling, dangling)
}

func (r *Report) String() string {
	return fmt.Sprintf("version %d: %d firms, %d dangling references, %d orphan firms",
		r.Version, r.Firms, r.DanglingCount(), len(r.Orphans))
}
