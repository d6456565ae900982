package integrityaudit

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

func loadSnapshot(t *testing.T, files map[string]string) *store.Snapshot {
	t.Helper()
	dir := t.TempDir()
	stores := config.StoresConfig{
		DataDir:   dir,
		Firms:     "firms.json",
		Portfolio: "portfolio.json",
		News:      "news.json",
		FirmNews:  "firm_news.json",
	}
	for file, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644))
	}
	st := store.New(stores, logger.NewNoOpLogger())
	st.Load(context.Background())
	return st.Snapshot()
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	snap := loadSnapshot(t, map[string]string{
		"firms.json": `{"pe_firms": {
			"Nordic Capital": {"name": "Nordic Capital"},
			"Altor": {"name": "Altor", "portfolio_companies": [{"name": "Carl"}]},
			"EQT": {"name": "EQT"},
			"Quiet Partners": {"name": "Quiet Partners"}
		}}`,
		"portfolio.json": `{"companies": [
			{"company": "Foo AB", "source": "Nordic Capital"},
			{"company": "Bar Oy", "source": "nordic capital"},
			{"company": "No Source"}
		]}`,
		"news.json": `{"articles": [{"title": "Untagged"}]}`,
		"firm_news.json": `{"news": [
			{"title": "EQT closes fund", "firm": "EQT"},
			{"title": "Ghost deal", "firm": "Ghost Capital"}
		]}`,
	})

	report, err := createTestHandler(t).Execute(context.Background(), snap)
	require.NoError(t, err)

	assert.False(t, report.Valid)
	assert.Equal(t, 4, report.Firms)
	assert.Equal(t, 2, report.DanglingCount())
	assert.Equal(t, CollectionCount{Checked: 2, Untagged: 1, Dangling: 1}, report.Collections["portfolio"])
	assert.Equal(t, CollectionCount{Untagged: 1}, report.Collections["news"])
	assert.Equal(t, CollectionCount{Checked: 2, Dangling: 1}, report.Collections["firm_news"])

	require.Len(t, report.Dangling, 2)
	first := report.Dangling[0]
	assert.Equal(t, "portfolio", first.Collection)
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, "source", first.Field)
	assert.Equal(t, models.FirmRef("nordic capital"), first.Ref)
	assert.Equal(t, "Bar Oy", first.Record)
	assert.Equal(t, "Nordic Capital", first.Suggestion)

	second := report.Dangling[1]
	assert.Equal(t, "firm_news", second.Collection)
	assert.Empty(t, second.Suggestion)

	assert.Equal(t, []string{"Quiet Partners"}, report.Orphans)

	err = Err(report)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDanglingReference))
}

func TestHandler_Execute_Clean(t *testing.T) {
	snap := loadSnapshot(t, map[string]string{
		"firms.json":     `{"pe_firms": {"EQT": {"name": "EQT"}}}`,
		"portfolio.json": `{"companies": [{"company": "IFS", "source": "EQT"}]}`,
	})

	report, err := createTestHandler(t).Execute(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Dangling)
	assert.Empty(t, report.Orphans)
	assert.NoError(t, Err(report))
}

func TestHandler_Execute_TruncatesList(t *testing.T) {
	snap := loadSnapshot(t, map[string]string{
		"firms.json": `{"pe_firms": {}}`,
		"portfolio.json": `{"companies": [
			{"company": "A", "source": "X"},
			{"company": "B", "source": "Y"},
			{"company": "C", "source": "Z"}
		]}`,
	})

	h := NewHandler(&Config{MaxDangling: 2}, logger.NewTestLogger(t))
	report, err := h.Execute(context.Background(), snap)
	require.NoError(t, err)
	assert.Len(t, report.Dangling, 2)
	assert.True(t, report.Truncated)
	assert.Equal(t, 3, report.DanglingCount())
}

func TestHandler_Execute_NilSnapshot(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
