package newsdedupe

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
	"pe-insights/internal/store"
	"pe-insights/pkg/datafile"
)

const firmNewsDoc = `{
  "news": [
    {"title": "Nutris acquired by Ratos & Co", "link": "https://x/1", "firm": "Ratos"},
    {"title": "NUTRIS ACQUIRED BY RATOS & CO", "link": "https://x/2", "firm": "Ratos"},
    {"title": "Other headline", "link": "https://x/1"},
    {"title": "No link"},
    {"title": "No link"}
  ],
  "total_news": 5,
  "last_updated": "2024-01-02"
}`

func createTestConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	stores := config.StoresConfig{DataDir: dir, News: "news.json", FirmNews: "pe_news.json"}
	require.NoError(t, os.WriteFile(filepath.Join(dir, stores.FirmNews), []byte(firmNewsDoc), 0o644))
	return &Config{Stores: stores}
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name        string
		byTitle     bool
		wantAfter   int
		wantReasons []string
	}{
		{"by link", false, 4, []string{ReasonLink}},
		{"by link and title", true, 2, []string{ReasonTitle, ReasonLink, ReasonTitle}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig(t)
			h := NewHandler(cfg, nil, logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), &Input{Collection: store.FirmNews, ByTitle: tt.byTitle})
			require.NoError(t, err)

			assert.Equal(t, 5, out.Before)
			assert.Equal(t, tt.wantAfter, out.After)
			assert.True(t, out.Written)

			var reasons []string
			for _, r := range out.Removed {
				reasons = append(reasons, r.Reason)
			}
			assert.Equal(t, tt.wantReasons, reasons)

			doc, err := datafile.Load(out.Path)
			require.NoError(t, err)
			var total int
			_, err = doc.Decode("total_news", &total)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAfter, total)
			assert.Equal(t, "2024-01-02", doc.String("last_updated", ""))

			data, err := os.ReadFile(out.Path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "Ratos & Co")
		})
	}
}

func TestHandler_Execute_DryRun(t *testing.T) {
	cfg := createTestConfig(t)
	h := NewHandler(cfg, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Collection: store.FirmNews, ByTitle: true, DryRun: true})
	require.NoError(t, err)
	assert.Len(t, out.Removed, 3)
	assert.False(t, out.Written)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, firmNewsDoc, string(data))
}

func TestHandler_Execute_ReloadsState(t *testing.T) {
	cfg := createTestConfig(t)
	st := store.New(cfg.Stores, logger.NewNoOpLogger())
	st.Load(context.Background())
	require.Len(t, st.Snapshot().FirmNews.News, 5)

	h := NewHandler(cfg, st, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{Collection: store.FirmNews})
	require.NoError(t, err)

	assert.Len(t, st.Snapshot().FirmNews.News, 4)
	assert.Equal(t, 4, st.Snapshot().FirmNews.TotalNews)
}

func TestHandler_Execute_Errors(t *testing.T) {
	cfg := createTestConfig(t)
	h := NewHandler(cfg, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Collection: store.Portfolio})
	assert.ErrorIs(t, err, ErrUnsupportedCollection)

	_, err = h.Execute(context.Background(), &Input{Collection: store.News})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStoreNotFound))

	_, err = h.Execute(context.Background(), nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidQuery))
}
