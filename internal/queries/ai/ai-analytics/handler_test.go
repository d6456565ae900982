package aianalytics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pe-insights/internal/common/config"
	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/store"
)

func createTestHandler(t *testing.T, body string) *Handler {
	t.Helper()
	dir := t.TempDir()
	stores := config.StoresConfig{DataDir: dir, AICompanies: "ai_companies_database.json"}
	require.NoError(t, os.WriteFile(filepath.Join(dir, stores.AICompanies), []byte(body), 0o644))

	st := store.New(stores, logger.NewNoOpLogger())
	st.Load(context.Background())
	return NewHandler(LoadConfig(), st, nil, logger.NewTestLogger(t))
}

const companiesDoc = `{"ai_companies": [
	{"name": "Lovable", "category": "Unicorn - Dev Tools", "stage": "Series A",
	 "technology": ["LLM", "Code Generation"], "investors": ["Creandum", "Y Combinator W23"]},
	{"name": "Einride", "category": "Autonomous Vehicles", "stage": "Series C",
	 "technology": ["Computer Vision", "LLM"], "investors": ["EQT Ventures"]},
	{"name": "Sana Labs", "category": "EdTech", "technology": ["LLM"]},
	{"name": "Mystery AI"}
], "global_ai_investments": []}`

func TestHandler_ByCategory(t *testing.T) {
	h := createTestHandler(t, companiesDoc)

	out, err := h.ByCategory(context.Background(), "unicorn")
	require.NoError(t, err)
	assert.Equal(t, "unicorn", out.Category)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "Lovable", out.Companies[0].Name)

	out, err = h.ByCategory(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Companies)
}

func TestHandler_ByName(t *testing.T) {
	h := createTestHandler(t, companiesDoc)

	for _, name := range []string{"sana-labs", "Sana_Labs", "SANA LABS"} {
		company, err := h.ByName(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, "Sana Labs", company.Name)
	}

	_, err := h.ByName(context.Background(), "sana")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRecordNotFound))
}

func TestHandler_Analytics(t *testing.T) {
	h := createTestHandler(t, companiesDoc)

	out, err := h.Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalCompanies)
	assert.Equal(t, 1, out.Categories["EdTech"])
	assert.Equal(t, 1, out.Categories["Unknown"])
	assert.Equal(t, 2, out.Stages["Unknown"])
	assert.Equal(t, 1, out.Unicorns)
	assert.Equal(t, 1, out.YCAlumni)

	require.NotEmpty(t, out.TopTechnologies)
	assert.Equal(t, RankedCount{Name: "LLM", Count: 3}, out.TopTechnologies[0])
	assert.Equal(t, "Code Generation", out.TopTechnologies[1].Name, "ties keep first-seen order")
}

func TestHandler_Analytics_TopTechnologiesCapped(t *testing.T) {
	var records []string
	for i := 0; i < 20; i++ {
		records = append(records, fmt.Sprintf(`{"name": "c%d", "technology": ["tech-%02d"]}`, i, i))
	}
	h := createTestHandler(t, `{"ai_companies": [`+strings.Join(records, ",")+`]}`)

	out, err := h.Analytics(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.TopTechnologies, 15)
}

func TestRankedCounts_MarshalKeepsOrder(t *testing.T) {
	data, err := json.Marshal(RankedCounts{{"LLM", 3}, {"Agents", 2}, {"A\"B", 1}})
	require.NoError(t, err)
	assert.Equal(t, `{"LLM":3,"Agents":2,"A\"B":1}`, string(data))

	data, err = json.Marshal(RankedCounts{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
