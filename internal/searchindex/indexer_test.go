package searchindex

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pe-insights/internal/common/config"
	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/store"
)

// fakeES keeps indexed documents in memory and answers the handful of
// endpoints the index uses.
type fakeES struct {
	mu     sync.Mutex
	docs   map[string]map[string]map[string]interface{}
	reject bool
}

func newFakeES(t *testing.T) (*fakeES, *elasticsearch.Client) {
	t.Helper()
	f := &fakeES{docs: make(map[string]map[string]map[string]interface{})}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return f, client
}

func (f *fakeES) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/_delete_by_query"):
		index := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")[0]
		docs, ok := f.docs[index]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"type": "index_not_found_exception"}, "status": 404}`))
			return
		}
		var body struct {
			Query struct {
				Term map[string]string `json:"term"`
			} `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		collection := body.Query.Term["collection.keyword"]
		deleted := 0
		for id, doc := range docs {
			if doc["collection"] == collection {
				delete(docs, id)
				deleted++
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"deleted": deleted})

	case r.URL.Path == "/_bulk":
		scanner := bufio.NewScanner(r.Body)
		scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
		var items []interface{}
		for scanner.Scan() {
			var meta struct {
				Index struct {
					Index string `json:"_index"`
					ID    string `json:"_id"`
				} `json:"index"`
			}
			_ = json.Unmarshal(scanner.Bytes(), &meta)
			scanner.Scan()
			var doc map[string]interface{}
			_ = json.Unmarshal(scanner.Bytes(), &doc)

			status := http.StatusCreated
			if f.reject {
				status = http.StatusBadRequest
			} else {
				if f.docs[meta.Index.Index] == nil {
					f.docs[meta.Index.Index] = make(map[string]map[string]interface{})
				}
				f.docs[meta.Index.Index][meta.Index.ID] = doc
			}
			items = append(items, map[string]interface{}{
				"index": map[string]interface{}{"_id": meta.Index.ID, "status": status},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"errors": f.reject, "items": items})

	case strings.HasSuffix(r.URL.Path, "/_search"):
		index := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")[0]
		var body struct {
			Query struct {
				MultiMatch struct {
					Query string `json:"query"`
				} `json:"multi_match"`
			} `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		q := strings.ToLower(body.Query.MultiMatch.Query)

		var hits []interface{}
		for id, doc := range f.docs[index] {
			title, _ := doc["title"].(string)
			if strings.Contains(strings.ToLower(title), q) {
				hits = append(hits, map[string]interface{}{"_id": id, "_score": 1.5, "_source": doc})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"hits": map[string]interface{}{
				"total": map[string]interface{}{"value": len(hits)},
				"hits":  hits,
			},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}
}

func (f *fakeES) count(index, collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, doc := range f.docs[index] {
		if doc["collection"] == collection {
			n++
		}
	}
	return n
}

func createTestConfig() *Config {
	return &Config{
		NewsIndex:      "pe-news",
		PortfolioIndex: "pe-portfolio",
		Timeout:        2 * time.Second,
		MaxResults:     25,
	}
}

func newTestState(t *testing.T, ix *Index) (*store.State, config.StoresConfig) {
	t.Helper()
	dir := t.TempDir()
	stores := config.StoresConfig{
		DataDir:   dir,
		Portfolio: "portfolio.json",
		News:      "news.json",
		FirmNews:  "firm_news.json",
	}
	files := map[string]string{
		stores.Portfolio: `{"companies": [{"company": "Foo AB", "source": "EQT"}]}`,
		stores.News: `{"articles": [
			{"title": "Acme buys Foo", "date": "2024-01-05"},
			{"title": "Quarterly report", "date": "2024-01-04"}
		]}`,
		stores.FirmNews: `{"news": [{"title": "EQT closes fund", "firm": "EQT", "date": "2024-02-01"}]}`,
	}
	for file, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644))
	}
	return store.New(stores, logger.NewNoOpLogger(), store.WithObserver(ix)), stores
}

func TestIndex_ObserveMirrorsCollections(t *testing.T) {
	fake, client := newFakeES(t)
	ix := New(createTestConfig(), client, logger.NewTestLogger(t))
	st, stores := newTestState(t, ix)

	st.Load(context.Background())

	assert.Equal(t, 2, fake.count("pe-news", "news"))
	assert.Equal(t, 1, fake.count("pe-news", "firm_news"))
	assert.Equal(t, 1, fake.count("pe-portfolio", "portfolio"))

	fake.mu.Lock()
	doc := fake.docs["pe-news"]["news-0"]
	fake.mu.Unlock()
	require.NotNil(t, doc)
	assert.Equal(t, "2024-01-05T00:00:00Z", doc["published_at"])

	require.NoError(t, os.WriteFile(stores.Path(stores.News), []byte(`{"articles": [{"title": "Only one"}]}`), 0o644))
	_, _, err := st.Reload(context.Background(), store.News)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.count("pe-news", "news"))
	assert.Equal(t, 1, fake.count("pe-news", "firm_news"), "other collections in the index are kept")
}

func TestIndex_Search(t *testing.T) {
	_, client := newFakeES(t)
	ix := New(createTestConfig(), client, logger.NewTestLogger(t))
	st, _ := newTestState(t, ix)
	st.Load(context.Background())

	result, err := ix.Search(context.Background(), "eqt", 10)
	require.NoError(t, err)

	assert.Equal(t, "eqt", result.Query)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Hits, 1)
	hit := result.Hits[0]
	assert.Equal(t, store.FirmNews, hit.Collection)
	assert.Equal(t, "EQT closes fund", hit.Article.Title)
	assert.True(t, hit.Article.HasDate())
	assert.NotContains(t, hit.Article.Extra, "collection")
	assert.NotContains(t, hit.Article.Extra, "published_at")

	_, err = ix.Search(context.Background(), "   ", 10)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidQuery))
}

func TestIndex_ReindexReportsRejectedDocuments(t *testing.T) {
	fake, client := newFakeES(t)
	fake.reject = true
	ix := New(createTestConfig(), client, logger.NewTestLogger(t))
	st, _ := newTestState(t, nil)
	st.Load(context.Background())

	err := ix.Reindex(context.Background(), st.Snapshot(), store.News)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 documents were rejected")

	err = ix.Reindex(context.Background(), st.Snapshot(), store.AICompanies)
	assert.Error(t, err)
}

func TestIndex_Disabled(t *testing.T) {
	ix := New(createTestConfig(), nil, logger.NewTestLogger(t))
	assert.False(t, ix.Enabled())

	_, err := ix.Search(context.Background(), "eqt", 10)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIndexUnavailable))

	assert.NoError(t, ix.Observe(context.Background(), nil, &store.ReloadEvent{}))
}
