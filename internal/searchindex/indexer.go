// internal/searchindex/indexer.go
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/models"
	"pe-insights/internal/store"
)

// Index mirrors the news and portfolio collections into Elasticsearch and
// serves full-text queries over the news mirror. A nil client disables it.
type Index struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func New(config *Config, client *elasticsearch.Client, log logger.Logger) *Index {
	return &Index{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "searchindex"}),
	}
}

// Enabled reports whether a client is configured.
func (ix *Index) Enabled() bool {
	return ix != nil && ix.client != nil
}

// Observe reindexes every mirrored collection touched by event. It
// implements store.Observer.
func (ix *Index) Observe(ctx context.Context, snap *store.Snapshot, event *store.ReloadEvent) error {
	if !ix.Enabled() {
		return nil
	}

	var failed []string
	for _, o := range event.Outcomes {
		if _, ok := ix.indexFor(o.Collection); !ok {
			continue
		}
		if err := ix.Reindex(ctx, snap, o.Collection); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", o.Collection, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("reindex failed: %s", strings.Join(failed, "; "))
	}
	return nil
}

func (ix *Index) indexFor(c store.Collection) (string, bool) {
	switch c {
	case store.News, store.FirmNews:
		return ix.config.NewsIndex, true
	case store.Portfolio:
		return ix.config.PortfolioIndex, true
	default:
		return "", false
	}
}

// Reindex replaces the documents of c with the records held in snap.
func (ix *Index) Reindex(ctx context.Context, snap *store.Snapshot, c store.Collection) error {
	index, ok := ix.indexFor(c)
	if !ok {
		return fmt.Errorf("collection %s is not mirrored", c)
	}

	ctx, cancel := context.WithTimeout(ctx, ix.config.Timeout)
	defer cancel()

	if err := ix.purge(ctx, index, c); err != nil {
		return err
	}

	body, count, err := bulkBody(index, snap, c)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	res, err := ix.client.Bulk(bytes.NewReader(body),
		ix.client.Bulk.WithContext(ctx),
		ix.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("bulk", res)
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	failures := 0
	for _, item := range parsed.Items {
		for _, r := range item {
			if r.Status >= 300 {
				failures++
			}
		}
	}

	ix.logger.Info("collection indexed", map[string]interface{}{
		"collection": string(c),
		"index":      index,
		"documents":  count,
		"failures":   failures,
		"version":    snap.Version,
	})
	if failures > 0 {
		return fmt.Errorf("%d of %d documents were rejected", failures, count)
	}
	return nil
}

// purge deletes the documents of c. A missing index is not an error.
func (ix *Index) purge(ctx context.Context, index string, c store.Collection) error {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{fieldCollection + ".keyword": string(c)},
		},
	}
	body, _ := json.Marshal(query)

	res, err := ix.client.DeleteByQuery([]string{index}, bytes.NewReader(body),
		ix.client.DeleteByQuery.WithContext(ctx),
		ix.client.DeleteByQuery.WithConflicts("proceed"),
		ix.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError("delete by query", res)
	}
	return nil
}

func bulkBody(index string, snap *store.Snapshot, c store.Collection) ([]byte, int, error) {
	var buf bytes.Buffer
	count := 0

	add := func(id string, record interface{}, publishedAt time.Time) error {
		doc, err := models.ToMap(record)
		if err != nil {
			return err
		}
		doc[fieldCollection] = string(c)
		if !publishedAt.IsZero() {
			doc[fieldPublishedAt] = publishedAt.Format(time.RFC3339)
		}
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": index, "_id": id},
		}
		for _, line := range []interface{}{meta, doc} {
			data, err := json.Marshal(line)
			if err != nil {
				return err
			}
			buf.Write(data)
			buf.WriteByte('\n')
		}
		count++
		return nil
	}

	var articles []models.NewsArticle
	switch c {
	case store.News:
		articles = snap.News
	case store.FirmNews:
		articles = snap.FirmNews.News
	case store.Portfolio:
		for i, p := range snap.Portfolio {
			if err := add(fmt.Sprintf("%s-%d", p.Slug(), i), p, time.Time{}); err != nil {
				return nil, 0, err
			}
		}
	}
	for i, a := range articles {
		if err := add(fmt.Sprintf("%s-%d", c, i), a, a.PublishedAt); err != nil {
			return nil, 0, err
		}
	}
	return buf.Bytes(), count, nil
}

// Search runs a full-text query over the news mirror.
func (ix *Index) Search(ctx context.Context, query string, size int) (*SearchResult, error) {
	if !ix.Enabled() {
		return nil, apperrors.NewIndexUnavailableError(nil)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewInvalidQueryError("query parameter q is required")
	}
	if size <= 0 || size > ix.config.MaxResults {
		size = ix.config.MaxResults
	}

	ctx, cancel := context.WithTimeout(ctx, ix.config.Timeout)
	defer cancel()

	body, _ := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "description", "firm^2", "related_company"},
				"type":   "best_fields",
			},
		},
		"sort": []interface{}{"_score", map[string]interface{}{
			fieldPublishedAt: map[string]interface{}{"order": "desc", "unmapped_type": "date"},
		}},
	})

	res, err := ix.client.Search(
		ix.client.Search.WithContext(ctx),
		ix.client.Search.WithIndex(ix.config.NewsIndex),
		ix.client.Search.WithBody(bytes.NewReader(body)),
		ix.client.Search.WithSize(size),
		ix.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, apperrors.NewIndexUnavailableError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperrors.NewIndexUnavailableError(responseError("search", res))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewIndexUnavailableError(fmt.Errorf("decode search response: %w", err))
	}

	out := &SearchResult{Query: query, Total: parsed.Hits.Total.Value, Hits: make([]Hit, 0, len(parsed.Hits.Hits))}
	for _, h := range parsed.Hits.Hits {
		var article models.NewsArticle
		if err := json.Unmarshal(h.Source, &article); err != nil {
			ix.logger.Warn("unreadable search hit", map[string]interface{}{"id": h.ID, "error": err.Error()})
			continue
		}
		collection := store.Collection(article.Extra.String(fieldCollection))
		delete(article.Extra, fieldCollection)
		delete(article.Extra, fieldPublishedAt)
		out.Hits = append(out.Hits, Hit{ID: h.ID, Score: h.Score, Collection: collection, Article: article})
	}
	return out, nil
}

func responseError(op string, res *esapi.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("%s: %s: %s", op, res.Status(), strings.TrimSpace(string(data)))
}
