// internal/searchindex/models.go
package searchindex

import (
	"encoding/json"

	"pe-insights/internal/models"
	"pe-insights/internal/store"
)

// Hit is one full-text match.
type Hit struct {
	ID         string             `json:"id"`
	Score      float64            `json:"score"`
	Collection store.Collection   `json:"collection"`
	Article    models.NewsArticle `json:"article"`
}

type SearchResult struct {
	Query string `json:"query"`
	Total int    `json:"total"`
	Hits  []Hit  `json:"hits"`
}

type bulkResponse struct {
	Errors bool                          `json:"errors"`
	Items  []map[string]bulkItemResponse `json:"items"`
}

type bulkItemResponse struct {
	ID     string          `json:"_id"`
	Status int             `json:"status"`
	Error  json.RawMessage `json:"error,omitempty"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  float64         `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Fields added to every indexed document.
const (
	fieldCollection  = "collection"
	fieldPublishedAt = "published_at"
)
