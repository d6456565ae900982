// internal/maintenance/news-dedupe/models.go
package newsdedupe

import "pe-insights/internal/store"

type Input struct {
	Collection store.Collection
	// ByTitle also drops articles whose lower-cased title was already seen.
	ByTitle bool
	DryRun  bool
}

// Removal is one dropped article.
type Removal struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
	Reason string `json:"reason"`
}

type Output struct {
	Collection store.Collection `json:"collection"`
	Path       string           `json:"path"`
	Before     int              `json:"before"`
	After      int              `json:"after"`
	Removed    []Removal        `json:"removed"`
	Written    bool             `json:"written"`
}

const (
	ReasonLink  = "duplicate link"
	ReasonTitle = "duplicate title"
)
