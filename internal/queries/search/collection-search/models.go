// internal/queries/search/collection-search/models.go
package collectionsearch

import "pe-insights/internal/store"

type Input struct {
	Collection store.Collection `json:"collection"`
	Query      string           `json:"query"`
}

// Output carries the matching records as a typed slice of the
// collection's record type.
type Output struct {
	Collection store.Collection `json:"collection"`
	Query      string           `json:"query"`
	Count      int              `json:"count"`
	Total      int              `json:"total"`
	Results    interface{}      `json:"results"`
}
