// internal/maintenance/integrity-audit/models.go
package integrityaudit

import (
	"time"

	"pe-insights/internal/models"
)

// CollectionCount tallies the firm references checked in one collection.
type CollectionCount struct {
	Checked  int `json:"checked" yaml:"checked"`
	Untagged int `json:"untagged" yaml:"untagged"`
	Dangling int `json:"dangling" yaml:"dangling"`
}

type Report struct {
	Version     uint64                           `json:"version" yaml:"version"`
	CheckedAt   time.Time                        `json:"checked_at" yaml:"checked_at"`
	Valid       bool                             `json:"valid" yaml:"valid"`
	Firms       int                              `json:"firms" yaml:"firms"`
	Collections map[string]CollectionCount       `json:"collections" yaml:"collections"`
	Dangling    []*models.DanglingReferenceError `json:"dangling" yaml:"dangling"`
	Truncated   bool                             `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Orphans     []string                         `json:"orphan_firms" yaml:"orphan_firms"`
}

// DanglingCount sums dangling references over all collections.
func (r *Report) DanglingCount() int {
	n := 0
	for _, c := range r.Collections {
		n += c.Dangling
	}
	return n
}
