// internal/maintenance/store-refresh/models.go
package storerefresh

import (
	"time"

	"pe-insights/internal/store"
)

// Target names an external refresh job.
type Target string

const (
	TargetNews      Target = "news"
	TargetPortfolio Target = "portfolio"
	TargetFirmNews  Target = "firm_news"
)

// targetCollections lists the collections reloaded after each target runs.
var targetCollections = map[Target][]store.Collection{
	TargetNews:      {store.News},
	TargetPortfolio: {store.Portfolio},
	TargetFirmNews:  {store.FirmNews},
}

// ParseTarget maps a name to a known target.
func ParseTarget(name string) (Target, bool) {
	t := Target(name)
	_, ok := targetCollections[t]
	return t, ok
}

type Output struct {
	Target   Target             `json:"target"`
	Command  []string           `json:"command,omitempty"`
	Output   string             `json:"output,omitempty"`
	Duration time.Duration      `json:"duration"`
	Reloaded []store.Collection `json:"reloaded"`
	Before   int                `json:"before"`
	After    int                `json:"after"`
	Version  uint64             `json:"version"`
}

// NewCount is the number of records the run added, never negative.
func (o *Output) NewCount() int {
	if o.After > o.Before {
		return o.After - o.Before
	}
	return 0
}

const (
	outcomeSuccess      = "success"
	outcomeFailed       = "failed"
	outcomeThrottled    = "throttled"
	outcomeReloadFailed = "reload_failed"
)
