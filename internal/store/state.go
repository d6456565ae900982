// internal/store/state.go
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pe-insights/internal/common/config"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/common/metrics"
	"pe-insights/internal/common/observability"
)

// OutcomeUpdated marks a collection changed in memory by Update.
const OutcomeUpdated = "updated"

// Triggers recorded on reload events.
const (
	TriggerStartup = "startup"
	TriggerReload  = "reload"
	TriggerUpdate  = "update"
)

// ReloadEvent describes one snapshot swap.
type ReloadEvent struct {
	ID       string    `json:"id"`
	Trigger  string    `json:"trigger"`
	Version  uint64    `json:"version"`
	At       time.Time `json:"at"`
	Outcomes []Outcome `json:"outcomes"`
}

// Changed lists the collections that were read or updated.
func (e *ReloadEvent) Changed() []Collection {
	var out []Collection
	for _, o := range e.Outcomes {
		if o.OK() {
			out = append(out, o.Collection)
		}
	}
	return out
}

// Failed returns the first failed outcome's error, or nil.
func (e *ReloadEvent) Failed() error {
	for _, o := range e.Outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// Observer is notified after every snapshot swap. Errors are logged and do
// not undo the swap.
type Observer interface {
	Observe(ctx context.Context, snap *Snapshot, event *ReloadEvent) error
}

type Option func(*State)

// WithObservability records load outcomes on the otel meter.
func WithObservability(o *observability.Observability) Option {
	return func(st *State) { st.otel = o }
}

// WithObserver registers an observer. Nil observers are ignored.
func WithObserver(obs Observer) Option {
	return func(st *State) {
		if obs != nil {
			st.observers = append(st.observers, obs)
		}
	}
}

// State owns the current snapshot. Readers call Snapshot and never block;
// writers are serialized.
type State struct {
	stores    config.StoresConfig
	logger    logger.Logger
	otel      *observability.Observability
	observers []Observer

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

func New(stores config.StoresConfig, log logger.Logger, opts ...Option) *State {
	st := &State{
		stores: stores,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
	for _, opt := range opts {
		opt(st)
	}
	st.current.Store(emptySnapshot())
	return st
}

// Snapshot returns the current generation.
func (st *State) Snapshot() *Snapshot {
	return st.current.Load()
}

// Load reads every collection. A collection whose file is missing or
// malformed keeps its prior contents; nothing is returned as an error.
func (st *State) Load(ctx context.Context) *ReloadEvent {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.Snapshot().clone()
	outcomes := make([]Outcome, 0, len(AllCollections))
	for _, c := range AllCollections {
		outcomes = append(outcomes, st.loadCollection(c, next, true))
	}
	return st.swap(ctx, next, TriggerStartup, outcomes)
}

// Reload clears and re-reads the named collections, or all of them when
// none are named, and swaps in the result. Unnamed collections carry over.
// The returned error is the first collection failure; the new snapshot is
// installed regardless, with failed collections left empty.
func (st *State) Reload(ctx context.Context, collections ...Collection) (*Snapshot, *ReloadEvent, error) {
	if len(collections) == 0 {
		collections = AllCollections
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.Snapshot().clone()
	outcomes := make([]Outcome, 0, len(collections))
	for _, c := range collections {
		clearCollection(c, next)
		outcomes = append(outcomes, st.loadCollection(c, next, false))
	}
	event := st.swap(ctx, next, TriggerReload, outcomes)
	return next, event, event.Failed()
}

// Update derives a new snapshot from the current one. fn receives a copy
// and must replace, not modify, any slice or map it changes. If fn fails
// nothing is swapped.
func (st *State) Update(ctx context.Context, c Collection, fn func(next *Snapshot) error) (*Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.Snapshot().clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	st.swap(ctx, next, TriggerUpdate, []Outcome{{
		Collection: c,
		Path:       FileFor(st.stores, c),
		Status:     OutcomeUpdated,
		Records:    next.Count(c),
	}})
	return next, nil
}

func (st *State) swap(ctx context.Context, next *Snapshot, trigger string, outcomes []Outcome) *ReloadEvent {
	prev := st.Snapshot()
	next.Version = prev.Version + 1
	next.Generation = uuid.NewString()
	next.LoadedAt = time.Now().UTC()
	st.current.Store(next)

	event := &ReloadEvent{
		ID:       next.Generation,
		Trigger:  trigger,
		Version:  next.Version,
		At:       next.LoadedAt,
		Outcomes: outcomes,
	}

	for _, o := range outcomes {
		st.record(ctx, next, o)
	}
	for _, obs := range st.observers {
		if err := obs.Observe(ctx, next, event); err != nil {
			st.logger.Warn("snapshot observer failed", map[string]interface{}{
				"version": next.Version,
				"error":   err.Error(),
			})
		}
	}
	return event
}

func (st *State) record(ctx context.Context, snap *Snapshot, o Outcome) {
	metrics.StoreReloads.WithLabelValues(string(o.Collection), o.Status).Inc()
	metrics.StoreRecords.WithLabelValues(string(o.Collection)).Set(float64(snap.Count(o.Collection)))
	st.otel.RecordReload(ctx, string(o.Collection), o.Status)

	fields := map[string]interface{}{
		"collection": string(o.Collection),
		"path":       o.Path,
		"status":     o.Status,
		"version":    snap.Version,
	}
	switch o.Status {
	case OutcomeLoaded, OutcomeUpdated:
		fields["records"] = o.Records
		fields["dropped"] = o.Dropped
		st.logger.Info("collection loaded", fields)
	case OutcomeNotFound:
		st.logger.Warn("store file not found", fields)
	default:
		fields["error"] = o.Err
		st.logger.Error("store file malformed", fields)
	}
}
