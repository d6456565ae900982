// internal/maintenance/store-refresh/handler.go
package storerefresh

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/common/metrics"
	"pe-insights/internal/store"
)

const TaskName = "store-refresh"

var ErrUnknownTarget = errors.New("UNKNOWN_TARGET")

type Handler struct {
	config *Config
	state  *store.State
	runner Runner
	logger logger.Logger

	mu       sync.Mutex
	limiters map[Target]*rate.Limiter
	running  map[Target]bool
}

type Option func(*Handler)

// WithRunner replaces the os/exec runner.
func WithRunner(r Runner) Option {
	return func(h *Handler) { h.runner = r }
}

func NewHandler(config *Config, state *store.State, log logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		config:   config,
		state:    state,
		runner:   execRunner{},
		logger:   log.WithFields(map[string]interface{}{"task": TaskName}),
		limiters: make(map[Target]*rate.Limiter),
		running:  make(map[Target]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute runs the command configured for target, then reloads the
// collections it writes. Without a configured command it only reloads.
// A target runs at most once per MinInterval and never concurrently.
func (h *Handler) Execute(ctx context.Context, target Target) (*Output, error) {
	collections, ok := targetCollections[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}

	if !h.acquire(target) {
		metrics.RefreshRuns.WithLabelValues(string(target), outcomeThrottled).Inc()
		return nil, apperrors.NewRefreshThrottledError(string(target))
	}
	defer h.release(target)

	start := time.Now()
	out := &Output{
		Target:  target,
		Command: h.config.Commands[string(target)],
		Before:  countOf(h.state.Snapshot(), collections),
	}

	if len(out.Command) > 0 {
		h.logger.Info("refresh command started", map[string]interface{}{
			"target":  string(target),
			"command": strings.Join(out.Command, " "),
		})

		runCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
		stdout, stderr, err := h.runner.Run(runCtx, h.config.WorkDir, out.Command)
		cancel()
		out.Output = h.truncate(stdout)
		if err != nil {
			if runCtx.Err() == context.DeadlineExceeded {
				err = fmt.Errorf("timed out after %s: %w", h.config.Timeout, err)
			}
			metrics.RefreshRuns.WithLabelValues(string(target), outcomeFailed).Inc()
			h.logger.Error("refresh command failed", map[string]interface{}{
				"target": string(target),
				"error":  err.Error(),
				"stderr": h.truncate(stderr),
			})
			return nil, apperrors.NewRefreshFailedError(string(target),
				fmt.Errorf("%w: %s", err, strings.TrimSpace(h.truncate(stderr))))
		}
	}

	snap, _, err := h.state.Reload(ctx, collections...)
	out.Reloaded = collections
	out.Version = snap.Version
	out.After = countOf(snap, collections)
	out.Duration = time.Since(start)
	if err != nil {
		metrics.RefreshRuns.WithLabelValues(string(target), outcomeReloadFailed).Inc()
		return out, err
	}

	metrics.RefreshRuns.WithLabelValues(string(target), outcomeSuccess).Inc()
	h.logger.Info("refresh finished", map[string]interface{}{
		"target":   string(target),
		"before":   out.Before,
		"after":    out.After,
		"duration": out.Duration.String(),
	})
	return out, nil
}

func (h *Handler) acquire(target Target) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running[target] {
		return false
	}
	limiter, ok := h.limiters[target]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(h.config.MinInterval), 1)
		h.limiters[target] = limiter
	}
	if h.config.MinInterval > 0 && !limiter.Allow() {
		return false
	}
	h.running[target] = true
	return true
}

func (h *Handler) release(target Target) {
	h.mu.Lock()
	delete(h.running, target)
	h.mu.Unlock()
}

func (h *Handler) truncate(b []byte) string {
	if h.config.MaxOutput > 0 && len(b) > h.config.MaxOutput {
		return string(b[len(b)-h.config.MaxOutput:])
	}
	return string(b)
}

func countOf(snap *store.Snapshot, collections []store.Collection) int {
	n := 0
	for _, c := range collections {
		n += snap.Count(c)
	}
	return n
}
