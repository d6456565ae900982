package database

import (
	"context"
	"time"
)

// Pinger is implemented by every backend client.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings each backend with a per-backend timeout and returns the
// failures keyed by backend name. An empty map means everything answered.
func CheckAll(ctx context.Context, timeout time.Duration, backends ...Pinger) map[string]string {
	failures := make(map[string]string)
	for _, b := range backends {
		if b == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := b.Ping(pingCtx); err != nil {
			failures[b.Name()] = err.Error()
		}
		cancel()
	}
	return failures
}
