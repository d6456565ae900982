// internal/queries/firms/firm-detail/cache.go
package firmdetail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pe-insights/internal/common/metrics"
)

// cacheKey scopes a view to the snapshot generation it was computed from, so
// a reload or a restart makes every older entry unreachable.
func (h *Handler) cacheKey(generation, firm string) string {
	return fmt.Sprintf("%sfirm-detail:%s:%s", h.config.CacheKeyPrefix, generation, firm)
}

func (h *Handler) getCached(ctx context.Context, generation, firm string) (*Output, bool) {
	if h.redis == nil || generation == "" {
		return nil, false
	}
	val, err := h.redis.Get(ctx, h.cacheKey(generation, firm)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.FirmDetailCache.WithLabelValues("miss").Inc()
		} else {
			metrics.FirmDetailCache.WithLabelValues("error").Inc()
			h.logger.Warn("firm detail cache read failed", map[string]interface{}{
				"firm":  firm,
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var out Output
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		metrics.FirmDetailCache.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.FirmDetailCache.WithLabelValues("hit").Inc()
	return &out, true
}

func (h *Handler) setCached(ctx context.Context, out *Output) {
	if h.redis == nil || h.config.CacheTTL <= 0 || out.Generation == "" {
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, h.cacheKey(out.Generation, out.Name), data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("firm detail cache write failed", map[string]interface{}{
			"firm":  out.Name,
			"error": err.Error(),
		})
	}
}
