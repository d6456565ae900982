package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestObservability_RecordsInstruments(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	obs := newWithProvider(provider, "pe-insights-test")
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordQuery(ctx, "firm_detail", 12*time.Millisecond, "success")
	obs.RecordReload(ctx, "portfolio", "loaded")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	assert.True(t, names["queries.executed"])
	assert.True(t, names["queries.duration"])
	assert.True(t, names["store.reloads"])
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordQuery(context.Background(), "q", time.Millisecond, "ok")
		obs.RecordReload(context.Background(), "news", "loaded")
		obs.Shutdown()
	})
	assert.NotPanics(t, func() {
		(&Observability{}).RecordQuery(context.Background(), "q", time.Millisecond, "ok")
	})
}
