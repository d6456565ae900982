package storerefresh

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pe-insights/internal/common/config"
	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/store"
)

// fakeRunner writes body to the target file when run.
type fakeRunner struct {
	mu    sync.Mutex
	path  string
	body  string
	err   error
	block chan struct{}
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, []byte("scraper exploded"), f.err
	}
	if err := os.WriteFile(f.path, []byte(f.body), 0o644); err != nil {
		return nil, nil, err
	}
	return []byte("fetched 2 articles"), nil, nil
}

func createTestHandler(t *testing.T, runner Runner, minInterval time.Duration) (*Handler, config.StoresConfig) {
	t.Helper()
	dir := t.TempDir()
	stores := config.StoresConfig{DataDir: dir, News: "news.json", Portfolio: "portfolio.json"}
	require.NoError(t, os.WriteFile(filepath.Join(dir, stores.News), []byte(`{"articles": [{"title": "a"}]}`), 0o644))

	st := store.New(stores, logger.NewNoOpLogger())
	st.Load(context.Background())

	cfg := &Config{
		Timeout:     time.Second,
		MinInterval: minInterval,
		Commands:    map[string][]string{"news": {"scraper"}},
		WorkDir:     dir,
		MaxOutput:   1024,
	}
	return NewHandler(cfg, st, logger.NewTestLogger(t), WithRunner(runner)), stores
}

func TestHandler_Execute(t *testing.T) {
	runner := &fakeRunner{body: `{"articles": [{"title": "a"}, {"title": "b"}, {"title": "c"}]}`}
	h, stores := createTestHandler(t, runner, 0)
	runner.path = stores.Path(stores.News)

	out, err := h.Execute(context.Background(), TargetNews)
	require.NoError(t, err)

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "fetched 2 articles", out.Output)
	assert.Equal(t, 1, out.Before)
	assert.Equal(t, 3, out.After)
	assert.Equal(t, 2, out.NewCount())
	assert.Equal(t, []store.Collection{store.News}, out.Reloaded)
	assert.Len(t, h.state.Snapshot().News, 3)
}

func TestHandler_Execute_ReloadOnlyWithoutCommand(t *testing.T) {
	runner := &fakeRunner{}
	h, _ := createTestHandler(t, runner, 0)

	_, err := h.Execute(context.Background(), TargetPortfolio)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStoreNotFound))
	assert.Equal(t, 0, runner.calls)
}

func TestHandler_Execute_CommandFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	h, _ := createTestHandler(t, runner, 0)

	_, err := h.Execute(context.Background(), TargetNews)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRefreshFailed))
	assert.Contains(t, apperrors.Normalize(err).Details, "scraper exploded")
	assert.Len(t, h.state.Snapshot().News, 1, "state is untouched when the command fails")
}

func TestHandler_Execute_Throttled(t *testing.T) {
	runner := &fakeRunner{body: `{"articles": []}`}
	h, stores := createTestHandler(t, runner, time.Hour)
	runner.path = stores.Path(stores.News)

	_, err := h.Execute(context.Background(), TargetNews)
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), TargetNews)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRefreshThrottle))
	assert.Equal(t, 1, runner.calls)
}

func TestHandler_Execute_RejectsConcurrentRun(t *testing.T) {
	runner := &fakeRunner{body: `{"articles": []}`, block: make(chan struct{})}
	h, stores := createTestHandler(t, runner, 0)
	runner.path = stores.Path(stores.News)

	done := make(chan error, 1)
	go func() {
		_, err := h.Execute(context.Background(), TargetNews)
		done <- err
	}()

	require.Eventually(t, func() bool {
		runner.mu.Lock()
		defer runner.mu.Unlock()
		return runner.calls == 1
	}, time.Second, 5*time.Millisecond)

	_, err := h.Execute(context.Background(), TargetNews)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRefreshThrottle))

	close(runner.block)
	assert.NoError(t, <-done)
}

func TestHandler_Execute_UnknownTarget(t *testing.T) {
	h, _ := createTestHandler(t, &fakeRunner{}, 0)
	_, err := h.Execute(context.Background(), Target("weather"))
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	stdout, stderr, err := execRunner{}.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "echo out; echo err >&2"})
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(stdout))
	assert.Equal(t, "err\n", string(stderr))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err = execRunner{}.Run(ctx, t.TempDir(), []string{"sh", "-c", "sleep 5"})
	assert.Error(t, err)
}

func TestParseTarget(t *testing.T) {
	target, ok := ParseTarget("firm_news")
	assert.True(t, ok)
	assert.Equal(t, TargetFirmNews, target)

	_, ok = ParseTarget("ai_companies")
	assert.False(t, ok)
}
