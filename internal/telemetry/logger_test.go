package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockHandler records everything it handles.
type mockHandler struct {
	mu      sync.Mutex
	records []slog.Record
	enabled bool
}

func (h *mockHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.enabled
}

func (h *mockHandler) Handle(ctx context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return nil
}

func (h *mockHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *mockHandler) WithGroup(name string) slog.Handler       { return h }

func TestMultiHandlerFanOut(t *testing.T) {
	a := &mockHandler{enabled: true}
	b := &mockHandler{enabled: true}
	mh := &multiHandler{handlers: []slog.Handler{a, b}}

	logger := slog.New(mh)
	logger.Info("hello", "k", "v")

	assert.Len(t, a.records, 1)
	assert.Len(t, b.records, 1)
	assert.Equal(t, "hello", a.records[0].Message)
}

func TestMultiHandlerEnabled(t *testing.T) {
	a := &mockHandler{enabled: false}
	b := &mockHandler{enabled: true}
	mh := &multiHandler{handlers: []slog.Handler{a, b}}

	// Enabled if any child handler is enabled.
	assert.True(t, mh.Enabled(context.Background(), slog.LevelInfo))

	b.enabled = false
	assert.False(t, mh.Enabled(context.Background(), slog.LevelInfo))
}
