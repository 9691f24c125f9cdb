package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshVenn/openaq-aqi-predictor/internal/observability"
	"github.com/AshVenn/openaq-aqi-predictor/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]pipeline.RawEvent
	index   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]pipeline.RawEvent, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	failKeys map[string]bool
}

func (m *mockTransformer) Transform(_ context.Context, raw pipeline.RawEvent) (pipeline.ScoredEvent, error) {
	if m.failKeys[string(raw.Key)] {
		return pipeline.ScoredEvent{}, errors.New("bad observation")
	}
	return pipeline.ScoredEvent{ID: string(raw.Key)}, nil
}

type mockLoader struct {
	loaded []pipeline.ScoredEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []pipeline.ScoredEvent) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func rawEvent(key string) pipeline.RawEvent {
	return pipeline.RawEvent{
		Key:   []byte(key),
		Value: []byte(`{}`),
		Topic: "raw-observations",
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{batches: [][]pipeline.RawEvent{
		{rawEvent("obs-1"), rawEvent("obs-2")},
	}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "obs-1", ldr.loaded[0].ID)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches — will block
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_PoisonMessageSkippedAndCommitted(t *testing.T) {
	var goodCommitted, badCommitted atomic.Bool

	good := rawEvent("obs-good")
	good.Commit = func(context.Context) error { goodCommitted.Store(true); return nil }
	bad := rawEvent("obs-bad")
	bad.Commit = func(context.Context) error { badCommitted.Store(true); return nil }

	ext := &mockExtractor{batches: [][]pipeline.RawEvent{{bad, good}}}
	tfm := &mockTransformer{failKeys: map[string]bool{"obs-bad": true}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "obs-good", ldr.loaded[0].ID)
	assert.True(t, goodCommitted.Load(), "survivor offset should be committed")
	assert.True(t, badCommitted.Load(), "poison offset should be committed so it is not re-read")
}

func TestPipeline_Run_LoadErrorLeavesNotReady(t *testing.T) {
	ext := &mockExtractor{batches: [][]pipeline.RawEvent{
		{rawEvent("obs-1")},
	}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var commitCalled atomic.Bool

	raw := rawEvent("obs-5")
	raw.Commit = func(context.Context) error {
		commitCalled.Store(true)
		return nil
	}

	ext := &mockExtractor{batches: [][]pipeline.RawEvent{{raw}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.True(t, commitCalled.Load())
}
