// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// scriptedSource returns queued results in order, then empty.
type scriptedSource struct {
	mu      sync.Mutex
	results []sourceResult
	calls   int
}

type sourceResult struct {
	capture *types.Capture
	err     error
}

func (s *scriptedSource) Retrieve(context.Context) (*types.Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.results) == 0 {
		return nil, nil
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r.capture, r.err
}

func (s *scriptedSource) push(r ...sourceResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r...)
}

type recorder struct {
	mu  sync.Mutex
	got []types.Capture
	err error
}

func (r *recorder) handle(_ context.Context, c types.Capture) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, c)
	return r.err
}

func (r *recorder) captures() []types.Capture {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Capture(nil), r.got...)
}

var errUnreachable = &TransportError{Op: "retrieve", Err: errors.New("connection refused")}

func newTestPoller(t *testing.T, src Source, rec *recorder, interval time.Duration) *Poller {
	t.Helper()
	return NewPoller(src, rec.handle, types.PollerConfig{Interval: interval}, zaptest.NewLogger(t))
}

func TestPoller_TickOutcomes(t *testing.T) {
	src := &scriptedSource{}
	rec := &recorder{}
	p := newTestPoller(t, src, rec, time.Hour)
	ctx := context.Background()

	assert.Equal(t, OutcomeEmpty, p.Tick(ctx))

	src.push(sourceResult{capture: &types.Capture{Text: "hello"}})
	assert.Equal(t, OutcomeDelivered, p.Tick(ctx))
	require.Len(t, rec.captures(), 1)
	assert.Equal(t, "hello", rec.captures()[0].Text)

	src.push(sourceResult{err: ErrUnexpectedStatus})
	assert.Equal(t, OutcomeProtocolError, p.Tick(ctx))

	rec.err = errors.New("disk full")
	src.push(sourceResult{capture: &types.Capture{Text: "lost"}})
	assert.Equal(t, OutcomeHandlerFailed, p.Tick(ctx))

	src.push(sourceResult{err: errUnreachable})
	assert.Equal(t, OutcomeTransportFailed, p.Tick(ctx))
}

func TestPoller_TickAfterCancelDiscards(t *testing.T) {
	src := &scriptedSource{}
	src.push(sourceResult{capture: &types.Capture{Text: "late"}})
	rec := &recorder{}
	p := newTestPoller(t, src, rec, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, OutcomeDiscarded, p.Tick(ctx))
	assert.Empty(t, rec.captures())
}

func TestPoller_StartStop(t *testing.T) {
	p := newTestPoller(t, &scriptedSource{}, &recorder{}, time.Hour)

	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.Running())
	assert.ErrorIs(t, p.Start(context.Background()), ErrPollerRunning)

	p.Stop()
	assert.False(t, p.Running())
	<-p.Done()

	// Stopping a stopped poller is a no-op.
	p.Stop()
}

func TestPoller_DeliversOnInterval(t *testing.T) {
	src := &scriptedSource{}
	src.push(
		sourceResult{capture: &types.Capture{Text: "one"}},
		sourceResult{capture: &types.Capture{Text: "two"}},
	)
	rec := &recorder{}
	p := newTestPoller(t, src, rec, 5*time.Millisecond)

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool {
		return len(rec.captures()) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "one", rec.captures()[0].Text)
	assert.Equal(t, "two", rec.captures()[1].Text)
	assert.True(t, p.Running())
}

func TestPoller_StopsOnTransportFailureAndRestarts(t *testing.T) {
	src := &scriptedSource{}
	src.push(sourceResult{err: errUnreachable})
	rec := &recorder{}
	p := newTestPoller(t, src, rec, 5*time.Millisecond)

	require.NoError(t, p.Start(context.Background()))

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after transport failure")
	}
	assert.False(t, p.Running())

	src.push(sourceResult{capture: &types.Capture{Text: "after restart"}})
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool {
		return len(rec.captures()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "after restart", rec.captures()[0].Text)
}

func TestPoller_KeepsRunningOnProtocolError(t *testing.T) {
	src := &scriptedSource{}
	src.push(
		sourceResult{err: ErrUnexpectedStatus},
		sourceResult{capture: &types.Capture{Text: "next"}},
	)
	rec := &recorder{}
	p := newTestPoller(t, src, rec, 5*time.Millisecond)

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	require.Eventually(t, func() bool {
		return len(rec.captures()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, p.Running())
}

func TestPoller_DirectTickTransportFailureStopsLoop(t *testing.T) {
	src := &scriptedSource{}
	p := newTestPoller(t, src, &recorder{}, time.Hour)

	require.NoError(t, p.Start(context.Background()))
	src.push(sourceResult{err: errUnreachable})
	assert.Equal(t, OutcomeTransportFailed, p.Tick(context.Background()))

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop kept running after transport failure")
	}
	assert.False(t, p.Running())
}

func TestPoller_ParentContextCancelStops(t *testing.T) {
	p := newTestPoller(t, &scriptedSource{}, &recorder{}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.Start(ctx))
	cancel()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller ignored parent cancellation")
	}
}

func TestPoller_AgainstRelay(t *testing.T) {
	ts := newTestServer(t, defaultRelayConfig())
	c := NewClient(ts.URL, testHTTPConfig())
	rec := &recorder{}
	p := NewPoller(c, rec.handle, types.PollerConfig{Interval: time.Hour}, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.Equal(t, OutcomeEmpty, p.Tick(ctx))

	_, err := c.Submit(ctx, types.CaptureRequest{Text: "hello", URL: "http://x", Title: "T"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeDelivered, p.Tick(ctx))
	assert.Equal(t, OutcomeEmpty, p.Tick(ctx))
	require.Len(t, rec.captures(), 1)
	assert.Equal(t, "T", rec.captures()[0].Title)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "transport-failed", OutcomeTransportFailed.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
