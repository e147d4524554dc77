// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// ErrPollerRunning is returned by Start when the poller is already running.
var ErrPollerRunning = errors.New("poller already running")

// Source yields the next held capture, or nil when there is none.
type Source interface {
	Retrieve(ctx context.Context) (*types.Capture, error)
}

// HandlerFunc consumes a delivered capture.
type HandlerFunc func(ctx context.Context, c types.Capture) error

// Outcome describes what a single poll did.
type Outcome int

const (
	// OutcomeEmpty means the relay held nothing.
	OutcomeEmpty Outcome = iota
	// OutcomeDelivered means a capture was handed to the handler.
	OutcomeDelivered
	// OutcomeHandlerFailed means the handler returned an error.
	OutcomeHandlerFailed
	// OutcomeProtocolError means the relay answered but the answer was unusable.
	OutcomeProtocolError
	// OutcomeTransportFailed means the relay was unreachable; the poller stops.
	OutcomeTransportFailed
	// OutcomeDiscarded means the poll finished after the poller was stopped.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeHandlerFailed:
		return "handler-failed"
	case OutcomeProtocolError:
		return "protocol-error"
	case OutcomeTransportFailed:
		return "transport-failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Poller retrieves captures from a Source at a fixed interval and passes
// each one to a handler. Polls never overlap.
type Poller struct {
	src      Source
	handle   HandlerFunc
	interval time.Duration
	logger   *zap.Logger

	tickMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller returns a stopped poller.
func NewPoller(src Source, handle HandlerFunc, cfg types.PollerConfig, logger *zap.Logger) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		src:      src,
		handle:   handle,
		interval: interval,
		logger:   logger,
	}
}

// Start begins polling in the background. The poller runs until ctx is
// cancelled, Stop is called, or the source becomes unreachable. A stopped
// poller can be started again.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return ErrPollerRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	p.logger.Info("poller started", zap.Duration("interval", p.interval))
	go p.run(loopCtx, done)
	return nil
}

// Stop halts polling and waits for the loop to exit. A poll in flight is
// abandoned and its result discarded.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the polling loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}

// Done returns a channel closed when the current loop exits. If the poller
// is not running the channel is already closed.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return p.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Tick performs one retrieve-then-handle cycle. It is serialized with the
// polls the loop makes.
func (p *Poller) Tick(ctx context.Context) Outcome {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	c, err := p.src.Retrieve(ctx)
	if ctx.Err() != nil {
		p.logger.Debug("poll result discarded after stop")
		return OutcomeDiscarded
	}
	if err != nil {
		if IsTransport(err) {
			p.logger.Error("relay unreachable, stopping poller", zap.Error(err))
			p.halt()
			return OutcomeTransportFailed
		}
		p.logger.Warn("relay returned an unusable response", zap.Error(err))
		return OutcomeProtocolError
	}
	if c == nil {
		return OutcomeEmpty
	}

	p.logger.Info("capture retrieved",
		zap.Int64("timestamp", c.Timestamp), zap.String("url", c.URL))
	if err := p.handle(ctx, *c); err != nil {
		p.logger.Error("handling capture", zap.Error(err))
		return OutcomeHandlerFailed
	}
	return OutcomeDelivered
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer p.finish(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.Tick(ctx) == OutcomeTransportFailed {
				return
			}
		}
	}
}

// halt cancels the running loop without waiting for it, so it is safe to
// call from inside a poll.
func (p *Poller) halt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) finish(done chan struct{}) {
	p.mu.Lock()
	if p.done == done {
		p.cancel()
		p.cancel, p.done = nil, nil
	}
	p.mu.Unlock()
	p.logger.Info("poller stopped")
	close(done)
}
