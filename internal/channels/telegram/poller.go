package telegram

import (
	"context"
	"errors"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
)

// DefaultPollTimeout is the long-poll wait sent to getUpdates.
const DefaultPollTimeout = 30 * time.Second

// PollerConfig wires a Poller.
type PollerConfig struct {
	Timeout time.Duration
	Logger  logging.Logger
	// Backoff builds the wait policy applied after failed polls.
	Backoff func() backoff.BackOff
}

// Poller pulls updates with getUpdates and feeds them to the gateway in
// arrival order.
type Poller struct {
	client       *Client
	gateway      *Gateway
	timeout      time.Duration
	logger       logging.Logger
	buildBackoff func() backoff.BackOff
}

// NewPoller builds a poller.
func NewPoller(client *Client, gateway *Gateway, cfg PollerConfig) *Poller {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	factory := cfg.Backoff
	if factory == nil {
		factory = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = time.Minute
			b.MaxElapsedTime = 0
			return b
		}
	}
	return &Poller{
		client:       client,
		gateway:      gateway,
		timeout:      timeout,
		logger:       logging.OrNop(cfg.Logger),
		buildBackoff: factory,
	}
}

// Run polls until ctx is done. Store failures of single updates are logged
// by the dispatcher and do not stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	wait := p.buildBackoff()
	p.logger.Info("Long polling started (timeout=%s)", p.timeout)

	for {
		if ctx.Err() != nil {
			p.logger.Info("Long polling stopped")
			return nil
		}

		updates, next, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				p.logger.Info("Long polling stopped")
				return nil
			}
			delay := wait.NextBackOff()
			if delay == backoff.Stop {
				return err
			}
			p.logger.Warn("getUpdates failed, retrying in %s: %v", delay, err)
			if !sleep(ctx, delay) {
				p.logger.Info("Long polling stopped")
				return nil
			}
			continue
		}
		wait.Reset()

		for _, upd := range updates {
			_, _ = p.gateway.HandleUpdate(ctx, upd)
		}
		offset = next
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
