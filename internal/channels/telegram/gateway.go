package telegram

import (
	"context"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/channels"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
)

// Gateway turns Bot API updates into engine events. Webhook and long-poll
// delivery both go through HandleUpdate.
type Gateway struct {
	dispatcher *channels.Dispatcher
	dedup      *channels.Deduper
	logger     logging.Logger
}

// NewGateway wraps dispatcher. A nil dedup disables redelivery suppression.
func NewGateway(dispatcher *channels.Dispatcher, dedup *channels.Deduper, logger logging.Logger) *Gateway {
	return &Gateway{
		dispatcher: dispatcher,
		dedup:      dedup,
		logger:     logging.OrNop(logger),
	}
}

// HandleUpdate processes one update. Duplicates and updates without a
// usable message report an unhandled result with no error.
func (g *Gateway) HandleUpdate(ctx context.Context, upd Update) (engine.Result, error) {
	key := upd.DedupKey()
	if g.dedup.Seen(key) {
		g.logger.Debug("Skipping duplicate update %s", key)
		return engine.Result{Outcome: engine.OutcomeUnhandled, Route: engine.RouteIgnored}, nil
	}

	ev, ok := ToEvent(upd.EffectiveMessage())
	if !ok {
		g.logger.Debug("Skipping update %s without a message", key)
		return engine.Result{Outcome: engine.OutcomeUnhandled, Route: engine.RouteIgnored}, nil
	}

	res, err := g.dispatcher.Dispatch(ctx, key, ev)
	if err != nil && ctx.Err() != nil {
		// Cancelled before completion; let a redelivery run it again.
		g.dedup.Forget(key)
	}
	return res, err
}
