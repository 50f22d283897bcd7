package engine

import (
	"context"
	"strings"
	"time"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/utils/id"
)

// StateRepository is the State Store Adapter the engine consumes.
type StateRepository interface {
	Load(ctx context.Context) (*state.GlobalState, error)
	Save(ctx context.Context, st *state.GlobalState) error
}

// Engine processes one event at a time: load, dispatch, save if mutated,
// then deliver the queued replies. It holds no per-event state and never
// retries.
type Engine struct {
	repo      StateRepository
	transport Transport
	logger    logging.Logger
	now       func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.OrNop(logger)
	}
}

// WithClock overrides the time source used for schedule timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an engine over repo and transport.
func New(repo StateRepository, transport Transport, opts ...Option) *Engine {
	e := &Engine{
		repo:      repo,
		transport: transport,
		logger:    logging.NewComponentLogger("engine"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type outbound struct {
	kind    SendKind
	target  Target
	payload Payload
}

// turn carries the state of one event from load to delivery.
type turn struct {
	st    *state.GlobalState
	ev    Event
	now   time.Time
	dirty bool
	queue []outbound
}

func (t *turn) mutated() {
	t.dirty = true
}

func (t *turn) send(kind SendKind, target Target, payload Payload) {
	t.queue = append(t.queue, outbound{kind: kind, target: target, payload: payload})
}

func (t *turn) reply(text string) {
	t.send(SendText, t.ev.Reply(), Payload{Text: text})
}

func (t *turn) replyFile(kind state.MediaKind, fileID, caption string) {
	t.send(SendKindFor(kind), t.ev.Reply(), Payload{FileID: fileID, Caption: caption})
}

// Handle processes ev. A StoreError is returned when the state could not be
// loaded or saved; in that case no reply is delivered. Transport failures
// are logged and counted in the result.
func (e *Engine) Handle(ctx context.Context, ev Event) (Result, error) {
	ctx, _ = id.EnsureLogID(ctx, id.NewLogID)
	logger := logging.FromContext(ctx, e.logger)

	st, err := e.repo.Load(ctx)
	if err != nil {
		logger.Error("Load state failed: %v", err)
		return ignored(), &StoreError{Op: "load", Err: err}
	}

	t := &turn{st: st, ev: ev, now: e.now()}
	res := e.dispatch(t)

	if t.dirty {
		if err := e.repo.Save(ctx, st); err != nil {
			logger.Error("Save state failed (route=%s class=%s): %v", res.Route, res.ClassCode, err)
			return res, &StoreError{Op: "save", Err: err}
		}
		res.Mutated = true
	}

	for _, out := range t.queue {
		if _, err := e.transport.Send(ctx, out.kind, out.target, out.payload); err != nil {
			res.SendFailures++
			logger.Warn("%v", &TransportError{Kind: out.kind, ChatID: out.target.ChatID, Err: err})
			continue
		}
		res.Sends++
	}
	return res, nil
}

func (e *Engine) dispatch(t *turn) Result {
	if t.ev.HasMedia() {
		return handleMedia(t)
	}
	text := strings.TrimSpace(t.ev.Text)
	if text == "" {
		return ignored()
	}
	if strings.HasPrefix(text, commandMarker) {
		return handleCommand(t, text)
	}
	return handleIntent(t, text)
}
