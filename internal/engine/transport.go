package engine

import (
	"context"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

// SendKind selects the outbound message type.
type SendKind string

const (
	SendText     SendKind = "text"
	SendPhoto    SendKind = "photo"
	SendVideo    SendKind = "video"
	SendDocument SendKind = "document"
)

// SendKindFor maps a stored media kind to the send call that replays it.
// Unknown kinds are sent as documents.
func SendKindFor(kind state.MediaKind) SendKind {
	switch kind {
	case state.MediaPhoto:
		return SendPhoto
	case state.MediaVideo:
		return SendVideo
	default:
		return SendDocument
	}
}

// Target addresses a chat and, optionally, a forum topic inside it.
type Target struct {
	ChatID   int64
	ThreadID int64
}

// Payload carries either Text or a FileID with an optional Caption.
type Payload struct {
	Text    string
	FileID  string
	Caption string
}

// Delivery is what the transport reports for a successful send.
type Delivery struct {
	MessageID int64
}

// Transport delivers outbound messages. Implementations own their retry policy.
type Transport interface {
	Send(ctx context.Context, kind SendKind, target Target, payload Payload) (Delivery, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, kind SendKind, target Target, payload Payload) (Delivery, error)

func (f TransportFunc) Send(ctx context.Context, kind SendKind, target Target, payload Payload) (Delivery, error) {
	return f(ctx, kind, target, payload)
}
