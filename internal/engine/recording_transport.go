package engine

import (
	"context"
	"sync"
)

// TransportCall records a single outbound call made through a Transport.
type TransportCall struct {
	Kind    SendKind
	ChatID  int64
	Thread  int64
	Text    string
	FileID  string
	Caption string
}

// RecordingTransport implements Transport by recording all outbound calls
// for later assertion in tests.
type RecordingTransport struct {
	mu    sync.Mutex
	calls []TransportCall

	// NextError, when set, is returned by the next call and then cleared.
	NextError error
	// FailChat makes every send to that chat fail with FailErr.
	FailChat int64
	FailErr  error

	sendCount int64
}

// NewRecordingTransport creates an empty RecordingTransport.
func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{}
}

func (r *RecordingTransport) Send(_ context.Context, kind SendKind, target Target, payload Payload) (Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, TransportCall{
		Kind:    kind,
		ChatID:  target.ChatID,
		Thread:  target.ThreadID,
		Text:    payload.Text,
		FileID:  payload.FileID,
		Caption: payload.Caption,
	})
	if r.NextError != nil {
		err := r.NextError
		r.NextError = nil
		return Delivery{}, err
	}
	if r.FailErr != nil && target.ChatID == r.FailChat {
		return Delivery{}, r.FailErr
	}
	r.sendCount++
	return Delivery{MessageID: r.sendCount}, nil
}

// Calls returns a snapshot of all recorded calls.
func (r *RecordingTransport) Calls() []TransportCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TransportCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsTo returns calls addressed to chatID.
func (r *RecordingTransport) CallsTo(chatID int64) []TransportCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []TransportCall
	for _, c := range r.calls {
		if c.ChatID == chatID {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears all recorded calls.
func (r *RecordingTransport) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.sendCount = 0
}
