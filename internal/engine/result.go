package engine

// Outcome is the non-error part of the tri-state handler result.
type Outcome int

const (
	OutcomeUnhandled Outcome = iota
	OutcomeHandled
)

func (o Outcome) String() string {
	if o == OutcomeHandled {
		return "handled"
	}
	return "unhandled"
}

// RouteIgnored labels events no handler claimed.
const RouteIgnored = "ignored"

// Result describes how an event was dispatched. A non-nil error returned next
// to it is the third state.
type Result struct {
	Outcome   Outcome
	Route     string
	ClassCode string
	Sends     int
	// SendFailures counts transport errors that were logged and swallowed.
	SendFailures int
	Mutated      bool
}

// Handled reports whether a handler claimed the event.
func (r Result) Handled() bool {
	return r.Outcome == OutcomeHandled
}

func ignored() Result {
	return Result{Outcome: OutcomeUnhandled, Route: RouteIgnored}
}
