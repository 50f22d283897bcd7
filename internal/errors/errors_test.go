package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

func TestClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		transient bool
		permanent bool
	}{
		{name: "nil", err: nil},
		{name: "explicit transient", err: NewTransientError(stderrors.New("x"), ""), transient: true},
		{name: "explicit permanent", err: NewPermanentError(stderrors.New("x"), ""), permanent: true},
		{name: "rate limited", err: statusErr(429), transient: true},
		{name: "server error", err: statusErr(502), transient: true},
		{name: "bad request", err: statusErr(400), permanent: true},
		{name: "forbidden", err: fmt.Errorf("wrapped: %w", statusErr(403)), permanent: true},
		{name: "plain", err: stderrors.New("boom")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.transient {
				t.Fatalf("IsTransient=%v, want %v", got, tc.transient)
			}
			if got := IsPermanent(tc.err); got != tc.permanent {
				t.Fatalf("IsPermanent=%v, want %v", got, tc.permanent)
			}
		})
	}
}

func TestFromHTTPStatus(t *testing.T) {
	err := FromHTTPStatus(stderrors.New("too many"), 429, 3*time.Second)
	if !IsTransient(err) {
		t.Fatal("expected 429 to be transient")
	}
	if RetryAfterOf(err) != 3*time.Second {
		t.Fatalf("expected retry-after to survive, got %v", RetryAfterOf(err))
	}
	if StatusCodeOf(err) != 429 {
		t.Fatalf("expected status 429, got %d", StatusCodeOf(err))
	}
	if !IsPermanent(FromHTTPStatus(stderrors.New("nope"), 400, 0)) {
		t.Fatal("expected 400 to be permanent")
	}
	if FromHTTPStatus(nil, 500, 0) != nil {
		t.Fatal("nil error must stay nil")
	}
}

func TestRetryStopsOnPermanent(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return NewPermanentError(stderrors.New("nope"), "")
	}, nil)
	if err == nil || calls != 1 {
		t.Fatalf("expected single call and error, got calls=%d err=%v", calls, err)
	}
}

func TestRetryRecoversFromTransient(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, NewTransientError(stderrors.New("flaky"), "")
		}
		return 7, nil
	}, nil)
	if err != nil || got != 7 || calls != 3 {
		t.Fatalf("expected success on third call, got %d %v calls=%d", got, err, calls)
	}
}

func TestRetryExhausts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return statusErr(503)
	}, nil)
	if err == nil || calls != 3 {
		t.Fatalf("expected 3 calls and error, got calls=%d err=%v", calls, err)
	}
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, DefaultRetryConfig(), func(context.Context) error { return nil }, nil)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestCalculateBackoffCapped(t *testing.T) {
	cfg := RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	if d := calculateBackoff(10, cfg); d != 5*time.Second {
		t.Fatalf("expected cap, got %v", d)
	}
	if d := calculateBackoff(1, cfg); d != 2*time.Second {
		t.Fatalf("expected 2s, got %v", d)
	}
}

func TestCircuitBreakerLifecycle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var transitions []string
	cb := NewCircuitBreaker("upstream", CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		OnStateChange: func(from, to CircuitState, _ string) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})
	cb.now = func() time.Time { return now }

	failure := stderrors.New("boom")
	cb.Mark(failure)
	cb.Mark(nil)
	cb.Mark(failure)
	if cb.State() != StateClosed {
		t.Fatalf("a success should reset the failure run, state=%s", cb.State())
	}
	cb.Mark(failure)
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	err := cb.Allow()
	if !stderrors.Is(err, ErrCircuitOpen) || !IsTransient(err) {
		t.Fatalf("expected transient open-circuit error, got %v", err)
	}
	if got := RetryAfterOf(err); got != time.Minute {
		t.Fatalf("expected retry after 1m, got %v", got)
	}

	now = now.Add(time.Minute)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected trial request, got %v", err)
	}
	cb.Mark(nil)
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after probe, got %s", cb.State())
	}

	want := "closed>open open>half-open half-open>closed"
	if got := fmt.Sprint(transitions); got != "["+want+"]" {
		t.Fatalf("transitions = %s, want [%s]", got, want)
	}
}
