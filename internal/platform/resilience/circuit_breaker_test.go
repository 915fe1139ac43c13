package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, halfOpen int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpen,
	})
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	t.Parallel()

	b, now := newTestBreaker(2, 5*time.Second, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_DisabledIsNil(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected nil breaker to allow, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("unexpected state got=%s want=%s", state, CircuitStateClosed)
	}
}

func TestCircuitBreaker_ExecuteSkipsUncountableErrors(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(1, time.Minute, 1)
	permanent := errors.New("not found")
	onlyTransient := func(err error) bool { return !errors.Is(err, permanent) }

	for i := 0; i < 3; i++ {
		err := b.Execute(func() error { return permanent }, onlyTransient)
		if !errors.Is(err, permanent) {
			t.Fatalf("expected error to pass through, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after uncountable errors, got %s", state)
	}

	_ = b.Execute(func() error { return errors.New("timeout") }, onlyTransient)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after countable failure, got %s", state)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, onlyTransient)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open breaker to reject without calling, err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_HalfOpenProbeLimit(t *testing.T) {
	t.Parallel()

	b, now := newTestBreaker(1, time.Second, 1)
	b.RecordFailure()
	*now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected first probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.release()
	if err := b.Allow(); err != nil {
		t.Fatalf("expected released slot to admit a probe, got %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected failed probe to reopen, got %s", state)
	}
}
