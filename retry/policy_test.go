package retry_test

import (
	"testing"
	"time"

	"github.com/queuectl/queuectl/retry"
)

func TestDelayExponential(t *testing.T) {
	p := retry.New(5, 2)
	cases := map[uint32]time.Duration{
		0: time.Second,
		1: 2 * time.Second,
		2: 4 * time.Second,
		3: 8 * time.Second,
	}
	for attempts, want := range cases {
		got := p.Delay(attempts)
		if got != want {
			t.Fatalf("attempts=%d: expected %v, got %v", attempts, want, got)
		}
	}
}

func TestCanRetry(t *testing.T) {
	p := retry.New(2, 2)
	if !p.CanRetry(0) {
		t.Fatal("expected attempts=0 to be retryable against max_retries=2")
	}
	if !p.CanRetry(1) {
		t.Fatal("expected attempts=1 to be retryable against max_retries=2")
	}
	if p.CanRetry(2) {
		t.Fatal("expected attempts=2 to be exhausted against max_retries=2")
	}
}

func TestDefaultBaseAppliedWhenZero(t *testing.T) {
	p := retry.New(3, 0)
	if p.Base != 2.0 {
		t.Fatalf("expected default base 2.0, got %v", p.Base)
	}
}

func TestNextRetryAtMonotonic(t *testing.T) {
	p := retry.New(5, 2)
	now := time.Now()
	first := p.NextRetryAt(now, 0)
	second := p.NextRetryAt(now, 1)
	if !second.After(first) {
		t.Fatalf("expected next_retry_at to move forward with attempts: %v vs %v", first, second)
	}
}
