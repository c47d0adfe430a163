package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(quotas map[string]Quota) (*Limiter, *time.Time) {
	l := NewLimiter(quotas)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestAllowDeniesOverQuota(t *testing.T) {
	l, _ := newTestLimiter(map[string]Quota{
		"start-quiz": {Requests: 2, Window: time.Minute},
	})

	if !l.Allow("u1", "start-quiz") {
		t.Fatal("first request must be admitted")
	}
	if !l.Allow("u1", "start-quiz") {
		t.Fatal("second request must be admitted")
	}
	if l.Allow("u1", "start-quiz") {
		t.Fatal("third request inside the window must be denied")
	}
}

func TestWindowSlides(t *testing.T) {
	l, clock := newTestLimiter(map[string]Quota{
		"start-quiz": {Requests: 2, Window: time.Minute},
	})

	l.Allow("u1", "start-quiz")
	*clock = clock.Add(40 * time.Second)
	l.Allow("u1", "start-quiz")

	if l.Allow("u1", "start-quiz") {
		t.Fatal("window still full")
	}

	// The first stamp falls out 61s after it was recorded.
	*clock = clock.Add(21 * time.Second)
	if !l.Allow("u1", "start-quiz") {
		t.Fatal("expected admission after oldest stamp expired")
	}
}

func TestDenialsAreNotRecorded(t *testing.T) {
	l, clock := newTestLimiter(map[string]Quota{
		"feed": {Requests: 1, Window: time.Minute},
	})

	l.Allow("u1", "feed")
	for i := 0; i < 10; i++ {
		l.Allow("u1", "feed")
	}

	*clock = clock.Add(61 * time.Second)
	if !l.Allow("u1", "feed") {
		t.Fatal("denied attempts must not extend the window")
	}
}

func TestUsersAndActionsIsolated(t *testing.T) {
	l, _ := newTestLimiter(map[string]Quota{
		"feed":       {Requests: 1, Window: time.Minute},
		"start-quiz": {Requests: 1, Window: time.Minute},
	})

	l.Allow("u1", "feed")
	if !l.Allow("u2", "feed") {
		t.Fatal("u2 must have its own bucket")
	}
	if !l.Allow("u1", "start-quiz") {
		t.Fatal("actions must have separate buckets")
	}
}

func TestUnconfiguredActionAlwaysAdmitted(t *testing.T) {
	l, _ := newTestLimiter(nil)
	for i := 0; i < 100; i++ {
		if !l.Allow("u1", "anything") {
			t.Fatal("unconfigured actions are unlimited")
		}
	}
	if info := l.Peek("u1", "anything"); info.Remaining != -1 {
		t.Errorf("Remaining = %d, want -1 for unlimited", info.Remaining)
	}
}

func TestPeek(t *testing.T) {
	l, _ := newTestLimiter(map[string]Quota{
		"feed": {Requests: 3, Window: time.Minute},
	})

	l.Allow("u1", "feed")
	l.Allow("u1", "feed")

	info := l.Peek("u1", "feed")
	if info.Used != 2 || info.Limit != 3 || info.Remaining != 1 {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.ResetIn != time.Minute {
		t.Errorf("ResetIn = %v, want 1m", info.ResetIn)
	}

	// Peek is read-only.
	if got := l.Peek("u1", "feed"); got.Used != 2 {
		t.Errorf("Peek must not record, Used = %d", got.Used)
	}
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(map[string]Quota{
		"feed": {Requests: 1, Window: time.Minute},
	})

	l.Allow("u1", "feed")
	l.Allow("u2", "feed")
	l.Reset("u1")

	if !l.Allow("u1", "feed") {
		t.Fatal("reset must clear u1's window")
	}
	if l.Allow("u2", "feed") {
		t.Fatal("reset must not touch other users")
	}
}
