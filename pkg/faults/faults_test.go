package faults

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var (
	errNotFound = errors.New("question not found")
	errThrottle = errors.New("rate limit exceeded")
)

func testHandler(size int) *Handler {
	return NewHandler(nil, size,
		Rule{
			Class:   "not_found",
			Matches: MatchAny(errNotFound),
			Status:  http.StatusNotFound,
			Message: "resource not found",
		},
		Rule{
			Class:     "throttled",
			Matches:   MatchAny(errThrottle),
			Status:    http.StatusTooManyRequests,
			Message:   "too many requests",
			Retryable: true,
		},
		Rule{
			Class:     "storage",
			Matches:   MatchSubstring("connection refused", "deadlock"),
			Status:    http.StatusServiceUnavailable,
			Message:   "storage unavailable",
			Retryable: true,
		},
	)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	h := testHandler(8)

	c := h.Classify(fmt.Errorf("load session: %w", errNotFound))
	if c.Class != "not_found" || c.Status != http.StatusNotFound {
		t.Errorf("unexpected classification: %+v", c)
	}

	c = h.Classify(errThrottle)
	if c.Class != "throttled" || !c.Retryable {
		t.Errorf("unexpected classification: %+v", c)
	}
}

func TestClassifySubstring(t *testing.T) {
	h := testHandler(8)

	c := h.Classify(errors.New("dial tcp 10.0.0.5:3306: Connection Refused"))
	if c.Class != "storage" {
		t.Errorf("Class = %s, want storage", c.Class)
	}
}

func TestClassifyFallback(t *testing.T) {
	h := testHandler(8)

	c := h.Classify(errors.New("totally unexpected"))
	if c.Class != "internal" || c.Status != http.StatusInternalServerError {
		t.Errorf("unexpected fallback: %+v", c)
	}
	if c.Retryable {
		t.Error("fallback must not be retryable")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	h := testHandler(8)

	h.Classify(errNotFound)
	h.Classify(errThrottle)

	got := h.Recent()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Class != "throttled" || got[1].Class != "not_found" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestRingWraps(t *testing.T) {
	h := testHandler(3)

	for i := 0; i < 5; i++ {
		h.Classify(fmt.Errorf("fault %d", i))
	}

	got := h.Recent()
	if len(got) != 3 {
		t.Fatalf("len = %d, want ring size 3", len(got))
	}
	for i, want := range []string{"fault 4", "fault 3", "fault 2"} {
		if got[i].Error != want {
			t.Errorf("got[%d].Error = %s, want %s", i, got[i].Error, want)
		}
	}
}
