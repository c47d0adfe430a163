package faults

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Classification is the outcome of running an error through the rule
// chain: a stable class name plus what the HTTP layer should say about it.
type Classification struct {
	Class     string `json:"class"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Rule pairs a predicate with the classification it produces. Rules run in
// registration order; the first match wins.
type Rule struct {
	Class     string
	Matches   func(error) bool
	Status    int
	Message   string
	Retryable bool
}

// Record is one classified fault kept in the handler's ring.
type Record struct {
	Class      string    `json:"class"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Handler classifies errors through an ordered rule chain and remembers
// the most recent faults in a bounded ring.
type Handler struct {
	mu     sync.Mutex
	rules  []Rule
	ring   []Record
	size   int
	next   int
	filled bool
	logger *zap.Logger
	now    func() time.Time
}

const fallbackClass = "internal"

// NewHandler builds a handler from the given rules. A catch-all rule is
// appended so every error classifies to something.
func NewHandler(logger *zap.Logger, ringSize int, rules ...Rule) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ringSize <= 0 {
		ringSize = 1
	}
	all := make([]Rule, 0, len(rules)+1)
	all = append(all, rules...)
	all = append(all, Rule{
		Class:   fallbackClass,
		Matches: func(error) bool { return true },
		Status:  http.StatusInternalServerError,
		Message: "something went wrong, please try again",
	})
	return &Handler{
		rules:  all,
		ring:   make([]Record, ringSize),
		size:   ringSize,
		logger: logger,
		now:    time.Now,
	}
}

// Classify runs err through the chain, records it, and logs it at a level
// matching the resulting status.
func (h *Handler) Classify(err error) Classification {
	var c Classification
	for _, r := range h.rules {
		if r.Matches(err) {
			c = Classification{
				Class:     r.Class,
				Status:    r.Status,
				Message:   r.Message,
				Retryable: r.Retryable,
			}
			break
		}
	}

	h.record(err, c.Class)

	fields := []zap.Field{
		zap.String("class", c.Class),
		zap.Error(err),
	}
	if c.Status >= http.StatusInternalServerError {
		h.logger.Error("fault", fields...)
	} else {
		h.logger.Warn("fault", fields...)
	}
	return c
}

// Recent returns the remembered faults, newest first.
func (h *Handler) Recent() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.next
	if h.filled {
		count = h.size
	}
	out := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		idx := (h.next - 1 - i + h.size) % h.size
		out = append(out, h.ring[idx])
	}
	return out
}

func (h *Handler) record(err error, class string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ring[h.next] = Record{
		Class:      class,
		Error:      err.Error(),
		OccurredAt: h.now(),
	}
	h.next++
	if h.next == h.size {
		h.next = 0
		h.filled = true
	}
}

// MatchAny builds a predicate that matches when errors.Is reports any of
// the targets.
func MatchAny(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, t := range targets {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// MatchSubstring builds a predicate on the error text. Useful for driver
// errors that expose no sentinel.
func MatchSubstring(subs ...string) func(error) bool {
	return func(err error) bool {
		msg := strings.ToLower(err.Error())
		for _, s := range subs {
			if strings.Contains(msg, strings.ToLower(s)) {
				return true
			}
		}
		return false
	}
}
