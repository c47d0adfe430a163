package ratelimit

import (
	"sync"
	"time"
)

// Quota caps how many times one user may perform one action inside a
// sliding window.
type Quota struct {
	Requests int
	Window   time.Duration
}

// Info reports the current window state for a user/action pair.
type Info struct {
	Used      int           `json:"used"`
	Limit     int           `json:"limit"`
	Remaining int           `json:"remaining"`
	ResetIn   time.Duration `json:"resetIn"`
}

type bucketKey struct {
	userID string
	action string
}

// Limiter tracks request timestamps per user and action and admits a
// request only while the window has room. An admitted request is recorded
// immediately; a denied one leaves the window untouched.
type Limiter struct {
	mu      sync.Mutex
	quotas  map[string]Quota
	buckets map[bucketKey][]time.Time
	now     func() time.Time
}

func NewLimiter(quotas map[string]Quota) *Limiter {
	if quotas == nil {
		quotas = map[string]Quota{}
	}
	return &Limiter{
		quotas:  quotas,
		buckets: make(map[bucketKey][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether the user may perform the action now. Actions with
// no configured quota are always admitted but never recorded.
func (l *Limiter) Allow(userID, action string) bool {
	quota, ok := l.quotas[action]
	if !ok || quota.Requests <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := bucketKey{userID: userID, action: action}
	now := l.now()
	kept := l.trim(key, now, quota.Window)
	if len(kept) >= quota.Requests {
		return false
	}
	l.buckets[key] = append(kept, now)
	return true
}

// Peek returns the window state without recording a request.
func (l *Limiter) Peek(userID, action string) Info {
	quota, ok := l.quotas[action]
	if !ok || quota.Requests <= 0 {
		return Info{Remaining: -1}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := bucketKey{userID: userID, action: action}
	now := l.now()
	kept := l.trim(key, now, quota.Window)

	info := Info{
		Used:      len(kept),
		Limit:     quota.Requests,
		Remaining: quota.Requests - len(kept),
	}
	if info.Remaining < 0 {
		info.Remaining = 0
	}
	if len(kept) > 0 {
		info.ResetIn = kept[0].Add(quota.Window).Sub(now)
	}
	return info
}

// Reset drops all recorded requests for the user, every action included.
func (l *Limiter) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.buckets {
		if key.userID == userID {
			delete(l.buckets, key)
		}
	}
}

// trim drops timestamps older than the window and returns the survivors.
// Caller holds the mutex. Empty buckets are removed so idle users do not
// accumulate.
func (l *Limiter) trim(key bucketKey, now time.Time, window time.Duration) []time.Time {
	stamps := l.buckets[key]
	cutoff := now.Add(-window)
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	kept := stamps[i:]
	if len(kept) == 0 {
		delete(l.buckets, key)
	} else if i > 0 {
		l.buckets[key] = kept
	}
	return kept
}
