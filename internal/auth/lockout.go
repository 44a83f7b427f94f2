package auth

import (
	"sync"
	"time"
)

const (
	// MaxAttempts is the failed-login count at which a username locks.
	MaxAttempts = 5
	// LockWindow is how long a locked username stays rejected after its
	// most recent failure.
	LockWindow = 5 * time.Minute
)

type attemptInfo struct {
	count       int
	lastFailure time.Time
}

// LockoutTracker is an in-process keyed store of failed login attempts per
// username. It is a soft throttle, not a security-grade global rate limiter:
// state is not persisted and not shared between processes.
type LockoutTracker struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	now      func() time.Time
}

func NewLockoutTracker() *LockoutTracker {
	return &LockoutTracker{
		attempts: make(map[string]*attemptInfo),
		now:      time.Now,
	}
}

// Locked reports whether username is currently rejected. The counter is not
// cleared when the window elapses, only on a successful login: a username at
// the threshold gets one attempt after the window, and a failure there
// re-locks it immediately.
func (t *LockoutTracker) Locked(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, ok := t.attempts[username]
	if !ok {
		return false
	}
	return info.count >= MaxAttempts && t.now().Sub(info.lastFailure) < LockWindow
}

// RecordFailure increments the counter for username and stamps the time.
func (t *LockoutTracker) RecordFailure(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, ok := t.attempts[username]
	if !ok {
		info = &attemptInfo{}
		t.attempts[username] = info
	}
	info.count++
	info.lastFailure = t.now()
}

// Reset clears the counter for username after a successful login.
func (t *LockoutTracker) Reset(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, username)
}
