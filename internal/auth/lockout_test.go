package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockoutWindowExpires(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	tracker := NewLockoutTracker()
	tracker.now = func() time.Time { return now }

	for i := 0; i < MaxAttempts; i++ {
		tracker.RecordFailure("alice")
	}
	assert.True(t, tracker.Locked("alice"))

	// Just inside the window: still locked.
	now = now.Add(LockWindow - time.Second)
	assert.True(t, tracker.Locked("alice"))

	// Window elapsed: open again.
	now = now.Add(2 * time.Second)
	assert.False(t, tracker.Locked("alice"))
}

func TestLockoutRelocksAfterWindow(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	tracker := NewLockoutTracker()
	tracker.now = func() time.Time { return now }

	for i := 0; i < MaxAttempts; i++ {
		tracker.RecordFailure("alice")
	}

	now = now.Add(LockWindow)
	assert.False(t, tracker.Locked("alice"))

	// The counter survives the window, so one more failure re-locks.
	tracker.RecordFailure("alice")
	assert.True(t, tracker.Locked("alice"))

	// Only a successful login clears it.
	tracker.Reset("alice")
	tracker.RecordFailure("alice")
	assert.False(t, tracker.Locked("alice"))
}

func TestLockoutBelowThreshold(t *testing.T) {
	tracker := NewLockoutTracker()
	for i := 0; i < MaxAttempts-1; i++ {
		tracker.RecordFailure("alice")
	}
	assert.False(t, tracker.Locked("alice"))

	tracker.RecordFailure("alice")
	assert.True(t, tracker.Locked("alice"))
}

func TestLockoutReset(t *testing.T) {
	tracker := NewLockoutTracker()
	for i := 0; i < MaxAttempts; i++ {
		tracker.RecordFailure("alice")
	}
	tracker.Reset("alice")
	assert.False(t, tracker.Locked("alice"))
}

func TestCookieSignerRoundTrip(t *testing.T) {
	signer := NewCookieSigner("test-secret-key")

	token, err := GenerateSessionToken()
	assert.NoError(t, err)

	signed := signer.Sign(token)
	got, ok := signer.Verify(signed)
	assert.True(t, ok)
	assert.Equal(t, token, got)
}

func TestCookieSignerRejectsTampering(t *testing.T) {
	signer := NewCookieSigner("test-secret-key")
	signed := signer.Sign("sometoken")

	_, ok := signer.Verify("othertoken." + signed[len("sometoken."):])
	assert.False(t, ok)

	_, ok = signer.Verify("no-signature-here")
	assert.False(t, ok)

	other := NewCookieSigner("different-secret")
	_, ok = other.Verify(signed)
	assert.False(t, ok)
}
