package core

import (
	"context"
	"sync"
)

// RequestLock serializes turn processing for one session using a
// buffered channel so acquisition can respect context cancellation.
type RequestLock struct {
	sem chan struct{}
}

// NewRequestLock creates an unlocked request lock.
func NewRequestLock() *RequestLock {
	return &RequestLock{
		sem: make(chan struct{}, 1),
	}
}

// LockWithContext attempts to acquire the lock, giving up when ctx
// expires first.
func (c *RequestLock) LockWithContext(ctx context.Context) bool {
	select {
	case c.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Unlock releases the lock.
func (c *RequestLock) Unlock() {
	select {
	case <-c.sem:
	default:
		// already unlocked, avoid panic
	}
}

// requestLocks stores a lock per session key
var requestLocks sync.Map

// GetRequestLock returns the lock for a given key, creating it if
// needed.
func GetRequestLock(key string) *RequestLock {
	if lock, ok := requestLocks.Load(key); ok {
		return lock.(*RequestLock)
	}

	newLock := NewRequestLock()
	actual, _ := requestLocks.LoadOrStore(key, newLock)
	return actual.(*RequestLock)
}

// WithRequestLock acquires the lock for key and runs onSuccess. If the
// lock cannot be acquired before ctx expires, onTimeout runs instead
// (when provided).
func WithRequestLock(ctx context.Context, key string, operation string, onSuccess func(), onTimeout func()) {
	lock := GetRequestLock(key)
	logger := GetLogger()

	logger.Debugw("lock_acquiring", "session", key, "operation", operation)
	if !lock.LockWithContext(ctx) {
		logger.Warnw("lock_timeout", "session", key, "operation", operation)
		if onTimeout != nil {
			onTimeout()
		}
		return
	}
	logger.Debugw("lock_acquired", "session", key, "operation", operation)
	defer func() {
		logger.Debugw("lock_released", "session", key, "operation", operation)
		lock.Unlock()
	}()

	onSuccess()
}
