package core

import (
	"context"
	"testing"
	"time"
)

func TestRequestLockSerializes(t *testing.T) {
	lock := NewRequestLock()

	if !lock.LockWithContext(context.Background()) {
		t.Fatal("first acquisition failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if lock.LockWithContext(ctx) {
		t.Fatal("second acquisition succeeded while locked")
	}

	lock.Unlock()
	if !lock.LockWithContext(context.Background()) {
		t.Fatal("acquisition after unlock failed")
	}
	lock.Unlock()
}

func TestRequestLockDoubleUnlock(t *testing.T) {
	lock := NewRequestLock()
	// Must not panic on an unlocked lock.
	lock.Unlock()
	lock.Unlock()
}

func TestGetRequestLockSameKey(t *testing.T) {
	a := GetRequestLock("lock-test-key")
	b := GetRequestLock("lock-test-key")
	if a != b {
		t.Error("expected the same lock for the same key")
	}
	if a == GetRequestLock("lock-test-other") {
		t.Error("expected distinct locks for distinct keys")
	}
}

func TestWithRequestLockTimeout(t *testing.T) {
	lock := GetRequestLock("lock-test-busy")
	if !lock.LockWithContext(context.Background()) {
		t.Fatal("setup acquisition failed")
	}
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ran := false
	timedOut := false
	WithRequestLock(ctx, "lock-test-busy", "turn",
		func() { ran = true },
		func() { timedOut = true },
	)

	if ran {
		t.Error("operation ran while lock was held elsewhere")
	}
	if !timedOut {
		t.Error("timeout callback never ran")
	}
}
