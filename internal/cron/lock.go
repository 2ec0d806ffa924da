package cron

import (
	"context"
	"sync"
)

// Lock coordinates exclusive cron cycles. The store is device-local, so the
// only contention to guard against is overlapping cycles inside this process.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// LocalLock implements Lock with an in-process mutex.
type LocalLock struct {
	mu   sync.Mutex
	held bool
}

// NewLocalLock constructs an in-process lock.
func NewLocalLock() *LocalLock {
	return &LocalLock{}
}

// Acquire takes the lock unless a cycle is still running.
func (l *LocalLock) Acquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

// Release frees the lock.
func (l *LocalLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}
