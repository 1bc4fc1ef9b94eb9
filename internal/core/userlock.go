package core

import "sync"

// userLocks serializes writes per user while leaving different users fully
// parallel. Locks are created lazily and never removed; the per-user cost is
// one mutex.
type userLocks struct {
	locks sync.Map // int64 -> *sync.Mutex
}

// lock acquires the user's mutex and returns the matching unlock func.
func (l *userLocks) lock(userID int64) func() {
	m, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
