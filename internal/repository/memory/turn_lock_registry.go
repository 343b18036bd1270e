package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// TurnLockRegistry hands out one mutex per session id so concurrent chat
// turns for the same conversation are serialized in-process. Entries expire
// after idle sessions go quiet; a lock held across the expiry window is kept
// alive by the Set on every acquire.
type TurnLockRegistry struct {
	mu    sync.Mutex
	locks *cache.Cache
}

func NewTurnLockRegistry() *TurnLockRegistry {
	// Default expiration of 1 hour, purge sweep every 10 minutes.
	return &TurnLockRegistry{
		locks: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *TurnLockRegistry) lockFor(sessionId string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.locks.Get(sessionId); found {
		m := x.(*sync.Mutex)
		r.locks.Set(sessionId, m, cache.DefaultExpiration)
		return m
	}
	m := &sync.Mutex{}
	r.locks.Set(sessionId, m, cache.DefaultExpiration)
	return m
}

// Acquire blocks until the session's turn lock is free and returns the
// release function.
func (r *TurnLockRegistry) Acquire(sessionId string) func() {
	m := r.lockFor(sessionId)
	m.Lock()
	return m.Unlock
}
