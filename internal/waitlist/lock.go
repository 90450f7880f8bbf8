package waitlist

import "sync"

// groupLocks serializes mutations per (service, date) group. The lock is held
// for in-memory bookkeeping only, never across notification dispatch.
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the named group and returns its unlock function
func (g *groupLocks) acquire(key string) func() {
	g.mu.Lock()
	lock, ok := g.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[key] = lock
	}
	g.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
