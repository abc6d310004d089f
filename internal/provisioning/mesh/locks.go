package mesh

import "sync"

// NetworkLocks hands out one mutex per network ID. Route writes into a
// network's route tables hold its lock, so concurrent pairs touching the
// same network do not interleave.
type NetworkLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewNetworkLocks creates an empty lock set.
func NewNetworkLocks() *NetworkLocks {
	return &NetworkLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock of networkID and returns its release function.
func (l *NetworkLocks) Lock(networkID string) func() {
	l.mu.Lock()
	m, ok := l.locks[networkID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[networkID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
