package agent

import "sync"

// KeyedMutex is the per-customer serialization point for postings: two
// concurrent orders for the same customer take turns, orders for
// different customers do not contend. The lock set grows with the
// number of distinct customers seen, which is bounded by the ledger
// size and cheap to hold.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
