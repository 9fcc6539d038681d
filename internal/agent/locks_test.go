package agent

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locks := NewKeyedMutex()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.Lock("customer-a")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	locks := NewKeyedMutex()

	// Holding one key must not block another.
	unlockA := locks.Lock("customer-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("customer-b")
		unlockB()
		close(done)
	}()
	<-done
}

func TestKeyedMutexReentryAfterUnlock(t *testing.T) {
	locks := NewKeyedMutex()

	unlock := locks.Lock("customer-a")
	unlock()

	unlock = locks.Lock("customer-a")
	unlock()
}
