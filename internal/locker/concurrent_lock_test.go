package locker

import (
	"sync"
	"testing"

	"minute_empire_server/pkg/logger"
)

// silentLogger :
// Logger swallowing every trace during the tests.
type silentLogger struct{}

func (silentLogger) Trace(level logger.Severity, module string, message string) {}

func TestAcquireSharesLockForSameResource(t *testing.T) {
	cl := NewConcurrentLocker(silentLogger{})

	a := cl.Acquire("village-1")
	b := cl.Acquire("village-1")

	if a != b {
		t.Fatalf("Expected both clients of a resource to share one lock")
	}
	if a.use != 2 {
		t.Fatalf("Expected a use count of 2, got %d", a.use)
	}

	cl.Release(a)
	cl.Release(b)

	if len(cl.registered) != 0 {
		t.Fatalf("Expected no registered resource after the last release, got %d", len(cl.registered))
	}
}

func TestAcquireDistinctResourcesUseDistinctLocks(t *testing.T) {
	cl := NewConcurrentLocker(silentLogger{})

	a := cl.Acquire("village-1")
	b := cl.Acquire("village-2")

	if a == b {
		t.Fatalf("Expected distinct resources to be served by distinct locks")
	}

	cl.Release(a)
	cl.Release(b)
}

func TestConcurrentAcquireSerializesSameResource(t *testing.T) {
	cl := NewConcurrentLocker(silentLogger{})

	const clients = 8
	const iterations = 200

	// The counter is only safe if every client of the
	// resource ends up contending on the same lock, even
	// when they all miss the registration table at once.
	counter := 0

	var group sync.WaitGroup
	for c := 0; c < clients; c++ {
		group.Add(1)
		go func() {
			defer group.Done()
			for i := 0; i < iterations; i++ {
				lock := cl.Acquire("village-1")
				lock.Lock()

				counter++

				lock.Release()
				cl.Release(lock)
			}
		}()
	}
	group.Wait()

	if counter != clients*iterations {
		t.Fatalf("Expected %d increments under the lock, got %d", clients*iterations, counter)
	}
	if len(cl.registered) != 0 {
		t.Fatalf("Expected every lock back in the pool, %d resource(s) still registered", len(cl.registered))
	}
	if got := len(cl.availableLocks); got != len(cl.locks) {
		t.Fatalf("Expected %d available locks after the storm, got %d", len(cl.locks), got)
	}
}
