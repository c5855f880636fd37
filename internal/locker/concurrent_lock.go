package locker

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"

	"minute_empire_server/pkg/logger"
)

// ConcurrentLocker :
// Provides a pool of named locks used to serialize the
// completion callbacks touching the same village. Two
// tasks completing for distinct villages may run fully
// in parallel, but two completions on the same village
// must commit one after the other so that the second
// one observes the checkpoint written by the first.
// Creating a mutex per village would never be reclaimed,
// so a bounded pool of locks is distributed instead:
// a lock is associated to a village identifier on
// demand and returned to the pool once its last user
// releases it. When every lock of the pool is assigned
// to a different village, acquiring one for yet another
// village blocks until a lock frees up.
//
// The `locker` protects the assignment tables.
//
// The `locks` is the fixed pool.
//
// The `availableLocks` carries the indices of the locks
// not assigned to any resource.
//
// The `registered` maps a resource name to the index of
// the lock currently serving it.
//
// The `log` allows to notify errors and information.
type ConcurrentLocker struct {
	locker         sync.Mutex
	locks          []*Lock
	availableLocks chan int
	registered     map[string]int
	log            logger.Logger
}

// Lock :
// One entry of the pool. Several clients interested in
// the same resource share the same `Lock` value and
// contend on its internal waiter channel.
//
// The `id` is the index of the lock in the pool, `-1`
// while unassigned.
//
// The `res` names the resource currently served.
//
// The `use` counts the clients holding a reference to
// this lock. The lock returns to the pool when the
// count drops to zero.
//
// The `waiter` holds a single token: taking it locks
// the resource, putting it back releases it.
type Lock struct {
	id     int
	res    string
	use    int
	waiter chan struct{}
}

// configuration :
// Tuning knobs of the locker.
//
// The `LockCount` defines how many distinct resources
// can be locked at the same time before `Acquire`
// becomes blocking. The default value is `10`.
type configuration struct {
	LockCount int
}

// parseConfiguration :
// Fetches the locker configuration from the environment
// and the configuration file provided to the server.
//
// Returns the parsed configuration where all non-set
// properties have their default values.
func parseConfiguration() configuration {
	config := configuration{
		LockCount: 10,
	}

	if viper.IsSet("Concurrent.LockCount") {
		config.LockCount = viper.GetInt("Concurrent.LockCount")
	}

	return config
}

// NewConcurrentLocker :
// Creates a locker with a pool sized according to the
// configuration of the server.
//
// The `log` allows to notify errors and information.
//
// Returns the created locker.
func NewConcurrentLocker(log logger.Logger) *ConcurrentLocker {
	config := parseConfiguration()

	allLocks := make([]*Lock, config.LockCount)
	ids := make(chan int, config.LockCount)

	for id := range allLocks {
		allLocks[id] = &Lock{
			id:     -1,
			res:    "",
			use:    0,
			waiter: make(chan struct{}, 1),
		}
		allLocks[id].waiter <- struct{}{}

		ids <- id
	}

	return &ConcurrentLocker{
		locks:          allLocks,
		availableLocks: ids,
		registered:     make(map[string]int),
		log:            log,
	}
}

// Acquire :
// Provides the lock serving the input resource. If a
// lock is already assigned to this resource its use
// count is increased and the same lock is returned,
// so that every client of the resource contends on a
// single waiter. Otherwise a lock is taken from the
// pool, which blocks when the pool is exhausted.
//
// The returned lock is not locked yet, the caller is
// expected to call `Lock` on it and to hand it back
// through `Release` once done.
//
// The `resource` names the resource to protect, in
// practice a village identifier.
//
// Returns the lock serving the resource.
func (cl *ConcurrentLocker) Acquire(resource string) *Lock {
	var l *Lock

	func() {
		cl.locker.Lock()
		defer cl.locker.Unlock()

		if id, ok := cl.registered[resource]; ok {
			l = cl.locks[id]
			l.use++

			cl.log.Trace(logger.Debug, "locker", fmt.Sprintf("Adding user to resource \"%s\" (id: %d, usage: %d)", l.res, l.id, l.use))
		}
	}()

	if l != nil {
		return l
	}

	// No lock serves this resource yet: fetch one from
	// the pool, blocking until one is available.
	id := <-cl.availableLocks

	cl.locker.Lock()
	defer cl.locker.Unlock()

	// Another client may have assigned a lock to this
	// resource while we were waiting on the pool: two
	// locks serving the same resource would break the
	// serialization, so hand the pool entry back and
	// join the existing lock instead.
	if existing, ok := cl.registered[resource]; ok {
		cl.availableLocks <- id

		l = cl.locks[existing]
		l.use++

		cl.log.Trace(logger.Debug, "locker", fmt.Sprintf("Adding user to resource \"%s\" (id: %d, usage: %d)", l.res, l.id, l.use))

		return l
	}

	cl.registered[resource] = id

	l = cl.locks[id]
	l.id = id
	l.res = resource
	l.use++

	cl.log.Trace(logger.Debug, "locker", fmt.Sprintf("Assigned lock %d to resource \"%s\"", l.id, l.res))

	return l
}

// Release :
// Hands a lock back after use. The lock only returns
// to the pool once its last user released it.
//
// The `lock` defines the lock to release. A `nil`
// value is ignored.
func (cl *ConcurrentLocker) Release(lock *Lock) {
	if lock == nil {
		return
	}

	cl.locker.Lock()
	defer cl.locker.Unlock()

	lock.use--
	if lock.use > 0 {
		return
	}

	delete(cl.registered, lock.res)

	cl.log.Trace(logger.Debug, "locker", fmt.Sprintf("Returning lock %d of resource \"%s\" to the pool", lock.id, lock.res))

	id := lock.id
	lock.id = -1
	lock.res = ""

	cl.availableLocks <- id
}

// Lock :
// Blocks until the resource served by this lock is
// free and takes it.
func (l *Lock) Lock() {
	<-l.waiter
}

// Release :
// Frees the resource served by this lock so that the
// next waiter can take it.
//
// Returns an error in case the lock was not taken.
func (l *Lock) Release() error {
	if len(l.waiter) > 0 {
		return fmt.Errorf("Cannot release lock on resource, seems already released")
	}

	l.waiter <- struct{}{}

	return nil
}
