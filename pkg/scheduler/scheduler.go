package scheduler

import (
	"container/heap"
	"fmt"
	"sync"
	"time"

	"minute_empire_server/pkg/logger"
)

// Callback :
// Defines the operation executed by the scheduler when a
// task becomes due. The instant passed to the callback is
// the scheduled execution time of the task, not the time
// at which the callback actually runs: completion routines
// rely on this to integrate resources up to the correct
// instant even when the execution is late.
type Callback func(when time.Time)

// task :
// A single entry of the scheduling heap.
//
// The `when` defines the wall-clock instant at which the
// task should be executed.
//
// The `id` identifies the task so that it can be canceled.
//
// The `seq` keeps track of the insertion order and is used
// to break ties between tasks sharing the same instant.
//
// The `run` defines the operation to execute.
type task struct {
	when time.Time
	id   string
	seq  uint64
	run  Callback
}

// taskHeap :
// Implementation of the `heap.Interface` over the pending
// tasks. Tasks are ordered by execution time, ties broken
// by insertion order.
type taskHeap []task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if !h[i].when.Equal(h[j].when) {
		return h[i].when.Before(h[j].when)
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) { *h = append(*h, x.(task)) }

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// pollInterval :
// Longest amount of time the scheduling loop will sleep
// before looking at the heap again. This bounds the delay
// with which a task inserted while the loop is asleep is
// noticed.
const pollInterval = 5 * time.Second

// Scheduler :
// Executes registered callbacks at their scheduled instant.
// The scheduler holds a single min-heap of pending tasks
// ordered by execution time and runs one background loop
// popping due entries. Each due callback is spawned in an
// independent routine so that a slow completion does not
// hold back the rest of the queue.
// Execution is at-most-once: a task popped from the heap
// will never be executed again by this process, and it is
// the responsibility of the callback to check whatever
// persisted flag guards against double application.
//
// The `lock` guards the heap and the cancellation set. It
// is only held for heap operations, never across I/O.
//
// The `tasks` is the pending heap.
//
// The `live` keeps the identifiers of the scheduled tasks
// that have not been canceled. Entries of the heap whose
// identifier is no longer in this map are skipped when
// they reach the top.
//
// The `seq` provides the insertion order counter.
//
// The `running` defines whether the main loop is active.
//
// The `termination` is used to stop the main loop.
//
// The `waiter` allows to wait for the loop to terminate.
//
// The `log` defines a way to notify information and
// failures.
type Scheduler struct {
	lock        sync.Mutex
	tasks       taskHeap
	live        map[string]struct{}
	seq         uint64
	running     bool
	termination chan bool
	waiter      sync.WaitGroup
	log         logger.Logger
}

// ErrAlreadyRunning : Indicates that this scheduler is already started.
var ErrAlreadyRunning = fmt.Errorf("Unable to start already running scheduler")

// ErrInvalidCallback : Indicates that no callback was provided for a task.
var ErrInvalidCallback = fmt.Errorf("Invalid callback provided to scheduler")

// NewScheduler :
// Creates a new scheduler with no pending task. The
// main loop is not started, the caller is expected to
// call `Start` once the startup recovery has been
// performed.
//
// The `log` defines the logger to use.
//
// Returns the built-in object.
func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{
		tasks:       make(taskHeap, 0),
		live:        make(map[string]struct{}),
		termination: make(chan bool, 1),
		log:         log,
	}
}

// Schedule :
// Registers a task to be executed at the specified
// instant. Scheduling a task in the past is allowed:
// it will be picked up by the next iteration of the
// main loop.
//
// The `id` identifies the task for cancellation. In
// case a live task with the same identifier already
// exists both will be executed: identifiers are only
// meant to support cancellation, deduplication is
// the concern of the `processed` flag carried by the
// persisted tasks.
//
// The `when` defines the execution instant.
//
// The `cb` defines the operation to execute.
//
// Returns any error.
func (s *Scheduler) Schedule(id string, when time.Time, cb Callback) error {
	if cb == nil {
		return ErrInvalidCallback
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.seq++
	heap.Push(&s.tasks, task{
		when: when,
		id:   id,
		seq:  s.seq,
		run:  cb,
	})
	s.live[id] = struct{}{}

	s.log.Trace(logger.Debug, "scheduler", fmt.Sprintf("Scheduled task \"%s\" at %s", id, when.UTC().Format(time.RFC3339)))

	return nil
}

// Cancel :
// Removes the task with the specified identifier from
// the pending set. The heap entry itself is removed
// lazily: the identifier is dropped from the live set
// right away and the heap is rebuilt without the dead
// entries, which is linear in the number of pending
// tasks.
//
// The `id` defines the task to cancel.
//
// Returns `true` if a live task was removed.
func (s *Scheduler) Cancel(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.live[id]; !ok {
		return false
	}
	delete(s.live, id)

	// Rebuild the heap without the canceled entries.
	kept := make(taskHeap, 0, len(s.tasks))
	for _, t := range s.tasks {
		if _, ok := s.live[t.id]; ok {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	heap.Init(&s.tasks)

	return true
}

// PendingCount :
// Returns the number of tasks currently scheduled.
func (s *Scheduler) PendingCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.tasks)
}

// Start :
// Starts the main scheduling loop.
//
// Returns any error.
func (s *Scheduler) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	s.running = true
	s.waiter.Add(1)

	go s.activeLoop()

	return nil
}

// Stop :
// Requests the termination of the main loop and waits
// for it to return. Callbacks already spawned are not
// interrupted.
func (s *Scheduler) Stop() {
	s.lock.Lock()
	if !s.running {
		s.lock.Unlock()
		return
	}
	s.running = false
	s.lock.Unlock()

	s.termination <- true
	s.waiter.Wait()
}

// activeLoop :
// Main processing loop for this object. It peeks at the
// earliest pending task and sleeps until either the task
// is due or the poll interval elapses, whichever comes
// first. Due tasks are popped and their callback spawned
// in an independent routine.
func (s *Scheduler) activeLoop() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Trace(logger.Critical, "scheduler", fmt.Sprintf("Recovered from error in scheduling loop (err: %v)", r))
		}
		s.waiter.Done()
	}()

	for {
		wait, due := s.collectDue()

		for _, t := range due {
			go s.execute(t)
		}

		select {
		case <-s.termination:
			return
		case <-time.After(wait):
		}
	}
}

// collectDue :
// Pops every task of the heap that is due at the current
// instant, skipping canceled entries. Also computes how
// long the loop should sleep before the next inspection.
//
// Returns the wait duration and the due tasks in order.
func (s *Scheduler) collectDue() (time.Duration, []task) {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := time.Now()
	due := make([]task, 0)

	for len(s.tasks) > 0 {
		next := s.tasks[0]

		// Skip entries canceled since their insertion.
		if _, ok := s.live[next.id]; !ok {
			heap.Pop(&s.tasks)
			continue
		}

		if next.when.After(now) {
			wait := time.Until(next.when)
			if wait > pollInterval {
				wait = pollInterval
			}
			return wait, due
		}

		heap.Pop(&s.tasks)
		delete(s.live, next.id)
		due = append(due, next)
	}

	return pollInterval, due
}

// execute :
// Runs the callback of the input task with a safety
// net: a panicking callback is logged and does not
// bring the process down. The persisted task stays
// unprocessed in that case and will be retried by
// the startup catch-up of the next run.
//
// The `t` defines the task to execute.
func (s *Scheduler) execute(t task) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Trace(logger.Error, "scheduler", fmt.Sprintf("Task \"%s\" panicked (err: %v)", t.id, r))
		}
	}()

	s.log.Trace(logger.Debug, "scheduler", fmt.Sprintf("Executing task \"%s\"", t.id))

	t.run(t.when)
}
