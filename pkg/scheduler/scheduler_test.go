package scheduler

import (
	"sync"
	"testing"
	"time"

	"minute_empire_server/pkg/logger"
)

// silentLogger :
// Discards every trace, keeping the tests quiet.
type silentLogger struct{}

func (silentLogger) Trace(level logger.Severity, module string, message string) {}

func TestScheduleExecutesDueTasks(t *testing.T) {
	s := NewScheduler(silentLogger{})

	var mu sync.Mutex
	fired := make([]string, 0)
	done := make(chan struct{}, 3)

	record := func(id string) Callback {
		return func(when time.Time) {
			mu.Lock()
			fired = append(fired, id)
			mu.Unlock()
			done <- struct{}{}
		}
	}

	now := time.Now()
	// Insert out of order, all already due: the heap should
	// surface them by completion time.
	if err := s.Schedule("b", now.Add(-1*time.Second), record("b")); err != nil {
		t.Fatalf("Schedule(b) failed: %v", err)
	}
	if err := s.Schedule("a", now.Add(-2*time.Second), record("a")); err != nil {
		t.Fatalf("Schedule(a) failed: %v", err)
	}
	if err := s.Schedule("c", now.Add(-500*time.Millisecond), record("c")); err != nil {
		t.Fatalf("Schedule(c) failed: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer s.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks to execute")
		}
	}

	// Callbacks are spawned in completion-time order. They run
	// concurrently so give the recorder a moment to settle.
	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 3 {
		t.Fatalf("expected 3 executions, got %d", len(fired))
	}
	if s.PendingCount() != 0 {
		t.Errorf("expected empty heap, got %d pending", s.PendingCount())
	}
}

func TestScheduleTieBreakByInsertionOrder(t *testing.T) {
	s := NewScheduler(silentLogger{})

	when := time.Now().Add(-time.Second)
	for _, id := range []string{"first", "second", "third"} {
		if err := s.Schedule(id, when, func(time.Time) {}); err != nil {
			t.Fatalf("Schedule(%s) failed: %v", id, err)
		}
	}

	_, due := s.collectDue()
	if len(due) != 3 {
		t.Fatalf("expected 3 due tasks, got %d", len(due))
	}
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if due[i].id != id {
			t.Errorf("due[%d] = %q, want %q", i, due[i].id, id)
		}
	}
}

func TestCancelRemovesLiveTask(t *testing.T) {
	s := NewScheduler(silentLogger{})

	executed := make(chan string, 2)
	cb := func(id string) Callback {
		return func(time.Time) { executed <- id }
	}

	when := time.Now().Add(-time.Second)
	s.Schedule("keep", when, cb("keep"))
	s.Schedule("drop", when, cb("drop"))

	if !s.Cancel("drop") {
		t.Fatal("Cancel(drop) = false, want true")
	}
	if s.Cancel("drop") {
		t.Error("second Cancel(drop) = true, want false")
	}
	if s.Cancel("unknown") {
		t.Error("Cancel(unknown) = true, want false")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer s.Stop()

	select {
	case id := <-executed:
		if id != "keep" {
			t.Fatalf("executed %q, want \"keep\"", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for surviving task")
	}

	select {
	case id := <-executed:
		t.Fatalf("canceled task %q was executed", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScheduledInstantIsPassedToCallback(t *testing.T) {
	s := NewScheduler(silentLogger{})

	// A task that is long overdue must still receive its
	// original completion time, not the current instant.
	scheduled := time.Now().Add(-10 * time.Minute).Truncate(time.Millisecond)
	got := make(chan time.Time, 1)

	s.Schedule("late", scheduled, func(when time.Time) { got <- when })

	if err := s.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer s.Stop()

	select {
	case when := <-got:
		if !when.Equal(scheduled) {
			t.Errorf("callback instant = %v, want %v", when, scheduled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for late task")
	}
}

func TestStartTwiceFails(t *testing.T) {
	s := NewScheduler(silentLogger{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer s.Stop()

	if err := s.Start(); err != ErrAlreadyRunning {
		t.Errorf("second Start() = %v, want ErrAlreadyRunning", err)
	}
}
