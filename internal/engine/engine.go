package engine

import (
	"context"
	"fmt"
	"time"

	"minute_empire_server/internal/comm"
	"minute_empire_server/internal/data"
	"minute_empire_server/internal/game"
	"minute_empire_server/internal/locker"
	"minute_empire_server/pkg/logger"
	"minute_empire_server/pkg/scheduler"
)

// Engine :
// Orchestrates the life of the game world: it accepts
// player commands, registers the deferred tasks they
// spawn, executes the completion routines when their
// instant comes and pushes refreshed map views to the
// connected players.
//
// The engine owns no state of its own: everything that
// matters lives in the document store, and the internal
// scheduler is rebuilt from the store at each startup.
//
// The `villages`, `troops`, `actions` and `users` are
// the proxies to the collections of the store.
//
// The `sched` triggers the completion routines.
//
// The `locks` serializes the completions touching the
// same village.
//
// The `registry` pushes frames to connected players.
type Engine struct {
	villages data.VillageProxy
	troops   data.TroopProxy
	actions  data.ActionProxy
	users    data.UserProxy

	sched    *scheduler.Scheduler
	locks    *locker.ConcurrentLocker
	registry *comm.Registry

	log logger.Logger
}

// opTimeout :
// Deadline applied to the store accesses performed by
// the completion routines, which do not inherit any
// request context.
const opTimeout = 10 * time.Second

// NewEngine :
// Creates an engine on top of the input collaborators.
//
// The `villages`, `troops`, `actions` and `users`
// define the accesses to the store.
//
// The `sched` defines the task scheduler. It should
// not be started yet: the engine starts it after the
// startup recovery.
//
// The `locks` defines the per-village serialization.
//
// The `registry` defines the connection registry.
//
// The `log` allows to notify errors and information.
//
// Returns the created engine.
func NewEngine(villages data.VillageProxy, troops data.TroopProxy, actions data.ActionProxy, users data.UserProxy, sched *scheduler.Scheduler, locks *locker.ConcurrentLocker, registry *comm.Registry, log logger.Logger) *Engine {
	return &Engine{
		villages: villages,
		troops:   troops,
		actions:  actions,
		users:    users,
		sched:    sched,
		locks:    locks,
		registry: registry,
		log:      log,
	}
}

// Start :
// Brings the world up to date and starts the internal
// scheduler. The recovery executes every task whose
// instant already passed, in chronological order, and
// registers the rest for later execution, so the
// world state is exactly what it would have been had
// the process never stopped.
//
// Returns any error.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.recover(ctx); err != nil {
		return fmt.Errorf("Unable to recover pending tasks (err: %v)", err)
	}

	return e.sched.Start()
}

// Stop :
// Stops the internal scheduler. Completions already
// started run to their end.
func (e *Engine) Stop() {
	e.sched.Stop()
}

// trace :
// Convenience wrapper around the logger.
func (e *Engine) trace(level logger.Severity, msg string) {
	e.log.Trace(level, "engine", msg)
}

// advance :
// Brings the stock of the input village to the target
// instant and logs every task the advance had to skip
// because its mutation contradicted the village state.
// Skipped tasks are consumed, so each one is reported
// exactly once.
func (e *Engine) advance(v *game.Village, target time.Time) {
	for _, err := range game.Advance(v, target) {
		e.trace(logger.Error, fmt.Sprintf("Skipped corrupt task on village \"%s\" while advancing (err: %v)", v.ID, err))
	}
}

// background :
// Provides the context used by completion routines.
func background() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
