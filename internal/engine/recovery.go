package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"minute_empire_server/pkg/logger"
	"minute_empire_server/pkg/scheduler"
)

// pendingItem :
// One task found unprocessed in the store at startup.
//
// The `rank` orders tasks sharing the same completion
// instant: construction tasks go first, then training
// tasks, then troop actions, each group sorted by
// identifier.
type pendingItem struct {
	when time.Time
	rank int
	id   string
	run  scheduler.Callback
}

const (
	constructionRank = 0
	trainingRank     = 1
	actionRank       = 2
)

// recover :
// Rebuilds the scheduling state from the store. Tasks
// whose instant already passed are executed on the
// spot, in chronological order and with their original
// completion instant, so that the resources accrued
// while the process was down land exactly where they
// would have landed with the process awake. Tasks
// still in the future are handed to the scheduler.
//
// Returns any error preventing the scan. Individual
// task failures are logged and skipped, the task will
// be retried at the next startup.
func (e *Engine) recover(ctx context.Context) error {
	pending, err := e.collectPending(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	due := make([]pendingItem, 0)
	upcoming := make([]pendingItem, 0)

	for _, item := range pending {
		if item.when.After(now) {
			upcoming = append(upcoming, item)
		} else {
			due = append(due, item)
		}
	}

	sortPending(due)

	if len(due) > 0 {
		e.trace(logger.Notice, fmt.Sprintf("Catching up on %d overdue task(s)", len(due)))
	}
	for _, item := range due {
		item.run(item.when)
	}

	for _, item := range upcoming {
		e.sched.Schedule(item.id, item.when, item.run)
	}

	e.trace(logger.Notice, fmt.Sprintf("Recovered %d pending task(s), %d executed late", len(pending), len(due)))

	return nil
}

// sortPending :
// Orders a batch of recovered tasks the way the live
// scheduler would have executed them: by completion
// instant, village-owned tasks before troop actions on
// ties, identifiers as the final tie break.
func sortPending(items []pendingItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].when.Equal(items[j].when) {
			return items[i].when.Before(items[j].when)
		}
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		return items[i].id < items[j].id
	})
}

// collectPending :
// Scans the store for every task whose effect has not
// been applied yet: the construction and training
// tasks embedded in the villages plus the standalone
// troop actions.
func (e *Engine) collectPending(ctx context.Context) ([]pendingItem, error) {
	pending := make([]pendingItem, 0)

	villages, err := e.villages.AllVillages(ctx)
	if err != nil {
		return nil, err
	}

	for _, v := range villages {
		villageID := v.ID

		for _, t := range v.ConstructionTasks {
			if t.Processed {
				continue
			}
			taskID := t.ID
			pending = append(pending, pendingItem{
				when: t.CompletionTime,
				rank: constructionRank,
				id:   taskID,
				run: func(when time.Time) {
					e.completeConstruction(villageID, taskID, when)
				},
			})
		}

		for _, t := range v.TroopTrainingTasks {
			if t.Processed {
				continue
			}
			taskID := t.ID
			pending = append(pending, pendingItem{
				when: t.CompletionTime,
				rank: trainingRank,
				id:   taskID,
				run: func(when time.Time) {
					e.completeTraining(villageID, taskID, when)
				},
			})
		}
	}

	actions, err := e.actions.UnprocessedActions(ctx)
	if err != nil {
		return nil, err
	}

	for _, a := range actions {
		actionID := a.ID
		pending = append(pending, pendingItem{
			when: a.CompletionTime,
			rank: actionRank,
			id:   actionID,
			run: func(when time.Time) {
				e.completeAction(actionID, when)
			},
		})
	}

	return pending, nil
}
