package game

import (
	"sort"
	"time"

	"minute_empire_server/internal/model"
)

// Accrual of resources: the stock of a village is only
// materialized at its `ResUpdateAt` checkpoint and is
// advanced lazily whenever an up-to-date view is needed.
// Production is piecewise constant: rates and capacities
// only change when a construction task completes, so the
// window to advance is cut at each such completion and
// integrated segment by segment.

// Advance :
// Brings the resource stock of the input village from
// its checkpoint to the `target` instant. Unprocessed
// construction tasks completing within the window and
// affecting the production rates or the storage
// capacities are applied in chronological order, each
// one closing an integration segment. Tasks without
// such an effect are left untouched for their own
// completion handling.
//
// The stock of each resource is clamped at the storage
// capacity in force during each segment. A stock
// already above capacity is preserved but does not
// grow.
//
// Advancing to an instant at or before the checkpoint
// is a no-op.
//
// The `v` defines the village to advance. It is
// modified in place.
//
// The `target` defines the instant to advance to.
//
// Returns the errors of the tasks whose mutation
// contradicted the state of the village. Such tasks are
// consumed anyway so that they are not retried forever,
// but the caller should log what was skipped.
func Advance(v *Village, target time.Time) []error {
	if !target.After(v.ResUpdateAt) {
		return nil
	}

	var failed []error

	due := dueRateTasks(v, target)

	from := v.ResUpdateAt
	for _, t := range due {
		at := t.CompletionTime
		if at.Before(from) {
			// A stale task from before the checkpoint:
			// apply its mutation without accruing.
			at = from
		}

		accrueSegment(v, from, at)
		if err := v.ApplyConstructionTask(t); err != nil {
			failed = append(failed, err)
		}
		from = at
	}

	accrueSegment(v, from, target)
	v.ResUpdateAt = target

	return failed
}

// dueRateTasks :
// Collects the unprocessed construction tasks of the
// village that complete at or before `target` and
// change its production rates or capacities, sorted
// by completion time then by identifier.
func dueRateTasks(v *Village, target time.Time) []*ConstructionTask {
	due := make([]*ConstructionTask, 0)
	for i := range v.ConstructionTasks {
		t := &v.ConstructionTasks[i]
		if t.Processed || t.CompletionTime.After(target) {
			continue
		}
		if t.affectsProduction() {
			due = append(due, t)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].CompletionTime.Equal(due[j].CompletionTime) {
			return due[i].CompletionTime.Before(due[j].CompletionTime)
		}
		return due[i].ID < due[j].ID
	})

	return due
}

// accrueSegment :
// Integrates the production of the village over a
// window during which its rates and capacities are
// constant, clamping each stock at its capacity.
func accrueSegment(v *Village, from time.Time, to time.Time) {
	if !to.After(from) {
		return
	}

	hours := to.Sub(from).Hours()
	rates := v.ResourceRates()

	for _, kind := range model.ResourceKinds {
		current := v.Resources.Get(kind)
		capacity := v.Capacity(kind)

		next := current + rates[kind]*hours
		if next > capacity {
			if current > capacity {
				next = current
			} else {
				next = capacity
			}
		}

		v.Resources.Set(kind, next)
	}
}
