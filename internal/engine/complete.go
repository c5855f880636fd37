package engine

import (
	"context"
	"fmt"
	"time"

	"minute_empire_server/internal/comm"
	"minute_empire_server/internal/data"
	"minute_empire_server/internal/game"
	"minute_empire_server/internal/model"
	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/logger"
)

// scheduleConstruction :
// Registers the completion routine of a construction
// task with the scheduler.
func (e *Engine) scheduleConstruction(villageID string, task game.ConstructionTask) {
	e.sched.Schedule(task.ID, task.CompletionTime, func(when time.Time) {
		e.completeConstruction(villageID, task.ID, when)
	})
}

// scheduleTraining :
// Registers the completion routine of a training task
// with the scheduler.
func (e *Engine) scheduleTraining(villageID string, task game.TroopTrainingTask) {
	e.sched.Schedule(task.ID, task.CompletionTime, func(when time.Time) {
		e.completeTraining(villageID, task.ID, when)
	})
}

// scheduleAction :
// Registers the completion routine of a troop action
// with the scheduler.
func (e *Engine) scheduleAction(action game.TroopAction) {
	e.sched.Schedule(action.ID, action.CompletionTime, func(when time.Time) {
		e.completeAction(action.ID, when)
	})
}

// completeConstruction :
// Applies the effect of a construction task: reload
// the village, bring its stock to the completion
// instant and perform the mutation if the advance did
// not already consume the task. The processed flag
// makes the routine idempotent: a task already applied
// by a concurrent path or a previous run is a silent
// no-op.
//
// The `when` is the scheduled completion instant, not
// the current time.
func (e *Engine) completeConstruction(villageID string, taskID string, when time.Time) {
	lock := e.locks.Acquire(villageID)
	lock.Lock()
	defer func() {
		lock.Release()
		e.locks.Release(lock)
	}()

	ctx, cancel := background()
	defer cancel()

	v, err := e.villages.Village(ctx, villageID)
	if err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to fetch village \"%s\" to complete task \"%s\" (err: %v)", villageID, taskID, err))
		return
	}

	task := v.ConstructionTaskByID(taskID)
	if task == nil || task.Processed {
		return
	}

	e.advance(&v, when)

	// Tasks that change the production rates are applied
	// by the advance itself; the others are applied here.
	if !task.Processed {
		if err := v.ApplyConstructionTask(task); err != nil {
			// The slot state contradicts the task. The
			// task is consumed anyway so that it is not
			// retried forever.
			e.trace(logger.Error, fmt.Sprintf("Corrupt task \"%s\" on village \"%s\" (err: %v)", taskID, villageID, err))
		}
	}

	if err := e.villages.Save(ctx, v); err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to save village \"%s\" after task \"%s\" (err: %v)", villageID, taskID, err))
		return
	}

	e.notify(ctx, v.OwnerID)
}

// completeTraining :
// Applies the effect of a training task: a brand new
// troop appears at the village's tile. Trained units
// are never merged into an existing troop.
func (e *Engine) completeTraining(villageID string, taskID string, when time.Time) {
	lock := e.locks.Acquire(villageID)
	lock.Lock()
	defer func() {
		lock.Release()
		e.locks.Release(lock)
	}()

	ctx, cancel := background()
	defer cancel()

	v, err := e.villages.Village(ctx, villageID)
	if err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to fetch village \"%s\" to complete training \"%s\" (err: %v)", villageID, taskID, err))
		return
	}

	task := v.TrainingTaskByID(taskID)
	if task == nil || task.Processed {
		return
	}

	e.advance(&v, when)
	task.Processed = true

	troop := game.Troop{
		ID:        data.NewID(),
		OwnerID:   v.OwnerID,
		HomeID:    v.ID,
		Kind:      task.TroopType,
		Quantity:  task.Quantity,
		Location:  v.Location,
		Mode:      game.TroopIdle,
		CreatedAt: when,
		UpdatedAt: when,
	}

	if err := e.villages.Save(ctx, v); err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to save village \"%s\" after training \"%s\" (err: %v)", villageID, taskID, err))
		return
	}
	if err := e.troops.Create(ctx, troop); err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to create troop for training \"%s\" (err: %v)", taskID, err))
		return
	}

	e.notify(ctx, v.OwnerID)
}

// completeAction :
// Applies the effect of a move or attack order: find
// who stands on the target tile, fight if needed, then
// move, steal or deposit depending on the outcome and
// on the village possibly hosted there.
func (e *Engine) completeAction(actionID string, when time.Time) {
	ctx, cancel := background()
	defer cancel()

	action, err := e.actions.Action(ctx, actionID)
	if err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to fetch action \"%s\" (err: %v)", actionID, err))
		return
	}
	if action.Processed {
		return
	}

	troop, err := e.troops.Troop(ctx, action.TroopID)
	if err == db.ErrNoDocument {
		// The troop died between the submission and the
		// completion, nothing left to do.
		e.actions.MarkProcessed(ctx, actionID)
		return
	}
	if err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to fetch troop \"%s\" for action \"%s\" (err: %v)", action.TroopID, actionID, err))
		return
	}

	affected := e.resolveAction(ctx, action, &troop, when)

	if err := e.actions.MarkProcessed(ctx, actionID); err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to mark action \"%s\" as processed (err: %v)", actionID, err))
	}

	e.notify(ctx, affected...)
}

// resolveAction :
// Performs the state transition of a troop action and
// persists every touched entity.
//
// Returns the identifiers of the users whose view of
// the map changed.
func (e *Engine) resolveAction(ctx context.Context, action game.TroopAction, troop *game.Troop, when time.Time) []string {
	affected := []string{troop.OwnerID}
	target := action.TargetLocation

	enemies, err := e.enemiesAt(ctx, target, troop)
	if err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to list defenders at %s (err: %v)", target, err))
		return affected
	}

	village, hasVillage, err := e.villages.VillageAt(ctx, target)
	if err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to look up village at %s (err: %v)", target, err))
		return affected
	}

	attackerWon := true
	attackerAlive := true

	if len(enemies) > 0 {
		defenders := make([]*game.Troop, len(enemies))
		homes := make(map[string]string, len(enemies))
		for i := range enemies {
			defenders[i] = &enemies[i]
			affected = append(affected, enemies[i].OwnerID)

			if home, err := e.villages.Village(ctx, enemies[i].HomeID); err == nil {
				homes[enemies[i].ID] = home.OwnerID
			}
		}

		tileOwner := ""
		if hasVillage {
			tileOwner = village.OwnerID
		}

		outcome := game.ResolveFight(game.Engagement{
			Attacker:           troop,
			Defenders:          defenders,
			Ranged:             action.ActionType == game.Attack,
			Start:              action.StartLocation,
			Target:             target,
			TileOwner:          tileOwner,
			DefenderHomeOwners: homes,
		})

		for _, d := range defenders {
			if err := e.troops.Save(ctx, *d); err != nil {
				e.trace(logger.Error, fmt.Sprintf("Unable to save defender \"%s\" (err: %v)", d.ID, err))
			}
		}

		attackerWon = outcome.AllDefendersDefeated
		attackerAlive = !outcome.AttackerAllDead
	}

	if attackerAlive {
		troop.Mode = game.TroopIdle

		if action.ActionType == game.Move && attackerWon {
			troop.Location = target
		}

		// A cleared enemy village is plundered, a
		// friendly one receives the backpack. Stealing
		// applies to both action kinds, depositing only
		// to an actual arrival.
		if hasVillage && attackerWon {
			if village.OwnerID != troop.OwnerID {
				e.transferWithVillage(ctx, village.ID, when, func(v *game.Village) {
					game.Steal(v, troop)
				})
				affected = append(affected, village.OwnerID)
			} else if action.ActionType == game.Move {
				e.transferWithVillage(ctx, village.ID, when, func(v *game.Village) {
					game.Deposit(v, troop)
				})
			}
		}
	}

	if err := e.troops.Save(ctx, *troop); err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to save troop \"%s\" (err: %v)", troop.ID, err))
	}

	return affected
}

// enemiesAt :
// Lists the troops standing on the input tile that do
// not belong to the owner of the input troop.
func (e *Engine) enemiesAt(ctx context.Context, target model.Location, troop *game.Troop) ([]game.Troop, error) {
	troops, err := e.troops.TroopsAt(ctx, target)
	if err != nil {
		return nil, err
	}

	enemies := make([]game.Troop, 0)
	for _, t := range troops {
		if t.ID != troop.ID && t.OwnerID != troop.OwnerID {
			enemies = append(enemies, t)
		}
	}

	return enemies, nil
}

// transferWithVillage :
// Runs a resource transfer against the village with
// the specified identifier under its serialization
// lock, with its stock advanced to the completion
// instant, and persists the outcome.
func (e *Engine) transferWithVillage(ctx context.Context, villageID string, when time.Time, transfer func(*game.Village)) {
	lock := e.locks.Acquire(villageID)
	lock.Lock()
	defer func() {
		lock.Release()
		e.locks.Release(lock)
	}()

	v, err := e.villages.Village(ctx, villageID)
	if err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to fetch village \"%s\" for transfer (err: %v)", villageID, err))
		return
	}

	e.advance(&v, when)
	transfer(&v)

	if err := e.villages.Save(ctx, v); err != nil {
		e.trace(logger.Error, fmt.Sprintf("Unable to save village \"%s\" after transfer (err: %v)", villageID, err))
	}
}

// notify :
// Pushes a refreshed map view to every input user that
// currently holds a connection. Duplicated identifiers
// are collapsed, offline users are skipped.
func (e *Engine) notify(ctx context.Context, userIDs ...string) {
	seen := make(map[string]struct{}, len(userIDs))

	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if !e.registry.Connected(id) {
			continue
		}

		info, err := e.MapForUser(ctx, id)
		if err != nil {
			e.trace(logger.Warning, fmt.Sprintf("Unable to build map view for \"%s\" (err: %v)", id, err))
			continue
		}

		e.registry.Push(id, comm.MapUpdateFrame, info)
	}
}
