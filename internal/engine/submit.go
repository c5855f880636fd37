package engine

import (
	"context"
	"fmt"
	"time"

	"minute_empire_server/internal/data"
	"minute_empire_server/internal/game"
	"minute_empire_server/internal/model"
	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/logger"
)

// Result :
// The outcome of a command submission as returned to
// the client. Validation failures are not errors of
// the server, they travel in this envelope with the
// success flag lowered.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Travel times of the troop actions, in minutes per
// Manhattan tile between start and target.
const (
	moveMinutesPerTile   = 1
	attackMinutesPerTile = 2
)

// failure :
// Builds a rejection result with the input message.
func failure(format string, args ...interface{}) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// SubmitCommand :
// Parses and executes a player order against one of
// their villages. The village's resources are brought
// up to the current instant before any validation, so
// affordability is always judged on fresh stocks.
//
// A rejected command performs no mutation at all. An
// accepted one deducts its cost, registers its task
// in the store and schedules the completion routine.
//
// The `ctx` defines the deadline of the operation.
//
// The `userID` identifies the caller.
//
// The `villageID` identifies the village the order is
// issued from.
//
// The `text` carries the raw command.
//
// Returns the outcome and any infrastructure error.
func (e *Engine) SubmitCommand(ctx context.Context, userID string, villageID string, text string) (Result, error) {
	cmd, err := game.ParseCommand(text)
	if err != nil {
		return failure("%v", err), nil
	}

	v, err := e.villages.Village(ctx, villageID)
	if err == db.ErrNoDocument {
		return failure("Village \"%s\" does not exist", villageID), nil
	}
	if err != nil {
		return Result{}, err
	}
	if v.OwnerID != userID {
		return failure("Village \"%s\" does not belong to you", villageID), nil
	}

	now := time.Now()
	e.advance(&v, now)

	switch cmd.Verb {
	case game.CreateVerb, game.UpgradeVerb, game.DestroyVerb:
		return e.submitConstruction(ctx, &v, cmd, now)
	case game.TrainVerb:
		return e.submitTraining(ctx, &v, cmd, now)
	case game.MoveVerb, game.AttackVerb:
		return e.submitTroopOrder(ctx, &v, cmd, now)
	}

	return failure("Unknown command verb \"%s\"", cmd.Verb), nil
}

// submitConstruction :
// Validates and registers a field or building task on
// the input village, whose stock is already up to
// date.
func (e *Engine) submitConstruction(ctx context.Context, v *game.Village, cmd game.Command, now time.Time) (Result, error) {
	building := cmd.Target == game.BuildingTarget

	if res, ok := validateSlot(v, cmd, building); !ok {
		return res, nil
	}

	taskType, targetType, level, cost, minutes, res, ok := constructionPlan(v, cmd, building)
	if !ok {
		return res, nil
	}

	if !v.Resources.CanAfford(cost) {
		return failure("Not enough resources"), nil
	}
	if needed := game.PopulationForUpgrade(level); cmd.Verb != game.DestroyVerb && v.SparePopulation() < needed {
		return failure("Not enough spare population (%d needed, %d available)", needed, v.SparePopulation()), nil
	}

	task := game.ConstructionTask{
		ID:             data.NewID(),
		TaskType:       taskType,
		TargetType:     targetType,
		Slot:           cmd.Slot,
		Level:          level,
		StartedAt:      now,
		CompletionTime: now.Add(time.Duration(minutes) * time.Minute),
	}

	v.Resources.Subtract(cost)
	v.ConstructionTasks = append(v.ConstructionTasks, task)

	if err := e.villages.Save(ctx, *v); err != nil {
		return Result{}, err
	}

	e.scheduleConstruction(v.ID, task)

	e.trace(logger.Verbose, fmt.Sprintf("Queued %s on slot %d of village \"%s\" for %s", task.TaskType, task.Slot, v.ID, task.CompletionTime.Format(time.RFC3339)))

	return Result{Success: true, Data: task}, nil
}

// validateSlot :
// Shared slot checks of the construction commands: the
// slot must be within range and must not already have
// a pending task of the same family.
func validateSlot(v *game.Village, cmd game.Command, building bool) (Result, bool) {
	max := model.MaxFields
	if building {
		max = model.MaxConstructions
	}
	if cmd.Slot < 0 || cmd.Slot >= max {
		return failure("Slot %d is out of range", cmd.Slot), false
	}

	if v.PendingConstructionAt(cmd.Slot, building) != nil {
		return failure("Slot %d already has a pending task", cmd.Slot), false
	}

	return Result{}, true
}

// constructionPlan :
// Derives the task parameters of a construction command
// from the current state of the village: the task type,
// the target subtype, the target level, the cost and
// the duration in minutes. Validation failures are
// reported through the result.
func constructionPlan(v *game.Village, cmd game.Command, building bool) (game.TaskType, string, int, model.Resources, int, Result, bool) {
	switch cmd.Verb {
	case game.CreateVerb:
		if building {
			kind := model.BuildingKind(cmd.Subtype)
			if v.BuildingAt(cmd.Slot) != nil {
				return "", "", 0, model.Resources{}, 0, failure("Slot %d is already occupied", cmd.Slot), false
			}
			if len(v.City.Constructions) >= model.MaxConstructions {
				return "", "", 0, model.Resources{}, 0, failure("Village already has %d buildings", model.MaxConstructions), false
			}
			return game.CreateBuilding, cmd.Subtype, 1, model.BuildingCreationCost(kind), model.BuildingCreationTime(kind), Result{}, true
		}

		kind := model.FieldKind(cmd.Subtype)
		if v.FieldAt(cmd.Slot) != nil {
			return "", "", 0, model.Resources{}, 0, failure("Slot %d is already occupied", cmd.Slot), false
		}
		if len(v.ResourceFields) >= model.MaxFields {
			return "", "", 0, model.Resources{}, 0, failure("Village already has %d fields", model.MaxFields), false
		}
		if required := model.RequiredCityCenterLevel(cmd.Slot); v.CityCenterLevel() < required {
			return "", "", 0, model.Resources{}, 0, failure("Slot %d requires a level %d city center", cmd.Slot, required), false
		}
		return game.CreateField, cmd.Subtype, 1, model.FieldCreationCost(kind), model.FieldCreationTime(kind), Result{}, true

	case game.UpgradeVerb:
		if building {
			b := v.BuildingAt(cmd.Slot)
			if b == nil {
				return "", "", 0, model.Resources{}, 0, failure("No building in slot %d", cmd.Slot), false
			}
			return game.UpgradeBuilding, string(b.Kind), b.Level + 1, model.BuildingUpgradeCost(b.Kind, b.Level), model.BuildingUpgradeTime(b.Kind, b.Level), Result{}, true
		}

		f := v.FieldAt(cmd.Slot)
		if f == nil {
			return "", "", 0, model.Resources{}, 0, failure("No field in slot %d", cmd.Slot), false
		}
		return game.UpgradeField, string(f.Kind), f.Level + 1, model.FieldUpgradeCost(f.Kind, f.Level), model.FieldUpgradeTime(f.Kind, f.Level), Result{}, true

	case game.DestroyVerb:
		if building {
			b := v.BuildingAt(cmd.Slot)
			if b == nil {
				return "", "", 0, model.Resources{}, 0, failure("No building in slot %d", cmd.Slot), false
			}
			// Tearing a building down costs nothing and
			// takes as long as raising it did.
			return game.DestroyBuilding, string(b.Kind), 0, model.Resources{}, model.BuildingCreationTime(b.Kind), Result{}, true
		}

		f := v.FieldAt(cmd.Slot)
		if f == nil {
			return "", "", 0, model.Resources{}, 0, failure("No field in slot %d", cmd.Slot), false
		}
		return game.DestroyField, string(f.Kind), 0, model.Resources{}, model.FieldCreationTime(f.Kind), Result{}, true
	}

	return "", "", 0, model.Resources{}, 0, failure("Unknown construction verb \"%s\"", cmd.Verb), false
}

// submitTraining :
// Validates and registers a troop training task on the
// input village.
func (e *Engine) submitTraining(ctx context.Context, v *game.Village, cmd game.Command, now time.Time) (Result, error) {
	if v.PendingTrainingFor(cmd.TroopKind) != nil {
		return failure("A training of %s is already in progress", cmd.TroopKind), nil
	}

	cost := model.TrainingCost(cmd.TroopKind, cmd.Quantity)
	if !v.Resources.CanAfford(cost) {
		return failure("Not enough resources"), nil
	}
	if v.SparePopulation() < cmd.Quantity {
		return failure("Not enough spare population (%d needed, %d available)", cmd.Quantity, v.SparePopulation()), nil
	}

	task := game.TroopTrainingTask{
		ID:             data.NewID(),
		TroopType:      cmd.TroopKind,
		Quantity:       cmd.Quantity,
		StartedAt:      now,
		CompletionTime: now.Add(time.Duration(model.TrainingTime(cmd.TroopKind, cmd.Quantity)) * time.Minute),
	}

	v.Resources.Subtract(cost)
	v.TroopTrainingTasks = append(v.TroopTrainingTasks, task)

	if err := e.villages.Save(ctx, *v); err != nil {
		return Result{}, err
	}

	e.scheduleTraining(v.ID, task)

	e.trace(logger.Verbose, fmt.Sprintf("Queued training of %d %s in village \"%s\" for %s", task.Quantity, task.TroopType, v.ID, task.CompletionTime.Format(time.RFC3339)))

	return Result{Success: true, Data: task}, nil
}

// submitTroopOrder :
// Validates and registers a move or attack order for a
// troop homed in the input village.
func (e *Engine) submitTroopOrder(ctx context.Context, v *game.Village, cmd game.Command, now time.Time) (Result, error) {
	troop, err := e.troops.Troop(ctx, cmd.TroopID)
	if err == db.ErrNoDocument {
		return failure("Troop \"%s\" does not exist", cmd.TroopID), nil
	}
	if err != nil {
		return Result{}, err
	}

	if troop.OwnerID != v.OwnerID {
		return failure("Troop \"%s\" does not belong to you", cmd.TroopID), nil
	}
	if troop.HomeID != v.ID {
		return failure("Troop \"%s\" is not homed in village \"%s\"", cmd.TroopID, v.ID), nil
	}
	if !troop.Idle() {
		return failure("Troop \"%s\" is already carrying an order", cmd.TroopID), nil
	}
	if !cmd.Location.InBounds() {
		return failure("Target %s is outside the map", cmd.Location), nil
	}

	actionType := game.Move
	mode := game.TroopMoving
	minutesPerTile := moveMinutesPerTile
	reachable := model.CanMoveTo(troop.Kind, troop.Location, cmd.Location)
	if cmd.Verb == game.AttackVerb {
		actionType = game.Attack
		mode = game.TroopAttacking
		minutesPerTile = attackMinutesPerTile
		reachable = model.CanAttackAt(troop.Kind, troop.Location, cmd.Location)
	}
	if !reachable {
		return failure("Target %s is out of reach for %s", cmd.Location, troop.Kind), nil
	}

	travel := troop.Location.ManhattanDistanceTo(cmd.Location) * minutesPerTile
	action := game.TroopAction{
		ID:             data.NewID(),
		TroopID:        troop.ID,
		ActionType:     actionType,
		StartLocation:  troop.Location,
		TargetLocation: cmd.Location,
		StartedAt:      now,
		CompletionTime: now.Add(time.Duration(travel) * time.Minute),
	}

	if err := e.actions.Create(ctx, action); err != nil {
		return Result{}, err
	}

	troop.Mode = mode
	if err := e.troops.Save(ctx, troop); err != nil {
		return Result{}, err
	}

	e.scheduleAction(action)

	return Result{Success: true, Data: action}, nil
}
