package game

import (
	"time"

	"minute_empire_server/internal/model"
)

// TaskType :
// Enumeration of the deferred work items that can be
// registered on a village. Construction tasks cover
// both the city buildings and the resource fields,
// in creation, upgrade and destruction flavors.
type TaskType string

const (
	CreateBuilding  TaskType = "CREATE_BUILDING"
	UpgradeBuilding TaskType = "UPGRADE_BUILDING"
	DestroyBuilding TaskType = "DESTROY_BUILDING"
	CreateField     TaskType = "CREATE_FIELD"
	UpgradeField    TaskType = "UPGRADE_FIELD"
	DestroyField    TaskType = "DESTROY_FIELD"
)

// targetsBuilding :
// Tells whether the task type concerns a city building
// rather than a resource field.
func (t TaskType) targetsBuilding() bool {
	return t == CreateBuilding || t == UpgradeBuilding || t == DestroyBuilding
}

// ConstructionTask :
// A deferred construction work item embedded in its
// owning village. At most one unprocessed task may
// exist for a given slot of a village.
//
// The `TargetType` carries the subtype of the target,
// either a building kind or a field kind depending on
// the task type.
//
// The `Level` defines the level the target will have
// once the task completes (`0` for destructions).
//
// The `Processed` flag guarantees at-most-once
// application: once `true`, the state mutation tied
// to this task has been performed.
type ConstructionTask struct {
	ID             string    `bson:"id" json:"id"`
	TaskType       TaskType  `bson:"task_type" json:"task_type"`
	TargetType     string    `bson:"target_type" json:"target_type"`
	Slot           int       `bson:"slot" json:"slot"`
	Level          int       `bson:"level" json:"level"`
	StartedAt      time.Time `bson:"started_at" json:"started_at"`
	CompletionTime time.Time `bson:"completion_time" json:"completion_time"`
	Processed      bool      `bson:"processed" json:"processed"`
}

// affectsProduction :
// Tells whether the completion of this task changes the
// production rates or the storage capacities of the
// owning village. Field tasks always do; building tasks
// only when the building carries a production bonus or
// extends the storage. Tasks without such an effect are
// left to their own completion callback.
func (t ConstructionTask) affectsProduction() bool {
	if !t.TaskType.targetsBuilding() {
		return true
	}

	kind := model.BuildingKind(t.TargetType)
	if kind == model.Warehouse || kind == model.Granary {
		return true
	}

	return model.BuildingProductionBonus(kind, 1) > 0
}

// TroopTrainingTask :
// A deferred training work item embedded in its owning
// village. At most one unprocessed task may exist for
// a given troop type of a village.
type TroopTrainingTask struct {
	ID             string          `bson:"id" json:"id"`
	TroopType      model.TroopKind `bson:"troop_type" json:"troop_type"`
	Quantity       int             `bson:"quantity" json:"quantity"`
	StartedAt      time.Time       `bson:"started_at" json:"started_at"`
	CompletionTime time.Time       `bson:"completion_time" json:"completion_time"`
	Processed      bool            `bson:"processed" json:"processed"`
}

// ActionType :
// Enumeration of the deferred troop actions.
type ActionType string

const (
	Move   ActionType = "MOVE"
	Attack ActionType = "ATTACK"
)

// TroopAction :
// A deferred troop work item. Unlike the construction
// and training tasks it is persisted as a standalone
// document: it spans villages and must be scanned
// globally when the process restarts.
type TroopAction struct {
	ID             string         `bson:"_id" json:"id"`
	TroopID        string         `bson:"troop_id" json:"troop_id"`
	ActionType     ActionType     `bson:"action_type" json:"action_type"`
	StartLocation  model.Location `bson:"start_location" json:"start_location"`
	TargetLocation model.Location `bson:"target_location" json:"target_location"`
	StartedAt      time.Time      `bson:"started_at" json:"started_at"`
	CompletionTime time.Time      `bson:"completion_time" json:"completion_time"`
	Processed      bool           `bson:"processed" json:"processed"`
}
