package game

import (
	"fmt"
	"math"
	"time"

	"minute_empire_server/internal/model"
)

// Building :
// A construction of the city part of a village. The
// slot identifies the build position, `0..24` for the
// regular constructions. The wall lives in a dedicated
// spot of the city and uses slot `-1`.
type Building struct {
	Kind  model.BuildingKind `bson:"type" json:"type"`
	Level int                `bson:"level" json:"level"`
	Slot  int                `bson:"slot" json:"slot"`
}

// ResourceField :
// A production field of a village, occupying one of
// the `0..19` field slots.
type ResourceField struct {
	Kind  model.FieldKind `bson:"type" json:"type"`
	Level int             `bson:"level" json:"level"`
	Slot  int             `bson:"slot" json:"slot"`
}

// City :
// The built part of a village: a single wall plus the
// regular constructions.
type City struct {
	Wall          Building   `bson:"wall" json:"wall"`
	Constructions []Building `bson:"constructions" json:"constructions"`
}

// Village :
// The authoritative state unit of the game. Villages
// own their embedded task lists; troops reference a
// village through their home identifier without being
// embedded in it.
//
// The `Resources` hold the stock as it was at the
// `ResUpdateAt` instant. Any observation at a later
// instant must first advance the stock through the
// accrual engine.
type Village struct {
	ID                 string              `bson:"_id" json:"id"`
	Name               string              `bson:"name" json:"name"`
	OwnerID            string              `bson:"owner_id" json:"owner_id"`
	Location           model.Location      `bson:"location" json:"location"`
	Resources          model.Resources     `bson:"resources" json:"resources"`
	ResUpdateAt        time.Time           `bson:"res_update_at" json:"res_update_at"`
	ResourceFields     []ResourceField     `bson:"resource_fields" json:"resource_fields"`
	City               City                `bson:"city" json:"city"`
	ConstructionTasks  []ConstructionTask  `bson:"construction_tasks" json:"construction_tasks"`
	TroopTrainingTasks []TroopTrainingTask `bson:"troop_training_tasks" json:"troop_training_tasks"`
	CreatedAt          time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `bson:"updated_at" json:"updated_at"`
}

// ErrSlotOccupied : The targeted slot already hosts a building or a field.
var ErrSlotOccupied = fmt.Errorf("Slot is already occupied")

// ErrSlotEmpty : The targeted slot hosts nothing to upgrade or destroy.
var ErrSlotEmpty = fmt.Errorf("Slot is empty")

// ErrSlotBusy : The targeted slot already has a pending task.
var ErrSlotBusy = fmt.Errorf("Slot already has a pending task")

// BuildingAt :
// Provides the building occupying the input slot, or
// `nil` when the slot is free. The wall is not part of
// the regular slots.
func (v *Village) BuildingAt(slot int) *Building {
	for i := range v.City.Constructions {
		if v.City.Constructions[i].Slot == slot {
			return &v.City.Constructions[i]
		}
	}
	return nil
}

// FieldAt :
// Provides the resource field occupying the input slot,
// or `nil` when the slot is free.
func (v *Village) FieldAt(slot int) *ResourceField {
	for i := range v.ResourceFields {
		if v.ResourceFields[i].Slot == slot {
			return &v.ResourceFields[i]
		}
	}
	return nil
}

// buildingLevel :
// Provides the level of the first building of the input
// kind, `0` when the village has none.
func (v *Village) buildingLevel(kind model.BuildingKind) int {
	if kind == model.Wall {
		return v.City.Wall.Level
	}
	for _, b := range v.City.Constructions {
		if b.Kind == kind {
			return b.Level
		}
	}
	return 0
}

// CityCenterLevel :
// Provides the level of the city center, which gates
// the creation of the outer field slots.
func (v *Village) CityCenterLevel() int {
	return v.buildingLevel(model.CityCenter)
}

// ProductionBonus :
// Sums the production bonus granted by every building
// of the village, the wall included. The bonus applies
// uniformly to the production of all four resources.
//
// Returns the total bonus as a fraction.
func (v *Village) ProductionBonus() float64 {
	bonus := model.BuildingProductionBonus(v.City.Wall.Kind, v.City.Wall.Level)
	for _, b := range v.City.Constructions {
		bonus += model.BuildingProductionBonus(b.Kind, b.Level)
	}
	return bonus
}

// ResourceRates :
// Computes the hourly production of the village for
// each resource kind, from its fields and the bonus
// granted by its buildings.
//
// Returns the rates keyed by resource kind.
func (v *Village) ResourceRates() map[model.ResourceKind]float64 {
	rates := make(map[model.ResourceKind]float64, len(model.ResourceKinds))
	for _, kind := range model.ResourceKinds {
		rates[kind] = 0
	}

	bonus := v.ProductionBonus()
	for _, f := range v.ResourceFields {
		rates[f.Kind.Produces()] += model.FieldProductionRate(f.Kind, f.Level, bonus)
	}

	return rates
}

// Capacity :
// Computes the storage capacity of the village for the
// input resource kind, from the current levels of its
// warehouse and granary.
func (v *Village) Capacity(kind model.ResourceKind) float64 {
	return model.StorageCapacity(kind, v.buildingLevel(model.Warehouse), v.buildingLevel(model.Granary))
}

// TotalPopulation :
// Sums the levels of every building and field of the
// village plus the target levels of pending upgrades
// on already existing targets. This is the workforce
// the village can dedicate to its pending work.
func (v *Village) TotalPopulation() int {
	total := v.City.Wall.Level
	for _, b := range v.City.Constructions {
		total += b.Level
	}
	for _, f := range v.ResourceFields {
		total += f.Level
	}

	// Queued upgrades on existing targets count for
	// their target level.
	for _, t := range v.ConstructionTasks {
		if t.Processed {
			continue
		}
		if t.TaskType == UpgradeBuilding && v.BuildingAt(t.Slot) != nil {
			total += t.Level
		}
		if t.TaskType == UpgradeField && v.FieldAt(t.Slot) != nil {
			total += t.Level
		}
	}

	return total
}

// WorkingPopulation :
// Sums the target levels of the pending construction
// tasks and the quantities of the pending trainings:
// the part of the workforce already committed.
func (v *Village) WorkingPopulation() int {
	working := 0
	for _, t := range v.ConstructionTasks {
		if !t.Processed {
			working += t.Level
		}
	}
	for _, t := range v.TroopTrainingTasks {
		if !t.Processed {
			working += t.Quantity
		}
	}
	return working
}

// SparePopulation :
// The workforce available for a new work item.
func (v *Village) SparePopulation() int {
	return v.TotalPopulation() - v.WorkingPopulation()
}

// PopulationForUpgrade :
// Workforce required to carry an upgrade to the input
// target level.
func PopulationForUpgrade(targetLevel int) int {
	return int(math.Round(float64(targetLevel) * float64(targetLevel)))
}

// PendingConstructionAt :
// Provides the unprocessed construction task targeting
// the input slot of the given family (building tasks
// and field tasks use independent slot spaces), or
// `nil` when the slot is quiet.
func (v *Village) PendingConstructionAt(slot int, building bool) *ConstructionTask {
	for i := range v.ConstructionTasks {
		t := &v.ConstructionTasks[i]
		if !t.Processed && t.Slot == slot && t.TaskType.targetsBuilding() == building {
			return t
		}
	}
	return nil
}

// PendingTrainingFor :
// Provides the unprocessed training task for the input
// troop kind, or `nil` when none is pending.
func (v *Village) PendingTrainingFor(kind model.TroopKind) *TroopTrainingTask {
	for i := range v.TroopTrainingTasks {
		t := &v.TroopTrainingTasks[i]
		if !t.Processed && t.TroopType == kind {
			return t
		}
	}
	return nil
}

// ConstructionTaskByID :
// Provides the construction task with the specified
// identifier, or `nil`.
func (v *Village) ConstructionTaskByID(id string) *ConstructionTask {
	for i := range v.ConstructionTasks {
		if v.ConstructionTasks[i].ID == id {
			return &v.ConstructionTasks[i]
		}
	}
	return nil
}

// TrainingTaskByID :
// Provides the training task with the specified
// identifier, or `nil`.
func (v *Village) TrainingTaskByID(id string) *TroopTrainingTask {
	for i := range v.TroopTrainingTasks {
		if v.TroopTrainingTasks[i].ID == id {
			return &v.TroopTrainingTasks[i]
		}
	}
	return nil
}

// ApplyConstructionTask :
// Performs the state mutation tied to the input task:
// creation or removal of a field or building, or the
// assignment of the stored target level. The task is
// marked processed in every case; a task contradicted
// by the current slot state (corruption) is reported
// through the returned error but still consumed.
//
// The `t` defines the task to apply. It must belong
// to this village.
//
// Returns an error describing a contradiction, if any.
func (v *Village) ApplyConstructionTask(t *ConstructionTask) error {
	defer func() { t.Processed = true }()

	switch t.TaskType {
	case CreateBuilding:
		if v.BuildingAt(t.Slot) != nil {
			return fmt.Errorf("Slot %d of village \"%s\" already occupied on building creation", t.Slot, v.ID)
		}
		v.City.Constructions = append(v.City.Constructions, Building{
			Kind:  model.BuildingKind(t.TargetType),
			Level: t.Level,
			Slot:  t.Slot,
		})

	case UpgradeBuilding:
		b := v.BuildingAt(t.Slot)
		if b == nil {
			return fmt.Errorf("Slot %d of village \"%s\" empty on building upgrade", t.Slot, v.ID)
		}
		b.Level = t.Level

	case DestroyBuilding:
		idx := -1
		for i := range v.City.Constructions {
			if v.City.Constructions[i].Slot == t.Slot {
				idx = i
			}
		}
		if idx < 0 {
			return fmt.Errorf("Slot %d of village \"%s\" empty on building destruction", t.Slot, v.ID)
		}
		v.City.Constructions = append(v.City.Constructions[:idx], v.City.Constructions[idx+1:]...)

	case CreateField:
		if v.FieldAt(t.Slot) != nil {
			return fmt.Errorf("Slot %d of village \"%s\" already occupied on field creation", t.Slot, v.ID)
		}
		v.ResourceFields = append(v.ResourceFields, ResourceField{
			Kind:  model.FieldKind(t.TargetType),
			Level: t.Level,
			Slot:  t.Slot,
		})

	case UpgradeField:
		f := v.FieldAt(t.Slot)
		if f == nil {
			return fmt.Errorf("Slot %d of village \"%s\" empty on field upgrade", t.Slot, v.ID)
		}
		f.Level = t.Level

	case DestroyField:
		idx := -1
		for i := range v.ResourceFields {
			if v.ResourceFields[i].Slot == t.Slot {
				idx = i
			}
		}
		if idx < 0 {
			return fmt.Errorf("Slot %d of village \"%s\" empty on field destruction", t.Slot, v.ID)
		}
		v.ResourceFields = append(v.ResourceFields[:idx], v.ResourceFields[idx+1:]...)

	default:
		return fmt.Errorf("Unknown task type \"%s\" for task \"%s\"", t.TaskType, t.ID)
	}

	return nil
}
