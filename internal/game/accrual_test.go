package game

import (
	"math"
	"testing"
	"time"

	"minute_empire_server/internal/model"
)

func testVillage(at time.Time) *Village {
	return &Village{
		ID:          "v1",
		Name:        "test",
		OwnerID:     "u1",
		Location:    model.Location{X: 0, Y: 0},
		Resources:   model.Resources{},
		ResUpdateAt: at,
		ResourceFields: []ResourceField{
			{Kind: model.WoodField, Level: 1, Slot: 0},
		},
		City: City{
			Wall: Building{Kind: model.Wall, Level: 0, Slot: -1},
			Constructions: []Building{
				{Kind: model.CityCenter, Level: 1, Slot: 0},
			},
		},
	}
}

func almost(a float64, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestAdvanceConstantRate(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	// City center level 1 grants a 5% bonus, remove it
	// to observe the bare field rate.
	v.City.Constructions = nil

	Advance(v, start.Add(time.Hour))

	if !almost(v.Resources.Wood, 36) {
		t.Errorf("wood after 1h = %v, want 36", v.Resources.Wood)
	}
	if !v.ResUpdateAt.Equal(start.Add(time.Hour)) {
		t.Errorf("checkpoint not moved, got %v", v.ResUpdateAt)
	}
}

func TestAdvanceBeforeCheckpointIsNoop(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.Resources.Wood = 10

	Advance(v, start.Add(-time.Minute))

	if v.Resources.Wood != 10 {
		t.Errorf("stock changed on backward advance, got %v", v.Resources.Wood)
	}
	if !v.ResUpdateAt.Equal(start) {
		t.Errorf("checkpoint moved backward to %v", v.ResUpdateAt)
	}
}

func TestAdvanceSplitsWindowAtFieldUpgrade(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.City.Constructions = nil

	// The field jumps to level 2 half way through the
	// window: 0.5h at 36/h then 0.5h at 43.2/h.
	v.ConstructionTasks = []ConstructionTask{
		{
			ID:             "t1",
			TaskType:       UpgradeField,
			TargetType:     string(model.WoodField),
			Slot:           0,
			Level:          2,
			StartedAt:      start,
			CompletionTime: start.Add(30 * time.Minute),
		},
	}

	Advance(v, start.Add(time.Hour))

	want := 36*0.5 + 30*1.2*1.2*0.5
	if !almost(v.Resources.Wood, want) {
		t.Errorf("wood after split window = %v, want %v", v.Resources.Wood, want)
	}
	if v.FieldAt(0).Level != 2 {
		t.Errorf("field level = %d, want 2", v.FieldAt(0).Level)
	}
	if !v.ConstructionTasks[0].Processed {
		t.Error("rate-affecting task should be marked processed by the advance")
	}
}

func TestAdvanceClampsAtCapacity(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.City.Constructions = nil
	v.Resources.Wood = 990

	// Base capacity is 1000, one hour would overflow.
	Advance(v, start.Add(time.Hour))

	if v.Resources.Wood != 1000 {
		t.Errorf("wood should clamp at 1000, got %v", v.Resources.Wood)
	}
}

func TestAdvancePreservesStockAboveCapacity(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.City.Constructions = nil
	// Deposits can push a stock above capacity, the
	// surplus is kept but production stalls.
	v.Resources.Wood = 1200

	Advance(v, start.Add(time.Hour))

	if v.Resources.Wood != 1200 {
		t.Errorf("stock above capacity should be preserved, got %v", v.Resources.Wood)
	}
}

func TestAdvanceRaisesCapacityAtWarehouseCompletion(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.City.Constructions = nil
	v.Resources.Wood = 999

	// A warehouse appears after 10 minutes, lifting the
	// wood capacity to 1300 for the rest of the window.
	v.ConstructionTasks = []ConstructionTask{
		{
			ID:             "t1",
			TaskType:       CreateBuilding,
			TargetType:     string(model.Warehouse),
			Slot:           3,
			Level:          1,
			StartedAt:      start,
			CompletionTime: start.Add(10 * time.Minute),
		},
	}

	Advance(v, start.Add(time.Hour))

	// 10 minutes at 36/h hits the 1000 cap, then 50
	// minutes accrue under the new cap.
	want := 1000 + 36*(50.0/60.0)
	if !almost(v.Resources.Wood, want) {
		t.Errorf("wood after warehouse completion = %v, want %v", v.Resources.Wood, want)
	}
	if v.BuildingAt(3) == nil {
		t.Fatal("warehouse should exist after the advance")
	}
}

func TestAdvanceIsCheckpointInvariant(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	mk := func() *Village {
		v := testVillage(start)
		v.ConstructionTasks = []ConstructionTask{
			{
				ID:             "t1",
				TaskType:       UpgradeField,
				TargetType:     string(model.WoodField),
				Slot:           0,
				Level:          2,
				StartedAt:      start,
				CompletionTime: start.Add(40 * time.Minute),
			},
		}
		return v
	}

	oneShot := mk()
	Advance(oneShot, end)

	stepped := mk()
	Advance(stepped, start.Add(20*time.Minute))
	Advance(stepped, start.Add(70*time.Minute))
	Advance(stepped, end)

	for _, kind := range model.ResourceKinds {
		if !almost(oneShot.Resources.Get(kind), stepped.Resources.Get(kind)) {
			t.Errorf("%s stock diverges: one shot %v vs stepped %v",
				kind, oneShot.Resources.Get(kind), stepped.Resources.Get(kind))
		}
	}
}

func TestAdvanceIgnoresNonRateTasks(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)

	// A barracks changes neither rates nor capacities,
	// its completion is left to its own callback.
	v.ConstructionTasks = []ConstructionTask{
		{
			ID:             "t1",
			TaskType:       CreateBuilding,
			TargetType:     string(model.Barracks),
			Slot:           5,
			Level:          1,
			StartedAt:      start,
			CompletionTime: start.Add(10 * time.Minute),
		},
	}

	Advance(v, start.Add(time.Hour))

	if v.ConstructionTasks[0].Processed {
		t.Error("barracks task should not be consumed by the advance")
	}
	if v.BuildingAt(5) != nil {
		t.Error("barracks should not be built by the advance")
	}
}

func TestAdvanceReportsCorruptRateTask(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)

	// The task upgrades a field that does not exist: its
	// mutation cannot be applied but it must be consumed
	// and reported rather than silently skipped.
	v.ConstructionTasks = []ConstructionTask{
		{
			ID:             "t1",
			TaskType:       UpgradeField,
			TargetType:     string(model.StoneField),
			Slot:           7,
			Level:          2,
			StartedAt:      start,
			CompletionTime: start.Add(10 * time.Minute),
		},
	}

	failed := Advance(v, start.Add(time.Hour))

	if len(failed) != 1 {
		t.Fatalf("expected 1 reported failure, got %d", len(failed))
	}
	if !v.ConstructionTasks[0].Processed {
		t.Error("corrupt task should be consumed so it is not retried")
	}
	if !v.ResUpdateAt.Equal(start.Add(time.Hour)) {
		t.Errorf("checkpoint not moved, got %v", v.ResUpdateAt)
	}
}
