package game

import (
	"math"
	"testing"
	"time"

	"minute_empire_server/internal/model"
)

func TestStealProportionalWithIteration(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.Resources = model.Resources{Wood: 500, Stone: 200, Iron: 0, Food: 800}

	// 10 militia: total cap 1000, 500 per resource.
	troop := &Troop{ID: "t", OwnerID: "u2", Kind: model.Militia, Quantity: 10}

	before := v.Resources.Total()
	Steal(v, troop)

	// The backpack fills completely: the first pass
	// caps food at 500, the leftover room is spread
	// over wood and stone in a second pass.
	if math.Abs(troop.Backpack.Total()-1000) > 1e-6 {
		t.Errorf("backpack total = %v, want 1000", troop.Backpack.Total())
	}
	if math.Abs(troop.Backpack.Food-500) > 1e-6 {
		t.Errorf("food carried = %v, want 500 (per-resource cap)", troop.Backpack.Food)
	}
	if troop.Backpack.Iron != 0 {
		t.Errorf("iron carried = %v, want 0", troop.Backpack.Iron)
	}
	if troop.Backpack.Wood <= troop.Backpack.Stone {
		t.Errorf("loot should stay proportional to holdings, wood %v vs stone %v",
			troop.Backpack.Wood, troop.Backpack.Stone)
	}

	// Nothing appears or vanishes in the transfer.
	after := v.Resources.Total() + troop.Backpack.Total()
	if math.Abs(before-after) > 1e-6 {
		t.Errorf("resources not conserved: %v before, %v after", before, after)
	}
	if v.Resources.Food != 300 {
		t.Errorf("village food = %v, want 300", v.Resources.Food)
	}
}

func TestStealStopsWhenVillageRunsDry(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.Resources = model.Resources{Wood: 30}

	troop := &Troop{ID: "t", OwnerID: "u2", Kind: model.Militia, Quantity: 10}

	Steal(v, troop)

	if math.Abs(troop.Backpack.Wood-30) > 1e-6 {
		t.Errorf("wood carried = %v, want 30", troop.Backpack.Wood)
	}
	if v.Resources.Total() != 0 {
		t.Errorf("village should be empty, got %+v", v.Resources)
	}
}

func TestStealRespectsPartiallyFilledBackpack(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.Resources = model.Resources{Wood: 1000}

	// 1 militia carrying 40 wood already: 10 wood of
	// room per resource, 60 in total.
	troop := &Troop{
		ID: "t", OwnerID: "u2", Kind: model.Militia, Quantity: 1,
		Backpack: model.Resources{Wood: 40},
	}

	Steal(v, troop)

	if math.Abs(troop.Backpack.Wood-50) > 1e-6 {
		t.Errorf("wood carried = %v, want 50", troop.Backpack.Wood)
	}
}

func TestDepositClampsAtCapacityAndEmptiesBackpack(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v := testVillage(start)
	v.Resources = model.Resources{Wood: 900, Food: 100}

	troop := &Troop{
		ID: "t", OwnerID: "u1", Kind: model.Militia, Quantity: 10,
		Backpack: model.Resources{Wood: 300, Food: 50},
	}

	Deposit(v, troop)

	// Base capacity is 1000: the wood overflow is
	// discarded, the food fits entirely.
	if v.Resources.Wood != 1000 {
		t.Errorf("village wood = %v, want 1000", v.Resources.Wood)
	}
	if v.Resources.Food != 150 {
		t.Errorf("village food = %v, want 150", v.Resources.Food)
	}
	if troop.Backpack.Total() != 0 {
		t.Errorf("backpack should be empty, got %+v", troop.Backpack)
	}
}
