package model

import (
	"math"
	"testing"
)

func TestLocationInBounds(t *testing.T) {
	cases := []struct {
		loc  Location
		want bool
	}{
		{Location{0, 0}, true},
		{Location{Quadrant, Quadrant}, true},
		{Location{-Quadrant, -Quadrant}, true},
		{Location{Quadrant + 1, 0}, false},
		{Location{0, -Quadrant - 1}, false},
	}

	for _, c := range cases {
		if got := c.loc.InBounds(); got != c.want {
			t.Errorf("InBounds(%v) = %v, want %v", c.loc, got, c.want)
		}
	}
}

func TestManhattanDistance(t *testing.T) {
	a := Location{X: -3, Y: 2}
	b := Location{X: 1, Y: -1}
	if d := a.ManhattanDistanceTo(b); d != 7 {
		t.Errorf("distance = %d, want 7", d)
	}
	if d := b.ManhattanDistanceTo(a); d != 7 {
		t.Errorf("distance should be symmetric, got %d", d)
	}
}

func TestFieldProductionRate(t *testing.T) {
	// A level 1 wood field with no building bonus
	// produces 30 * 1.2 = 36 per hour.
	got := FieldProductionRate(WoodField, 1, 0)
	if math.Abs(got-36) > 1e-9 {
		t.Errorf("level 1 wood rate = %v, want 36", got)
	}

	// Level 2 with a 10% bonus.
	got = FieldProductionRate(WoodField, 2, 0.1)
	want := 30 * 1.2 * 1.2 * 1.1
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("level 2 wood rate = %v, want %v", got, want)
	}
}

func TestUpgradeCostProgression(t *testing.T) {
	// Upgrade costs follow floor(base * 1.5^level).
	base := FieldUpgradeCost(WoodField, 0)
	lvl2 := FieldUpgradeCost(WoodField, 2)
	for _, kind := range ResourceKinds {
		want := math.Floor(base.Get(kind) * 1.5 * 1.5)
		if lvl2.Get(kind) != want {
			t.Errorf("upgrade cost at level 2 for %s = %v, want %v", kind, lvl2.Get(kind), want)
		}
	}

	bBase := BuildingUpgradeCost(CityCenter, 0)
	bLvl3 := BuildingUpgradeCost(CityCenter, 3)
	for _, kind := range ResourceKinds {
		want := math.Floor(bBase.Get(kind) * math.Pow(1.5, 3))
		if bLvl3.Get(kind) != want {
			t.Errorf("city center upgrade cost at level 3 for %s = %v, want %v", kind, bLvl3.Get(kind), want)
		}
	}
}

func TestUpgradeTimeScales(t *testing.T) {
	// Buildings scale with 1.2 per level, the granary
	// with 1.24 and fields with 1.42.
	if got := BuildingUpgradeTime(Warehouse, 2); got != int(math.Floor(20*1.2*1.2)) {
		t.Errorf("warehouse upgrade time = %d", got)
	}
	if got := BuildingUpgradeTime(Granary, 2); got != int(math.Floor(20*1.24*1.24)) {
		t.Errorf("granary upgrade time = %d", got)
	}
	if got := FieldUpgradeTime(IronField, 4); got != int(math.Floor(1*math.Pow(1.42, 4))) {
		t.Errorf("iron field upgrade time = %d", got)
	}
}

func TestStorageCapacity(t *testing.T) {
	cases := []struct {
		kind      ResourceKind
		warehouse int
		granary   int
		want      float64
	}{
		{Wood, 0, 0, 1000},
		{Wood, 2, 0, 1600},
		{Food, 2, 0, 1000},
		{Food, 0, 3, 1900},
		{Iron, 5, 5, 2500},
	}

	for _, c := range cases {
		got := StorageCapacity(c.kind, c.warehouse, c.granary)
		if got != c.want {
			t.Errorf("StorageCapacity(%s, w=%d, g=%d) = %v, want %v", c.kind, c.warehouse, c.granary, got, c.want)
		}
	}
}

func TestFieldSlotGating(t *testing.T) {
	cases := []struct {
		slot int
		want int
	}{
		{0, 1}, {7, 1}, {11, 3}, {13, 3}, {17, 5}, {19, 5}, {8, 7}, {10, 7}, {14, 9}, {16, 9},
	}
	for _, c := range cases {
		if got := RequiredCityCenterLevel(c.slot); got != c.want {
			t.Errorf("RequiredCityCenterLevel(%d) = %d, want %d", c.slot, got, c.want)
		}
	}
	if got := RequiredCityCenterLevel(20); got <= 20 {
		t.Errorf("slot outside the field range should be unreachable, got %d", got)
	}
}

func TestTroopStats(t *testing.T) {
	cases := []struct {
		kind TroopKind
		atk  float64
		def  float64
	}{
		{Militia, 1, 1},
		{ArcherTroop, 1, 0.5},
		{LightCavalry, 1, 1},
		{Pikeman, 1, 2},
	}
	for _, c := range cases {
		s := StatsOf(c.kind)
		if s.Attack != c.atk || s.Defense != c.def {
			t.Errorf("StatsOf(%s) = %+v, want {%v %v}", c.kind, s, c.atk, c.def)
		}
	}
}

func TestMoveReachability(t *testing.T) {
	from := Location{X: 0, Y: 0}

	if got := len(ValidMoveSpots(Militia, from)); got != 8 {
		t.Errorf("militia move spots = %d, want 8", got)
	}
	if got := len(ValidMoveSpots(ArcherTroop, from)); got != 4 {
		t.Errorf("archer move spots = %d, want 4", got)
	}
	if got := len(ValidMoveSpots(LightCavalry, from)); got != 8 {
		t.Errorf("cavalry move spots = %d, want 8", got)
	}
	if got := len(ValidMoveSpots(Pikeman, from)); got != 16 {
		t.Errorf("pikeman move spots = %d, want 16", got)
	}

	// Diagonal steps are denied to archers.
	if CanMoveTo(ArcherTroop, from, Location{X: 1, Y: 1}) {
		t.Error("archer should not move diagonally")
	}
	// Knight moves are cavalry-only territory.
	if !CanMoveTo(LightCavalry, from, Location{X: 2, Y: 1}) {
		t.Error("cavalry should reach (2,1)")
	}
	if CanMoveTo(Militia, from, Location{X: 2, Y: 1}) {
		t.Error("militia should not reach (2,1)")
	}
}

func TestMoveReachabilityClippedAtBorder(t *testing.T) {
	corner := Location{X: Quadrant, Y: Quadrant}
	for _, spot := range ValidMoveSpots(Pikeman, corner) {
		if !spot.InBounds() {
			t.Errorf("spot %v is out of bounds", spot)
		}
	}
	if got := len(ValidMoveSpots(Militia, corner)); got != 3 {
		t.Errorf("militia move spots in corner = %d, want 3", got)
	}
}

func TestAttackReachability(t *testing.T) {
	from := Location{X: 0, Y: 0}

	// Melee kinds only fight where they stand.
	if !CanAttackAt(Militia, from, from) {
		t.Error("militia should attack its own tile")
	}
	if CanAttackAt(Militia, from, Location{X: 1, Y: 0}) {
		t.Error("militia should not attack at range")
	}
	if !CanAttackAt(LightCavalry, from, from) {
		t.Error("cavalry should attack its own tile")
	}

	// Archers fire on the 8-neighborhood but not on
	// their own tile.
	if !CanAttackAt(ArcherTroop, from, Location{X: 1, Y: 1}) {
		t.Error("archer should attack adjacent tile")
	}
	if CanAttackAt(ArcherTroop, from, from) {
		t.Error("archer should not attack its own tile")
	}

	// Pikemen reach knight-move tiles plus their own.
	if !CanAttackAt(Pikeman, from, Location{X: 2, Y: 1}) {
		t.Error("pikeman should attack (2,1)")
	}
	if !CanAttackAt(Pikeman, from, from) {
		t.Error("pikeman should attack its own tile")
	}
	if CanAttackAt(Pikeman, from, Location{X: 1, Y: 0}) {
		t.Error("pikeman should not attack orthogonal neighbor")
	}
}

func TestBackpackCapacityScalesWithQuantity(t *testing.T) {
	cap := BackpackCapacityOf(Militia, 10)
	if cap.Total != 1000 {
		t.Errorf("militia x10 total cap = %v, want 1000", cap.Total)
	}
	if cap.PerResource.Wood != 500 {
		t.Errorf("militia x10 wood cap = %v, want 500", cap.PerResource.Wood)
	}

	cav := BackpackCapacityOf(LightCavalry, 2)
	if cav.Total != 500 || cav.PerResource.Iron != 200 {
		t.Errorf("cavalry x2 caps = %+v, want total 500, iron 200", cav)
	}
}

func TestTrainingCostAndTime(t *testing.T) {
	cost := TrainingCost(Militia, 4)
	if cost.Wood != 200 || cost.Food != 40 {
		t.Errorf("militia x4 cost = %+v", cost)
	}
	if got := TrainingTime(Pikeman, 7); got != 7 {
		t.Errorf("pikeman x7 training time = %d, want 7", got)
	}
}
