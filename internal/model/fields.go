package model

import "math"

// FieldKind :
// Enumeration of the resource field kinds. Each field
// produces exactly one resource, matching its kind.
type FieldKind string

const (
	WoodField  FieldKind = "wood"
	StoneField FieldKind = "stone"
	IronField  FieldKind = "iron"
	FoodField  FieldKind = "food"
)

// MaxFields :
// Upper bound on the number of resource fields of a
// village.
const MaxFields = 20

// fieldDesc :
// Gathers the static properties of a field kind.
//
// The `creationCost` and `creationTimeMinutes` apply
// when a new level 1 field is built.
//
// The `upgradeCost` is the base of the upgrade cost
// progression, `upgradeTimeMinutes` the base of the
// upgrade time progression.
//
// The `baseRate` defines the hourly production of a
// level 0 field before the level multiplier and the
// building bonuses.
type fieldDesc struct {
	creationCost        Resources
	creationTimeMinutes int
	upgradeCost         Resources
	upgradeTimeMinutes  int
	baseRate            float64
}

var fields = map[FieldKind]fieldDesc{
	WoodField: {
		creationCost:        Resources{Wood: 30, Stone: 40, Iron: 20, Food: 20},
		creationTimeMinutes: 2,
		upgradeCost:         Resources{Wood: 100, Stone: 80, Iron: 60, Food: 60},
		upgradeTimeMinutes:  1,
		baseRate:            30,
	},
	StoneField: {
		creationCost:        Resources{Wood: 40, Stone: 30, Iron: 25, Food: 25},
		creationTimeMinutes: 2,
		upgradeCost:         Resources{Wood: 80, Stone: 100, Iron: 60, Food: 60},
		upgradeTimeMinutes:  1,
		baseRate:            25,
	},
	IronField: {
		creationCost:        Resources{Wood: 50, Stone: 60, Iron: 30, Food: 30},
		creationTimeMinutes: 2,
		upgradeCost:         Resources{Wood: 60, Stone: 80, Iron: 100, Food: 60},
		upgradeTimeMinutes:  1,
		baseRate:            20,
	},
	FoodField: {
		creationCost:        Resources{Wood: 25, Stone: 25, Iron: 15, Food: 10},
		creationTimeMinutes: 2,
		upgradeCost:         Resources{Wood: 80, Stone: 60, Iron: 60, Food: 20},
		upgradeTimeMinutes:  1,
		baseRate:            25,
	},
}

// ValidFieldKind :
// Tells whether the input string names a known field
// kind.
func ValidFieldKind(kind FieldKind) bool {
	_, ok := fields[kind]
	return ok
}

// Produces :
// Provides the resource produced by a field of the
// input kind.
func (k FieldKind) Produces() ResourceKind {
	return ResourceKind(k)
}

// FieldCreationCost :
// Provides the resources needed to build a new level 1
// field of the input kind.
func FieldCreationCost(kind FieldKind) Resources {
	return fields[kind].creationCost
}

// FieldCreationTime :
// Provides the time in minutes needed to build a new
// level 1 field of the input kind.
func FieldCreationTime(kind FieldKind) int {
	return fields[kind].creationTimeMinutes
}

// FieldUpgradeCost :
// Provides the resources needed to bring a field of
// the input kind from `level` to `level+1`.
//
// The `level` defines the current level.
//
// Returns the upgrade cost.
func FieldUpgradeCost(kind FieldKind, level int) Resources {
	base := fields[kind].upgradeCost
	mult := math.Pow(1.5, float64(level))

	out := Resources{}
	for _, k := range ResourceKinds {
		out.Set(k, math.Floor(base.Get(k)*mult))
	}
	return out
}

// FieldUpgradeTime :
// Provides the time in minutes needed to bring a field
// of the input kind from `level` to the next one.
//
// The `level` defines the current level.
//
// Returns the upgrade time in minutes.
func FieldUpgradeTime(kind FieldKind, level int) int {
	return int(math.Floor(float64(fields[kind].upgradeTimeMinutes) * math.Pow(1.42, float64(level))))
}

// FieldProductionRate :
// Computes the hourly production of a field of the
// input kind at the input level, given the uniform
// production bonus granted by the buildings of the
// village.
//
// The `level` defines the level of the field.
//
// The `bonus` defines the summed production bonus of
// the village buildings, as a fraction.
//
// Returns the hourly production of the resource the
// field produces.
func FieldProductionRate(kind FieldKind, level int, bonus float64) float64 {
	return fields[kind].baseRate * math.Pow(1.2, float64(level)) * (1 + bonus)
}

// fieldSlotGating :
// Minimum city center level needed to build a field in
// each slot. Slots open up in rings as the city center
// grows.
var fieldSlotGating = map[int]int{
	0: 1, 1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 1, 7: 1,
	11: 3, 12: 3, 13: 3,
	17: 5, 18: 5, 19: 5,
	8: 7, 9: 7, 10: 7,
	14: 9, 15: 9, 16: 9,
}

// RequiredCityCenterLevel :
// Provides the minimum city center level required to
// build a resource field in the input slot.
//
// The `slot` defines the field slot.
//
// Returns the required level. Slots outside the field
// range report an impossible requirement.
func RequiredCityCenterLevel(slot int) int {
	level, ok := fieldSlotGating[slot]
	if !ok {
		return math.MaxInt32
	}
	return level
}
