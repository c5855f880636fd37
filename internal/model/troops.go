package model

// TroopKind :
// Enumeration of the unit types that can be trained
// in a village and moved around the map.
type TroopKind string

const (
	Militia      TroopKind = "militia"
	ArcherTroop  TroopKind = "archer"
	LightCavalry TroopKind = "light_cavalry"
	Pikeman      TroopKind = "pikeman"
)

// TroopStats :
// Per-unit offensive and defensive values used by the
// combat resolution.
type TroopStats struct {
	Attack  float64
	Defense float64
}

// BackpackCapacity :
// Carrying limits of a single unit: a per-resource cap
// plus a shared cap on the total carried amount. Both
// scale linearly with the quantity of the troop.
type BackpackCapacity struct {
	PerResource Resources
	Total       float64
}

// troopDesc :
// Gathers the static properties of a troop kind.
//
// The `trainingCost` is the cost of a single unit.
//
// The `trainingTimeMinutes` is the time to train a
// single unit, the total training time scales with
// the quantity.
type troopDesc struct {
	stats               TroopStats
	trainingCost        Resources
	trainingTimeMinutes int
	backpack            BackpackCapacity
}

var troops = map[TroopKind]troopDesc{
	Militia: {
		stats:               TroopStats{Attack: 1, Defense: 1},
		trainingCost:        Resources{Wood: 50, Stone: 30, Iron: 20, Food: 10},
		trainingTimeMinutes: 1,
		backpack: BackpackCapacity{
			PerResource: Resources{Wood: 50, Stone: 50, Iron: 50, Food: 50},
			Total:       100,
		},
	},
	ArcherTroop: {
		stats:               TroopStats{Attack: 1, Defense: 0.5},
		trainingCost:        Resources{Wood: 70, Stone: 40, Iron: 30, Food: 20},
		trainingTimeMinutes: 1,
		backpack: BackpackCapacity{
			PerResource: Resources{Wood: 40, Stone: 40, Iron: 40, Food: 40},
			Total:       80,
		},
	},
	LightCavalry: {
		stats:               TroopStats{Attack: 1, Defense: 1},
		trainingCost:        Resources{Wood: 100, Stone: 60, Iron: 50, Food: 30},
		trainingTimeMinutes: 1,
		backpack: BackpackCapacity{
			PerResource: Resources{Wood: 100, Stone: 100, Iron: 100, Food: 100},
			Total:       250,
		},
	},
	Pikeman: {
		stats:               TroopStats{Attack: 1, Defense: 2},
		trainingCost:        Resources{Wood: 80, Stone: 50, Iron: 40, Food: 25},
		trainingTimeMinutes: 1,
		backpack: BackpackCapacity{
			PerResource: Resources{Wood: 60, Stone: 60, Iron: 60, Food: 60},
			Total:       120,
		},
	},
}

// ValidTroopKind :
// Tells whether the input string names a known troop
// kind.
func ValidTroopKind(kind TroopKind) bool {
	_, ok := troops[kind]
	return ok
}

// StatsOf :
// Provides the per-unit combat statistics of a troop
// kind.
func StatsOf(kind TroopKind) TroopStats {
	return troops[kind].stats
}

// TrainingCost :
// Provides the cost of training `quantity` units of
// the input kind.
func TrainingCost(kind TroopKind, quantity int) Resources {
	return troops[kind].trainingCost.Scale(float64(quantity))
}

// TrainingTime :
// Provides the time in minutes needed to train
// `quantity` units of the input kind.
func TrainingTime(kind TroopKind, quantity int) int {
	return troops[kind].trainingTimeMinutes * quantity
}

// BackpackCapacityOf :
// Provides the carrying limits of `quantity` units of
// the input kind.
func BackpackCapacityOf(kind TroopKind, quantity int) BackpackCapacity {
	base := troops[kind].backpack
	return BackpackCapacity{
		PerResource: base.PerResource.Scale(float64(quantity)),
		Total:       base.Total * float64(quantity),
	}
}

// Relative coordinate sets used to build reachability.
var (
	// The 4-neighborhood (orthogonal steps).
	orthogonalSteps = []Location{
		{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	}

	// The 8-neighborhood (orthogonal and diagonal steps).
	kingSteps = []Location{
		{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
		{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
	}

	// The knight's L-shaped moves.
	knightSteps = []Location{
		{X: 1, Y: 2}, {X: 2, Y: 1}, {X: -1, Y: 2}, {X: -2, Y: 1},
		{X: 1, Y: -2}, {X: 2, Y: -1}, {X: -1, Y: -2}, {X: -2, Y: -1},
	}
)

// offsets :
// Builds the absolute locations reached from `from` by
// applying each step set, keeping only the tiles that
// lie on the map.
func offsets(from Location, stepSets ...[]Location) []Location {
	out := make([]Location, 0)
	for _, steps := range stepSets {
		for _, step := range steps {
			spot := Location{X: from.X + step.X, Y: from.Y + step.Y}
			if spot.InBounds() {
				out = append(out, spot)
			}
		}
	}
	return out
}

// ValidMoveSpots :
// Provides every tile a troop of the input kind can
// move to from the input location. Militia step on
// any adjacent tile, archers only orthogonally,
// light cavalry jumps in knight moves and pikemen
// combine adjacent tiles with knight moves.
//
// The `kind` defines the troop kind.
//
// The `from` defines the current location.
//
// Returns the reachable tiles within the map.
func ValidMoveSpots(kind TroopKind, from Location) []Location {
	switch kind {
	case Militia:
		return offsets(from, kingSteps)
	case ArcherTroop:
		return offsets(from, orthogonalSteps)
	case LightCavalry:
		return offsets(from, knightSteps)
	case Pikeman:
		return offsets(from, kingSteps, knightSteps)
	}
	return nil
}

// ValidAttackSpots :
// Provides every tile a troop of the input kind can
// attack from the input location. Militia and light
// cavalry only fight on their own tile, archers fire
// on any adjacent tile and pikemen reach knight-move
// tiles in addition to their own.
//
// The `kind` defines the troop kind.
//
// The `from` defines the current location.
//
// Returns the attackable tiles within the map.
func ValidAttackSpots(kind TroopKind, from Location) []Location {
	switch kind {
	case Militia, LightCavalry:
		return []Location{from}
	case ArcherTroop:
		return offsets(from, kingSteps)
	case Pikeman:
		return append([]Location{from}, offsets(from, knightSteps)...)
	}
	return nil
}

// CanMoveTo :
// Tells whether the target tile belongs to the move
// reach of the input troop kind.
func CanMoveTo(kind TroopKind, from Location, to Location) bool {
	for _, spot := range ValidMoveSpots(kind, from) {
		if spot == to {
			return true
		}
	}
	return false
}

// CanAttackAt :
// Tells whether the target tile belongs to the attack
// reach of the input troop kind.
func CanAttackAt(kind TroopKind, from Location, at Location) bool {
	for _, spot := range ValidAttackSpots(kind, from) {
		if spot == at {
			return true
		}
	}
	return false
}
