package model

import "math"

// BuildingKind :
// Enumeration of the constructions that can be erected
// in the city part of a village. The wall is a regular
// building kind but lives in a dedicated slot of the
// village document.
type BuildingKind string

const (
	CityCenter BuildingKind = "city_center"
	Warehouse  BuildingKind = "warehouse"
	Granary    BuildingKind = "granary"
	Wall       BuildingKind = "wall"
	RallyPoint BuildingKind = "rally_point"
	Barracks   BuildingKind = "barracks"
	Archery    BuildingKind = "archery"
	Stable     BuildingKind = "stable"
	HideSpot   BuildingKind = "hide_spot"
)

// MaxConstructions :
// Upper bound on the number of buildings of the city,
// the wall not included.
const MaxConstructions = 25

// buildingDesc :
// Gathers the static properties of a building kind.
//
// The `cost` defines both the creation cost and the
// base of the upgrade cost progression.
//
// The `timeMinutes` defines the creation time and the
// base of the upgrade time progression.
//
// The `timeScale` defines the per-level multiplier of
// the upgrade time.
//
// The `productionBonus` defines the per-level bonus
// this building applies uniformly to the production
// of all four resources.
type buildingDesc struct {
	cost            Resources
	timeMinutes     int
	timeScale       float64
	productionBonus float64
}

var buildings = map[BuildingKind]buildingDesc{
	CityCenter: {
		cost:            Resources{Wood: 200, Stone: 240, Iron: 140},
		timeMinutes:     30,
		timeScale:       1.2,
		productionBonus: 0.05,
	},
	Warehouse: {
		cost:            Resources{Wood: 100, Stone: 120, Iron: 70},
		timeMinutes:     20,
		timeScale:       1.2,
		productionBonus: 0.03,
	},
	Granary: {
		cost:            Resources{Wood: 80, Stone: 100, Iron: 60},
		timeMinutes:     20,
		timeScale:       1.24,
		productionBonus: 0.03,
	},
	Wall: {
		cost:        Resources{Wood: 50, Stone: 250, Iron: 100},
		timeMinutes: 15,
		timeScale:   1.2,
	},
	RallyPoint: {
		cost:        Resources{Wood: 150, Stone: 70, Iron: 40},
		timeMinutes: 10,
		timeScale:   1.2,
	},
	Barracks: {
		cost:        Resources{Wood: 180, Stone: 150, Iron: 100},
		timeMinutes: 25,
		timeScale:   1.2,
	},
	Archery: {
		cost:        Resources{Wood: 220, Stone: 120, Iron: 140},
		timeMinutes: 25,
		timeScale:   1.2,
	},
	Stable: {
		cost:        Resources{Wood: 200, Stone: 180, Iron: 200},
		timeMinutes: 30,
		timeScale:   1.2,
	},
	HideSpot: {
		cost:        Resources{Wood: 100, Stone: 150, Iron: 80},
		timeMinutes: 15,
		timeScale:   1.2,
	},
}

// ValidBuildingKind :
// Tells whether the input string names a known building
// kind. The wall is excluded: it exists from the start
// of a village and cannot be created through a command.
func ValidBuildingKind(kind BuildingKind) bool {
	_, ok := buildings[kind]
	return ok && kind != Wall
}

// BuildingCreationCost :
// Provides the resources needed to erect a level 1
// building of the input kind.
func BuildingCreationCost(kind BuildingKind) Resources {
	return buildings[kind].cost
}

// BuildingCreationTime :
// Provides the time in minutes needed to erect a
// level 1 building of the input kind.
func BuildingCreationTime(kind BuildingKind) int {
	return buildings[kind].timeMinutes
}

// BuildingUpgradeCost :
// Provides the resources needed to bring a building
// of the input kind from `level` to `level+1`. The
// cost grows geometrically with the current level.
//
// The `level` defines the current level.
//
// Returns the upgrade cost.
func BuildingUpgradeCost(kind BuildingKind, level int) Resources {
	base := buildings[kind].cost
	mult := math.Pow(1.5, float64(level))

	out := Resources{}
	for _, k := range ResourceKinds {
		out.Set(k, math.Floor(base.Get(k)*mult))
	}
	return out
}

// BuildingUpgradeTime :
// Provides the time in minutes needed to bring a
// building of the input kind from `level` to the
// next one.
//
// The `level` defines the current level.
//
// Returns the upgrade time in minutes.
func BuildingUpgradeTime(kind BuildingKind, level int) int {
	desc := buildings[kind]
	return int(math.Floor(float64(desc.timeMinutes) * math.Pow(desc.timeScale, float64(level))))
}

// BuildingProductionBonus :
// Provides the production bonus granted by a building
// of the input kind at the input level. The bonus is
// applied uniformly to all four resources.
//
// Returns the bonus as a fraction (0.1 meaning +10%).
func BuildingProductionBonus(kind BuildingKind, level int) float64 {
	return buildings[kind].productionBonus * float64(level)
}

// BaseStorageCapacity :
// Storage available for each resource in a village
// with neither warehouse nor granary.
const BaseStorageCapacity = 1000.0

// StorageCapacity :
// Computes the per-resource storage capacity of a
// village given the levels of its warehouse and its
// granary. The granary extends the food storage, the
// warehouse extends everything else; a missing
// building (level 0) leaves the base capacity.
//
// The `kind` defines the resource to consider.
//
// The `warehouseLevel` and `granaryLevel` define the
// current levels of the relevant buildings, `0` when
// absent.
//
// Returns the capacity for the resource.
func StorageCapacity(kind ResourceKind, warehouseLevel int, granaryLevel int) float64 {
	level := warehouseLevel
	if kind == Food {
		level = granaryLevel
	}

	return BaseStorageCapacity * (1 + 0.3*float64(level))
}
