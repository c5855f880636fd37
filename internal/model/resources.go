package model

// ResourceKind :
// Enumeration of the four resources produced, stored
// and carried in the game.
type ResourceKind string

const (
	Wood  ResourceKind = "wood"
	Stone ResourceKind = "stone"
	Iron  ResourceKind = "iron"
	Food  ResourceKind = "food"
)

// ResourceKinds :
// The list of all resource kinds in a stable order.
// Iterating this slice rather than a map keeps every
// computation deterministic.
var ResourceKinds = []ResourceKind{Wood, Stone, Iron, Food}

// Resources :
// Non-negative real-valued quantities of each of the
// four resources. Used both for the stock of a village
// and for the backpack carried by a troop.
type Resources struct {
	Wood  float64 `bson:"wood" json:"wood"`
	Stone float64 `bson:"stone" json:"stone"`
	Iron  float64 `bson:"iron" json:"iron"`
	Food  float64 `bson:"food" json:"food"`
}

// Get :
// Provides the amount of the specified kind.
func (r Resources) Get(kind ResourceKind) float64 {
	switch kind {
	case Wood:
		return r.Wood
	case Stone:
		return r.Stone
	case Iron:
		return r.Iron
	case Food:
		return r.Food
	}
	return 0
}

// Set :
// Assigns the amount of the specified kind.
func (r *Resources) Set(kind ResourceKind, amount float64) {
	switch kind {
	case Wood:
		r.Wood = amount
	case Stone:
		r.Stone = amount
	case Iron:
		r.Iron = amount
	case Food:
		r.Food = amount
	}
}

// Add :
// Increases the amount of the specified kind. Negative
// deltas are allowed, the caller is responsible for not
// driving a stock below zero.
func (r *Resources) Add(kind ResourceKind, amount float64) {
	r.Set(kind, r.Get(kind)+amount)
}

// Total :
// Provides the sum of the four amounts. Used when
// checking a backpack against its shared cap.
func (r Resources) Total() float64 {
	return r.Wood + r.Stone + r.Iron + r.Food
}

// CanAfford :
// Tells whether this stock covers the input cost for
// every resource kind.
//
// The `cost` defines the required amounts.
//
// Returns `true` if the cost is affordable.
func (r Resources) CanAfford(cost Resources) bool {
	for _, kind := range ResourceKinds {
		if r.Get(kind) < cost.Get(kind) {
			return false
		}
	}
	return true
}

// Subtract :
// Removes the input cost from this stock. No check is
// performed, `CanAfford` should have been consulted
// beforehand.
//
// The `cost` defines the amounts to remove.
func (r *Resources) Subtract(cost Resources) {
	for _, kind := range ResourceKinds {
		r.Add(kind, -cost.Get(kind))
	}
}

// Scale :
// Produces a copy of the input resources where every
// amount is multiplied by the factor. Typically used
// to derive the cost of training several units from
// the unitary cost.
//
// The `factor` defines the multiplier.
//
// Returns the scaled resources.
func (r Resources) Scale(factor float64) Resources {
	out := Resources{}
	for _, kind := range ResourceKinds {
		out.Set(kind, r.Get(kind)*factor)
	}
	return out
}
