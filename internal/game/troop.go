package game

import (
	"time"

	"minute_empire_server/internal/model"
)

// TroopMode :
// What a troop is currently doing. A troop not idle is
// referenced by exactly one unprocessed action and does
// not accept new orders until that action completes.
type TroopMode string

const (
	TroopIdle      TroopMode = "idle"
	TroopMoving    TroopMode = "move"
	TroopAttacking TroopMode = "attack"
	TroopDefending TroopMode = "defend"
)

// Troop :
// A band of units of a single kind living on the map.
// Troops are persisted as standalone documents and
// reference their home village through `HomeID`.
//
// The `Backpack` holds the resources the troop carries,
// looted from defeated villages and brought back home
// on a later move.
//
// The `Mode` reflects the pending order of the troop,
// back to idle once the order completes.
type Troop struct {
	ID        string          `bson:"_id" json:"id"`
	OwnerID   string          `bson:"owner_id" json:"owner_id"`
	HomeID    string          `bson:"home_id" json:"home_id"`
	Kind      model.TroopKind `bson:"type" json:"type"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	Location  model.Location  `bson:"location" json:"location"`
	Backpack  model.Resources `bson:"backpack" json:"backpack"`
	Mode      TroopMode       `bson:"mode" json:"mode"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}

// Idle :
// Tells whether the troop can accept a new order. An
// empty mode counts as idle so that documents written
// before the field existed keep working.
func (t *Troop) Idle() bool {
	return t.Mode == TroopIdle || t.Mode == ""
}

// Capacity :
// Provides the carrying limits of the troop at its
// current quantity.
func (t *Troop) Capacity() model.BackpackCapacity {
	return model.BackpackCapacityOf(t.Kind, t.Quantity)
}

// AttackPower :
// Total offensive value of the troop.
func (t *Troop) AttackPower() float64 {
	return model.StatsOf(t.Kind).Attack * float64(t.Quantity)
}

// DefensePower :
// Total defensive value of the troop.
func (t *Troop) DefensePower() float64 {
	return model.StatsOf(t.Kind).Defense * float64(t.Quantity)
}
