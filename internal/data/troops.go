package data

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"minute_empire_server/internal/game"
	"minute_empire_server/internal/model"
	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/logger"
)

// TroopProxy :
// Intended as a wrapper to access properties of the
// troops and retrieve data from the document store.
type TroopProxy struct {
	commonProxy
}

// troopsCollection : Name of the collection holding the troops.
const troopsCollection = "troops"

// NewTroopProxy :
// Creates a new proxy on the input store access.
//
// The `proxy` defines the access to the store.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewTroopProxy(proxy db.Proxy, log logger.Logger) TroopProxy {
	return TroopProxy{
		commonProxy: newCommonProxy(proxy, log),
	}
}

// Troop :
// Fetches the troop with the specified identifier.
//
// Returns the troop or `db.ErrNoDocument` when the
// identifier is unknown.
func (p TroopProxy) Troop(ctx context.Context, id string) (game.Troop, error) {
	var t game.Troop
	err := p.proxy.FindByID(ctx, troopsCollection, id, &t)
	return t, err
}

// TroopsForOwner :
// Fetches every troop owned by the input user.
func (p TroopProxy) TroopsForOwner(ctx context.Context, ownerID string) ([]game.Troop, error) {
	troops := make([]game.Troop, 0)
	err := p.proxy.FindByFieldMatch(ctx, troopsCollection, bson.M{"owner_id": ownerID}, &troops)
	return troops, err
}

// TroopsAt :
// Fetches every troop standing on the input tile.
func (p TroopProxy) TroopsAt(ctx context.Context, loc model.Location) ([]game.Troop, error) {
	troops := make([]game.Troop, 0)
	filter := bson.M{"location.x": loc.X, "location.y": loc.Y}
	err := p.proxy.FindByFieldMatch(ctx, troopsCollection, filter, &troops)
	return troops, err
}

// AllTroops :
// Fetches every troop of the world.
func (p TroopProxy) AllTroops(ctx context.Context) ([]game.Troop, error) {
	troops := make([]game.Troop, 0)
	err := p.proxy.FindAll(ctx, troopsCollection, &troops)
	return troops, err
}

// Create :
// Inserts the input troop. The identifier should be
// assigned beforehand. A troop with no unit is never
// persisted.
func (p TroopProxy) Create(ctx context.Context, t game.Troop) error {
	if t.ID == "" {
		return fmt.Errorf("Cannot create troop with no identifier")
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("Cannot create troop \"%s\" with no unit", t.ID)
	}

	err := p.proxy.InsertOne(ctx, troopsCollection, t)
	if err == nil {
		p.trace(logger.Notice, "troops", fmt.Sprintf("Created troop \"%s\" (%d %s) at %s", t.ID, t.Quantity, t.Kind, t.Location))
	}

	return err
}

// Save :
// Persists the mutable state of the input troop. A
// troop whose quantity dropped to zero is deleted
// instead, as empty troops are never kept around.
func (p TroopProxy) Save(ctx context.Context, t game.Troop) error {
	if t.Quantity <= 0 {
		return p.Delete(ctx, t.ID)
	}

	patch := bson.M{
		"quantity":   t.Quantity,
		"location":   t.Location,
		"backpack":   t.Backpack,
		"mode":       t.Mode,
		"updated_at": time.Now(),
	}

	return p.proxy.UpdateOne(ctx, troopsCollection, t.ID, patch)
}

// Delete :
// Removes the troop with the specified identifier.
func (p TroopProxy) Delete(ctx context.Context, id string) error {
	err := p.proxy.DeleteOne(ctx, troopsCollection, id)
	if err == nil {
		p.trace(logger.Notice, "troops", fmt.Sprintf("Deleted troop \"%s\"", id))
	}

	return err
}
