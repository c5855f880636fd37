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

// VillageProxy :
// Intended as a wrapper to access properties of the
// villages and retrieve data from the document store.
// All the mutable state of a village travels together:
// saving a village rewrites its resources, checkpoint,
// layout and task lists in a single atomic update.
type VillageProxy struct {
	commonProxy
}

// villagesCollection : Name of the collection holding the villages.
const villagesCollection = "villages"

// NewVillageProxy :
// Creates a new proxy on the input store access.
//
// The `proxy` defines the access to the store.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewVillageProxy(proxy db.Proxy, log logger.Logger) VillageProxy {
	return VillageProxy{
		commonProxy: newCommonProxy(proxy, log),
	}
}

// Village :
// Fetches the village with the specified identifier.
//
// Returns the village or `db.ErrNoDocument` when the
// identifier is unknown.
func (p VillageProxy) Village(ctx context.Context, id string) (game.Village, error) {
	var v game.Village
	err := p.proxy.FindByID(ctx, villagesCollection, id, &v)
	return v, err
}

// VillagesForOwner :
// Fetches every village owned by the input user.
func (p VillageProxy) VillagesForOwner(ctx context.Context, ownerID string) ([]game.Village, error) {
	villages := make([]game.Village, 0)
	err := p.proxy.FindByFieldMatch(ctx, villagesCollection, bson.M{"owner_id": ownerID}, &villages)
	return villages, err
}

// VillageAt :
// Fetches the village located at the input tile, if
// any.
//
// Returns the village, a flag telling whether one was
// found and any error.
func (p VillageProxy) VillageAt(ctx context.Context, loc model.Location) (game.Village, bool, error) {
	var v game.Village
	filter := bson.M{"location.x": loc.X, "location.y": loc.Y}

	err := p.proxy.FindOneByFieldMatch(ctx, villagesCollection, filter, &v)
	if err == db.ErrNoDocument {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}

	return v, true, nil
}

// AllVillages :
// Fetches every village of the world. Used to build
// the map view and to rebuild the scheduler at process
// start.
func (p VillageProxy) AllVillages(ctx context.Context) ([]game.Village, error) {
	villages := make([]game.Village, 0)
	err := p.proxy.FindAll(ctx, villagesCollection, &villages)
	return villages, err
}

// Create :
// Inserts the input village. The identifier should be
// assigned beforehand.
func (p VillageProxy) Create(ctx context.Context, v game.Village) error {
	if v.ID == "" {
		return fmt.Errorf("Cannot create village with no identifier")
	}

	err := p.proxy.InsertOne(ctx, villagesCollection, v)
	if err == nil {
		p.trace(logger.Notice, "villages", fmt.Sprintf("Created village \"%s\" for \"%s\" at %s", v.ID, v.OwnerID, v.Location))
	}

	return err
}

// Save :
// Persists the mutable state of the input village: the
// stock and its checkpoint, the layout and the task
// lists. The update is atomic on the document.
func (p VillageProxy) Save(ctx context.Context, v game.Village) error {
	patch := bson.M{
		"name":                 v.Name,
		"resources":            v.Resources,
		"res_update_at":        v.ResUpdateAt,
		"resource_fields":      v.ResourceFields,
		"city":                 v.City,
		"construction_tasks":   v.ConstructionTasks,
		"troop_training_tasks": v.TroopTrainingTasks,
		"updated_at":           time.Now(),
	}

	return p.proxy.UpdateOne(ctx, villagesCollection, v.ID, patch)
}
