package data

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"minute_empire_server/internal/game"
	"minute_empire_server/pkg/db"
	"minute_empire_server/pkg/logger"
)

// ActionProxy :
// Intended as a wrapper to access the troop actions in
// the document store. Unlike the construction and the
// training tasks, which travel embedded in their owning
// village, the actions form their own collection: they
// concern entities spanning several villages and must
// be scanned globally when the process restarts.
type ActionProxy struct {
	commonProxy
}

// actionsCollection : Name of the collection holding the troop actions.
const actionsCollection = "troop_actions"

// NewActionProxy :
// Creates a new proxy on the input store access.
//
// The `proxy` defines the access to the store.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewActionProxy(proxy db.Proxy, log logger.Logger) ActionProxy {
	return ActionProxy{
		commonProxy: newCommonProxy(proxy, log),
	}
}

// Action :
// Fetches the action with the specified identifier.
//
// Returns the action or `db.ErrNoDocument` when the
// identifier is unknown.
func (p ActionProxy) Action(ctx context.Context, id string) (game.TroopAction, error) {
	var a game.TroopAction
	err := p.proxy.FindByID(ctx, actionsCollection, id, &a)
	return a, err
}

// UnprocessedActions :
// Fetches every action whose effect has not been
// applied yet. Used to rebuild the scheduler when the
// process restarts.
func (p ActionProxy) UnprocessedActions(ctx context.Context) ([]game.TroopAction, error) {
	actions := make([]game.TroopAction, 0)
	err := p.proxy.FindByFieldMatch(ctx, actionsCollection, bson.M{"processed": false}, &actions)
	return actions, err
}

// UnprocessedActionsForTroops :
// Fetches the pending actions attached to the input
// troops. The map view uses it to only list actions
// whose troop still exists.
func (p ActionProxy) UnprocessedActionsForTroops(ctx context.Context, troopIDs []string) ([]game.TroopAction, error) {
	actions := make([]game.TroopAction, 0)
	filter := bson.M{
		"processed": false,
		"troop_id":  bson.M{"$in": troopIDs},
	}
	err := p.proxy.FindByFieldMatch(ctx, actionsCollection, filter, &actions)
	return actions, err
}

// Create :
// Inserts the input action. The identifier should be
// assigned beforehand.
func (p ActionProxy) Create(ctx context.Context, a game.TroopAction) error {
	if a.ID == "" {
		return fmt.Errorf("Cannot create action with no identifier")
	}

	err := p.proxy.InsertOne(ctx, actionsCollection, a)
	if err == nil {
		p.trace(logger.Verbose, "actions", fmt.Sprintf("Registered %s of troop \"%s\" towards %s for %s", a.ActionType, a.TroopID, a.TargetLocation, a.CompletionTime.Format(time.RFC3339)))
	}

	return err
}

// MarkProcessed :
// Raises the processed flag of the action with the
// specified identifier.
func (p ActionProxy) MarkProcessed(ctx context.Context, id string) error {
	return p.proxy.UpdateOne(ctx, actionsCollection, id, bson.M{"processed": true})
}
