package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"minute_empire_server/internal/data"
	"minute_empire_server/internal/game"
	"minute_empire_server/internal/model"
	"minute_empire_server/pkg/logger"
)

// Starting package of a fresh village: one field of
// each kind, a level 1 city center and enough stock to
// queue the first few works.
var startingResources = model.Resources{Wood: 300, Stone: 300, Iron: 300, Food: 300}

// spawnAttempts :
// Number of random tiles tried before giving up on
// placing a new village.
const spawnAttempts = 64

// RegisterUser :
// Creates a new player and their starting village on a
// free tile of the map.
//
// The `username` must not be taken. The `familyName`
// and the `color` label the player's entities on the
// map. The `passwordHash` is stored as provided:
// hashing is the concern of the HTTP layer.
//
// Returns the created user and any error.
func (e *Engine) RegisterUser(ctx context.Context, username string, familyName string, color string, passwordHash string) (game.User, error) {
	now := time.Now()

	user := game.User{
		ID:           data.NewID(),
		Username:     username,
		FamilyName:   familyName,
		Color:        color,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.users.Create(ctx, user); err != nil {
		return game.User{}, err
	}

	if _, err := e.CreateVillage(ctx, user.ID, fmt.Sprintf("%s's village", familyName)); err != nil {
		return game.User{}, err
	}

	return user, nil
}

// CreateVillage :
// Creates a village for the input user on a random
// free tile, equipped with the starting package.
//
// Returns the created village and any error.
func (e *Engine) CreateVillage(ctx context.Context, ownerID string, name string) (game.Village, error) {
	loc, err := e.freeTile(ctx)
	if err != nil {
		return game.Village{}, err
	}

	now := time.Now()

	v := game.Village{
		ID:          data.NewID(),
		Name:        name,
		OwnerID:     ownerID,
		Location:    loc,
		Resources:   startingResources,
		ResUpdateAt: now,
		ResourceFields: []game.ResourceField{
			{Kind: model.WoodField, Level: 1, Slot: 0},
			{Kind: model.StoneField, Level: 1, Slot: 1},
			{Kind: model.IronField, Level: 1, Slot: 2},
			{Kind: model.FoodField, Level: 1, Slot: 3},
		},
		City: game.City{
			Wall: game.Building{Kind: model.Wall, Level: 0, Slot: -1},
			Constructions: []game.Building{
				{Kind: model.CityCenter, Level: 1, Slot: 0},
			},
		},
		ConstructionTasks:  make([]game.ConstructionTask, 0),
		TroopTrainingTasks: make([]game.TroopTrainingTask, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := e.villages.Create(ctx, v); err != nil {
		return game.Village{}, err
	}

	return v, nil
}

// VillagesForUser :
// Lists the villages owned by the input user, stocks
// advanced to the current instant for display.
func (e *Engine) VillagesForUser(ctx context.Context, userID string) ([]game.Village, error) {
	villages, err := e.villages.VillagesForOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range villages {
		e.advance(&villages[i], now)
	}

	return villages, nil
}

// freeTile :
// Draws random tiles until one without a village is
// found.
func (e *Engine) freeTile(ctx context.Context) (model.Location, error) {
	for attempt := 0; attempt < spawnAttempts; attempt++ {
		loc := model.Location{
			X: rand.Intn(2*model.Quadrant+1) - model.Quadrant,
			Y: rand.Intn(2*model.Quadrant+1) - model.Quadrant,
		}

		_, occupied, err := e.villages.VillageAt(ctx, loc)
		if err != nil {
			return model.Location{}, err
		}
		if !occupied {
			return loc, nil
		}
	}

	e.trace(logger.Error, "Unable to find a free tile for a new village")

	return model.Location{}, fmt.Errorf("No free tile available for a new village")
}
