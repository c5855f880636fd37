package engine

import (
	"context"
	"time"

	"minute_empire_server/internal/game"
	"minute_empire_server/internal/model"
	"minute_empire_server/pkg/duration"
)

// MapInfo :
// The full view of the world pushed to a player, both
// on demand and after any completion that changed what
// the player can see. Own entities carry their whole
// state, foreign ones only what a player can observe
// from the outside.
type MapInfo struct {
	Bounds     model.MapBounds   `json:"bounds"`
	ServerTime string            `json:"server_time"`
	Villages   []VillageInfo     `json:"villages"`
	Troops     []TroopInfo       `json:"troops"`
	Actions    []TroopActionInfo `json:"actions"`
}

// OwnerInfo :
// Basic information about the owner of an entity: the
// family name labels it, the color tints it.
type OwnerInfo struct {
	ID         string `json:"id"`
	FamilyName string `json:"family_name"`
	Color      string `json:"color"`
}

// VillageInfo :
// One village of the map view. The detailed fields are
// only populated for the villages of the requesting
// player.
type VillageInfo struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Location model.Location `json:"location"`
	Owner    OwnerInfo      `json:"owner"`
	Own      bool           `json:"own"`

	Resources  *model.Resources                 `json:"resources,omitempty"`
	Rates      map[model.ResourceKind]float64   `json:"rates,omitempty"`
	Capacities map[model.ResourceKind]float64   `json:"capacities,omitempty"`
	Fields     []game.ResourceField             `json:"resource_fields,omitempty"`
	City       *game.City                       `json:"city,omitempty"`
	Population *PopulationInfo                  `json:"population,omitempty"`
	Tasks      []PendingTaskInfo                `json:"pending_tasks,omitempty"`
}

// PopulationInfo :
// The workforce figures of an own village.
type PopulationInfo struct {
	Total   int `json:"total"`
	Working int `json:"working"`
	Spare   int `json:"spare"`
}

// PendingTaskInfo :
// A queued construction or training of an own village,
// with the countdown the client displays.
type PendingTaskInfo struct {
	ID             string            `json:"id"`
	Kind           string            `json:"kind"`
	Slot           *int              `json:"slot,omitempty"`
	TroopType      model.TroopKind   `json:"troop_type,omitempty"`
	Quantity       int               `json:"quantity,omitempty"`
	CompletionTime time.Time         `json:"completion_time"`
	Remaining      duration.Duration `json:"remaining"`
}

// TroopInfo :
// One troop of the map view. Foreign troops only show
// their position, kind and size.
type TroopInfo struct {
	ID       string          `json:"id"`
	Kind     model.TroopKind `json:"type"`
	Quantity int             `json:"quantity"`
	Location model.Location  `json:"location"`
	Owner    OwnerInfo       `json:"owner"`
	Own      bool            `json:"own"`

	HomeID   string           `json:"home_id,omitempty"`
	Backpack *model.Resources `json:"backpack,omitempty"`
	Mode     game.TroopMode   `json:"mode,omitempty"`
}

// TroopActionInfo :
// One pending troop action of the map view.
type TroopActionInfo struct {
	ID             string            `json:"id"`
	TroopID        string            `json:"troop_id"`
	ActionType     game.ActionType   `json:"action_type"`
	Start          model.Location    `json:"start_location"`
	Target         model.Location    `json:"target_location"`
	CompletionTime time.Time         `json:"completion_time"`
	Remaining      duration.Duration `json:"remaining"`
}

// MapForUser :
// Builds the map view of the specified user. The
// stocks of the user's villages are advanced to the
// current instant for the view only, the checkpoints
// in the store are untouched.
//
// Returns the map view and any error.
func (e *Engine) MapForUser(ctx context.Context, userID string) (MapInfo, error) {
	now := time.Now()

	villages, err := e.villages.AllVillages(ctx)
	if err != nil {
		return MapInfo{}, err
	}
	troops, err := e.troops.AllTroops(ctx)
	if err != nil {
		return MapInfo{}, err
	}

	// Only the actions of troops still alive are worth
	// displaying: an action whose troop died in a fight
	// stays unprocessed until its callback fires but no
	// longer moves anything on the map.
	troopIDs := make([]string, 0, len(troops))
	for _, t := range troops {
		troopIDs = append(troopIDs, t.ID)
	}
	actions, err := e.actions.UnprocessedActionsForTroops(ctx, troopIDs)
	if err != nil {
		return MapInfo{}, err
	}
	users, err := e.users.AllUsers(ctx)
	if err != nil {
		return MapInfo{}, err
	}

	owners := make(map[string]OwnerInfo, len(users))
	for _, u := range users {
		owners[u.ID] = OwnerInfo{ID: u.ID, FamilyName: u.FamilyName, Color: u.Color}
	}

	info := MapInfo{
		Bounds:     model.Bounds(),
		ServerTime: now.UTC().Format(time.RFC3339),
		Villages:   make([]VillageInfo, 0, len(villages)),
		Troops:     make([]TroopInfo, 0, len(troops)),
		Actions:    make([]TroopActionInfo, 0, len(actions)),
	}

	for _, v := range villages {
		own := v.OwnerID == userID

		vi := VillageInfo{
			ID:       v.ID,
			Name:     v.Name,
			Location: v.Location,
			Owner:    owners[v.OwnerID],
			Own:      own,
		}

		if own {
			e.advance(&v, now)

			res := v.Resources
			city := v.City
			vi.Resources = &res
			vi.Rates = v.ResourceRates()
			vi.Capacities = capacitiesOf(&v)
			vi.Fields = v.ResourceFields
			vi.City = &city
			vi.Population = &PopulationInfo{
				Total:   v.TotalPopulation(),
				Working: v.WorkingPopulation(),
				Spare:   v.SparePopulation(),
			}
			vi.Tasks = pendingTasksOf(&v)
		}

		info.Villages = append(info.Villages, vi)
	}

	for _, t := range troops {
		own := t.OwnerID == userID

		ti := TroopInfo{
			ID:       t.ID,
			Kind:     t.Kind,
			Quantity: t.Quantity,
			Location: t.Location,
			Owner:    owners[t.OwnerID],
			Own:      own,
		}

		if own {
			pack := t.Backpack
			ti.HomeID = t.HomeID
			ti.Backpack = &pack
			ti.Mode = t.Mode
		}

		info.Troops = append(info.Troops, ti)
	}

	for _, a := range actions {
		info.Actions = append(info.Actions, TroopActionInfo{
			ID:             a.ID,
			TroopID:        a.TroopID,
			ActionType:     a.ActionType,
			Start:          a.StartLocation,
			Target:         a.TargetLocation,
			CompletionTime: a.CompletionTime,
			Remaining:      duration.Until(a.CompletionTime),
		})
	}

	return info, nil
}

// capacitiesOf :
// Collects the storage capacities of a village for
// every resource kind.
func capacitiesOf(v *game.Village) map[model.ResourceKind]float64 {
	out := make(map[model.ResourceKind]float64, len(model.ResourceKinds))
	for _, kind := range model.ResourceKinds {
		out[kind] = v.Capacity(kind)
	}
	return out
}

// pendingTasksOf :
// Summarizes the unprocessed tasks of a village for
// the client countdowns.
func pendingTasksOf(v *game.Village) []PendingTaskInfo {
	out := make([]PendingTaskInfo, 0)

	for _, t := range v.ConstructionTasks {
		if t.Processed {
			continue
		}
		slot := t.Slot
		out = append(out, PendingTaskInfo{
			ID:             t.ID,
			Kind:           string(t.TaskType),
			Slot:           &slot,
			CompletionTime: t.CompletionTime,
			Remaining:      duration.Until(t.CompletionTime),
		})
	}

	for _, t := range v.TroopTrainingTasks {
		if t.Processed {
			continue
		}
		out = append(out, PendingTaskInfo{
			ID:             t.ID,
			Kind:           "TRAIN_TROOP",
			TroopType:      t.TroopType,
			Quantity:       t.Quantity,
			CompletionTime: t.CompletionTime,
			Remaining:      duration.Until(t.CompletionTime),
		})
	}

	return out
}
