package game

import (
	"math"
	"testing"

	"minute_empire_server/internal/model"
)

func TestFightCavalryAgainstDefendedHomeTile(t *testing.T) {
	// 100 light cavalry ride into 100 pikemen holding
	// the tile of their own village. The home advantage
	// cuts the attacker to 70/70 against 100/200 and the
	// snowball finishes the job.
	target := model.Location{X: 3, Y: 3}

	attacker := &Troop{ID: "a", OwnerID: "u1", Kind: model.LightCavalry, Quantity: 100, Location: model.Location{X: 2, Y: 2}}
	defender := &Troop{ID: "d", OwnerID: "u2", Kind: model.Pikeman, Quantity: 100, Location: target}

	out := ResolveFight(Engagement{
		Attacker:           attacker,
		Defenders:          []*Troop{defender},
		Ranged:             false,
		Start:              attacker.Location,
		Target:             target,
		TileOwner:          "u2",
		DefenderHomeOwners: map[string]string{"d": "u2"},
	})

	if !out.AttackerAllDead {
		t.Error("attacker should be annihilated")
	}
	if out.AllDefendersDefeated {
		t.Error("defenders should survive")
	}
	if attacker.Quantity != 0 {
		t.Errorf("attacker quantity = %d, want 0", attacker.Quantity)
	}

	// loss_D = (70/200)^1.5, survivors = floor(100 * (1 - loss_D)).
	wantSurvivors := int(math.Floor(100 * (1 - math.Pow(70.0/200.0, 1.5))))
	if defender.Quantity != wantSurvivors {
		t.Errorf("defender quantity = %d, want %d", defender.Quantity, wantSurvivors)
	}
}

func TestFightNoHomeBonusOnForeignTile(t *testing.T) {
	// Same forces without the home advantage: the
	// attacker at full power wipes the defenders too.
	target := model.Location{X: 3, Y: 3}

	attacker := &Troop{ID: "a", OwnerID: "u1", Kind: model.LightCavalry, Quantity: 100, Location: model.Location{X: 2, Y: 2}}
	defender := &Troop{ID: "d", OwnerID: "u2", Kind: model.Pikeman, Quantity: 100, Location: target}

	ResolveFight(Engagement{
		Attacker:           attacker,
		Defenders:          []*Troop{defender},
		Ranged:             false,
		Start:              attacker.Location,
		Target:             target,
		TileOwner:          "",
		DefenderHomeOwners: map[string]string{},
	})

	// loss_A = (100/100)^1.5 = 1 -> annihilated either
	// way, but loss_D = (100/200)^1.5 ~ 0.354 now.
	wantSurvivors := int(math.Floor(100 * (1 - math.Pow(100.0/200.0, 1.5))))
	if defender.Quantity != wantSurvivors {
		t.Errorf("defender quantity = %d, want %d", defender.Quantity, wantSurvivors)
	}
}

func TestFightArcherRangedImmunity(t *testing.T) {
	// An archer firing on an adjacent tile takes no
	// return fire.
	start := model.Location{X: 0, Y: 0}
	target := model.Location{X: 1, Y: 0}

	attacker := &Troop{ID: "a", OwnerID: "u1", Kind: model.ArcherTroop, Quantity: 10, Location: start}
	defender := &Troop{ID: "d", OwnerID: "u2", Kind: model.Militia, Quantity: 10, Location: target}

	out := ResolveFight(Engagement{
		Attacker:  attacker,
		Defenders: []*Troop{defender},
		Ranged:    true,
		Start:     start,
		Target:    target,
	})

	if attacker.Quantity != 10 {
		t.Errorf("ranged attacker should take no losses, got %d", attacker.Quantity)
	}
	if out.AttackerAllDead {
		t.Error("ranged attacker cannot die out of reach")
	}
}

func TestFightDefendingArcherCannotFireOnOwnTile(t *testing.T) {
	// A lone archer defending its own tile contributes
	// no attack, so the melee attacker takes no losses.
	target := model.Location{X: 5, Y: 5}

	attacker := &Troop{ID: "a", OwnerID: "u1", Kind: model.Militia, Quantity: 10, Location: model.Location{X: 4, Y: 5}}
	defender := &Troop{ID: "d", OwnerID: "u2", Kind: model.ArcherTroop, Quantity: 10, Location: target}

	ResolveFight(Engagement{
		Attacker:  attacker,
		Defenders: []*Troop{defender},
		Ranged:    false,
		Start:     attacker.Location,
		Target:    target,
	})

	if attacker.Quantity != 10 {
		t.Errorf("attacker should take no losses against a silent archer, got %d", attacker.Quantity)
	}
}

func TestFightBackpackRedistribution(t *testing.T) {
	// The defenders are wiped and their carried loot is
	// offered to the surviving attacker within its caps.
	target := model.Location{X: 5, Y: 5}

	attacker := &Troop{ID: "a", OwnerID: "u1", Kind: model.Militia, Quantity: 100, Location: model.Location{X: 4, Y: 5}}
	defender := &Troop{
		ID: "d", OwnerID: "u2", Kind: model.Militia, Quantity: 5,
		Location: target,
		Backpack: model.Resources{Wood: 100, Food: 50},
	}

	out := ResolveFight(Engagement{
		Attacker:  attacker,
		Defenders: []*Troop{defender},
		Ranged:    false,
		Start:     attacker.Location,
		Target:    target,
	})

	if !out.AllDefendersDefeated {
		t.Fatal("defenders should be defeated")
	}
	if math.Abs(attacker.Backpack.Wood-100) > 1e-6 || math.Abs(attacker.Backpack.Food-50) > 1e-6 {
		t.Errorf("attacker should inherit the fallen loot, got %+v", attacker.Backpack)
	}
}

func TestFightConservesResourcesWithinCapacity(t *testing.T) {
	// Both sides take losses. Whatever is not lost to
	// overflow must end up in a surviving backpack.
	target := model.Location{X: 5, Y: 5}

	attacker := &Troop{
		ID: "a", OwnerID: "u1", Kind: model.Pikeman, Quantity: 100,
		Location: model.Location{X: 4, Y: 5},
		Backpack: model.Resources{Wood: 200},
	}
	defender := &Troop{
		ID: "d", OwnerID: "u2", Kind: model.Pikeman, Quantity: 80,
		Location: target,
		Backpack: model.Resources{Wood: 150},
	}

	before := attacker.Backpack.Total() + defender.Backpack.Total()

	ResolveFight(Engagement{
		Attacker:  attacker,
		Defenders: []*Troop{defender},
		Ranged:    false,
		Start:     attacker.Location,
		Target:    target,
	})

	after := attacker.Backpack.Total() + defender.Backpack.Total()

	// Capacities are far from exhausted here so nothing
	// should overflow.
	if math.Abs(before-after) > 1e-6 {
		t.Errorf("carried resources not conserved: before %v, after %v", before, after)
	}
}
