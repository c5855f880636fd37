package game

import (
	"math"

	"minute_empire_server/internal/model"
)

// Combat tuning constants. The snowball exponent makes
// uneven fights very uneven, the thresholds turn near
// total losses into annihilation and light scratches
// into no losses at all.
const (
	allDeadThreshold  = 0.85
	allAliveThreshold = 0.15
	snowballExponent  = 1.5
	attackerDiscount  = 0.3
)

// Engagement :
// Describes a fight to resolve: the attacker, the
// defenders co-located at the target tile, and the
// context needed by the ranged and home-advantage
// rules.
//
// The `Ranged` flag tells whether the fight comes
// from an attack order rather than a contested move.
//
// The `TileOwner` holds the owner of the village at
// the target tile, empty when the tile is bare.
//
// The `DefenderHomeOwners` maps each defender troop
// identifier to the owner of its home village.
type Engagement struct {
	Attacker           *Troop
	Defenders          []*Troop
	Ranged             bool
	Start              model.Location
	Target             model.Location
	TileOwner          string
	DefenderHomeOwners map[string]string
}

// FightOutcome :
// The two flags the completion callbacks act on. Any
// troop brought to quantity `0` must be deleted by the
// caller.
type FightOutcome struct {
	AttackerAllDead      bool
	AllDefendersDefeated bool
}

// clampLoss :
// Clamps a raw snowball ratio into a loss fraction and
// applies the annihilation and no-casualty thresholds.
func clampLoss(ratio float64) float64 {
	loss := math.Max(0, math.Min(ratio, 1))
	if loss > allDeadThreshold {
		return 1
	}
	if loss < allAliveThreshold {
		return 0
	}
	return loss
}

// snowball :
// The super-linear offense over defense ratio. A side
// without defense suffers no snowball by convention.
func snowball(offense float64, defense float64) float64 {
	if defense <= 0 {
		return 0
	}
	return math.Pow(offense/defense, snowballExponent)
}

// ResolveFight :
// Resolves a fight between the attacker and the
// defenders of the input engagement, mutating the
// quantities and backpacks of every involved troop.
//
// Ranged attackers firing from outside the melee take
// no return fire, defending archers cannot fire on
// the tile they stand on, and attacking a tile owned
// by the defenders' own faction discounts the
// attacker's power.
//
// Returns the outcome flags.
func ResolveFight(e Engagement) FightOutcome {
	a := e.Attacker

	atkA := a.AttackPower()
	defA := a.DefensePower()

	atkD := 0.0
	defD := 0.0
	for _, d := range e.Defenders {
		defD += d.DefensePower()
		// A defending archer cannot fire on its own
		// tile and contributes no attack there.
		if d.Kind == model.ArcherTroop && d.Location == e.Target {
			continue
		}
		atkD += d.AttackPower()
	}

	// Ranged immunity: an archer attacking within its
	// reach, or a pikeman attacking a tile within reach
	// other than its own, is out of retaliation range.
	if e.Ranged {
		if a.Kind == model.ArcherTroop && model.CanAttackAt(a.Kind, e.Start, e.Target) {
			atkD = 0
		}
		if a.Kind == model.Pikeman && model.CanAttackAt(a.Kind, e.Start, e.Target) && e.Target != e.Start {
			atkD = 0
		}
	}

	// Home advantage: defenders fighting on a tile
	// owned by their own faction weaken the attacker.
	if e.TileOwner != "" {
		for _, d := range e.Defenders {
			if e.DefenderHomeOwners[d.ID] == e.TileOwner {
				atkA *= 1 - attackerDiscount
				defA *= 1 - attackerDiscount
				break
			}
		}
	}

	lossA := clampLoss(snowball(atkD, defA))
	lossD := clampLoss(snowball(atkA, defD))

	preQtyA := a.Quantity
	preQtyD := make([]int, len(e.Defenders))
	for i, d := range e.Defenders {
		preQtyD[i] = d.Quantity
	}
	preBackpackA := a.Backpack
	preBackpackD := make([]model.Resources, len(e.Defenders))
	for i, d := range e.Defenders {
		preBackpackD[i] = d.Backpack
	}

	a.Quantity = int(math.Floor(float64(preQtyA) * (1 - lossA)))
	allDefeated := true
	for i, d := range e.Defenders {
		d.Quantity = int(math.Floor(float64(preQtyD[i]) * (1 - lossD)))
		if d.Quantity > 0 {
			allDefeated = false
		}
	}

	redistributeBackpacks(a, e.Defenders, preQtyA, preQtyD, preBackpackA, preBackpackD)

	return FightOutcome{
		AttackerAllDead:      a.Quantity == 0,
		AllDefendersDefeated: allDefeated,
	}
}

// redistributeBackpacks :
// Applies the post-combat backpack transfer: each side
// loses the share of its carried resources matching its
// casualties, and that pool is offered to the survivors
// of the other side, bounded by their remaining
// capacity. Overflow is lost.
func redistributeBackpacks(a *Troop, defenders []*Troop, preQtyA int, preQtyD []int, preBackpackA model.Resources, preBackpackD []model.Resources) {
	lossRatio := func(pre int, post int) float64 {
		if pre == 0 {
			return 0
		}
		return 1 - float64(post)/float64(pre)
	}

	ratioA := lossRatio(preQtyA, a.Quantity)

	// Shrink every backpack by the owner's losses and
	// build the pool each side abandons.
	attackerPool := model.Resources{}
	defenderPool := model.Resources{}

	for _, kind := range model.ResourceKinds {
		dropped := preBackpackA.Get(kind) * ratioA
		attackerPool.Add(kind, dropped)
		a.Backpack.Set(kind, preBackpackA.Get(kind)-dropped)
	}

	for i, d := range defenders {
		ratio := lossRatio(preQtyD[i], d.Quantity)
		for _, kind := range model.ResourceKinds {
			dropped := preBackpackD[i].Get(kind) * ratio
			defenderPool.Add(kind, dropped)
			d.Backpack.Set(kind, preBackpackD[i].Get(kind)-dropped)
		}
	}

	// The defenders' pool goes to the attacker, the
	// attacker's pool to the surviving defenders.
	if a.Quantity > 0 {
		grantPool(defenderPool, []*Troop{a})
	}

	survivors := make([]*Troop, 0, len(defenders))
	for _, d := range defenders {
		if d.Quantity > 0 {
			survivors = append(survivors, d)
		}
	}
	if len(survivors) > 0 {
		grantPool(attackerPool, survivors)
	}
}

// grantPool :
// Distributes a pool of abandoned resources among the
// input troops, proportionally to each troop's
// remaining per-resource capacity and respecting its
// total cap. Whatever does not fit is lost.
func grantPool(pool model.Resources, troops []*Troop) {
	totalRemaining := make([]float64, len(troops))
	for i, t := range troops {
		totalRemaining[i] = t.Capacity().Total - t.Backpack.Total()
	}

	for _, kind := range model.ResourceKinds {
		amount := pool.Get(kind)
		if amount <= 0 {
			continue
		}

		room := make([]float64, len(troops))
		sum := 0.0
		for i, t := range troops {
			r := t.Capacity().PerResource.Get(kind) - t.Backpack.Get(kind)
			if r > totalRemaining[i] {
				r = totalRemaining[i]
			}
			if r < 0 {
				r = 0
			}
			room[i] = r
			sum += r
		}
		if sum <= 0 {
			continue
		}

		for i, t := range troops {
			share := amount * room[i] / sum
			if share > room[i] {
				share = room[i]
			}
			t.Backpack.Add(kind, share)
			totalRemaining[i] -= share
		}
	}
}
