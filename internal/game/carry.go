package game

import "minute_empire_server/internal/model"

// Steal :
// Transfers resources from a defeated village into the
// backpack of the input troop, up to its carrying
// limits. The distribution is proportional to the
// village's per-resource holdings and iterates: any
// resource that runs dry or hits its per-resource cap
// drops out and the remaining carrying room is spread
// over the others.
//
// The village is debited before the troop is credited.
//
// The `v` defines the plundered village. Its stock is
// expected to be up to date.
//
// The `t` defines the looting troop.
func Steal(v *Village, t *Troop) {
	capacity := t.Capacity()
	totalRemaining := capacity.Total - t.Backpack.Total()

	perResRemaining := make(map[model.ResourceKind]float64, len(model.ResourceKinds))
	for _, kind := range model.ResourceKinds {
		perResRemaining[kind] = capacity.PerResource.Get(kind) - t.Backpack.Get(kind)
	}

	const epsilon = 1e-9

	for totalRemaining > epsilon {
		// Resources still worth distributing: present in
		// the village and not capped in the backpack.
		available := 0.0
		for _, kind := range model.ResourceKinds {
			if v.Resources.Get(kind) > epsilon && perResRemaining[kind] > epsilon {
				available += v.Resources.Get(kind)
			}
		}
		if available <= epsilon {
			break
		}

		progress := 0.0
		for _, kind := range model.ResourceKinds {
			stock := v.Resources.Get(kind)
			if stock <= epsilon || perResRemaining[kind] <= epsilon {
				continue
			}

			take := totalRemaining * stock / available
			if take > stock {
				take = stock
			}
			if take > perResRemaining[kind] {
				take = perResRemaining[kind]
			}

			v.Resources.Add(kind, -take)
			t.Backpack.Add(kind, take)
			perResRemaining[kind] -= take
			progress += take
		}

		if progress <= epsilon {
			break
		}
		totalRemaining -= progress
	}
}

// Deposit :
// Empties the backpack of the input troop into the
// resources of its friendly village, clamped at the
// storage capacity of each resource. Whatever does not
// fit is discarded, the backpack ends up empty either
// way.
//
// The `v` defines the receiving village. Its stock is
// expected to be up to date.
//
// The `t` defines the unloading troop.
func Deposit(v *Village, t *Troop) {
	for _, kind := range model.ResourceKinds {
		carried := t.Backpack.Get(kind)
		if carried <= 0 {
			continue
		}

		space := v.Capacity(kind) - v.Resources.Get(kind)
		if space < 0 {
			space = 0
		}
		if carried > space {
			carried = space
		}

		v.Resources.Add(kind, carried)
	}

	t.Backpack = model.Resources{}
}
