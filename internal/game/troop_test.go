package game

import (
	"testing"

	"minute_empire_server/internal/model"
)

func TestTroopIdle(t *testing.T) {
	cases := []struct {
		mode TroopMode
		idle bool
	}{
		{TroopIdle, true},
		// Documents written before the mode existed have
		// no value at all and must count as idle.
		{"", true},
		{TroopMoving, false},
		{TroopAttacking, false},
		{TroopDefending, false},
	}

	for _, c := range cases {
		troop := Troop{Kind: model.Militia, Quantity: 1, Mode: c.mode}

		if got := troop.Idle(); got != c.idle {
			t.Errorf("Idle() with mode %q = %v, expected %v", c.mode, got, c.idle)
		}
	}
}
