package game

import (
	"testing"

	"minute_empire_server/internal/model"
)

func TestParseCommandValid(t *testing.T) {
	cases := []struct {
		input string
		want  Command
	}{
		{
			"create wood field in 3",
			Command{Verb: CreateVerb, Target: FieldTarget, Subtype: "wood", Slot: 3},
		},
		{
			"CREATE Warehouse BUILDING in 5",
			Command{Verb: CreateVerb, Target: BuildingTarget, Subtype: "warehouse", Slot: 5},
		},
		{
			"upgrade field in 0",
			Command{Verb: UpgradeVerb, Target: FieldTarget, Slot: 0},
		},
		{
			"destroy building in 12",
			Command{Verb: DestroyVerb, Target: BuildingTarget, Slot: 12},
		},
		{
			"train 25 militia",
			Command{Verb: TrainVerb, Quantity: 25, TroopKind: model.Militia},
		},
		{
			"move abc123 to 4,-2",
			Command{Verb: MoveVerb, TroopID: "abc123", Location: model.Location{X: 4, Y: -2}},
		},
		{
			"move abc123 to 4 -2",
			Command{Verb: MoveVerb, TroopID: "abc123", Location: model.Location{X: 4, Y: -2}},
		},
		{
			"move abc123 to 4, -2",
			Command{Verb: MoveVerb, TroopID: "abc123", Location: model.Location{X: 4, Y: -2}},
		},
		{
			"attack abc123 to -1,7",
			Command{Verb: AttackVerb, TroopID: "abc123", Location: model.Location{X: -1, Y: 7}},
		},
		{
			"  train   3   pikeman  ",
			Command{Verb: TrainVerb, Quantity: 3, TroopKind: model.Pikeman},
		},
	}

	for _, c := range cases {
		got, err := ParseCommand(c.input)
		if err != nil {
			t.Errorf("ParseCommand(%q) failed: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", c.input, got, c.want)
		}
	}
}

func TestParseCommandInvalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"fly abc123 to 3,4",
		"create field in 3",
		"create wood farm in 3",
		"create gold field in 3",
		"create hide_spot building in",
		"upgrade field at 3",
		"upgrade field in three",
		"train militia",
		"train -5 militia",
		"train 0 militia",
		"train 5 dragons",
		"move abc123 towards 3,4",
		"move abc123 to x,y",
		"move abc123 to 3",
		"attack abc123 to 1,2,3",
	}

	for _, input := range cases {
		if _, err := ParseCommand(input); err == nil {
			t.Errorf("ParseCommand(%q) should fail", input)
		}
	}
}

func TestCommandRoundTrip(t *testing.T) {
	commands := []Command{
		{Verb: CreateVerb, Target: FieldTarget, Subtype: "iron", Slot: 7},
		{Verb: CreateVerb, Target: BuildingTarget, Subtype: "granary", Slot: 2},
		{Verb: UpgradeVerb, Target: BuildingTarget, Slot: 0},
		{Verb: DestroyVerb, Target: FieldTarget, Slot: 19},
		{Verb: TrainVerb, Quantity: 12, TroopKind: model.ArcherTroop},
		{Verb: MoveVerb, TroopID: "507f1f77bcf86cd799439011", Location: model.Location{X: -3, Y: 14}},
		{Verb: AttackVerb, TroopID: "507f1f77bcf86cd799439011", Location: model.Location{X: 0, Y: 0}},
	}

	for _, cmd := range commands {
		parsed, err := ParseCommand(cmd.String())
		if err != nil {
			t.Errorf("round trip of %+v failed: %v", cmd, err)
			continue
		}
		if parsed != cmd {
			t.Errorf("round trip of %+v produced %+v", cmd, parsed)
		}
	}
}
