package game

import (
	"fmt"
	"strconv"
	"strings"

	"minute_empire_server/internal/model"
)

// CommandVerb :
// Enumeration of the actions a player can order through
// the text command interface.
type CommandVerb string

const (
	CreateVerb  CommandVerb = "create"
	UpgradeVerb CommandVerb = "upgrade"
	DestroyVerb CommandVerb = "destroy"
	TrainVerb   CommandVerb = "train"
	MoveVerb    CommandVerb = "move"
	AttackVerb  CommandVerb = "attack"
)

// ConstructionTarget :
// Tells whether a construction command concerns a
// resource field or a city building.
type ConstructionTarget string

const (
	FieldTarget    ConstructionTarget = "field"
	BuildingTarget ConstructionTarget = "building"
)

// Command :
// The parsed form of a player order. Only the fields
// relevant to the verb are populated: construction
// verbs use the target, subtype and slot, training
// uses the troop kind and quantity, troop actions use
// the troop identifier and location.
type Command struct {
	Verb      CommandVerb        `json:"verb"`
	Target    ConstructionTarget `json:"target,omitempty"`
	Subtype   string             `json:"subtype,omitempty"`
	Slot      int                `json:"slot,omitempty"`
	Quantity  int                `json:"quantity,omitempty"`
	TroopKind model.TroopKind    `json:"troop_type,omitempty"`
	TroopID   string             `json:"troop_id,omitempty"`
	Location  model.Location     `json:"location,omitempty"`
}

// ErrEmptyCommand : The input contained no tokens.
var ErrEmptyCommand = fmt.Errorf("Command is empty")

// ParseCommand :
// Parses a raw text order into a command. The grammar
// accepts:
//
//	create <subtype> field in <slot>
//	create <subtype> building in <slot>
//	upgrade field in <slot>
//	upgrade building in <slot>
//	destroy field in <slot>
//	destroy building in <slot>
//	train <qty> <troop_type>
//	move <troop_id> to <x>,<y>
//	attack <troop_id> to <x>,<y>
//
// Parsing is case-insensitive, tolerant about extra
// whitespace and accepts both `<x>,<y>` and `<x> <y>`
// coordinates.
//
// Returns the parsed command or an error describing
// the first problem encountered.
func ParseCommand(input string) (Command, error) {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(tokens) == 0 {
		return Command{}, ErrEmptyCommand
	}

	switch CommandVerb(tokens[0]) {
	case CreateVerb:
		return parseCreate(tokens)
	case UpgradeVerb, DestroyVerb:
		return parseUpgradeOrDestroy(tokens)
	case TrainVerb:
		return parseTrain(tokens)
	case MoveVerb, AttackVerb:
		return parseTroopOrder(tokens)
	}

	return Command{}, fmt.Errorf("Unknown command verb \"%s\"", tokens[0])
}

// parseCreate :
// Handles `create <subtype> <field|building> in <slot>`.
func parseCreate(tokens []string) (Command, error) {
	if len(tokens) != 5 || tokens[3] != "in" {
		return Command{}, fmt.Errorf("Invalid creation command, expected \"create <subtype> <field|building> in <slot>\"")
	}

	target, err := parseTarget(tokens[2])
	if err != nil {
		return Command{}, err
	}

	subtype := tokens[1]
	if target == FieldTarget && !model.ValidFieldKind(model.FieldKind(subtype)) {
		return Command{}, fmt.Errorf("Unknown field type \"%s\"", subtype)
	}
	if target == BuildingTarget && !model.ValidBuildingKind(model.BuildingKind(subtype)) {
		return Command{}, fmt.Errorf("Unknown building type \"%s\"", subtype)
	}

	slot, err := strconv.Atoi(tokens[4])
	if err != nil {
		return Command{}, fmt.Errorf("Invalid slot \"%s\"", tokens[4])
	}

	return Command{
		Verb:    CreateVerb,
		Target:  target,
		Subtype: subtype,
		Slot:    slot,
	}, nil
}

// parseUpgradeOrDestroy :
// Handles `<upgrade|destroy> <field|building> in <slot>`.
func parseUpgradeOrDestroy(tokens []string) (Command, error) {
	if len(tokens) != 4 || tokens[2] != "in" {
		return Command{}, fmt.Errorf("Invalid %s command, expected \"%s <field|building> in <slot>\"", tokens[0], tokens[0])
	}

	target, err := parseTarget(tokens[1])
	if err != nil {
		return Command{}, err
	}

	slot, err := strconv.Atoi(tokens[3])
	if err != nil {
		return Command{}, fmt.Errorf("Invalid slot \"%s\"", tokens[3])
	}

	return Command{
		Verb:   CommandVerb(tokens[0]),
		Target: target,
		Slot:   slot,
	}, nil
}

// parseTrain :
// Handles `train <qty> <troop_type>`.
func parseTrain(tokens []string) (Command, error) {
	if len(tokens) != 3 {
		return Command{}, fmt.Errorf("Invalid training command, expected \"train <qty> <troop_type>\"")
	}

	qty, err := strconv.Atoi(tokens[1])
	if err != nil || qty <= 0 {
		return Command{}, fmt.Errorf("Invalid troop quantity \"%s\"", tokens[1])
	}

	kind := model.TroopKind(tokens[2])
	if !model.ValidTroopKind(kind) {
		return Command{}, fmt.Errorf("Unknown troop type \"%s\"", tokens[2])
	}

	return Command{
		Verb:      TrainVerb,
		Quantity:  qty,
		TroopKind: kind,
	}, nil
}

// parseTroopOrder :
// Handles `<move|attack> <troop_id> to <x>,<y>` where
// the coordinates may also be space separated.
func parseTroopOrder(tokens []string) (Command, error) {
	if len(tokens) < 4 || tokens[2] != "to" {
		return Command{}, fmt.Errorf("Invalid %s command, expected \"%s <troop_id> to <x>,<y>\"", tokens[0], tokens[0])
	}

	loc, err := parseLocation(tokens[3:])
	if err != nil {
		return Command{}, err
	}

	return Command{
		Verb:     CommandVerb(tokens[0]),
		TroopID:  tokens[1],
		Location: loc,
	}, nil
}

// parseTarget :
// Interprets the field-or-building token of a
// construction command.
func parseTarget(token string) (ConstructionTarget, error) {
	switch ConstructionTarget(token) {
	case FieldTarget, BuildingTarget:
		return ConstructionTarget(token), nil
	}
	return "", fmt.Errorf("Invalid construction target \"%s\", expected \"field\" or \"building\"", token)
}

// parseLocation :
// Interprets the coordinate tokens of a troop order,
// accepting `3,4`, `3, 4` and `3 4`.
func parseLocation(tokens []string) (model.Location, error) {
	raw := strings.ReplaceAll(strings.Join(tokens, " "), ",", " ")
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return model.Location{}, fmt.Errorf("Invalid coordinates \"%s\"", strings.Join(tokens, " "))
	}

	x, errX := strconv.Atoi(parts[0])
	y, errY := strconv.Atoi(parts[1])
	if errX != nil || errY != nil {
		return model.Location{}, fmt.Errorf("Invalid coordinates \"%s\"", strings.Join(tokens, " "))
	}

	return model.Location{X: x, Y: y}, nil
}

// String :
// Renders the command back into its canonical textual
// form, parseable by `ParseCommand`.
func (c Command) String() string {
	switch c.Verb {
	case CreateVerb:
		return fmt.Sprintf("create %s %s in %d", c.Subtype, c.Target, c.Slot)
	case UpgradeVerb, DestroyVerb:
		return fmt.Sprintf("%s %s in %d", c.Verb, c.Target, c.Slot)
	case TrainVerb:
		return fmt.Sprintf("train %d %s", c.Quantity, c.TroopKind)
	case MoveVerb, AttackVerb:
		return fmt.Sprintf("%s %s to %d,%d", c.Verb, c.TroopID, c.Location.X, c.Location.Y)
	}
	return ""
}
