package dnd

import (
	"github.com/matzehuels/treetable/pkg/errors"
)

// Instruction is the raw drop intent derived from pointer geometry.
type Instruction string

const (
	InstructionAbove         Instruction = "above"
	InstructionBelow         Instruction = "below"
	InstructionMakeChild     Instruction = "make-child"
	InstructionBelowAncestor Instruction = "below-ancestor"
)

// Instructions lists every valid instruction.
var Instructions = []Instruction{InstructionAbove, InstructionBelow, InstructionMakeChild, InstructionBelowAncestor}

// ParseInstruction converts a name such as "make-child" into an Instruction.
func ParseInstruction(s string) (Instruction, error) {
	switch i := Instruction(s); i {
	case InstructionAbove, InstructionBelow, InstructionMakeChild, InstructionBelowAncestor:
		return i, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInstruction,
		"unknown instruction %q (want above, below, make-child or below-ancestor)", s)
}

// Position is where a move places the source relative to its target.
type Position string

const (
	PositionAbove     Position = "above"
	PositionBelow     Position = "below"
	PositionMakeChild Position = "make-child"
)

// ParsePosition converts a name such as "below" into a Position.
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case PositionAbove, PositionBelow, PositionMakeChild:
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInstruction,
		"unknown position %q (want above, below or make-child)", s)
}

// Edge returns the row edge a renderer draws the hint on. [PositionMakeChild]
// has no edge; it outlines the whole row.
func (p Position) Edge() Edge {
	switch p {
	case PositionAbove:
		return EdgeTop
	case PositionBelow:
		return EdgeBottom
	}
	return EdgeNone
}

// Edge is a horizontal edge of a row.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	}
	return "none"
}

// Indicator names the row that shows the drop hint and the kind of hint.
type Indicator struct {
	RowID string   `json:"rowId"`
	Kind  Position `json:"kind"`
}

// ReorderEvent is the move a completed drop asks the host to apply.
type ReorderEvent struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Position Position `json:"position"`
}

// Result is the outcome of [Compute]. Indicator and Event are both nil when
// the drop is blocked and both set otherwise.
type Result struct {
	Indicator *Indicator    `json:"indicator"`
	Event     *ReorderEvent `json:"event"`
}

// Blocked reports whether the drop is illegal or a no-op.
func (r Result) Blocked() bool { return r.Event == nil }
