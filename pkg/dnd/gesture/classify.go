package gesture

import (
	"github.com/matzehuels/treetable/pkg/dnd"
)

// Classify derives the raw instruction for a pointer over a row at
// targetLevel while a row at sourceLevel is dragged. ok is false when the
// pointer position carries no instruction.
func Classify(sourceLevel, targetLevel int, edge dnd.Edge) (instr dnd.Instruction, ok bool) {
	switch {
	case targetLevel == sourceLevel:
		switch edge {
		case dnd.EdgeTop:
			return dnd.InstructionAbove, true
		case dnd.EdgeBottom:
			return dnd.InstructionBelow, true
		}
		return "", false
	case targetLevel == sourceLevel-1:
		return dnd.InstructionMakeChild, true
	case targetLevel > sourceLevel:
		return dnd.InstructionBelowAncestor, true
	}
	return "", false
}

// ClosestEdge returns the edge nearest to offset within a row of the given
// height, measured from the row's top.
func ClosestEdge(offset, height float64) dnd.Edge {
	if height <= 0 {
		return dnd.EdgeNone
	}
	if offset < height/2 {
		return dnd.EdgeTop
	}
	return dnd.EdgeBottom
}
