package dnd

import (
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

// Compute decides what dropping sourceID onto targetID with instr would do.
//
// The checks run in order: both ids must be in m, the source may not be
// the target or one of its ancestors, [InstructionBelowAncestor] is redirected to
// [InstructionBelow] on the target's ancestor at the source's level, and the levels
// must fit the instruction. What remains is normalized per position and
// no-op moves are blocked. See the package documentation for details.
//
// A nil map blocks every drop.
func Compute(sourceID, targetID string, instr Instruction, m *nodemap.Map) Result {
	source, ok := m.Get(sourceID)
	if !ok {
		return Result{}
	}
	target, ok := m.Get(targetID)
	if !ok {
		return Result{}
	}
	if sourceID == targetID {
		return Result{}
	}
	if m.IsAncestor(sourceID, targetID) {
		return Result{}
	}

	switch instr {
	case InstructionBelowAncestor:
		ancestor, ok := m.AncestorAtLevel(targetID, source.Level)
		if !ok {
			return Result{}
		}
		return Compute(sourceID, ancestor, InstructionBelow, m)
	case InstructionAbove, InstructionBelow:
		if target.Level != source.Level {
			return Result{}
		}
	case InstructionMakeChild:
		if target.Level != source.Level-1 {
			return Result{}
		}
	default:
		return Result{}
	}

	switch instr {
	case InstructionMakeChild:
		return makeChild(source, target)
	case InstructionAbove:
		return above(source, target)
	default:
		return below(source, target, m)
	}
}

func makeChild(source, target nodemap.Meta) Result {
	if target.IsExpanded {
		first := target.ChildIDs[0]
		if first == source.ID {
			return Result{}
		}
		if source.ParentID == target.ID && source.IndexAmongSiblings == 0 {
			return Result{}
		}
		return result(source.ID, first, first, PositionAbove)
	}
	if source.ParentID == target.ID && target.LastChildID() == source.ID {
		return Result{}
	}
	return result(source.ID, target.ID, target.ID, PositionMakeChild)
}

func above(source, target nodemap.Meta) Result {
	if source.ParentID == target.ParentID && source.IndexAmongSiblings+1 == target.IndexAmongSiblings {
		return Result{}
	}
	return result(source.ID, target.ID, target.ID, PositionAbove)
}

func below(source, target nodemap.Meta, m *nodemap.Map) Result {
	if source.ParentID == target.ParentID && target.IndexAmongSiblings+1 == source.IndexAmongSiblings {
		return Result{}
	}
	row := target.ID
	if target.IsExpanded {
		row = m.LastVisibleDescendant(target.ID)
	}
	return result(source.ID, target.ID, row, PositionBelow)
}

func result(sourceID, targetID, rowID string, pos Position) Result {
	return Result{
		Indicator: &Indicator{RowID: rowID, Kind: pos},
		Event:     &ReorderEvent{SourceID: sourceID, TargetID: targetID, Position: pos},
	}
}

// Recheck reports whether m still yields ev when its position is replayed as
// an instruction on its target. Hosts call it before applying an event that
// was decided against an older map.
func Recheck(ev ReorderEvent, m *nodemap.Map) bool {
	var instr Instruction
	switch ev.Position {
	case PositionAbove:
		instr = InstructionAbove
	case PositionBelow:
		instr = InstructionBelow
	case PositionMakeChild:
		instr = InstructionMakeChild
	default:
		return false
	}
	res := Compute(ev.SourceID, ev.TargetID, instr, m)
	return !res.Blocked() && *res.Event == ev
}
