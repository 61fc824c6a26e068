// Package dnd decides what a drag-and-drop gesture over a tree table means.
//
// # Overview
//
// While a row is dragged, the interaction layer hit-tests the pointer and
// classifies it against the hovered row as a raw [Instruction]: above it,
// below it, as its child, or below one of its ancestors. That
// classification knows nothing about the tree. [Compute] checks it against
// a [nodemap.Map] snapshot and turns it into a [Result]:
//
//   - an [Indicator] naming the row that should paint the drop hint and the
//     kind of hint, and
//   - a [ReorderEvent] describing the move the host should apply if the user
//     releases now.
//
// Illegal moves and moves that would not change anything are both
// "blocked": the result carries neither field. Callers never need to tell
// the two apart, because both mean the drag snaps back.
//
// # Rules
//
// A drop is blocked when either row is unknown, when a row is dropped on
// itself, or when it is dropped into its own subtree. Reordering among
// siblings ([InstructionAbove], [InstructionBelow]) requires both rows at the same level;
// [InstructionMakeChild] requires the target one level above the source. Moves never
// change depth by more than that.
//
// Some results point the indicator at a different row than the one being
// hovered:
//
//   - Making a row the child of an expanded parent inserts it above the
//     parent's first child, so both the indicator and the event move to that
//     child.
//   - Dropping below an expanded row places the source after the row's whole
//     visible subtree. The indicator is drawn under the last visible
//     descendant while the event still names the hovered row.
//   - [InstructionBelowAncestor] resolves to [InstructionBelow] against the hovered row's ancestor
//     at the source's level.
//
// # Purity
//
// [Compute] reads the map and returns a value. It never mutates its input,
// never logs, and has no error channel. Rebuild the map after applying an
// event; asking the same question again then reports the drop as blocked.
//
// [nodemap.Map]: github.com/matzehuels/treetable/pkg/tree/nodemap#Map
package dnd
