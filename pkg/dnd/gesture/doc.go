// Package gesture connects pointer input to the drop engine.
//
// Hosts translate their own input (mouse events, key presses, HTTP calls)
// into a handful of calls on a [Controller]:
//
//	c := gesture.New(gesture.Config{
//	    Nodes:     nodemap.Build(roots, expanded),
//	    Store:     indicator.New(),
//	    OnReorder: func(ev dnd.ReorderEvent) { ... },
//	})
//	c.Begin("row-7")              // drag handle grabbed
//	c.Move("row-2", dnd.EdgeTop)  // pointer over the top half of row-2
//	c.Drop("row-2", dnd.EdgeTop)  // released
//
// # Classification
//
// [Classify] turns the hovered row's level and the nearest row edge into a
// raw [dnd.Instruction], the way a drop target reads the drag payload: rows
// on the source's level split into top and bottom halves, the row one level
// up accepts the source as a child, and deeper rows resolve to their
// ancestor on the source's level.
//
// # Lifecycle
//
// [Controller.Begin] captures a [Source] from the current node map, the
// same payload a drag handle attaches when the drag starts. Every
// [Controller.Move] recomputes the drop and writes the indicator to the
// store. [Controller.Leave], [Controller.Cancel] and [Controller.Drop]
// clear it. Only Drop emits a [dnd.ReorderEvent], and only when the drop is
// not blocked.
//
// When the data changes mid-gesture, hand the controller a new map with
// [Controller.SetNodes]; the next Move sees it.
package gesture
