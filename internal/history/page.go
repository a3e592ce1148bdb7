// Package history keeps per-page undo/redo history of whole-surface snapshots.
package history

import "github.com/bethropolis/slate/internal/types"

// Page is one independent drawing canvas with its own history.
type Page struct {
	Index    int
	snapshot types.Snapshot   // What the surface shows for this page
	undo     []types.Snapshot // Oldest first; top is the current snapshot when non-empty
	redo     []types.Snapshot // Most recently undone last
}

func newPage(index int) *Page {
	return &Page{Index: index}
}

// push appends s to the undo stack and trims it to max entries.
// It returns how many of the oldest entries were dropped.
func (p *Page) push(s types.Snapshot, max int) int {
	p.undo = append(p.undo, s)
	evicted := 0
	if len(p.undo) > max {
		evicted = len(p.undo) - max
		// Copy into a fresh slice so evicted snapshots can be collected.
		kept := make([]types.Snapshot, max, max+1)
		copy(kept, p.undo[evicted:])
		p.undo = kept
	}
	return evicted
}

// top returns the most recent undo entry, or the blank snapshot.
func (p *Page) top() types.Snapshot {
	if len(p.undo) == 0 {
		return types.Snapshot{}
	}
	return p.undo[len(p.undo)-1]
}

// UndoStack returns a copy of the undo stack, oldest first.
func (p *Page) UndoStack() []types.Snapshot {
	out := make([]types.Snapshot, len(p.undo))
	copy(out, p.undo)
	return out
}
