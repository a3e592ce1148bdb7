package input

import (
	"github.com/bethropolis/slate/internal/types"
	"github.com/gdamore/tcell/v2"
)

// PointerKind is the phase of a drawing gesture.
type PointerKind int

const (
	PointerNone PointerKind = iota
	PointerDown
	PointerDrag
	PointerUp
)

// PointerEvent is a decoded mouse event in screen cells.
type PointerEvent struct {
	Kind PointerKind
	Cell types.Cell
}

// Pointer turns tcell's level-triggered button masks into press, drag and
// release transitions for the primary button.
type Pointer struct {
	pressed bool
}

// Process decodes ev. ok is false for events that are not part of a gesture
// (wheel, hover, other buttons).
func (p *Pointer) Process(ev *tcell.EventMouse) (PointerEvent, bool) {
	col, row := ev.Position()
	cell := types.Cell{Col: col, Row: row}
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !p.pressed:
		p.pressed = true
		return PointerEvent{Kind: PointerDown, Cell: cell}, true
	case down:
		return PointerEvent{Kind: PointerDrag, Cell: cell}, true
	case p.pressed:
		p.pressed = false
		return PointerEvent{Kind: PointerUp, Cell: cell}, true
	default:
		return PointerEvent{}, false
	}
}

// Pressed reports whether the primary button is held.
func (p *Pointer) Pressed() bool { return p.pressed }
