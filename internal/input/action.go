// internal/input/action.go
package input

// Action represents an operation the board performs in response to input.
type Action int

const (
	// --- Meta Actions ---
	ActionUnknown Action = iota
	ActionQuit

	// --- History ---
	ActionUndo
	ActionRedo
	ActionClear

	// --- Pages ---
	ActionNextPage
	ActionPrevPage

	// --- Output ---
	ActionSaveSlide
	ActionExportAll
	ActionCopySlide

	// --- Tools ---
	ActionToolPen
	ActionToolHighlight
	ActionToolEraser
	ActionSelectInk // Uses Index
	ActionBrushGrow
	ActionBrushShrink

	// --- View ---
	ActionCycleTheme
)

var actionNames = map[Action]string{
	ActionUnknown:       "unknown",
	ActionQuit:          "quit",
	ActionUndo:          "undo",
	ActionRedo:          "redo",
	ActionClear:         "clear",
	ActionNextPage:      "next-page",
	ActionPrevPage:      "prev-page",
	ActionSaveSlide:     "save-slide",
	ActionExportAll:     "export-all",
	ActionCopySlide:     "copy-slide",
	ActionToolPen:       "pen",
	ActionToolHighlight: "highlight",
	ActionToolEraser:    "eraser",
	ActionSelectInk:     "select-ink",
	ActionBrushGrow:     "brush-grow",
	ActionBrushShrink:   "brush-shrink",
	ActionCycleTheme:    "cycle-theme",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent is a decoded key press.
type ActionEvent struct {
	Action Action
	Index  int // 0-based ink slot for ActionSelectInk
}
