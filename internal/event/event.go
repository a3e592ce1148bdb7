// internal/event/event.go
package event

import (
	"github.com/bethropolis/slate/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// History events
	TypeSnapshotCommitted  // A snapshot became the latest state of a page
	TypeHistoryUndone      // Undo moved a page back one step
	TypeHistoryRedone      // Redo re-applied one step
	TypePageChanged        // The current page index changed
	TypePageCreated        // A page was visited for the first time
	TypeBoardCleared       // A page was cleared (also produces a commit)
	TypeRedisplayDiscarded // A stale asynchronous redisplay was dropped

	// Session events
	TypeToolChanged // Tool, ink or brush size changed

	// Export events
	TypeSlideExported

	// Input events
	TypeKeyPressed

	// Application lifecycle events
	TypeAppReady
	TypeAppQuit
	TypeConfigReloaded
)

var typeNames = map[Type]string{
	TypeUnknown:            "Unknown",
	TypeSnapshotCommitted:  "SnapshotCommitted",
	TypeHistoryUndone:      "HistoryUndone",
	TypeHistoryRedone:      "HistoryRedone",
	TypePageChanged:        "PageChanged",
	TypePageCreated:        "PageCreated",
	TypeBoardCleared:       "BoardCleared",
	TypeRedisplayDiscarded: "RedisplayDiscarded",
	TypeToolChanged:        "ToolChanged",
	TypeSlideExported:      "SlideExported",
	TypeKeyPressed:         "KeyPressed",
	TypeAppReady:           "AppReady",
	TypeAppQuit:            "AppQuit",
	TypeConfigReloaded:     "ConfigReloaded",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// SnapshotCommittedData describes a commit on a page.
type SnapshotCommittedData struct {
	Page     int
	Snapshot types.Snapshot
	Evicted  int // History entries dropped to respect the bound
}

// HistoryStepData describes an undo or redo step.
type HistoryStepData struct {
	Page      int
	Snapshot  types.Snapshot // Snapshot now current on the page
	UndoDepth int
	RedoDepth int
}

// PageChangedData contains the old and new page indexes (0-based).
type PageChangedData struct {
	From    int
	To      int
	Created bool
}

// PageCreatedData contains the index of the new page.
type PageCreatedData struct {
	Page int
}

// BoardClearedData contains the cleared page.
type BoardClearedData struct {
	Page int
}

// RedisplayDiscardedData identifies a dropped redisplay completion.
type RedisplayDiscardedData struct {
	Generation uint64
	Latest     uint64
	Snapshot   types.Snapshot
}

// ToolChangedData carries the session settings after the change.
type ToolChangedData struct {
	Tool string
	Ink  string
	Size int
}

// SlideExportedData contains the page number (1-based) and written path.
type SlideExportedData struct {
	PageNumber int
	Path       string
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// ConfigReloadedData contains the path of the reloaded file.
type ConfigReloadedData struct {
	Path string
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
