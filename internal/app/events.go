package app

import (
	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/logger"
)

// subscribeCoreEvents wires app-level reactions to board events.
func (a *App) subscribeCoreEvents() {
	a.eventManager.Subscribe(event.TypePageChanged, a.handlePageChanged)
	a.eventManager.Subscribe(event.TypeBoardCleared, a.handleBoardCleared)
	a.eventManager.Subscribe(event.TypeToolChanged, a.handleToolChanged)
	a.eventManager.Subscribe(event.TypeRedisplayDiscarded, a.handleRedisplayDiscarded)
}

func (a *App) handlePageChanged(e event.Event) bool {
	if data, ok := e.Data.(event.PageChangedData); ok && data.Created {
		a.SetStatusMessage("New slide %d", data.To+1)
	}
	return false
}

func (a *App) handleBoardCleared(e event.Event) bool {
	if data, ok := e.Data.(event.BoardClearedData); ok {
		a.SetStatusMessage("Cleared slide %d (Ctrl+Z to undo)", data.Page+1)
	}
	return false
}

func (a *App) handleToolChanged(e event.Event) bool {
	if data, ok := e.Data.(event.ToolChangedData); ok {
		a.SetStatusMessage("%s, %s ink, size %d", data.Tool, data.Ink, data.Size)
	}
	return false
}

func (a *App) handleRedisplayDiscarded(e event.Event) bool {
	if data, ok := e.Data.(event.RedisplayDiscardedData); ok {
		logger.DebugTagf("app", "App: Dropped stale redisplay of %s (generation %d < %d)",
			data.Snapshot.Short(), data.Generation, data.Latest)
	}
	return false
}
