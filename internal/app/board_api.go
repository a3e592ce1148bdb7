package app

import (
	"context"

	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/plugin"
	"github.com/bethropolis/slate/internal/types"
)

var _ plugin.BoardAPI = (*appBoardAPI)(nil)

// appBoardAPI is the plugin-facing view of the App.
type appBoardAPI struct {
	app *App
}

func newBoardAPI(app *App) *appBoardAPI {
	return &appBoardAPI{app: app}
}

// --- Pages ---

func (api *appBoardAPI) CurrentPageNumber() int {
	return api.app.history.CurrentPageNumber()
}

func (api *appBoardAPI) PageCount() int {
	return api.app.history.PageCount()
}

func (api *appBoardAPI) Snapshots() map[int]types.Snapshot {
	return api.app.history.Snapshots()
}

// --- Export ---

func (api *appBoardAPI) ExportAll(ctx context.Context) ([]string, error) {
	return api.app.exporter.Load().All(ctx, api.app.history.Snapshots())
}

// --- Event Bus Interaction ---

func (api *appBoardAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appBoardAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

// --- Status Bar ---

func (api *appBoardAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

// --- Configuration ---

func (api *appBoardAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	return api.app.config.Load().PluginValue(pluginName, key)
}
