// internal/plugin/plugin.go
package plugin

import (
	"context"

	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/types"
)

// BoardAPI is what plugins may do with the board. Methods are safe to call
// from plugin goroutines.
type BoardAPI interface {
	// --- Pages (read-only) ---
	CurrentPageNumber() int
	PageCount() int
	Snapshots() map[int]types.Snapshot // Keyed by 0-based page index

	// --- Export ---
	ExportAll(ctx context.Context) ([]string, error)

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Configuration ---
	// GetPluginConfigValue reads a key from the [plugins.<name>] table.
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once at startup with the board API.
	Initialize(api BoardAPI) error

	// Shutdown is called once when the app is closing.
	Shutdown() error
}
