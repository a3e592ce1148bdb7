package app

import (
	"fmt"

	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/plugin"
	"github.com/bethropolis/slate/plugins/autoexport"
)

// registerPlugins registers every built-in plugin with the manager.
func registerPlugins(pm *plugin.Manager) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	pluginConstructors := []func() plugin.Plugin{
		autoexport.New,
	}

	var firstErr error
	for _, newPlugin := range pluginConstructors {
		p := newPlugin()
		if err := pm.Register(p); err != nil {
			wrapped := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrapped)
			if firstErr == nil {
				firstErr = wrapped
			}
		}
	}
	return firstErr
}
