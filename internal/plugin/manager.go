// internal/plugin/manager.go
package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/slate/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
type Manager struct {
	mu          sync.RWMutex
	plugins     map[string]Plugin
	initialized []string // Names of plugins whose Initialize succeeded
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin. It must be called before InitializePlugins.
func (m *Manager) Register(plugin Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins[name] = plugin
	logger.DebugTagf("plugin", "Plugin Manager: Registered plugin '%s'", name)
	return nil
}

// sortedLocked returns the plugins in name order. Must hold mu.
func (m *Manager) sortedLocked() []Plugin {
	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Plugin, 0, len(names))
	for _, name := range names {
		out = append(out, m.plugins[name])
	}
	return out
}

// InitializePlugins initializes every registered plugin in name order.
// A failing plugin is logged and skipped; the others still start.
func (m *Manager) InitializePlugins(api BoardAPI) {
	m.mu.RLock()
	toInit := m.sortedLocked()
	m.mu.RUnlock()

	logger.Infof("Plugin Manager: Initializing %d plugins...", len(toInit))
	var started []string
	for _, p := range toInit {
		if err := p.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: Error initializing plugin '%s': %v", p.Name(), err)
			continue
		}
		started = append(started, p.Name())
		logger.DebugTagf("plugin", "Plugin Manager: Initialized plugin '%s'", p.Name())
	}

	m.mu.Lock()
	m.initialized = started
	m.mu.Unlock()
}

// ShutdownPlugins shuts down initialized plugins in reverse order and
// returns their joined errors.
func (m *Manager) ShutdownPlugins() error {
	m.mu.Lock()
	names := m.initialized
	m.initialized = nil
	m.mu.Unlock()

	var errs []error
	for i := len(names) - 1; i >= 0; i-- {
		p, ok := m.GetPlugin(names[i])
		if !ok {
			continue
		}
		if err := p.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: Error shutting down plugin '%s': %v", p.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// GetPlugin returns a registered plugin by name.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.plugins[name]
	return p, exists
}

// Names returns the registered plugin names in order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
