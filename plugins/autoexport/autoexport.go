package autoexport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/plugin"
)

var _ plugin.Plugin = (*AutoExport)(nil)

const (
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
)

// AutoExport writes every slide to the export directory at a fixed interval
// whenever something was committed since the last run.
type AutoExport struct {
	api plugin.BoardAPI

	mutex    sync.RWMutex
	enabled  bool
	interval time.Duration

	dirty  atomic.Bool
	runs   atomic.Int64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new instance of the AutoExport plugin.
func New() plugin.Plugin {
	return &AutoExport{
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoExport) Name() string {
	return "autoexport"
}

// Initialize reads configuration and starts the export loop if enabled.
func (p *AutoExport) Initialize(api plugin.BoardAPI) error {
	p.api = api
	name := p.Name()

	p.mutex.Lock()
	if v, ok := api.GetPluginConfigValue(name, "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			p.enabled = b
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", name, v, p.enabled)
		}
	}
	if v, ok := api.GetPluginConfigValue(name, "interval"); ok {
		if s, isStr := v.(string); isStr {
			d, err := time.ParseDuration(s)
			switch {
			case err != nil:
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", name, s, err, p.interval)
			case d <= 0:
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", name, s, p.interval)
			default:
				p.interval = d
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", name, v, p.interval)
		}
	}
	enabled, interval := p.enabled, p.interval
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", name, enabled, interval)
	if !enabled {
		return nil
	}

	markDirty := func(event.Event) bool {
		p.dirty.Store(true)
		return false
	}
	api.SubscribeEvent(event.TypeSnapshotCommitted, markDirty)
	api.SubscribeEvent(event.TypeHistoryUndone, markDirty)
	api.SubscribeEvent(event.TypeHistoryRedone, markDirty)

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.wg.Add(1)
	go p.exportLoop(ctx, interval)
	return nil
}

// Shutdown stops the export loop and waits for a running export to finish.
func (p *AutoExport) Shutdown() error {
	if p.cancel != nil {
		logger.DebugTagf("plugin", "%s: Shutting down...", p.Name())
		p.cancel()
		p.wg.Wait()
	}
	return nil
}

func (p *AutoExport) exportLoop(ctx context.Context, interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.exportIfDirty(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// exportIfDirty exports all slides when the board changed since the last export.
func (p *AutoExport) exportIfDirty(ctx context.Context) {
	if !p.dirty.Swap(false) {
		logger.DebugTagf("plugin", "%s: No changes, skipping export.", p.Name())
		return
	}

	paths, err := p.api.ExportAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			// Retry on the next tick.
			p.dirty.Store(true)
			logger.Errorf("%s: Export failed: %v", p.Name(), err)
			p.api.SetStatusMessage("Auto-export failed: %v", err)
		}
		return
	}
	p.runs.Add(1)
	logger.Infof("%s: Exported %d slides", p.Name(), len(paths))
	p.api.SetStatusMessage("Auto-exported %d slides", len(paths))
}

// Runs returns how many exports have completed.
func (p *AutoExport) Runs() int64 {
	return p.runs.Load()
}
