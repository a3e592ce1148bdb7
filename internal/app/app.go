// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/slate/internal/canvas"
	"github.com/bethropolis/slate/internal/config"
	"github.com/bethropolis/slate/internal/event"
	"github.com/bethropolis/slate/internal/export"
	"github.com/bethropolis/slate/internal/history"
	"github.com/bethropolis/slate/internal/input"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/plugin"
	"github.com/bethropolis/slate/internal/session"
	"github.com/bethropolis/slate/internal/statusbar"
	"github.com/bethropolis/slate/internal/theme"
	"github.com/bethropolis/slate/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// App wires the board together. Every state transition runs on the Run
// goroutine; plugins and background exports only read through locked APIs.
type App struct {
	tuiManager     *tui.TUI
	canvas         *canvas.Canvas
	history        *history.Manager
	session        *session.Session
	inputProcessor *input.InputProcessor
	pointer        input.Pointer
	statusBar      *statusbar.StatusBar
	eventManager   *event.Manager
	pluginManager  *plugin.Manager
	themeManager   *theme.Manager
	boardAPI       plugin.BoardAPI
	watcher        *config.Watcher
	configPath     string

	config   atomic.Pointer[config.Config]
	exporter atomic.Pointer[export.Exporter]

	// Channels managed by the App
	tcellEvents   chan tcell.Event
	reloads       chan *config.Config
	redrawRequest chan struct{}
	quit          chan struct{}
	quitOnce      sync.Once

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // Background exports
}

// NewApp creates the application. A nil screen opens the real terminal.
func NewApp(cfg *config.Config, screen tcell.Screen) (*App, error) {
	themeManager := theme.NewManager(themesDir(cfg))
	if err := themeManager.SetTheme(cfg.Board.Theme); err != nil {
		logger.Warnf("App: %v, using %s", err, themeManager.Current().Name)
	}
	activeTheme := themeManager.Current()

	var tuiManager *tui.TUI
	var err error
	if screen == nil {
		tuiManager, err = tui.New(activeTheme.GetStyle(theme.StyleDefault))
	} else {
		tuiManager, err = tui.NewWithScreen(screen, activeTheme.GetStyle(theme.StyleDefault))
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	tool, err := canvas.ParseTool(cfg.Board.DefaultTool)
	if err != nil {
		logger.Warnf("App: %v", err)
	}
	sess := session.New(paletteFromConfig(cfg), tool, cfg.Board.BrushSize)
	if err := sess.SelectInkByName(cfg.Board.DefaultInk); err != nil {
		logger.Warnf("App: %v", err)
	}

	eventManager := event.NewManager()
	surface := canvas.New(0, 0)
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		tuiManager:     tuiManager,
		canvas:         surface,
		history:        history.NewManager(surface, eventManager, cfg.Board.MaxHistory),
		session:        sess,
		inputProcessor: input.NewInputProcessor(),
		statusBar:      statusbar.New(statusbar.ConfigFromTheme(activeTheme, config.MessageTimeout)),
		eventManager:   eventManager,
		pluginManager:  plugin.NewManager(),
		themeManager:   themeManager,
		tcellEvents:    make(chan tcell.Event, 64),
		reloads:        make(chan *config.Config, 1),
		redrawRequest:  make(chan struct{}, 1),
		quit:           make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
	a.config.Store(cfg)
	a.exporter.Store(a.newExporter(cfg))
	a.boardAPI = newBoardAPI(a)

	a.subscribeCoreEvents()
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.pluginManager.InitializePlugins(a.boardAPI)

	a.handleResize()
	return a, nil
}

func themesDir(cfg *config.Config) string {
	if cfg.Board.ThemesDir != "" {
		return cfg.Board.ThemesDir
	}
	return config.DefaultThemesDir()
}

// paletteFromConfig converts validated config inks to session inks.
func paletteFromConfig(cfg *config.Config) []session.Ink {
	inks := make([]session.Ink, 0, len(cfg.Inks))
	for _, ic := range cfg.Inks {
		c, err := theme.ParseInk(ic.Color)
		if err != nil {
			logger.Warnf("App: Skipping ink '%s': %v", ic.Name, err)
			continue
		}
		inks = append(inks, session.Ink{Name: ic.Name, Color: c})
	}
	return inks
}

func (a *App) newExporter(cfg *config.Config) *export.Exporter {
	bg := toColor(a.themeManager.Current().CanvasColor())
	return export.New(export.Options{
		Dir:             cfg.Export.Dir,
		Format:          cfg.Export.Format,
		Scale:           cfg.Export.Scale,
		SystemClipboard: cfg.Export.SystemClipboard,
		Background:      bg,
	}, a.canvas.Size, a.eventManager)
}

// WatchConfig reloads the configuration whenever path changes.
func (a *App) WatchConfig(path string, flags *config.Flags) error {
	w, err := config.Watch(path, flags, func(cfg *config.Config, err error) {
		if err != nil {
			logger.Warnf("App: Config reload: %v", err)
			a.SetErrorMessage("Config reload failed: %v", err)
			return
		}
		select {
		case a.reloads <- cfg:
		case <-a.quit:
		}
	})
	if err != nil {
		return err
	}
	a.watcher = w
	a.configPath = path
	return nil
}

// Run starts the event loop and blocks until the user quits.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.shutdown()

	go a.pollEvents()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Draw with the mouse | n/p slides | Ctrl+Z undo | s save | q quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			logger.Infof("Exiting application.")
			return nil
		case ev := <-a.tcellEvents:
			if a.handleEvent(ev) {
				a.requestRedraw()
			}
		case done := <-a.canvas.Completions():
			a.handleCompletion(done)
		case cfg := <-a.reloads:
			a.applyConfig(cfg)
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

// pollEvents forwards terminal events to the Run loop.
func (a *App) pollEvents() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.tcellEvents <- ev:
		case <-a.quit:
			return
		}
	}
}

// handleEvent processes one terminal event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.handleResize()
		return true
	case *tcell.EventKey:
		a.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: e})
		return a.handleAction(a.inputProcessor.ProcessEvent(e))
	case *tcell.EventMouse:
		return a.handleMouse(e)
	}
	return false
}

// handleCompletion presents a decoded snapshot unless a newer transition superseded it.
func (a *App) handleCompletion(done canvas.Completion) {
	if !a.history.ResolveRedisplay(done.Request) {
		return
	}
	if done.Err != nil {
		a.SetErrorMessage("Cannot show slide %d: %v", done.Request.Page+1, done.Err)
		return
	}
	a.canvas.Present(done.Image)
	a.requestRedraw()
}

// handleResize sizes the canvas to the terminal and re-renders the current page.
func (a *App) handleResize() {
	sw, sh := a.tuiManager.Size()
	w, h := tui.CanvasSize(sw, sh, config.StatusBarHeight)
	cw, ch := a.canvas.Size()
	if w == cw && h == ch {
		a.tuiManager.Sync()
		return
	}

	a.finishStroke()
	a.canvas.Resize(w, h)
	a.history.Redisplay()
	a.tuiManager.Sync()
	logger.DebugTagf("app", "App: Canvas %dx%d -> %dx%d", cw, ch, w, h)
}

// applyConfig adopts a reloaded configuration.
func (a *App) applyConfig(cfg *config.Config) {
	logger.SetLevel(cfg.Logger.LogLevel)
	a.config.Store(cfg)
	a.history.SetMaxHistory(cfg.Board.MaxHistory)
	a.session.SetInks(paletteFromConfig(cfg))
	if err := a.themeManager.SetTheme(cfg.Board.Theme); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.applyTheme()

	a.eventManager.Dispatch(event.TypeConfigReloaded, event.ConfigReloadedData{Path: a.configPath})
	a.SetStatusMessage("Config reloaded")
	a.requestRedraw()
}

// requestQuit stops the Run loop. Safe to call more than once.
func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// shutdown stops background work before the screen is closed.
func (a *App) shutdown() {
	a.requestQuit()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warnf("App: Closing config watcher: %v", err)
		}
	}
	if err := a.pluginManager.ShutdownPlugins(); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.cancel()
	a.wg.Wait()
	a.canvas.Close()
}
