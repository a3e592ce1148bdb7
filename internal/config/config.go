// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/slate/internal/canvas"
	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/theme"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config                     `toml:"logger"`
	Board   BoardConfig                       `toml:"board"`
	Inks    []InkConfig                       `toml:"ink"`
	Export  ExportConfig                      `toml:"export"`
	Plugins map[string]map[string]interface{} `toml:"plugins"`
}

// BoardConfig holds drawing settings.
type BoardConfig struct {
	MaxHistory  int    `toml:"max_history"`
	BrushSize   int    `toml:"brush_size"`
	DefaultTool string `toml:"default_tool"`
	DefaultInk  string `toml:"default_ink"`
	Theme       string `toml:"theme"`
	ThemesDir   string `toml:"themes_dir"`
}

// InkConfig is one palette entry. Color is "#RRGGBB" or a W3C color name.
type InkConfig struct {
	Name  string `toml:"name"`
	Color string `toml:"color"`
}

// ExportConfig controls slide export.
type ExportConfig struct {
	Dir             string  `toml:"dir"`
	Format          string  `toml:"format"` // png or jpg
	Scale           float64 `toml:"scale"`
	SystemClipboard bool    `toml:"system_clipboard"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// DefaultInks is the palette used when the config file defines none.
func DefaultInks() []InkConfig {
	return []InkConfig{
		{Name: "green", Color: "#39FF14"},
		{Name: "red", Color: "red"},
		{Name: "skyblue", Color: "skyblue"},
		{Name: "white", Color: "white"},
	}
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Board: BoardConfig{
			MaxHistory:  DefaultMaxHistory,
			BrushSize:   DefaultBrushSize,
			DefaultTool: DefaultTool,
			DefaultInk:  DefaultInk,
			Theme:       DefaultTheme,
		},
		Inks: DefaultInks(),
		Export: ExportConfig{
			Dir:             DefaultExportDir,
			Format:          DefaultExportFormat,
			Scale:           DefaultExportScale,
			SystemClipboard: SystemClipboard,
		},
		Plugins: make(map[string]map[string]interface{}),
	}
}

// DefaultPath returns ~/.config/slate/config.toml, or "" if the user config
// directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// DefaultThemesDir returns ~/.config/slate/themes, or "" if unknown.
func DefaultThemesDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, ThemesDirName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
func loadFromFile(cfg *Config, filePath string, verbose bool) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		if verbose {
			logger.DebugTagf("config", "Config file not found: %s", filePath)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	// A file palette replaces the defaults instead of merging entry by entry.
	defaultInks := cfg.Inks
	cfg.Inks = nil

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		cfg.Inks = defaultInks
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if !metadata.IsDefined("ink") {
		cfg.Inks = defaultInks
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 && verbose {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	if verbose {
		logger.Infof("Loaded configuration from: %s", filePath)
	}
	return nil
}

// validate resets invalid values to their defaults.
func (c *Config) validate(verbose bool) {
	defaults := NewDefaultConfig()
	warn := func(format string, args ...interface{}) {
		if verbose {
			logger.Warnf("Config: "+format, args...)
		}
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	if c.Board.MaxHistory <= 0 {
		warn("max_history %d must be positive, using %d", c.Board.MaxHistory, DefaultMaxHistory)
		c.Board.MaxHistory = DefaultMaxHistory
	}
	if c.Board.BrushSize < MinBrushSize || c.Board.BrushSize > MaxBrushSize {
		warn("brush_size %d outside %d..%d", c.Board.BrushSize, MinBrushSize, MaxBrushSize)
		c.Board.BrushSize = min(max(c.Board.BrushSize, MinBrushSize), MaxBrushSize)
	}
	if _, err := canvas.ParseTool(c.Board.DefaultTool); err != nil {
		warn("%v, using %s", err, DefaultTool)
		c.Board.DefaultTool = DefaultTool
	}
	if c.Board.Theme == "" {
		c.Board.Theme = DefaultTheme
	}

	valid := c.Inks[:0]
	for _, ink := range c.Inks {
		if ink.Name == "" {
			ink.Name = ink.Color
		}
		if _, err := theme.ParseInk(ink.Color); err != nil {
			warn("dropping ink '%s': %v", ink.Name, err)
			continue
		}
		valid = append(valid, ink)
	}
	c.Inks = valid
	if len(c.Inks) == 0 {
		c.Inks = DefaultInks()
	}
	if !c.hasInk(c.Board.DefaultInk) {
		c.Board.DefaultInk = c.Inks[0].Name
	}

	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	switch c.Export.Format {
	case "png", "jpg":
	case "jpeg":
		c.Export.Format = "jpg"
	default:
		warn("unknown export format '%s', using %s", c.Export.Format, DefaultExportFormat)
		c.Export.Format = DefaultExportFormat
	}
	if c.Export.Scale <= 0 || c.Export.Scale > MaxExportScale {
		warn("export scale %v outside (0, %v]", c.Export.Scale, MaxExportScale)
		c.Export.Scale = DefaultExportScale
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}

	if c.Plugins == nil {
		c.Plugins = make(map[string]map[string]interface{})
	}
}

func (c *Config) hasInk(name string) bool {
	for _, ink := range c.Inks {
		if strings.EqualFold(ink.Name, name) {
			return true
		}
	}
	return false
}

// PluginValue returns a value from the [plugins.<name>] table.
func (c *Config) PluginValue(plugin, key string) (interface{}, bool) {
	table, ok := c.Plugins[plugin]
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}

// Load builds a configuration from defaults, the file at configFilePath
// (the default location when empty), and flag overrides.
// The returned config is always usable; the error reports a file problem.
func Load(configFilePath string, flags *Flags, verbose bool) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var err error
	if effectivePath != "" {
		err = loadFromFile(cfg, effectivePath, verbose)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg, verbose)
	}
	cfg.validate(verbose)
	return cfg, err
}

// LoadConfig loads the configuration once, typically from main.
// Nothing is logged because the logger is configured from the result.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags, false)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
