// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/slate/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Pointers distinguish unset flags from zero values.
type Flags struct {
	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	MaxHistory      *int
	BrushSize       *int
	Tool            *string
	Theme           *string
	ExportDir       *string
	ExportFormat    *string
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	DebugLog        *bool
	SystemClipboard *bool

	set *flag.FlagSet
}

// DefineFlags registers the flags on fs.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.set = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.MaxHistory = fs.Int("max-history", 0, "Undo steps kept per page - Overrides config file")
	f.BrushSize = fs.Int("brush-size", 0, "Initial brush size - Overrides config file")
	f.Tool = fs.String("tool", "", "Initial tool (pen, highlight, eraser) - Overrides config file")
	f.Theme = fs.String("theme", "", "Theme name - Overrides config file")
	f.ExportDir = fs.String("export-dir", "", "Directory slides are exported to - Overrides config file")
	f.ExportFormat = fs.String("export-format", "", "Slide export format (png, jpg) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")
	f.SystemClipboard = fs.Bool("system-clipboard", SystemClipboard, "Copy slides to the system clipboard")
}

// ParseFlags defines the flags on the default command line set and parses os.Args.
// It returns the remaining non-flag arguments.
func (f *Flags) ParseFlags() []string {
	f.DefineFlags(flag.CommandLine)
	flag.Parse()
	return flag.Args()
}

// ApplyOverrides updates cfg with every flag that was explicitly set.
func (f *Flags) ApplyOverrides(cfg *Config, verbose bool) {
	if f.set == nil {
		return
	}
	f.set.Visit(func(fl *flag.Flag) {
		if verbose {
			logger.DebugTagf("config", "Applying flag override: %s=%s", fl.Name, fl.Value.String())
		}
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "max-history":
			if *f.MaxHistory > 0 {
				cfg.Board.MaxHistory = *f.MaxHistory
			}
		case "brush-size":
			if *f.BrushSize > 0 {
				cfg.Board.BrushSize = *f.BrushSize
			}
		case "tool":
			if *f.Tool != "" {
				cfg.Board.DefaultTool = *f.Tool
			}
		case "theme":
			if *f.Theme != "" {
				cfg.Board.Theme = *f.Theme
			}
		case "export-dir":
			if *f.ExportDir != "" {
				cfg.Export.Dir = *f.ExportDir
			}
		case "export-format":
			if *f.ExportFormat != "" {
				cfg.Export.Format = *f.ExportFormat
			}
		case "system-clipboard":
			cfg.Export.SystemClipboard = *f.SystemClipboard
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
