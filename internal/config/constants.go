package config

import "time"

// Base application details
const AppName = "slate"
const ConfigDirName = "slate"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "slate.log"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Config hot reload
const ReloadDebounce = 200 * time.Millisecond

// Board defaults
const DefaultMaxHistory = 50
const DefaultBrushSize = 3
const MinBrushSize = 1
const MaxBrushSize = 20
const DefaultTool = "pen"
const DefaultInk = "green"
const DefaultTheme = "Blackboard"

// Export defaults
const DefaultExportDir = "."
const DefaultExportFormat = "png"
const DefaultExportScale = 1.0
const MaxExportScale = 8.0
const SystemClipboard = true
