package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), nil, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, NewDefaultConfig()) {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[board]
max_history = 10
brush_size = 5
default_tool = "eraser"
default_ink = "orange"

[[ink]]
name = "orange"
color = "#ffa500"

[[ink]]
name = "teal"
color = "teal"

[export]
dir = "/tmp/slides"
format = "JPEG"
scale = 2.0

[plugins.autoexport]
enabled = true
interval = "30s"
`)
	cfg, err := Load(path, nil, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Board.MaxHistory != 10 || cfg.Board.BrushSize != 5 || cfg.Board.DefaultTool != "eraser" {
		t.Errorf("board = %+v", cfg.Board)
	}
	if len(cfg.Inks) != 2 || cfg.Inks[0].Name != "orange" || cfg.Board.DefaultInk != "orange" {
		t.Errorf("inks = %+v, default %q", cfg.Inks, cfg.Board.DefaultInk)
	}
	if cfg.Export.Format != "jpg" || cfg.Export.Scale != 2 || cfg.Export.Dir != "/tmp/slides" {
		t.Errorf("export = %+v", cfg.Export)
	}
	if !cfg.Export.SystemClipboard {
		t.Error("unset system_clipboard should keep its default")
	}
	if v, ok := cfg.PluginValue("autoexport", "interval"); !ok || v != "30s" {
		t.Errorf("PluginValue(autoexport, interval) = %v, %v", v, ok)
	}
	if _, ok := cfg.PluginValue("missing", "x"); ok {
		t.Error("PluginValue found a value for an unknown plugin")
	}
}

func TestValidateResetsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[board]
max_history = -3
brush_size = 90
default_tool = "spray"
default_ink = "nope"

[[ink]]
name = "bad"
color = "not-a-color"

[export]
format = "gif"
scale = 0
`)
	cfg, err := Load(path, nil, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name      string
		got, want interface{}
	}{
		{"max_history", cfg.Board.MaxHistory, DefaultMaxHistory},
		{"brush_size", cfg.Board.BrushSize, MaxBrushSize},
		{"default_tool", cfg.Board.DefaultTool, DefaultTool},
		{"default_ink", cfg.Board.DefaultInk, DefaultInks()[0].Name},
		{"inks", len(cfg.Inks), len(DefaultInks())},
		{"format", cfg.Export.Format, DefaultExportFormat},
		{"scale", cfg.Export.Scale, DefaultExportScale},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "[board\nmax_history = ")
	cfg, err := Load(path, nil, false)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if cfg == nil || cfg.Board.MaxHistory != DefaultMaxHistory {
		t.Errorf("config after parse error = %+v, want defaults", cfg)
	}
}

func TestFlagOverrides(t *testing.T) {
	path := writeConfig(t, "[board]\nmax_history = 10\n")

	fs := flag.NewFlagSet("slate", flag.ContinueOnError)
	var f Flags
	f.DefineFlags(fs)
	err := fs.Parse([]string{"-max-history", "7", "-tool", "highlight", "-log-tags", "history, canvas,", "-system-clipboard=false"})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, &f, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.MaxHistory != 7 {
		t.Errorf("max history = %d, want flag value 7", cfg.Board.MaxHistory)
	}
	if cfg.Board.DefaultTool != "highlight" {
		t.Errorf("tool = %q", cfg.Board.DefaultTool)
	}
	if !reflect.DeepEqual(cfg.Logger.EnabledTags, []string{"history", "canvas"}) {
		t.Errorf("enabled tags = %v", cfg.Logger.EnabledTags)
	}
	if cfg.Export.SystemClipboard {
		t.Error("system clipboard flag not applied")
	}
	if cfg.Board.BrushSize != DefaultBrushSize {
		t.Errorf("unset flag changed brush size to %d", cfg.Board.BrushSize)
	}
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , ,b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := splitCommaList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCommaList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWatcherReloads(t *testing.T) {
	path := writeConfig(t, "[board]\nbrush_size = 4\n")

	reloaded := make(chan *Config, 4)
	w, err := Watch(path, nil, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[board]\nbrush_size = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Board.BrushSize != 9 {
			t.Errorf("reloaded brush size = %d, want 9", cfg.Board.BrushSize)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the file changed")
	}
}
