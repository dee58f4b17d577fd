package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Render.DefaultTheme != "light" {
		t.Errorf("DefaultTheme = %q, want light", cfg.Render.DefaultTheme)
	}
	if cfg.Store.Kind != "http" {
		t.Errorf("Store.Kind = %q, want http", cfg.Store.Kind)
	}
	if cfg.Store.HTTP.Timeout != 30*time.Second {
		t.Errorf("Store.HTTP.Timeout = %v, want 30s", cfg.Store.HTTP.Timeout)
	}
	for _, p := range []string{"whatsapp", "instagram", "facebook", "twitter"} {
		if cfg.Icons.Assets[p] == "" {
			t.Errorf("missing default icon asset for %s", p)
		}
	}
	if !strings.HasSuffix(cfg.Server.Listen, ":8080") {
		t.Errorf("Server.Listen = %q, want port 8080", cfg.Server.Listen)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
render:
  default_theme: dark
  title: Staging preview
icons:
  assets:
    whatsapp: /static/wa.svg
  size: 48
store:
  kind: sqlite
  sqlite:
    path: `+filepath.Join(t.TempDir(), "docs.db")+`
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Render.DefaultTheme != "dark" {
		t.Errorf("DefaultTheme = %q, want dark", cfg.Render.DefaultTheme)
	}
	if cfg.Render.Title != "Staging preview" {
		t.Errorf("Title = %q", cfg.Render.Title)
	}
	if cfg.Icons.Size != 48 {
		t.Errorf("Icons.Size = %d, want 48", cfg.Icons.Size)
	}
	if cfg.Icons.Assets["whatsapp"] != "/static/wa.svg" {
		t.Errorf("whatsapp asset = %q", cfg.Icons.Assets["whatsapp"])
	}
	if cfg.Store.Kind != "sqlite" {
		t.Errorf("Store.Kind = %q, want sqlite", cfg.Store.Kind)
	}
	// values not mentioned in file come from defaults
	if cfg.Render.Language != "en" {
		t.Errorf("Language = %q, want en", cfg.Render.Language)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "version: 1\nrender:\n  title: x\n  invalid indent\n"},
		{name: "unknown field", content: "version: 1\nunknown_field: value\n"},
		{name: "invalid version", content: "version: 2\n"},
		{name: "invalid theme", content: "version: 1\nrender:\n  default_theme: sepia\n"},
		{name: "invalid store kind", content: "version: 1\nstore:\n  kind: ftp\n"},
		{name: "unknown platform", content: "version: 1\nicons:\n  assets:\n    myspace: /x.png\n"},
		{name: "icon size too small", content: "version: 1\nicons:\n  size: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestLoadConfiguration_OutputTemplateNotExpanded(t *testing.T) {
	path := writeConfig(t, "version: 1\nrender:\n  output_name_template: \"{{ .ID }}-{{ .Theme }}\"\n")

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Render.OutputNameTemplate != "{{ .ID }}-{{ .Theme }}" {
		t.Errorf("OutputNameTemplate = %q, must be kept verbatim", cfg.Render.OutputNameTemplate)
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Store.HTTP.Token = "very-secret"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if strings.Contains(string(data), "very-secret") {
		t.Error("Dump() leaked store token")
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Store.HTTP.Timeout != cfg.Store.HTTP.Timeout {
		t.Errorf("Timeout mismatch after dump/load: got %v, want %v", cfg2.Store.HTTP.Timeout, cfg.Store.HTTP.Timeout)
	}
	if cfg2.Server.Listen != cfg.Server.Listen {
		t.Errorf("Listen mismatch after dump/load: got %q, want %q", cfg2.Server.Listen, cfg.Server.Listen)
	}
}

func TestLoggingConfig_Prepare(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: filepath.Join(dir, "test.log"), Mode: "overwrite"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hello from test")
	_ = log.Sync()

	data, err := os.ReadFile(conf.FileLogger.Destination)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log does not contain message: %q", data)
	}
}
