package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yllada/ai-wrapper/adblock"
	"github.com/yllada/ai-wrapper/common"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Theme != common.ThemeDark {
		t.Errorf("Theme = %q, want dark", cfg.Theme)
	}
	if cfg.Window.Width != 1200 || cfg.Window.Height != 800 {
		t.Errorf("Window = %+v, want 1200x800", cfg.Window)
	}
	if cfg.Window.ChromeHeight != 50 {
		t.Errorf("ChromeHeight = %d, want 50", cfg.Window.ChromeHeight)
	}
	if len(cfg.Blocklist) != len(adblock.DefaultPatterns) {
		t.Errorf("Blocklist = %v", cfg.Blocklist)
	}
	if cfg.MinimizeToTray {
		t.Error("closing the window should quit by default")
	}
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !common.FileExists(path) {
		t.Fatal("LoadFrom should write the default config")
	}
	if cfg.Ollama.Endpoint != common.DefaultOllamaEndpoint {
		t.Errorf("Endpoint = %q", cfg.Ollama.Endpoint)
	}

	again, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if again.Ollama.Timeout != cfg.Ollama.Timeout {
		t.Errorf("Timeout round trip = %v, want %v", again.Ollama.Timeout, cfg.Ollama.Timeout)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "theme: light\nwindow:\n  width: 1600\nollama:\n  timeout: 30s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Theme != common.ThemeLight {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	if cfg.Window.Width != 1600 || cfg.Window.Height != 800 {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Ollama.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Ollama.Timeout)
	}
	if len(cfg.Blocklist) != len(adblock.DefaultPatterns) {
		t.Errorf("absent blocklist should keep defaults, got %v", cfg.Blocklist)
	}
}

func TestLoadFrom_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("auto_reconnect: true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if !errors.Is(err, common.ErrConfigLoad) {
		t.Errorf("LoadFrom() error = %v, want ErrConfigLoad", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		check func(*testing.T, *Config)
	}{
		{
			name: "invalid theme",
			edit: func(c *Config) { c.Theme = "neon" },
			check: func(t *testing.T, c *Config) {
				if c.Theme != common.ThemeDark {
					t.Errorf("Theme = %q", c.Theme)
				}
			},
		},
		{
			name: "tiny window",
			edit: func(c *Config) { c.Window.Width, c.Window.Height = 10, -3 },
			check: func(t *testing.T, c *Config) {
				if c.Window.Width != common.MinWindowWidth || c.Window.Height != 800 {
					t.Errorf("Window = %+v", c.Window)
				}
			},
		},
		{
			name: "chrome taller than window",
			edit: func(c *Config) { c.Window.ChromeHeight = 5000 },
			check: func(t *testing.T, c *Config) {
				if c.Window.ChromeHeight != c.Window.Height {
					t.Errorf("ChromeHeight = %d", c.Window.ChromeHeight)
				}
			},
		},
		{
			name: "bad blocklist",
			edit: func(c *Config) { c.Blocklist = []string{"doubleclick.net"} },
			check: func(t *testing.T, c *Config) {
				if len(c.Blocklist) != len(adblock.DefaultPatterns) {
					t.Errorf("Blocklist = %v", c.Blocklist)
				}
			},
		},
		{
			name: "model not offered",
			edit: func(c *Config) { c.Ollama.Model, c.Ollama.Models = "gemma", []string{"phi3", "phi3"} },
			check: func(t *testing.T, c *Config) {
				if c.Ollama.Model != "phi3" || len(c.Ollama.Models) != 1 {
					t.Errorf("Ollama = %+v", c.Ollama)
				}
			},
		},
		{
			name: "zero timeout",
			edit: func(c *Config) { c.Ollama.Timeout = 0; c.Ollama.RequestsPerSecond = -1 },
			check: func(t *testing.T, c *Config) {
				if c.Ollama.Timeout != common.ChatTimeout || c.Ollama.RequestsPerSecond <= 0 {
					t.Errorf("Ollama = %+v", c.Ollama)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			cfg.validate()
			tt.check(t, cfg)
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.MinimizeToTray = true
	cfg.CatalogFile = "/tmp/catalog.yaml"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.MinimizeToTray || loaded.CatalogFile != cfg.CatalogFile {
		t.Errorf("loaded = %+v", loaded)
	}
}
