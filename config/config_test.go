package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestDefaultConfigValidates(t *testing.T) {
	c := DefaultConfig
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"control char symbol", func(c *Config) { c.Theme.Symbols.Lit = '\t' }},
		{"c1 control symbol", func(c *Config) { c.Theme.Symbols.Unlit = 130 }},
		{"cell width", func(c *Config) { c.Theme.CellWidth = 0 }},
		{"rows", func(c *Config) { c.Game.Rows = 0 }},
		{"too many cols", func(c *Config) { c.Game.Cols = 1000 }},
		{"chance", func(c *Config) { c.Game.ChanceLightStartsOn = 1.2 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		c := DefaultConfig
		tt.mutate(&c)
		err := c.Validate()
		var invalid *InvalidConfig
		if !errors.As(err, &invalid) {
			t.Fatalf("%s: expected InvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestReadCfgFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"game": {"rows": 5, "cols": 4, "chance_light_starts_on": 0.25}, "sound": false}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c := DefaultConfig
	if err := readCfgFile(path, &c); err != nil {
		t.Fatalf("read: %v", err)
	}
	if c.Game.Rows != 5 || c.Game.Cols != 4 || c.Game.ChanceLightStartsOn != 0.25 {
		t.Fatalf("game defaults not read: %+v", c.Game)
	}
	if c.Sound {
		t.Fatal("sound should be disabled")
	}
	if c.Theme.Symbols.Lit != DefaultTheme.Symbols.Lit {
		t.Fatal("fields missing from the file should keep their defaults")
	}
}

func TestReadCfgFileBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	c := DefaultConfig
	var invalid *InvalidConfig
	if err := readCfgFile(path, &c); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

func TestSaveCfgFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := DefaultConfig
	c.Game.Rows = 7
	if err := saveCfgFile(path, &c, 0600); err != nil {
		t.Fatal(err)
	}
	var loaded Config
	if err := readCfgFile(path, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.Game.Rows != 7 || loaded.Theme.Symbols.Lit != c.Theme.Symbols.Lit {
		t.Fatalf("unexpected config after reload: %+v", loaded)
	}
}

func TestRememberGameSaves(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	c := DefaultConfig
	changed, err := c.RememberGame(c.Game)
	if err != nil || changed {
		t.Fatalf("unchanged defaults should not be saved, got %v %v", changed, err)
	}

	changed, err = c.RememberGame(GameDefaults{Rows: 5, Cols: 6, ChanceLightStartsOn: 0.25})
	if err != nil || !changed {
		t.Fatalf("expected a save, got %v %v", changed, err)
	}
	loaded, err := InitConfig()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Game != (GameDefaults{Rows: 5, Cols: 6, ChanceLightStartsOn: 0.25}) {
		t.Fatalf("expected remembered game defaults, got %+v", loaded.Game)
	}
}

func TestLogPathOverride(t *testing.T) {
	c := DefaultConfig
	c.Log.Path = "/tmp/lights.log"
	p, err := c.LogPath()
	if err != nil || p != "/tmp/lights.log" {
		t.Fatalf("expected override, got %q, %v", p, err)
	}
}
