package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"lightsout/board"
)

var (
	cfgFile = "lightsout/config.json"
	logFile = "lightsout/lightsout.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	LitColor      int `json:"lit"`
	UnlitColor    int `json:"unlit"`
	GridColor     int `json:"grid"`
	CursorColorFG int `json:"cursor_fg"`
	CursorColorBG int `json:"cursor_bg"`
	LastFlipBG    int `json:"last_flip_bg"`
}

type ConfigSymbols struct {
	Lit    rune `json:"lit"`
	Unlit  rune `json:"unlit"`
	Cursor rune `json:"cursor"`
}

type Theme struct {
	DrawCursorBackground   bool          `json:"draw_cursor_bg"`
	DrawLastFlipBackground bool          `json:"draw_last_flip_bg"`
	CellWidth              int           `json:"cell_width"`
	Colors                 ConfigColors  `json:"colors"`
	Symbols                ConfigSymbols `json:"symbols"`
}

// GameDefaults holds the parameters used when no flags are given.
type GameDefaults struct {
	Rows                int     `json:"rows"`
	Cols                int     `json:"cols"`
	ChanceLightStartsOn float64 `json:"chance_light_starts_on"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `json:"level"`
	Path  string `json:"path"` // empty means the XDG state dir
}

type Config struct {
	Theme Theme        `json:"theme"`
	Game  GameDefaults `json:"game"`
	Sound bool         `json:"sound"`
	Log   LogConfig    `json:"log"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Lit, c.Theme.Symbols.Unlit, c.Theme.Symbols.Cursor} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Theme.CellWidth < 1 || c.Theme.CellWidth > 4 {
		return &InvalidConfig{fmt.Sprintf("cell_width must be between 1 and 4, got %d", c.Theme.CellWidth)}
	}
	if c.Game.Rows < 1 || c.Game.Cols < 1 {
		return &InvalidConfig{fmt.Sprintf("board must be at least 1x1, got %dx%d", c.Game.Rows, c.Game.Cols)}
	}
	if c.Game.Rows > board.MaxSize || c.Game.Cols > board.MaxSize {
		return &InvalidConfig{fmt.Sprintf("board must be at most %dx%d, got %dx%d", board.MaxSize, board.MaxSize, c.Game.Rows, c.Game.Cols)}
	}
	if !(c.Game.ChanceLightStartsOn >= 0 && c.Game.ChanceLightStartsOn <= 1) {
		return &InvalidConfig{fmt.Sprintf("chance_light_starts_on must be within [0, 1], got %v", c.Game.ChanceLightStartsOn)}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfig{err.Error()}
	}
	return nil
}

// LogPath returns the configured log file, defaulting to the XDG state dir.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	return xdg.StateFile(logFile)
}

// RememberGame makes g the defaults for the next run and saves the config
// file. Nothing is written when g matches the current defaults.
func (c *Config) RememberGame(g GameDefaults) (bool, error) {
	if c.Game == g {
		return false, nil
	}
	c.Game = g
	return true, c.Save()
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %s", filePath, err)}
	}
	return nil
}
