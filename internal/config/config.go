// Package config loads LocalSketch settings from a TOML file.
//
// Example:
//
//	[canvas]
//	width = 1024
//	height = 768
//	background = "#ffffff"
//	object_limit = 0
//
//	[pen]
//	tool = "pencil"
//	width = 2
//	color = "#000000"
//
//	[font]
//	face = "Mono"
//	height = 13
//
//	[log]
//	level = "info"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"LocalSketch/internal/command"
	"LocalSketch/internal/gfx"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "LOCALSKETCH_CONFIG"

type Config struct {
	Canvas Canvas       `toml:"canvas"`
	Pen    Pen          `toml:"pen"`
	Font   gfx.FontDesc `toml:"font"`
	Log    Log          `toml:"log"`
}

type Canvas struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Background gfx.RGB `toml:"background"`
	// ObjectLimit caps live graphics objects on the canvas. Zero means no
	// limit.
	ObjectLimit int `toml:"object_limit"`
}

type Pen struct {
	Tool  command.Kind `toml:"tool"`
	Width int          `toml:"width"`
	Color gfx.RGB      `toml:"color"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 1024, Height: 768, Background: gfx.White},
		Pen:    Pen{Tool: command.Pencil, Width: 2, Color: gfx.Black},
		Log:    Log{Level: "info"},
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Canvas.Width < 1 || c.Canvas.Height < 1:
		return fmt.Errorf("config: canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	case c.Canvas.ObjectLimit < 0:
		return fmt.Errorf("config: object limit %d is negative", c.Canvas.ObjectLimit)
	case c.Pen.Width < 1:
		return fmt.Errorf("config: pen width %d must be positive", c.Pen.Width)
	case !c.Pen.Tool.Valid():
		return fmt.Errorf("config: invalid tool %s", c.Pen.Tool)
	case c.Font.Height < 0:
		return fmt.Errorf("config: font height %d is negative", c.Font.Height)
	}
	return nil
}

// Decode reads settings from r on top of the defaults. Unknown keys are
// an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Path returns the config file location: $LOCALSKETCH_CONFIG, or
// localsketch/config.toml under the user config directory.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(dir, "localsketch", "config.toml"), nil
}
