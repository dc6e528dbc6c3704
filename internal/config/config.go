package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

const (
	DefaultFPS     = 30
	DefaultScene   = "spheres"
	DefaultTheme   = "cyberpunk"
	DefaultDataDir = ".studio"
)

var (
	// ErrInvalidFPS indicates a frame rate outside 1..240.
	ErrInvalidFPS = errors.New("config: fps must be between 1 and 240")
)

type Config struct {
	View   renderstate.ViewState `yaml:"view"`
	Viewer ViewerConfig          `yaml:"viewer"`
}

type ViewerConfig struct {
	FPS     int    `yaml:"fps"`
	Scene   string `yaml:"scene"`
	Theme   string `yaml:"theme"`
	DataDir string `yaml:"data_dir"`
	LogFile string `yaml:"log_file"`
}

func DefaultConfig() *Config {
	return &Config{
		View: renderstate.Defaults(),
		Viewer: ViewerConfig{
			FPS:     DefaultFPS,
			Scene:   DefaultScene,
			Theme:   DefaultTheme,
			DataDir: DefaultDataDir,
		},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.View.Validate(); err != nil {
		return err
	}
	if c.Viewer.FPS < 1 || c.Viewer.FPS > 240 {
		return fmt.Errorf("%w: %d", ErrInvalidFPS, c.Viewer.FPS)
	}
	if _, err := march.SceneByName(c.Viewer.Scene); err != nil {
		return err
	}
	return nil
}

// InitialState returns the view state a viewer starts from.
func (c *Config) InitialState() renderstate.ViewState {
	return c.View
}
