package framework

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/clock"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable LoadConfigFromEnv reads.
const ConfigEnv = "PANDAWALK_CONFIG"

// Config holds the framework settings. Files may be YAML or TOML; fields
// missing from a file keep their defaults.
type Config struct {
	WindowTitle string   `yaml:"window_title" toml:"window_title"`
	Width       int      `yaml:"width" toml:"width"`
	Height      int      `yaml:"height" toml:"height"`
	ModelPath   []string `yaml:"model_path" toml:"model_path"`
	ClockMode   string   `yaml:"clock_mode" toml:"clock_mode"`
	FrameDt     float64  `yaml:"frame_dt" toml:"frame_dt"`
	DebugUI     bool     `yaml:"debug_ui" toml:"debug_ui"`
	Background  [3]uint8 `yaml:"background" toml:"background"`
	LogLevel    string   `yaml:"log_level" toml:"log_level"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		WindowTitle: "Panda",
		Width:       800,
		Height:      600,
		ModelPath:   []string{"."},
		ClockMode:   clock.Normal.String(),
		FrameDt:     1.0 / 60.0,
		Background:  [3]uint8{128, 128, 128},
		LogLevel:    "info",
	}
}

// LoadConfig reads a YAML or TOML file, chosen by extension, over the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, errors.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// LoadConfigFromEnv loads the file named by PANDAWALK_CONFIG, or returns the
// defaults when it is unset.
func LoadConfigFromEnv() (Config, error) {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	mode, err := clock.ParseMode(c.ClockMode)
	if err != nil {
		return errors.WithStack(err)
	}
	if mode == clock.NonRealTime && c.FrameDt <= 0 {
		return errors.Errorf("frame_dt must be positive in %s mode, got %v", mode, c.FrameDt)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, errors.Wrapf(err, "invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// NewClock builds the clock the config asks for.
func (c Config) NewClock() (*clock.Clock, error) {
	mode, err := clock.ParseMode(c.ClockMode)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if mode == clock.NonRealTime {
		return clock.NewNonRealTime(c.FrameDt), nil
	}
	return clock.New(), nil
}

// SetupLogging installs a text handler on w at the config's level as the
// default logger.
func (c Config) SetupLogging(w io.Writer) error {
	level, err := c.Level()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}
