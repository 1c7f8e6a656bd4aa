// Package conf loads ambient runtime configuration for valib hosts: log
// level, log file rotation policy, metrics interval and the directory to
// search for filter-graph presets (FIR/EQ band files). Per-filter DSP
// parameters are constructor arguments (spec.md §4); this package only
// configures the library's own plumbing, the way the teacher's
// internal/conf wraps viper for its application settings.
package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// LogRotation mirrors the teacher's LogConfig.Rotation enum.
type LogRotation string

const (
	RotationDaily  LogRotation = "daily"
	RotationWeekly LogRotation = "weekly"
	RotationSize   LogRotation = "size"
)

// LogConfig controls the rotating file logger (internal/logging).
type LogConfig struct {
	Level    string      `mapstructure:"level"`
	Path     string      `mapstructure:"path"`
	Rotation LogRotation `mapstructure:"rotation"`
	MaxSize  int64       `mapstructure:"maxsize"` // bytes, used when Rotation == RotationSize
}

// Settings is the full ambient configuration tree.
type Settings struct {
	Log LogConfig `mapstructure:"log"`

	Metrics struct {
		Enabled  bool          `mapstructure:"enabled"`
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"metrics"`

	// PresetsDir is searched for named FIR/EQ/mixer preset files (YAML,
	// see internal/dsp/fir.LoadEqualizerPreset).
	PresetsDir string `mapstructure:"presets_dir"`
}

func defaults() Settings {
	s := Settings{}
	s.Log.Level = "info"
	s.Log.Path = "logs/valib.log"
	s.Log.Rotation = RotationSize
	s.Log.MaxSize = 100 * 1024 * 1024
	s.Metrics.Enabled = true
	s.Metrics.Interval = 10 * time.Second
	s.PresetsDir = "presets"
	return s
}

var (
	once     sync.Once
	mu       sync.RWMutex
	settings Settings
)

// Load reads configuration from the named file (if it exists; a missing
// file is not an error — defaults apply) merged over the defaults, and
// caches the result for Setting() to return.
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)

	s := defaults()
	v.SetDefault("log.level", s.Log.Level)
	v.SetDefault("log.path", s.Log.Path)
	v.SetDefault("log.rotation", string(s.Log.Rotation))
	v.SetDefault("log.maxsize", s.Log.MaxSize)
	v.SetDefault("metrics.enabled", s.Metrics.Enabled)
	v.SetDefault("metrics.interval", s.Metrics.Interval)
	v.SetDefault("presets_dir", s.PresetsDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("conf: reading %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("conf: decoding config: %w", err)
	}

	mu.Lock()
	settings = s
	mu.Unlock()
	once.Do(func() {})

	return s, nil
}

// Setting returns the currently loaded Settings, or the package defaults
// if Load has never been called.
func Setting() Settings {
	mu.RLock()
	defer mu.RUnlock()
	if settings.Log.Path == "" {
		return defaults()
	}
	return settings
}
