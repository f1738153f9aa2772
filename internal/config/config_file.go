package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to keep the file
// format friendly. Files ending in .yaml or .yml are read as YAML, anything
// else as TOML.
type FileConfig struct {
	Interval   string  `toml:"interval" yaml:"interval"`
	WPM        int     `toml:"wpm" yaml:"wpm"`
	InputLimit int     `toml:"input_limit" yaml:"input_limit"`
	Frequency  float64 `toml:"frequency" yaml:"frequency"`
	Audio      *bool   `toml:"audio" yaml:"audio"`
	Display    *bool   `toml:"display" yaml:"display"`
	LogLevel   string  `toml:"log_level" yaml:"log_level"`
}

// LoadFileConfig reads and parses the config file at path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = toml.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}

	return fc, nil
}

// DefaultConfigPath returns ~/.morselight/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".morselight", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file values to cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}

	s.setInt("wpm", fc.WPM, &cfg.WPM)
	s.preferInterval(fc.Interval != "", fc.WPM > 0, &cfg.WPM)
	s.setInt("input-limit", fc.InputLimit, &cfg.InputLimit)
	s.setFloat("frequency", fc.Frequency, &cfg.Frequency)
	s.setBool("audio", fc.Audio, &cfg.Audio)
	s.setBool("display", fc.Display, &cfg.Display)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	return nil
}

// FileExists checks if a regular file exists at the given path.
func FileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}
