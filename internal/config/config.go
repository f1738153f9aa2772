// Package config resolves CLI settings from defaults, a config file, MORSE_*
// environment variables and flags, in increasing order of precedence.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gucio32/morselight/pkg/morse"
	"github.com/gucio32/morselight/pkg/pulse"
)

const (
	// DefaultFrequency matches the audio generator's default tone.
	DefaultFrequency = 784.0
	// MaxFrequency keeps the tone audible and below the Nyquist limit.
	MaxFrequency = 20000.0
)

// Config holds CLI configuration.
type Config struct {
	Interval   time.Duration
	WPM        int
	InputLimit int
	Frequency  float64
	Audio      bool
	Display    bool
	LogLevel   string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Interval:   pulse.DefaultInterval,
		InputLimit: morse.InputLimit,
		Frequency:  DefaultFrequency,
		Audio:      false,
		Display:    true,
		LogLevel:   "info",
	}
}

// Validate checks the configuration and derives the interval from WPM when
// one is set.
func (c *Config) Validate() error {
	if c.WPM < 0 {
		return fmt.Errorf("wpm must not be negative")
	}
	if c.WPM > 0 {
		c.Interval = pulse.IntervalFromPARIS(c.WPM)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.InputLimit <= 0 {
		return fmt.Errorf("input limit must be positive")
	}
	if c.Frequency <= 0 || c.Frequency > MaxFrequency {
		return fmt.Errorf("frequency must be between 0 and %.0f Hz", MaxFrequency)
	}

	return nil
}

// Validator returns the text validator for the configured input limit.
func (c Config) Validator() morse.Validator {
	return morse.Validator{Limit: c.InputLimit}
}

// configSetter applies values while respecting flag precedence: a value is
// only applied if the corresponding flag has not been set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if d <= 0 {
		return fmt.Errorf("parse %s: duration must be positive", flag)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses an environment value.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// preferInterval drops a WPM from a lower layer when a layer sets only the
// interval, so the speed comes from the highest layer that sets either.
func (s *configSetter) preferInterval(intervalSet, wpmSet bool, wpm *int) {
	if !intervalSet || wpmSet || s.changed["interval"] || s.changed["wpm"] {
		return
	}
	*wpm = 0
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// Resolve layers the config file at path (or DefaultConfigPath when empty)
// and the environment onto cfg, then validates it. Flags named in changed
// keep their values. A missing default file is not an error. The speed is
// taken from the highest layer that sets an interval or a WPM; an explicit
// --interval ignores a WPM from the file or environment.
func Resolve(cfg *Config, path string, changed map[string]bool) error {
	if changed["interval"] && changed["wpm"] && cfg.WPM > 0 {
		return fmt.Errorf("--interval and --wpm cannot be used together")
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if path != "" && (explicit || FileExists(path)) {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	if changed["interval"] {
		cfg.WPM = 0
	}

	return cfg.Validate()
}
