package config

import "os"

// ApplyEnvConfig applies MORSE_* environment variables to cfg, skipping
// flags in changed.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setDuration("interval", os.Getenv("MORSE_INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setIntFromString("wpm", os.Getenv("MORSE_WPM"), &cfg.WPM); err != nil {
		return err
	}
	s.preferInterval(os.Getenv("MORSE_INTERVAL") != "", os.Getenv("MORSE_WPM") != "", &cfg.WPM)
	if err := s.setIntFromString("input-limit", os.Getenv("MORSE_INPUT_LIMIT"), &cfg.InputLimit); err != nil {
		return err
	}
	if err := s.setFloatFromString("frequency", os.Getenv("MORSE_FREQUENCY"), &cfg.Frequency); err != nil {
		return err
	}

	s.setBoolFromString("audio", os.Getenv("MORSE_AUDIO"), &cfg.Audio)
	s.setBoolFromString("display", os.Getenv("MORSE_DISPLAY"), &cfg.Display)
	s.setString("log-level", os.Getenv("MORSE_LOG_LEVEL"), &cfg.LogLevel)

	return nil
}
