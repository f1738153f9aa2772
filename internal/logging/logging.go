// Package logging builds the zerolog loggers used by the CLI.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gucio32/morselight/pkg/transmitter"
)

// New returns a console logger writing to out at the given level.
func New(level string, out io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// fall back to info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none":
		return zerolog.Disabled
	}

	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return lvl
}

type observer struct {
	log zerolog.Logger
}

// Observer returns a transmitter.Observer that logs every pulse at trace
// level and completion at debug level.
func Observer(l zerolog.Logger) transmitter.Observer {
	return observer{log: l}
}

func (o observer) OnTick(on bool, remaining time.Duration) {
	o.log.Trace().Bool("on", on).Dur("remaining", remaining).Msg("pulse")
}

func (o observer) OnComplete() {
	o.log.Debug().Msg("transmission finished")
}
