// Package display renders transmissions on a terminal: a light that follows
// the pulses and the time left.
package display

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/gucio32/morselight/pkg/pulse"
	"github.com/gucio32/morselight/pkg/transmitter"
)

const (
	lightOn  = "█"
	lightOff = "·"
	// at or above this the remaining time is shown as a sleep glyph
	sleepThreshold = 300 * time.Second
	sleepGlyph     = "💤"
)

// FormatRemaining renders a remaining duration in whole seconds, rounded up.
func FormatRemaining(d time.Duration) string {
	if d >= sleepThreshold {
		return sleepGlyph
	}
	if d <= 0 {
		return "0s"
	}

	secs := int(math.Ceil(d.Seconds()))
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}

	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// Summary describes a pulse train before it is sent.
func Summary(t pulse.Train, interval time.Duration) string {
	return fmt.Sprintf("%s pulses (%s on), %s",
		humanize.Comma(int64(t.Len())),
		humanize.Comma(int64(t.OnCount())),
		FormatRemaining(pulse.Duration(t, interval)),
	)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var _ transmitter.Observer = (*Light)(nil)

// Light is a transmitter.Observer that draws the signal state. On a terminal
// it redraws a single line, otherwise it writes one line per pulse.
type Light struct {
	out io.Writer
	tty bool

	mu    sync.Mutex
	ticks int
	on    int
}

func NewLight(out io.Writer) *Light {
	return &Light{out: out, tty: IsTerminal(out)}
}

func (l *Light) OnTick(on bool, remaining time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ticks++
	glyph := lightOff
	if on {
		l.on++
		glyph = lightOn
	}

	if l.tty {
		fmt.Fprintf(l.out, "\r\033[K%s %s", glyph, FormatRemaining(remaining))
		return
	}

	fmt.Fprintf(l.out, "%s %s\n", glyph, FormatRemaining(remaining))
}

func (l *Light) OnComplete() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tty {
		fmt.Fprint(l.out, "\r\033[K")
	}

	fmt.Fprintf(l.out, "done: %s pulses shown\n", humanize.Comma(int64(l.ticks)))
}

// Counts returns the pulses shown so far and how many of them were on.
func (l *Light) Counts() (ticks, on int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.ticks, l.on
}
