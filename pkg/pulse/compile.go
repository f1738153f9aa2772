// Package pulse compiles encoded Morse messages into flat on/off pulse trains,
// one pulse per tick.
package pulse

import (
	"strings"
	"time"

	"github.com/gucio32/morselight/pkg/morse"
)

// DefaultInterval is the wall-clock length of one pulse.
const DefaultInterval = 250 * time.Millisecond

// interWordGap is added between words on top of the gap after the last symbol.
const interWordGap = 2

// Train is an ordered sequence of pulses; true keys the signal on.
type Train []bool

// Compile turns m into a pulse train. Equal messages always produce equal
// trains.
func Compile(m morse.Message) Train {
	words := m.Words()

	var t Train
	for i, word := range words {
		for _, sym := range word {
			t = appendRun(t, sym.IsSignal(), sym.Duration())
			t = append(t, false)
		}

		if i != len(words)-1 {
			t = appendRun(t, false, interWordGap)
		}
	}

	if len(t) == 0 {
		return Train{}
	}

	// the last pulse is always a trailing gap with nothing after it
	return t[:len(t)-1]
}

func appendRun(t Train, on bool, n int) Train {
	for i := 0; i < n; i++ {
		t = append(t, on)
	}

	return t
}

// Duration returns how long t takes to play at the given interval.
func Duration(t Train, interval time.Duration) time.Duration {
	return time.Duration(len(t)) * interval
}

// Len returns the number of ticks in t.
func (t Train) Len() int {
	return len(t)
}

// OnCount returns the number of pulses that key the signal on.
func (t Train) OnCount() int {
	n := 0
	for _, on := range t {
		if on {
			n++
		}
	}

	return n
}

// Equal reports whether both trains hold the same pulses.
func (t Train) Equal(o Train) bool {
	if len(t) != len(o) {
		return false
	}

	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}

	return true
}

// String renders on pulses as '#' and off pulses as '_'.
func (t Train) String() string {
	var b strings.Builder
	b.Grow(len(t))
	for _, on := range t {
		if on {
			b.WriteByte('#')
		} else {
			b.WriteByte('_')
		}
	}

	return b.String()
}
