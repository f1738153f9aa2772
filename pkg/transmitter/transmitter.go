// Package transmitter plays a pulse train in real time: one pulse per tick,
// reported to an Observer, with support for cancelling playback.
package transmitter

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gucio32/morselight/pkg/pulse"
)

// ErrBusy is returned by Start while a previous transmission is still active.
var ErrBusy = errors.New("transmitter: transmission already in progress")

// Option configures a Transmitter.
type Option func(*Transmitter)

// WithInterval sets the length of one tick. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(t *Transmitter) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithClock replaces the clock used to schedule ticks.
func WithClock(c Clock) Option {
	return func(t *Transmitter) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Transmitter) {
		t.log = l
	}
}

// Transmitter schedules pulse trains. It runs at most one transmission at a
// time.
type Transmitter struct {
	interval time.Duration
	clock    Clock
	log      zerolog.Logger

	mu      sync.Mutex
	current *Handle
}

// New creates a Transmitter ticking every pulse.DefaultInterval unless
// configured otherwise.
func New(opts ...Option) *Transmitter {
	t := &Transmitter{
		interval: pulse.DefaultInterval,
		clock:    SystemClock{},
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Interval returns the tick length.
func (t *Transmitter) Interval() time.Duration {
	return t.interval
}

// Start begins playing train and reports to obs. Ticks start one interval
// after Start returns. The tick after the last pulse completes the
// transmission, so an empty train completes on the first tick without any
// OnTick call.
func (t *Transmitter) Start(train pulse.Train, obs Observer) (*Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil && t.current.Active() {
		return nil, ErrBusy
	}

	if obs == nil {
		obs = ObserverFuncs{}
	}

	h := &Handle{
		id:       uuid.NewString(),
		train:    append(pulse.Train(nil), train...),
		interval: t.interval,
		obs:      obs,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	h.log = t.log.With().Str("transmission", h.id).Logger()
	h.state.Store(int32(StateRunning))
	t.current = h

	h.log.Debug().
		Int("pulses", len(h.train)).
		Dur("interval", h.interval).
		Dur("duration", pulse.Duration(h.train, h.interval)).
		Msg("transmission started")

	go h.run(t.clock.NewTicker(t.interval))

	return h, nil
}

// Current returns the most recently started transmission, or nil.
func (t *Transmitter) Current() *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.current
}

// Cancel cancels the current transmission, if any.
func (t *Transmitter) Cancel() {
	if h := t.Current(); h != nil {
		h.Cancel()
	}
}
