package transmitter

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/gucio32/morselight/pkg/pulse"
)

// State is the lifecycle state of a transmission.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Handle controls one transmission.
type Handle struct {
	id       string
	train    pulse.Train
	interval time.Duration
	obs      Observer
	log      zerolog.Logger

	// mu guards the state check and cursor advance of a tick against Cancel.
	mu     sync.Mutex
	state  atomic.Int32
	cursor atomic.Int64

	// set while an Observer callback runs
	delivering atomic.Bool

	stop chan struct{}
	done chan struct{}
}

// ID returns the unique id of the transmission.
func (h *Handle) ID() string {
	return h.id
}

// State returns the current state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Active reports whether the transmission is still running.
func (h *Handle) Active() bool {
	return h.State() == StateRunning
}

// Done is closed once OnComplete has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Remaining returns the time left to play the pulses not yet emitted.
func (h *Handle) Remaining() time.Duration {
	if !h.Active() {
		return 0
	}

	left := int64(len(h.train)) - h.cursor.Load()
	return time.Duration(left) * h.interval
}

// Cancel stops the transmission and returns after OnComplete has run. Once
// the transmission has ended it only waits for OnComplete to return.
//
// Called while an Observer callback is running, including from inside the
// callback itself, Cancel returns without waiting; OnComplete is delivered
// as soon as the callback returns.
func (h *Handle) Cancel() {
	h.mu.Lock()
	cancelled := h.state.CompareAndSwap(int32(StateRunning), int32(StateCancelled))
	inCallback := h.delivering.Load()
	h.mu.Unlock()

	if cancelled {
		close(h.stop)
	}

	if inCallback {
		return
	}

	<-h.done
}

func (h *Handle) run(ticker Ticker) {
	defer close(h.done)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			h.log.Debug().Int64("cursor", h.cursor.Load()).Msg("transmission cancelled")
			h.delivering.Store(true)
			h.obs.OnComplete()
			h.delivering.Store(false)
			return
		case <-ticker.C():
			if h.tick() {
				return
			}
		}
	}
}

// tick emits the next pulse, or completes the transmission when none are
// left. It reports whether the transmission completed.
func (h *Handle) tick() bool {
	h.mu.Lock()
	if h.State() != StateRunning {
		h.mu.Unlock()
		// cancelled; the stop case delivers OnComplete
		return false
	}

	cursor := h.cursor.Load()
	if cursor >= int64(len(h.train)) {
		h.state.Store(int32(StateCompleted))
		h.delivering.Store(true)
		h.mu.Unlock()

		h.log.Debug().Int("pulses", len(h.train)).Msg("transmission completed")
		h.obs.OnComplete()
		h.delivering.Store(false)
		return true
	}

	on := h.train[cursor]
	remaining := time.Duration(int64(len(h.train))-cursor) * h.interval
	h.cursor.Add(1)
	h.delivering.Store(true)
	h.mu.Unlock()

	h.obs.OnTick(on, remaining)
	h.delivering.Store(false)
	return false
}
