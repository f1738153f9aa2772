package transmitter

import "time"

// Observer receives the output of a transmission. Both methods run on the
// transmission goroutine, one at a time, and must return promptly.
//
// OnComplete is called exactly once per transmission, after the last pulse or
// on cancellation; it does not say which.
type Observer interface {
	OnTick(on bool, remaining time.Duration)
	OnComplete()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Tick     func(on bool, remaining time.Duration)
	Complete func()
}

func (f ObserverFuncs) OnTick(on bool, remaining time.Duration) {
	if f.Tick != nil {
		f.Tick(on, remaining)
	}
}

func (f ObserverFuncs) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}

type fanout []Observer

// Fanout returns an Observer that forwards every call to each of obs in order.
func Fanout(obs ...Observer) Observer {
	out := make(fanout, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}

	return out
}

func (f fanout) OnTick(on bool, remaining time.Duration) {
	for _, o := range f {
		o.OnTick(on, remaining)
	}
}

func (f fanout) OnComplete() {
	for _, o := range f {
		o.OnComplete()
	}
}

// Event is one notification delivered through an Events channel.
type Event struct {
	On        bool
	Remaining time.Duration
	Complete  bool
}

type eventObserver chan Event

// Events returns an Observer that forwards notifications to a channel with
// the given buffer. The channel is closed after the completion event. A
// buffer of at least len(train)+1 never blocks the transmission.
func Events(capacity int) (Observer, <-chan Event) {
	ch := make(eventObserver, capacity)
	return ch, ch
}

func (c eventObserver) OnTick(on bool, remaining time.Duration) {
	c <- Event{On: on, Remaining: remaining}
}

func (c eventObserver) OnComplete() {
	c <- Event{Complete: true}
	close(c)
}
