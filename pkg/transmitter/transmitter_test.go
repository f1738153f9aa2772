package transmitter

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gucio32/morselight/pkg/morse"
	"github.com/gucio32/morselight/pkg/pulse"
)

// fakeClock hands out a single manually driven ticker.
type fakeClock struct {
	mu     sync.Mutex
	ticker *fakeTicker
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticker = &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})}
	return c.ticker
}

// tick delivers one tick and blocks until the transmission goroutine takes it.
func (c *fakeClock) tick(t *testing.T) {
	t.Helper()

	c.mu.Lock()
	tk := c.ticker
	c.mu.Unlock()

	select {
	case tk.c <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("tick not consumed")
	}
}

type fakeTicker struct {
	c       chan time.Time
	once    sync.Once
	stopped chan struct{}
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.once.Do(func() { close(f.stopped) }) }

// recorder is an Observer that records every call.
type recorder struct {
	mu        sync.Mutex
	ticks     []Event
	completes int
}

func (r *recorder) OnTick(on bool, remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, Event{On: on, Remaining: remaining})
}

func (r *recorder) OnComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes++
}

func (r *recorder) snapshot() ([]Event, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.ticks...), r.completes
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("transmission did not finish")
	}
}

func compile(t *testing.T, text string) pulse.Train {
	t.Helper()

	m, err := morse.Encode(text)
	if err != nil {
		t.Fatal(err)
	}
	return pulse.Compile(m)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateRunning, "Running"},
		{StateCompleted, "Completed"},
		{StateCancelled, "Cancelled"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestStart_PlaysTrainInOrder(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk), WithInterval(100*time.Millisecond))

	train := pulse.Train{true, false, true, true}
	obs, events := Events(len(train) + 1)

	h, err := tx.Start(train, obs)
	if err != nil {
		t.Fatal(err)
	}
	if !h.Active() {
		t.Fatal("Active() = false after Start")
	}
	if got := h.Remaining(); got != 400*time.Millisecond {
		t.Errorf("Remaining() = %v, want 400ms", got)
	}

	for i, want := range train {
		clk.tick(t)
		ev := <-events
		if ev.Complete {
			t.Fatalf("tick %d: unexpected completion", i)
		}
		if ev.On != want {
			t.Errorf("tick %d: On = %v, want %v", i, ev.On, want)
		}
		wantRemaining := time.Duration(len(train)-i) * 100 * time.Millisecond
		if ev.Remaining != wantRemaining {
			t.Errorf("tick %d: Remaining = %v, want %v", i, ev.Remaining, wantRemaining)
		}
	}

	// the last pulse has been consumed but completion waits for the next tick
	if !h.Active() {
		t.Fatal("completed on the tick that consumed the last pulse")
	}

	clk.tick(t)
	ev, ok := <-events
	if !ok || !ev.Complete {
		t.Fatalf("expected completion event, got %+v (open=%v)", ev, ok)
	}
	if _, ok := <-events; ok {
		t.Error("events channel not closed after completion")
	}

	waitDone(t, h)
	if h.State() != StateCompleted {
		t.Errorf("State() = %v, want Completed", h.State())
	}
	if h.Active() {
		t.Error("Active() = true after completion")
	}
	<-clk.ticker.stopped
}

func TestStart_SOSRemainingDuration(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))
	rec := &recorder{}

	train := compile(t, "sos")
	h, err := tx.Start(train, rec)
	if err != nil {
		t.Fatal(err)
	}

	for range train {
		clk.tick(t)
	}
	clk.tick(t)
	waitDone(t, h)

	ticks, completes := rec.snapshot()
	if len(ticks) != 20 {
		t.Fatalf("got %d ticks, want 20", len(ticks))
	}
	if ticks[0].Remaining != 5*time.Second {
		t.Errorf("first remaining = %v, want 5s", ticks[0].Remaining)
	}
	if ticks[19].Remaining != pulse.DefaultInterval {
		t.Errorf("last remaining = %v, want %v", ticks[19].Remaining, pulse.DefaultInterval)
	}
	if completes != 1 {
		t.Errorf("OnComplete called %d times, want 1", completes)
	}
}

func TestStart_EmptyTrain(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))
	rec := &recorder{}

	h, err := tx.Start(compile(t, ""), rec)
	if err != nil {
		t.Fatal(err)
	}

	clk.tick(t)
	waitDone(t, h)

	ticks, completes := rec.snapshot()
	if len(ticks) != 0 {
		t.Errorf("got %d ticks, want 0", len(ticks))
	}
	if completes != 1 {
		t.Errorf("OnComplete called %d times, want 1", completes)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))
	rec := &recorder{}
	train := compile(t, "sos")
	events, ch := Events(len(train) + 1)

	h, err := tx.Start(train, Fanout(rec, events))
	if err != nil {
		t.Fatal(err)
	}

	clk.tick(t)
	<-ch
	clk.tick(t)
	<-ch

	h.Cancel()
	// the second tick may still be in delivery, in which case Cancel
	// returns early
	waitDone(t, h)

	ticks, completes := rec.snapshot()
	if completes != 1 {
		t.Fatalf("OnComplete called %d times after Cancel, want 1", completes)
	}
	if len(ticks) != 2 {
		t.Errorf("got %d ticks before cancel, want 2", len(ticks))
	}
	if h.State() != StateCancelled {
		t.Errorf("State() = %v, want Cancelled", h.State())
	}
	if h.Remaining() != 0 {
		t.Errorf("Remaining() = %v after cancel, want 0", h.Remaining())
	}

	h.Cancel()
	tx.Cancel()

	if _, completes := rec.snapshot(); completes != 1 {
		t.Errorf("OnComplete called %d times after repeated Cancel, want 1", completes)
	}

	select {
	case <-clk.ticker.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker not stopped after cancel")
	}
}

func TestCancel_BeforeFirstTick(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))
	rec := &recorder{}

	h, err := tx.Start(compile(t, "sos"), rec)
	if err != nil {
		t.Fatal(err)
	}

	h.Cancel()

	// no callback was running, so Cancel waited for OnComplete
	ticks, completes := rec.snapshot()
	if completes != 1 {
		t.Fatalf("OnComplete called %d times when Cancel returned, want 1", completes)
	}
	if len(ticks) != 0 {
		t.Errorf("got %d ticks, want 0", len(ticks))
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done not closed when Cancel returned")
	}
}

func TestCancel_FromOnTick(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))
	rec := &recorder{}

	var h *Handle
	started := make(chan struct{})
	cancelled := make(chan struct{})
	obs := ObserverFuncs{Tick: func(bool, time.Duration) {
		<-started
		h.Cancel()
		close(cancelled)
	}}

	var err error
	h, err = tx.Start(compile(t, "sos"), Fanout(rec, obs))
	if err != nil {
		t.Fatal(err)
	}
	close(started)

	clk.tick(t)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("Cancel from OnTick did not return; state=%v", h.State())
	}
	waitDone(t, h)

	ticks, completes := rec.snapshot()
	if len(ticks) != 1 {
		t.Errorf("got %d ticks, want 1", len(ticks))
	}
	if completes != 1 {
		t.Errorf("OnComplete called %d times, want 1", completes)
	}
	if h.State() != StateCancelled {
		t.Errorf("State() = %v, want Cancelled", h.State())
	}

	next, err := tx.Start(pulse.Train{true}, nil)
	if err != nil {
		t.Fatalf("Start after cancel from OnTick: %v", err)
	}
	next.Cancel()
}

func TestCancel_FromOnComplete(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))

	var h *Handle
	started := make(chan struct{})
	obs := ObserverFuncs{Complete: func() {
		<-started
		h.Cancel()
	}}

	var err error
	h, err = tx.Start(pulse.Train{true}, obs)
	if err != nil {
		t.Fatal(err)
	}
	close(started)

	clk.tick(t)
	clk.tick(t)
	waitDone(t, h)

	if h.State() != StateCompleted {
		t.Errorf("State() = %v, want Completed", h.State())
	}
}

func TestCancel_AfterCompletion(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))
	rec := &recorder{}

	h, err := tx.Start(pulse.Train{true}, rec)
	if err != nil {
		t.Fatal(err)
	}

	clk.tick(t)
	clk.tick(t)
	waitDone(t, h)

	h.Cancel()
	h.Cancel()

	if _, completes := rec.snapshot(); completes != 1 {
		t.Errorf("OnComplete called %d times, want 1", completes)
	}
	if h.State() != StateCompleted {
		t.Errorf("State() = %v, want Completed", h.State())
	}
}

func TestCancel_Concurrent(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))
	rec := &recorder{}

	h, err := tx.Start(compile(t, "hello world"), rec)
	if err != nil {
		t.Fatal(err)
	}

	clk.tick(t)

	states := make(chan State, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Cancel()
			states <- h.State()
		}()
	}
	wg.Wait()
	close(states)
	waitDone(t, h)

	for s := range states {
		if s != StateCancelled {
			t.Errorf("State() after Cancel returned = %v, want Cancelled", s)
		}
	}

	if _, completes := rec.snapshot(); completes != 1 {
		t.Errorf("OnComplete called %d times, want 1", completes)
	}
}

func TestStart_SingleFlight(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))

	first, err := tx.Start(pulse.Train{true}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tx.Start(pulse.Train{true}, nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Start err = %v, want ErrBusy", err)
	}

	first.Cancel()

	second, err := tx.Start(pulse.Train{true}, nil)
	if err != nil {
		t.Fatalf("Start after cancel: %v", err)
	}
	if tx.Current() != second {
		t.Error("Current() does not return the latest transmission")
	}
	if second.ID() == first.ID() {
		t.Error("transmissions share an id")
	}
	second.Cancel()
}

func TestStart_StartFromOnComplete(t *testing.T) {
	clk := &fakeClock{}
	tx := New(WithClock(clk))

	restarted := make(chan error, 1)
	obs := ObserverFuncs{Complete: func() {
		_, err := tx.Start(pulse.Train{}, nil)
		restarted <- err
	}}

	h, err := tx.Start(pulse.Train{}, obs)
	if err != nil {
		t.Fatal(err)
	}

	clk.tick(t)
	waitDone(t, h)

	if err := <-restarted; err != nil {
		t.Errorf("Start from OnComplete: %v", err)
	}
	tx.Cancel()
}

func TestStart_SystemClock(t *testing.T) {
	tx := New(WithInterval(time.Millisecond))
	rec := &recorder{}

	h, err := tx.Start(compile(t, "e e"), rec)
	if err != nil {
		t.Fatal(err)
	}

	waitDone(t, h)

	ticks, completes := rec.snapshot()
	if len(ticks) != len(compile(t, "e e")) {
		t.Errorf("got %d ticks, want %d", len(ticks), len(compile(t, "e e")))
	}
	if completes != 1 {
		t.Errorf("OnComplete called %d times, want 1", completes)
	}
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	obs := Fanout(a, nil, b)

	obs.OnTick(true, time.Second)
	obs.OnComplete()

	for i, r := range []*recorder{a, b} {
		ticks, completes := r.snapshot()
		if len(ticks) != 1 || completes != 1 {
			t.Errorf("observer %d: ticks=%d completes=%d", i, len(ticks), completes)
		}
	}
}
