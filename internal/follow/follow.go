// Package follow transmits the contents of a text file and sends it again
// whenever the file changes.
package follow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/gucio32/morselight/pkg/morse"
	"github.com/gucio32/morselight/pkg/pulse"
	"github.com/gucio32/morselight/pkg/transmitter"
)

// DefaultDebounce is how long to wait after a change before sending.
const DefaultDebounce = 100 * time.Millisecond

type Option func(*Follower)

func WithValidator(v morse.Validator) Option {
	return func(f *Follower) { f.validator = v }
}

// WithObserver sets the factory for the observer of each transmission.
func WithObserver(fn func() transmitter.Observer) Option {
	return func(f *Follower) {
		if fn != nil {
			f.observer = fn
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(f *Follower) {
		if d > 0 {
			f.debounce = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(f *Follower) { f.log = l }
}

// Follower watches one file. A change cancels the transmission in flight
// and starts a new one with the current contents.
type Follower struct {
	path      string
	tx        *transmitter.Transmitter
	validator morse.Validator
	observer  func() transmitter.Observer
	debounce  time.Duration
	log       zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
	sent  atomic.Int64
}

func New(path string, tx *transmitter.Transmitter, opts ...Option) *Follower {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	f := &Follower{
		path:     filepath.Clean(path),
		tx:       tx,
		observer: func() transmitter.Observer { return nil },
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Sent returns the number of transmissions started.
func (f *Follower) Sent() int {
	return int(f.sent.Load())
}

// Run sends the file once and then on every change until ctx is done. The
// transmission in flight is cancelled on return.
func (f *Follower) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory so editors that replace the file are noticed
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	defer f.tx.Cancel()
	defer f.stopTimer()

	trigger := make(chan struct{}, 1)

	f.send()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f.debounceSend(trigger)

		case <-trigger:
			f.send()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (f *Follower) debounceSend(trigger chan<- struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}

	f.timer = time.AfterFunc(f.debounce, func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
}

func (f *Follower) stopTimer() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
}

func (f *Follower) send() {
	b, err := os.ReadFile(f.path)
	if err != nil {
		f.log.Warn().Err(err).Str("file", f.path).Msg("read file")
		return
	}

	text := strings.TrimRight(string(b), "\r\n")
	m, err := f.validator.Encode(text)
	if err != nil {
		f.log.Warn().Err(err).Str("file", f.path).Msg("file contents cannot be sent")
		return
	}

	f.tx.Cancel()

	train := pulse.Compile(m)
	h, err := f.tx.Start(train, f.observer())
	if err != nil {
		f.log.Warn().Err(err).Msg("start transmission")
		return
	}

	f.sent.Add(1)
	f.log.Info().
		Str("transmission", h.ID()).
		Str("text", text).
		Dur("duration", pulse.Duration(train, f.tx.Interval())).
		Msg("sending file contents")
}
