// Package generator plays Morse transmissions through the default audio
// device as a sine tone.
package generator

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"

	"github.com/gucio32/morselight/pkg/pulse"
	"github.com/gucio32/morselight/pkg/transmitter"
)

const (
	DefaultFrequency    = 784.0 // this is G
	DefaultSampleRate   = 48000
	DefaultFormat       = oto.FormatSignedInt16LE
	DefaultChannelCount = 2
)

var _ transmitter.Observer = (*Generator)(nil)

// Generator is a transmitter.Observer that keys a tone with the pulses. Each
// transmission plays through one player, so consecutive on pulses sound as a
// single tone.
type Generator struct {
	ctx       *oto.Context
	frequency float64
	interval  time.Duration
	log       zerolog.Logger

	mu      sync.Mutex
	wave    *SineWave
	player  *oto.Player
	players []*oto.Player
}

// NewGenerator opens the audio device. Only one Generator may exist per
// process.
func NewGenerator() (*Generator, error) {
	op := &oto.NewContextOptions{
		SampleRate:   DefaultSampleRate,
		Format:       DefaultFormat,
		ChannelCount: DefaultChannelCount,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	<-ready

	return &Generator{
		ctx:       ctx,
		frequency: DefaultFrequency,
		interval:  pulse.DefaultInterval,
		log:       zerolog.Nop(),
	}, nil
}

func (g *Generator) SetFrequency(freq float64) *Generator {
	if freq > 0 {
		g.frequency = freq
	}

	return g
}

// SetInterval sets the tone length of one pulse. It should match the
// transmitter interval.
func (g *Generator) SetInterval(d time.Duration) *Generator {
	if d > 0 {
		g.interval = d
	}

	return g
}

func (g *Generator) SetPARIS(paris int) *Generator {
	return g.SetInterval(pulse.IntervalFromPARIS(paris))
}

func (g *Generator) SetLogger(l zerolog.Logger) *Generator {
	g.log = l
	return g
}

func (g *Generator) Interval() time.Duration {
	return g.interval
}

func (g *Generator) OnTick(on bool, _ time.Duration) {
	g.reap(false)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.wave == nil {
		g.wave = NewSineWave(g.frequency, DefaultChannelCount)
		// one tick of lead-in keeps the queue ahead of the device
		g.wave.Key(false, g.interval)
		g.player = g.ctx.NewPlayer(g.wave)
		g.player.SetBufferSize(bufferSize(g.interval))
		g.player.Play()
	}

	g.wave.Key(on, g.interval)
}

// OnComplete lets the current tone drain and fade out.
func (g *Generator) OnComplete() {
	g.mu.Lock()
	if g.wave != nil {
		g.wave.Finish()
		g.players = append(g.players, g.player)
		g.wave, g.player = nil, nil
	}
	g.mu.Unlock()

	g.reap(false)
}

// bufferSize returns the player buffer in bytes for half a tick.
func bufferSize(interval time.Duration) int {
	frames := framesFor(interval / 2)
	if frames < stuckReduction {
		frames = stuckReduction
	}
	return int(frames) * DefaultChannelCount * bytesPerSample
}

// Close releases every player, including ones still sounding.
func (g *Generator) Close() error {
	g.mu.Lock()
	if g.player != nil {
		g.players = append(g.players, g.player)
		g.wave, g.player = nil, nil
	}
	g.mu.Unlock()

	g.reap(true)
	return nil
}

func (g *Generator) reap(all bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.players[:0]
	for _, p := range g.players {
		if !all && p.IsPlaying() {
			kept = append(kept, p)
			continue
		}

		if err := p.Close(); err != nil {
			g.log.Warn().Err(err).Msg("close audio player")
		}
	}

	g.players = kept
}
