package generator

import (
	"io"
	"math"
	"sync"
	"time"
)

const (
	bytesPerSample = 2
	amplitude      = 0.3
	// number of frames faded in and out to avoid clicks
	stuckReduction = 300
)

type segment struct {
	on     bool
	frames int64
}

// SineWave is a keyed signed 16-bit little-endian sine tone. Key queues
// stretches of tone or silence; the gain ramps over stuckReduction frames
// only where the key changes, so adjacent on stretches sound as one tone.
// While nothing is queued the stream is silent. After Finish, Read returns
// io.EOF once the queue is drained and the tone has faded out.
type SineWave struct {
	freq         float64
	channelCount int

	mu        sync.Mutex
	pos       int64
	gain      float64
	queue     []segment
	finished  bool
	remaining []byte
}

func NewSineWave(freq float64, channelCount int) *SineWave {
	return &SineWave{
		freq:         freq,
		channelCount: channelCount,
	}
}

func framesFor(d time.Duration) int64 {
	return int64(DefaultSampleRate) * int64(d) / int64(time.Second)
}

// Key queues d of tone when on is true, silence otherwise.
func (s *SineWave) Key(on bool, d time.Duration) {
	frames := framesFor(d)
	if frames <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}

	if n := len(s.queue); n > 0 && s.queue[n-1].on == on {
		s.queue[n-1].frames += frames
		return
	}
	s.queue = append(s.queue, segment{on: on, frames: frames})
}

// Finish ends the stream after the queued stretches.
func (s *SineWave) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finished = true
}

// Queued returns the length of tone and silence not yet read.
func (s *SineWave) Queued() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	var frames int64
	for _, seg := range s.queue {
		frames += seg.frames
	}
	return time.Duration(frames) * time.Second / DefaultSampleRate
}

func (s *SineWave) frameSize() int {
	return s.channelCount * bytesPerSample
}

func (s *SineWave) drained() bool {
	return s.finished && len(s.queue) == 0 && s.gain == 0
}

func (s *SineWave) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.remaining) > 0 {
		n := copy(buf, s.remaining)
		s.remaining = s.remaining[n:]
		return n, nil
	}

	if s.drained() {
		return 0, io.EOF
	}

	frame := s.frameSize()
	want := len(buf) / frame
	if want == 0 {
		want = 1
	}

	out := buf
	if want*frame > len(buf) {
		out = make([]byte, frame)
	}

	size := s.fill(out, want) * frame
	if size == 0 {
		return 0, io.EOF
	}

	n := copy(buf, out[:size])
	if n < size {
		s.remaining = append([]byte(nil), out[n:size]...)
	}

	return n, nil
}

// fill renders up to frames frames into out and returns how many it wrote.
func (s *SineWave) fill(out []byte, frames int) int {
	frame := s.frameSize()
	period := float64(DefaultSampleRate) / s.freq

	i := 0
	for ; i < frames; i++ {
		if s.drained() {
			break
		}

		on := false
		if len(s.queue) > 0 {
			on = s.queue[0].on
			if s.queue[0].frames--; s.queue[0].frames <= 0 {
				s.queue = s.queue[1:]
			}
		}

		if on {
			s.gain = math.Min(1, s.gain+1.0/stuckReduction)
		} else {
			s.gain = math.Max(0, s.gain-1.0/stuckReduction)
		}

		v := math.Sin(2*math.Pi*float64(s.pos)/period) * amplitude * s.gain
		s.pos++

		const max = 32767
		b := int16(v * max)
		for ch := 0; ch < s.channelCount; ch++ {
			out[frame*i+bytesPerSample*ch] = byte(b)
			out[frame*i+bytesPerSample*ch+1] = byte(b >> 8)
		}
	}

	return i
}
