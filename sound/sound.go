// Package sound plays short tones for flips and wins.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player is the audio feedback used by the front ends.
type Player interface {
	// Flip plays a click; higher when the flip left more lights on than before.
	Flip(brighter bool)
	// Win plays the board-cleared arpeggio.
	Win()
	Close()
}

// Nop is a silent Player.
type Nop struct{}

func (Nop) Flip(bool) {}
func (Nop) Win()      {}
func (Nop) Close()    {}

// Speaker plays tones on the default audio device.
type Speaker struct {
	mu     sync.Mutex
	closed bool
	volume float64
}

// NewSpeaker opens the audio device. The caller should fall back to Nop on error.
func NewSpeaker(volume float64) (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Speaker{volume: volume}, nil
}

func (s *Speaker) Flip(brighter bool) {
	freq := 440.0
	if brighter {
		freq = 660.0
	}
	s.play(tone(freq, 40*time.Millisecond, s.volume))
}

func (s *Speaker) Win() {
	s.play(winArpeggio(s.volume))
}

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
}

func (s *Speaker) play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || st == nil {
		return
	}
	speaker.Play(st)
}

// tone returns a sine of freq Hz lasting d, scaled to volume in (0, 1].
func tone(freq float64, d time.Duration, volume float64) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil
	}
	return withVolume(beep.Take(sampleRate.N(d), sine), volume)
}

// winArpeggio is C-E-G-C, 90ms each.
func winArpeggio(volume float64) beep.Streamer {
	var notes []beep.Streamer
	for _, f := range []float64{523.25, 659.25, 783.99, 1046.5} {
		t := tone(f, 90*time.Millisecond, volume)
		if t == nil {
			return nil
		}
		notes = append(notes, t)
	}
	return beep.Seq(notes...)
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
