package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	bounceFreq     = 440.0
	bounceDuration = 40 * time.Millisecond
	cornerFreq     = 880.0
	cornerDuration = 120 * time.Millisecond
)

// SoundManager plays the bounce and corner cues through the speaker mixer
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
}

// NewSoundManager creates a sound manager; volume is in base-2 steps, 0 = unity
func NewSoundManager(volume float64, muted bool) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
		muted:  muted,
	}
}

// Initialize opens the speaker. Failure leaves the manager silent
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// SetMuted toggles output without tearing down the speaker
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = muted
}

// Bounce plays a short blip
func (sm *SoundManager) Bounce() {
	sm.play(BounceCue(sampleRate))
}

// Corner plays a rising three-note chime
func (sm *SoundManager) Corner() {
	sm.play(CornerCue(sampleRate))
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}

	vol := &effects.Volume{Streamer: s, Base: 2, Volume: sm.volume}
	speaker.Lock()
	sm.mixer.Add(vol)
	speaker.Unlock()
}

// BounceCue is a single enveloped tone
func BounceCue(sr beep.SampleRate) beep.Streamer {
	return beep.Take(sr.N(bounceDuration), NewBlipGenerator(sr, bounceFreq, bounceDuration))
}

// CornerCue is root, fifth, octave
func CornerCue(sr beep.SampleRate) beep.Streamer {
	return beep.Seq(
		beep.Take(sr.N(cornerDuration), NewBlipGenerator(sr, cornerFreq, cornerDuration)),
		beep.Take(sr.N(cornerDuration), NewBlipGenerator(sr, cornerFreq*1.5, cornerDuration)),
		beep.Take(sr.N(2*cornerDuration), NewBlipGenerator(sr, cornerFreq*2, 2*cornerDuration)),
	)
}

// BlipGenerator generates a sine tone with a short attack and exponential release
type BlipGenerator struct {
	sr     beep.SampleRate
	freq   float64
	length float64
	pos    int
}

// NewBlipGenerator creates a blip generator; length shapes the envelope only
func NewBlipGenerator(sr beep.SampleRate, freq float64, length time.Duration) *BlipGenerator {
	return &BlipGenerator{
		sr:     sr,
		freq:   freq,
		length: length.Seconds(),
	}
}

func (g *BlipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		attack := math.Min(t/0.005, 1.0)
		release := math.Exp(-4 * t / g.length)
		sample := 0.25 * attack * release * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BlipGenerator) Err() error {
	return nil
}

// Silent satisfies the same cue interface and does nothing
type Silent struct{}

func (Silent) Bounce() {}
func (Silent) Corner() {}
