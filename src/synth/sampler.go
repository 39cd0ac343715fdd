package synth

import (
	"math"
	"sync"
)

// ----- Sampler ----- //

// Sampler plays zones from a SampleLibrary at the pitch of its frequency
// input. It behaves as an envelope: a trigger picks a zone and restarts it.
type Sampler struct {
	memo
	freq     FrequencyProvider
	velocity SignalProvider // 0-1
	library  SampleLibrary

	mu      sync.Mutex
	gate    bool
	trigger bool

	zone    *Zone
	pos     float64
	playing bool
}

// NewSampler ...
func NewSampler(freq FrequencyProvider, velocity SignalProvider, library SampleLibrary) *Sampler {
	return &Sampler{freq: freq, velocity: velocity, library: library}
}

// TurnOn ...
func (s *Sampler) TurnOn(retrigger bool) {
	s.mu.Lock()
	if !s.gate || retrigger {
		s.trigger = true
	}
	s.gate = true
	s.mu.Unlock()
}

// TurnOff lets a LoopThenFinish zone leave its loop.
func (s *Sampler) TurnOff() {
	s.mu.Lock()
	s.gate = false
	s.mu.Unlock()
}

// Value ...
func (s *Sampler) Value(c *Clock) float64 {
	return s.pull(c, s)
}

func (s *Sampler) compute(c *Clock) float64 {
	s.mu.Lock()
	gate, trigger := s.gate, s.trigger
	s.trigger = false
	s.mu.Unlock()

	logFreq := s.freq.LogFrequency(c)
	// a trigger left pending while another waveform was selected is dropped
	// once the finger has been released
	if trigger && gate {
		s.start(logFreq, s.velocity.Value(c))
	}
	if !s.playing {
		return 0
	}
	z := s.zone
	looping := z.loops() && (z.LoopMode == LoopContinuously || gate)
	v := z.at(s.pos, looping)
	rate := math.Exp2(logFreq-NoteToLog(z.RootKey)) * z.SampleRate / c.SampleRate()
	s.pos += rate
	if looping && s.pos >= float64(z.LoopEnd) {
		loopLength := float64(z.LoopEnd - z.LoopStart)
		s.pos = float64(z.LoopStart) + math.Mod(s.pos-float64(z.LoopStart), loopLength)
	}
	if s.pos >= float64(z.End) {
		s.playing = false
	}
	return v
}

func (s *Sampler) start(logFreq float64, velocity float64) {
	s.playing = false
	if s.library == nil {
		return
	}
	zone, ok := s.library.Zone(LogToNote(logFreq), int(math.Round(velocity*127)))
	if !ok || !zone.valid() {
		return
	}
	s.zone = zone
	s.pos = float64(zone.Start)
	s.playing = true
}
