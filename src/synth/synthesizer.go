package synth

import (
	"context"
	"fmt"
	"log"
	"math"
)

// ----- Config ----- //

// Config ...
type Config struct {
	SampleRate  float64
	Channels    int
	Fingers     int
	MaxEchoTime float64 // sec
	MaxLoopTime float64 // sec
	Presets     *PresetLibrary
	Samples     SampleLibrary
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		Channels:    4,
		Fingers:     5,
		MaxEchoTime: 2,
		MaxLoopTime: 10,
	}
}

// ----- Synthesizer ----- //

// Synthesizer routes channel-addressed events into its channels and sums the
// channel outputs into the master signal.
type Synthesizer struct {
	clock    *Clock
	channels []*Channel
	presets  *PresetLibrary
	master   SignalProvider
}

// NewSynthesizer builds every channel and voice up front. Nothing is
// allocated afterwards on the render path.
func NewSynthesizer(ctx context.Context, cfg Config) (*Synthesizer, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %v", cfg.SampleRate)
	}
	if cfg.Channels <= 0 {
		return nil, fmt.Errorf("number of channels must be positive: %d", cfg.Channels)
	}
	waves, err := NewBandLimitedWaves(ctx, cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	vctx := &voiceContext{
		sampleRate: cfg.SampleRate,
		waves:      waves,
		samples:    cfg.Samples,
	}
	presets := cfg.Presets
	if presets == nil {
		presets = DefaultPresets()
	}
	s := &Synthesizer{
		clock:    NewClock(cfg.SampleRate),
		channels: make([]*Channel, cfg.Channels),
		presets:  presets,
	}
	outputs := make([]SignalProvider, cfg.Channels)
	for i := range s.channels {
		ch, err := newChannel(i, cfg.Fingers, cfg.MaxEchoTime, cfg.MaxLoopTime, vctx)
		if err != nil {
			return nil, err
		}
		s.channels[i] = ch
		outputs[i] = ch
	}
	s.master = NewSum(outputs...)
	return s, nil
}

// Clock ...
func (s *Synthesizer) Clock() *Clock {
	return s.clock
}

// NumChannels ...
func (s *Synthesizer) NumChannels() int {
	return len(s.channels)
}

// Channel ...
func (s *Synthesizer) Channel(index int) (*Channel, error) {
	if index < 0 || index >= len(s.channels) {
		return nil, fmt.Errorf("channel %d out of range [0,%d)", index, len(s.channels))
	}
	return s.channels[index], nil
}

// Presets ...
func (s *Synthesizer) Presets() *PresetLibrary {
	return s.presets
}

// OnNoteOn sets the finger's pitch (log2 Hz) and velocity (0-1) and
// retriggers all of its envelopes.
func (s *Synthesizer) OnNoteOn(channel int, logFreq float64, finger int, velocity float64) {
	ch, err := s.Channel(channel)
	if err != nil {
		log.Printf("note on ignored: %v\n", err)
		return
	}
	if err := ch.NoteOn(finger, logFreq, velocity); err != nil {
		log.Printf("note on ignored: %v\n", err)
	}
}

// OnNoteOff ...
func (s *Synthesizer) OnNoteOff(channel int, finger int) {
	ch, err := s.Channel(channel)
	if err != nil {
		log.Printf("note off ignored: %v\n", err)
		return
	}
	if err := ch.NoteOff(finger); err != nil {
		log.Printf("note off ignored: %v\n", err)
	}
}

// OnPitch moves a held finger without retriggering it.
func (s *Synthesizer) OnPitch(channel int, finger int, logFreq float64) {
	ch, err := s.Channel(channel)
	if err != nil {
		log.Printf("pitch ignored: %v\n", err)
		return
	}
	if err := ch.SetPitch(finger, logFreq); err != nil {
		log.Printf("pitch ignored: %v\n", err)
	}
}

// OnController maps a control number onto a setting and spreads the 0-127
// value over its range. Unknown numbers are logged and ignored.
func (s *Synthesizer) OnController(channel int, control int, value int) {
	ch, err := s.Channel(channel)
	if err != nil {
		log.Printf("controller ignored: %v\n", err)
		return
	}
	switch control {
	case controllerAllSoundOff, controllerAllNotesOff:
		ch.AllNotesOff()
		return
	}
	setting, ok := controllerSettings[control]
	if !ok {
		log.Printf("controller ignored: unknown control number %d\n", control)
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 127 {
		value = 127
	}
	ch.params.get(setting).SetNormalized(float64(value) / 127)
}

// OnProgramChange applies the preset at index to the channel.
func (s *Synthesizer) OnProgramChange(channel int, index int) {
	ch, err := s.Channel(channel)
	if err != nil {
		log.Printf("program change ignored: %v\n", err)
		return
	}
	preset, err := s.presets.At(index)
	if err != nil {
		log.Printf("program change ignored: %v\n", err)
		return
	}
	if err := ch.ApplyPreset(preset); err != nil {
		log.Printf("program change failed: %v\n", err)
	}
}

// Pull computes the master output for the current tick, then advances the
// clock. It must only be called from the render loop.
func (s *Synthesizer) Pull() float64 {
	v := s.master.Value(s.clock)
	checkFinite(v)
	s.clock.Advance()
	return v
}

// Render fills out with consecutive samples.
func (s *Synthesizer) Render(out []float64) {
	for i := range out {
		out[i] = s.Pull()
	}
}

func checkFinite(v float64) {
	if math.IsNaN(v) {
		panic("found NaN")
	}
	if math.IsInf(v, 0) {
		panic("found Inf")
	}
}
