package synth

import "fmt"

// ----- Voice ----- //

const (
	minPitch = 0.0  // log2(1Hz)
	maxPitch = 15.0 // log2(32768Hz)
)

// voiceContext is what a voice needs besides the channel params.
type voiceContext struct {
	sampleRate float64
	waves      *BandLimitedWaves
	samples    SampleLibrary
}

// Voice is one finger: a complete signal chain with its own pitch and
// envelopes, reading every other parameter from the channel.
type Voice struct {
	pitch     *ParamInput
	velocity  *ParamInput
	glide     *Glide
	envelopes []Envelope
	output    SignalProvider
}

func newADSRFrom(p *params, attack, decay, sustain, release Setting) *ADSR {
	return NewADSR(p.get(attack), p.get(decay), p.get(sustain), p.get(release))
}

func newVoice(p *params, ctx *voiceContext) (*Voice, error) {
	v := &Voice{
		pitch:    NewParamInput("pitch", minPitch, maxPitch, NoteToLog(69)),
		velocity: NewParamInput("velocity", 0, 1, 1),
	}

	// pitch
	v.glide = NewGlide(v.pitch, p.get(SettingGlideTime))
	coarse := NewTuner(v.glide, p.get(SettingCoarseTune), 1.0/12)
	fine := NewTuner(coarse, p.get(SettingFineTune), 1.0/1200)
	vibratoEnv := newADSRFrom(p, SettingVibratoAttack, SettingVibratoDecay, SettingVibratoSustain, SettingVibratoRelease)
	vibratoLfo := NewSine(NewLinearFrequency(p.get(SettingVibratoRate)))
	vibrato := NewTuner(fine, NewMultiply(vibratoLfo, p.get(SettingVibratoDepth), vibratoEnv), 1.0/12)
	freq := MemoizeFrequency(vibrato)

	// oscillator bank
	drawbars := make([]SignalProvider, len(drawbarSettings))
	for i, s := range drawbarSettings {
		drawbars[i] = p.get(s)
	}
	pluck := NewPluckedString(freq, p.get(SettingPluckDecay), ctx.sampleRate)
	sampler := NewSampler(freq, v.velocity, ctx.samples)
	osc, err := NewWaveformSelector(p.waveform, map[string]SignalProvider{
		WaveSine:     NewSine(freq),
		WaveTriangle: NewTriangle(freq),
		WaveSquare:   NewSquare(freq),
		WaveSaw:      NewSaw(freq),
		WaveNoise:    NewNoise(),
		WaveSquareWT: NewWavetableOscillator(freq, ctx.waves.Square),
		WaveSawWT:    NewWavetableOscillator(freq, ctx.waves.Saw),
		WaveOrgan:    NewOrgan(freq, drawbars),
		WavePluck:    pluck,
		WaveSample:   sampler,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble voice: %w", err)
	}

	// tremolo
	tremoloEnv := newADSRFrom(p, SettingTremoloAttack, SettingTremoloDecay, SettingTremoloSustain, SettingTremoloRelease)
	tremoloLfo := NewSine(NewLinearFrequency(p.get(SettingTremoloRate)))
	tremolo := NewTremolo(tremoloLfo, NewMultiply(p.get(SettingTremoloDepth), tremoloEnv))

	// filter
	filterEnv := newADSRFrom(p, SettingFilterAttack, SettingFilterDecay, SettingFilterSustain, SettingFilterRelease)
	cutoff := NewFilterCutoff(p.get(SettingFilterCutoff), p.get(SettingFilterDepth), filterEnv)
	filter := NewLowPass(NewMultiply(osc, tremolo), cutoff, p.get(SettingFilterResonance))

	// amplitude
	ampEnv := newADSRFrom(p, SettingAmpAttack, SettingAmpDecay, SettingAmpSustain, SettingAmpRelease)
	v.output = Memoize(NewMultiply(filter, ampEnv, v.velocity))

	v.envelopes = []Envelope{ampEnv, filterEnv, vibratoEnv, tremoloEnv, pluck, sampler}
	return v, nil
}

// NoteOn sets the pitch and velocity, then turns on every envelope.
func (v *Voice) NoteOn(logFreq float64, velocity float64, retrigger bool) {
	v.pitch.SetValue(logFreq)
	v.velocity.SetValue(velocity)
	v.glide.Snap()
	for _, e := range v.envelopes {
		e.TurnOn(retrigger)
	}
}

// SetPitch moves a held finger; the change glides.
func (v *Voice) SetPitch(logFreq float64) {
	v.pitch.SetValue(logFreq)
}

// NoteOff turns off every envelope.
func (v *Voice) NoteOff() {
	for _, e := range v.envelopes {
		e.TurnOff()
	}
}

// Pitch ...
func (v *Voice) Pitch() float64 {
	return v.pitch.Get()
}

// Envelopes returns every envelope instantiated for this voice.
func (v *Voice) Envelopes() []Envelope {
	return v.envelopes
}

// Value ...
func (v *Voice) Value(c *Clock) float64 {
	return v.output.Value(c)
}
