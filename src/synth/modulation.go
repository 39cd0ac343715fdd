package synth

import (
	"math"
	"sync/atomic"
)

// ----- Mixer ----- //

// Mixer crossfades between two sources. At balance 0 only the first source is
// pulled, at balance 1 only the second.
type Mixer struct {
	source1 SignalProvider
	source2 SignalProvider
	balance SignalProvider
}

// NewMixer ...
func NewMixer(source1, source2, balance SignalProvider) *Mixer {
	return &Mixer{source1: source1, source2: source2, balance: balance}
}

// Value ...
func (m *Mixer) Value(c *Clock) float64 {
	b := m.balance.Value(c)
	if b <= 0 {
		return m.source1.Value(c)
	}
	if b >= 1 {
		return m.source2.Value(c)
	}
	return m.source1.Value(c)*(1-b) + m.source2.Value(c)*b
}

// ----- Tuner ----- //

// Tuner adds offset*scale octaves to an upstream frequency.
type Tuner struct {
	src    FrequencyProvider
	offset SignalProvider
	scale  float64
}

// NewTuner ...
func NewTuner(src FrequencyProvider, offset SignalProvider, scale float64) *Tuner {
	return &Tuner{src: src, offset: offset, scale: scale}
}

// LogFrequency ...
func (t *Tuner) LogFrequency(c *Clock) float64 {
	return t.src.LogFrequency(c) + t.offset.Value(c)*t.scale
}

// ----- Glide ----- //

// Glide follows its target frequency, sliding to each new value over the
// glide time (seconds). Snap makes the next change immediate.
type Glide struct {
	memo
	target  FrequencyProvider
	time    SignalProvider
	snap    atomic.Bool
	started bool
	last    float64
	tvalue  transitiveValue
}

// NewGlide ...
func NewGlide(target FrequencyProvider, time SignalProvider) *Glide {
	return &Glide{target: target, time: time}
}

// Snap ...
func (g *Glide) Snap() {
	g.snap.Store(true)
}

// LogFrequency ...
func (g *Glide) LogFrequency(c *Clock) float64 {
	return g.pull(c, g)
}

func (g *Glide) compute(c *Clock) float64 {
	target := g.target.LogFrequency(c)
	if g.snap.Swap(false) || !g.started {
		g.started = true
		g.last = target
		g.tvalue.init(target)
		return target
	}
	if target != g.last {
		g.last = target
		g.tvalue.linear(g.time.Value(c), target)
	}
	g.tvalue.step(c.Delta())
	return g.tvalue.value
}

// ----- Tremolo ----- //

// Tremolo turns a bipolar modulator into a gain around 1.
type Tremolo struct {
	modulator SignalProvider
	depth     SignalProvider
}

// NewTremolo ...
func NewTremolo(modulator, depth SignalProvider) *Tremolo {
	return &Tremolo{modulator: modulator, depth: depth}
}

// Value ...
func (t *Tremolo) Value(c *Clock) float64 {
	half := t.depth.Value(c) / 2
	return t.modulator.Value(c)*half + (1 - half)
}

// ----- Filter Cutoff ----- //

// FilterCutoff shapes a raw cutoff c by a depth d in [-1,1] and an envelope e:
// c + (c*|d| - (d+|d|)/2) * (e-1). At e=1 the result is c. At e=0 it is
// pulled toward 1 by positive depth and toward 0 by negative depth.
type FilterCutoff struct {
	cutoff   SignalProvider
	depth    SignalProvider
	envelope SignalProvider
}

// NewFilterCutoff ...
func NewFilterCutoff(cutoff, depth, envelope SignalProvider) *FilterCutoff {
	return &FilterCutoff{cutoff: cutoff, depth: depth, envelope: envelope}
}

// Value ...
func (f *FilterCutoff) Value(c *Clock) float64 {
	cut := f.cutoff.Value(c)
	d := f.depth.Value(c)
	e := f.envelope.Value(c)
	ad := math.Abs(d)
	return cut + (cut*ad-0.5*(d+ad))*(e-1)
}
