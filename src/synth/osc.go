package synth

import (
	"math"
	"math/rand"
)

// ----- Wave Kind ----- //

const (
	waveSine = iota
	waveTriangle
	waveSquare
	waveSaw
	waveNoise
	waveTable
)

// ----- OSC ----- //

// Oscillator is a phase accumulator driven by a log frequency.
type Oscillator struct {
	memo
	freq   FrequencyProvider
	kind   int
	phase  float64 // 0-1
	tables *WavetableSet
	rng    *rand.Rand
}

func newOscillator(freq FrequencyProvider, kind int, phase float64) *Oscillator {
	return &Oscillator{
		freq:  freq,
		kind:  kind,
		phase: phase,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
}

// NewSine ...
func NewSine(freq FrequencyProvider) *Oscillator {
	return newOscillator(freq, waveSine, 0)
}

// NewTriangle ...
func NewTriangle(freq FrequencyProvider) *Oscillator {
	return newOscillator(freq, waveTriangle, 0)
}

// NewSquare ...
func NewSquare(freq FrequencyProvider) *Oscillator {
	return newOscillator(freq, waveSquare, 0)
}

// NewSaw ...
func NewSaw(freq FrequencyProvider) *Oscillator {
	return newOscillator(freq, waveSaw, 0)
}

// NewNoise ...
func NewNoise() *Oscillator {
	return newOscillator(Constant(0), waveNoise, 0)
}

// NewWavetableOscillator plays a band-limited wavetable set.
func NewWavetableOscillator(freq FrequencyProvider, tables *WavetableSet) *Oscillator {
	o := newOscillator(freq, waveTable, 0)
	o.tables = tables
	return o
}

// Value ...
func (o *Oscillator) Value(c *Clock) float64 {
	return o.pull(c, o)
}

func (o *Oscillator) compute(c *Clock) float64 {
	hz := LogToHz(o.freq.LogFrequency(c))
	p := o.phase
	value := 0.0
	switch o.kind {
	case waveSine:
		value = math.Sin(2 * math.Pi * p)
	case waveTriangle:
		if p < 0.5 {
			value = p*4 - 1
		} else {
			value = p*(-4) + 3
		}
	case waveSquare:
		if p < 0.5 {
			value = 1
		} else {
			value = -1
		}
	case waveSaw:
		value = p*2 - 1
	case waveNoise:
		return o.rng.Float64()*2 - 1
	case waveTable:
		value = o.tables.at(hz, p)
	}
	o.phase += hz * c.Delta()
	o.phase -= math.Floor(o.phase)
	return value
}
