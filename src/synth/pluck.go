package synth

import (
	"math"
	"math/rand"
	"sync"
)

// ----- Plucked String ----- //

const (
	pluckLowest      = 20.0 // Hz
	pluckReleaseRate = 0.05 // decay time multiplier once the gate closes
)

// PluckedString is a Karplus-Strong string. It behaves as an envelope: each
// trigger re-excites the string with a burst of noise one period long.
type PluckedString struct {
	memo
	freq  FrequencyProvider
	decay SignalProvider // sec to -60dB

	mu    sync.Mutex
	gate  bool
	pluck bool

	buffer []float64
	length int
	cursor int
	rng    *rand.Rand
}

// NewPluckedString allocates a delay line long enough for the lowest pitch.
func NewPluckedString(freq FrequencyProvider, decay SignalProvider, sampleRate float64) *PluckedString {
	return &PluckedString{
		freq:   freq,
		decay:  decay,
		buffer: make([]float64, int(sampleRate/pluckLowest)+2),
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// TurnOn ...
func (p *PluckedString) TurnOn(retrigger bool) {
	p.mu.Lock()
	if !p.gate || retrigger {
		p.pluck = true
	}
	p.gate = true
	p.mu.Unlock()
}

// TurnOff damps the string.
func (p *PluckedString) TurnOff() {
	p.mu.Lock()
	p.gate = false
	p.mu.Unlock()
}

// Value ...
func (p *PluckedString) Value(c *Clock) float64 {
	return p.pull(c, p)
}

func (p *PluckedString) compute(c *Clock) float64 {
	p.mu.Lock()
	gate, pluck := p.gate, p.pluck
	p.pluck = false
	p.mu.Unlock()

	hz := LogToHz(p.freq.LogFrequency(c))
	// a pluck left pending while another waveform was selected is dropped
	// once the finger has been released
	if pluck && gate {
		p.excite(hz, c.SampleRate())
	}
	if p.length == 0 {
		return 0
	}
	decay := p.decay.Value(c)
	if !gate {
		decay *= pluckReleaseRate
	}
	gain := 0.0
	if decay > 0 && hz > 0 {
		// -60dB after decay seconds, applied once per period
		gain = math.Pow(10, -3/(decay*hz))
	}
	out := p.buffer[p.cursor]
	next := p.cursor + 1
	if next >= p.length {
		next = 0
	}
	p.buffer[p.cursor] = (out + p.buffer[next]) * 0.5 * gain
	p.cursor = next
	return out
}

func (p *PluckedString) excite(hz float64, sampleRate float64) {
	length := len(p.buffer)
	if hz > 0 {
		length = int(sampleRate / hz)
	}
	if length < 2 {
		length = 2
	}
	if length > len(p.buffer) {
		length = len(p.buffer)
	}
	for i := 0; i < length; i++ {
		p.buffer[i] = p.rng.Float64()*2 - 1
	}
	p.length = length
	p.cursor = 0
}
