package synth

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// ----- Low-pass Filter ----- //

const (
	minCutoffHz   = 20.0
	cutoffOctaves = 10.0
	maxCutoffRate = 0.45 // of sample rate
)

// cutoffToHz maps a normalized cutoff in [0,1] exponentially onto
// 20Hz-20480Hz, kept below the Nyquist frequency.
func cutoffToHz(cutoff float64, sampleRate float64) float64 {
	if cutoff < 0 {
		cutoff = 0
	}
	if cutoff > 1 {
		cutoff = 1
	}
	hz := minCutoffHz * math.Exp2(cutoff*cutoffOctaves)
	return math.Min(hz, sampleRate*maxCutoffRate)
}

// LowPass is a resonant RBJ biquad low-pass. Coefficients are redesigned only
// when the cutoff or resonance changes; the filter state is kept across
// redesigns.
type LowPass struct {
	memo
	src       SignalProvider
	cutoff    SignalProvider // 0-1
	resonance SignalProvider // Q
	section   biquad.Section
	designed  bool
	lastCut   float64
	lastQ     float64
}

// NewLowPass ...
func NewLowPass(src, cutoff, resonance SignalProvider) *LowPass {
	return &LowPass{src: src, cutoff: cutoff, resonance: resonance}
}

// Value ...
func (f *LowPass) Value(c *Clock) float64 {
	return f.pull(c, f)
}

func (f *LowPass) compute(c *Clock) float64 {
	x := f.src.Value(c)
	cut := f.cutoff.Value(c)
	q := f.resonance.Value(c)
	if !f.designed || cut != f.lastCut || q != f.lastQ {
		sr := c.SampleRate()
		f.section.Coefficients = design.Lowpass(cutoffToHz(cut, sr), q, sr)
		f.designed = true
		f.lastCut = cut
		f.lastQ = q
	}
	return f.section.ProcessSample(x)
}
