package synth

import "math"

// ----- Organ ----- //

// organHarmonics are the partials controlled by the drawbars, in order.
var organHarmonics = [...]float64{1, 2, 3, 4, 6, 8}

// Organ is an additive oscillator: a sum of sine partials weighted by shared
// drawbar levels and normalized by the total weight.
type Organ struct {
	memo
	freq     FrequencyProvider
	drawbars []SignalProvider
	phase    float64 // 0-1
}

// NewOrgan takes one drawbar per entry of organHarmonics.
func NewOrgan(freq FrequencyProvider, drawbars []SignalProvider) *Organ {
	return &Organ{freq: freq, drawbars: drawbars}
}

// Value ...
func (o *Organ) Value(c *Clock) float64 {
	return o.pull(c, o)
}

func (o *Organ) compute(c *Clock) float64 {
	hz := LogToHz(o.freq.LogFrequency(c))
	nyquist := c.SampleRate() / 2
	value := 0.0
	total := 0.0
	for i, drawbar := range o.drawbars {
		if i >= len(organHarmonics) {
			break
		}
		w := drawbar.Value(c)
		total += w
		h := organHarmonics[i]
		if hz*h >= nyquist {
			continue
		}
		value += w * math.Sin(2*math.Pi*h*o.phase)
	}
	o.phase += hz * c.Delta()
	o.phase -= math.Floor(o.phase)
	if total <= 0 {
		return 0
	}
	return value / total
}
