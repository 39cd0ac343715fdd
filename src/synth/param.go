package synth

import (
	"math"
	"sync/atomic"
)

// ----- Param Input ----- //

// ParamInput is a bounded scalar shared by every voice of a channel. Writes
// come from control goroutines and are clamped to [min, max].
type ParamInput struct {
	name string
	min  float64
	max  float64
	bits atomic.Uint64
}

// NewParamInput ...
func NewParamInput(name string, min, max, initial float64) *ParamInput {
	p := &ParamInput{name: name, min: min, max: max}
	p.SetValue(initial)
	return p
}

// Name ...
func (p *ParamInput) Name() string {
	return p.name
}

// Min ...
func (p *ParamInput) Min() float64 {
	return p.min
}

// Max ...
func (p *ParamInput) Max() float64 {
	return p.max
}

// SetValue stores v clamped to [min, max]. NaN is ignored.
func (p *ParamInput) SetValue(v float64) {
	if math.IsNaN(v) {
		return
	}
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	p.bits.Store(math.Float64bits(v))
}

// SetNormalized maps t in [0,1] linearly onto [min, max].
func (p *ParamInput) SetNormalized(t float64) {
	p.SetValue(p.min + (p.max-p.min)*t)
}

// Get returns the latest committed value.
func (p *ParamInput) Get() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Value ...
func (p *ParamInput) Value(c *Clock) float64 {
	return p.Get()
}

// LogFrequency lets a ParamInput act as a pitch source.
func (p *ParamInput) LogFrequency(c *Clock) float64 {
	return p.Get()
}
