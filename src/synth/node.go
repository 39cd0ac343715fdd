package synth

import "math"

// ----- Node Contracts ----- //

// SignalProvider produces one scalar per clock tick.
type SignalProvider interface {
	Value(c *Clock) float64
}

// FrequencyProvider produces a log2(Hz) frequency per clock tick.
type FrequencyProvider interface {
	LogFrequency(c *Clock) float64
}

// Envelope is a gated node. TurnOn and TurnOff may be called from any
// goroutine; Value is only called from the render loop.
type Envelope interface {
	SignalProvider
	TurnOn(retrigger bool)
	TurnOff()
}

const baseFreq = 440.0

// HzToLog ...
func HzToLog(hz float64) float64 {
	return math.Log2(hz)
}

// LogToHz ...
func LogToHz(logFreq float64) float64 {
	return math.Exp2(logFreq)
}

// NoteToLog converts a MIDI note number to a log frequency (A4 = 69 = 440Hz).
func NoteToLog(note int) float64 {
	return math.Log2(baseFreq) + float64(note-69)/12
}

// LogToNote returns the nearest MIDI note, clamped to 0-127.
func LogToNote(logFreq float64) int {
	note := int(math.Round((logFreq-math.Log2(baseFreq))*12)) + 69
	if note < 0 {
		note = 0
	}
	if note >= 128 {
		note = 127
	}
	return note
}

// ----- Helper Nodes ----- //

// Constant ...
type Constant float64

// Value ...
func (k Constant) Value(c *Clock) float64 {
	return float64(k)
}

// LogFrequency ...
func (k Constant) LogFrequency(c *Clock) float64 {
	return float64(k)
}

// Multiply is the plain amplifier: the product of its inputs.
type Multiply struct {
	inputs []SignalProvider
}

// NewMultiply ...
func NewMultiply(inputs ...SignalProvider) *Multiply {
	return &Multiply{inputs: inputs}
}

// Value ...
func (m *Multiply) Value(c *Clock) float64 {
	v := 1.0
	for _, in := range m.inputs {
		v *= in.Value(c)
	}
	return v
}

// Sum adds its inputs.
type Sum struct {
	inputs []SignalProvider
}

// NewSum ...
func NewSum(inputs ...SignalProvider) *Sum {
	return &Sum{inputs: inputs}
}

// Value ...
func (s *Sum) Value(c *Clock) float64 {
	v := 0.0
	for _, in := range s.inputs {
		v += in.Value(c)
	}
	return v
}

// Average is Σ inputs / len(inputs), so the number of sounding inputs does
// not change loudness.
type Average struct {
	Sum
}

// NewAverage ...
func NewAverage(inputs ...SignalProvider) *Average {
	return &Average{Sum: Sum{inputs: inputs}}
}

// Value ...
func (a *Average) Value(c *Clock) float64 {
	if len(a.inputs) == 0 {
		return 0
	}
	return a.Sum.Value(c) / float64(len(a.inputs))
}

// LinearFrequency turns a signal in Hz into a FrequencyProvider.
type LinearFrequency struct {
	hz SignalProvider
}

// NewLinearFrequency ...
func NewLinearFrequency(hz SignalProvider) *LinearFrequency {
	return &LinearFrequency{hz: hz}
}

// LogFrequency ...
func (l *LinearFrequency) LogFrequency(c *Clock) float64 {
	hz := l.hz.Value(c)
	if hz <= 0 {
		return math.Inf(-1)
	}
	return math.Log2(hz)
}
