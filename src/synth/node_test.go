package synth

import (
	"math"
	"testing"
)

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}

func expectError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Errorf("expected an error, but got nil")
	}
}

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

// counter counts how many times it is pulled.
type counter struct {
	value float64
	calls int
}

func (n *counter) Value(c *Clock) float64 {
	n.calls++
	return n.value
}

// variable is a source the test can change between ticks.
type variable struct {
	v float64
}

func (n *variable) Value(c *Clock) float64 {
	return n.v
}

// run pulls node for the given number of ticks and returns the last value.
func run(c *Clock, node SignalProvider, ticks int) float64 {
	var v float64
	for i := 0; i < ticks; i++ {
		v = node.Value(c)
		c.Advance()
	}
	return v
}

func collect(c *Clock, node SignalProvider, ticks int) []float64 {
	out := make([]float64, ticks)
	for i := range out {
		out[i] = node.Value(c)
		c.Advance()
	}
	return out
}

func TestClock(t *testing.T) {
	c := NewClock(4)
	expectEqual(t, c.Tick(), uint64(0))
	expectNearlyEqual(t, c.Delta(), 0.25)
	c.Advance()
	c.Advance()
	expectEqual(t, c.Tick(), uint64(2))
	expectNearlyEqual(t, c.Time(), 0.5)
	expectNearlyEqual(t, c.SampleRate(), 4)
}

func TestFrequencyConversion(t *testing.T) {
	expectNearlyEqual(t, LogToHz(NoteToLog(69)), 440)
	expectNearlyEqual(t, LogToHz(NoteToLog(81)), 880)
	expectNearlyEqual(t, HzToLog(1024), 10)
	expectEqual(t, LogToNote(NoteToLog(60)), 60)
	expectEqual(t, LogToNote(HzToLog(445)), 69)
	expectEqual(t, LogToNote(-10), 0)
	expectEqual(t, LogToNote(20), 127)
	expectEqual(t, math.IsInf(NewLinearFrequency(Constant(0)).LogFrequency(NewClock(1)), -1), true)
}

func TestMemoize(t *testing.T) {
	c := NewClock(44100)
	src := &counter{value: 0.5}
	m := Memoize(src)
	expectNearlyEqual(t, m.Value(c), 0.5)
	expectNearlyEqual(t, m.Value(c), 0.5)
	expectEqual(t, src.calls, 1)
	c.Advance()
	m.Value(c)
	m.Value(c)
	expectEqual(t, src.calls, 2)
}

func TestMemoizeSharedInput(t *testing.T) {
	c := NewClock(44100)
	src := &counter{value: 2}
	m := Memoize(src)
	sum := NewSum(m, NewMultiply(m, Constant(3)), m)
	expectNearlyEqual(t, sum.Value(c), 10)
	expectEqual(t, src.calls, 1)
}

func TestMemoizeFrequency(t *testing.T) {
	c := NewClock(44100)
	p := NewParamInput("pitch", 0, 15, 8)
	m := MemoizeFrequency(p)
	expectNearlyEqual(t, m.LogFrequency(c), 8)
	p.SetValue(9)
	expectNearlyEqual(t, m.LogFrequency(c), 8)
	c.Advance()
	expectNearlyEqual(t, m.LogFrequency(c), 9)
}

func TestHelperNodes(t *testing.T) {
	c := NewClock(44100)
	expectNearlyEqual(t, NewMultiply(Constant(2), Constant(3), Constant(0.5)).Value(c), 3)
	expectNearlyEqual(t, NewMultiply().Value(c), 1)
	expectNearlyEqual(t, NewSum(Constant(2), Constant(3)).Value(c), 5)
	expectNearlyEqual(t, NewSum().Value(c), 0)
	expectNearlyEqual(t, NewAverage(Constant(1), Constant(0), Constant(0), Constant(0)).Value(c), 0.25)
	expectNearlyEqual(t, NewAverage().Value(c), 0)
	expectNearlyEqual(t, NewLinearFrequency(Constant(8)).LogFrequency(c), 3)
}
