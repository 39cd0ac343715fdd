package synth

import "testing"

func TestMixer(t *testing.T) {
	c := NewClock(44100)
	s2 := &counter{value: 5}
	m := NewMixer(Constant(2), s2, Constant(0.4))
	expectNearlyEqual(t, m.Value(c), 3.2)

	s2.calls = 0
	m = NewMixer(Constant(2), s2, Constant(0))
	expectNearlyEqual(t, m.Value(c), 2)
	expectEqual(t, s2.calls, 0)

	s1 := &counter{value: 2}
	m = NewMixer(s1, Constant(5), Constant(1))
	expectNearlyEqual(t, m.Value(c), 5)
	expectEqual(t, s1.calls, 0)
}

func TestTremolo(t *testing.T) {
	c := NewClock(44100)
	for _, tc := range []struct {
		depth     float64
		modulator float64
		expected  float64
	}{
		{0, 0.7, 1},
		{0, -1, 1},
		{1, 0, 0.5},
		{1, -1, 0},
		{1, 1, 1},
		{0.5, 0, 0.75},
	} {
		tr := NewTremolo(Constant(tc.modulator), Constant(tc.depth))
		expectNearlyEqual(t, tr.Value(c), tc.expected)
	}
}

func TestTuner(t *testing.T) {
	c := NewClock(44100)
	tuner := NewTuner(Constant(8), Constant(12), 1.0/12)
	expectNearlyEqual(t, tuner.LogFrequency(c), 9)
	tuner = NewTuner(Constant(8), Constant(-600), 1.0/1200)
	expectNearlyEqual(t, tuner.LogFrequency(c), 7.5)
}

func TestGlide(t *testing.T) {
	c := NewClock(44100)
	pitch := NewParamInput("pitch", 0, 15, 8)
	g := NewGlide(pitch, Constant(0.1))
	expectNearlyEqual(t, g.LogFrequency(c), 8)
	c.Advance()

	pitch.SetValue(9)
	var v float64
	for i := 0; i < 2205; i++ {
		v = g.LogFrequency(c)
		c.Advance()
	}
	expectNearlyEqual(t, v, 8.5)
	for i := 0; i < 2205; i++ {
		v = g.LogFrequency(c)
		c.Advance()
	}
	expectNearlyEqual(t, v, 9)

	g.Snap()
	pitch.SetValue(10)
	expectNearlyEqual(t, g.LogFrequency(c), 10)
}

func TestGlideWithoutTime(t *testing.T) {
	c := NewClock(44100)
	pitch := NewParamInput("pitch", 0, 15, 8)
	g := NewGlide(pitch, Constant(0))
	g.LogFrequency(c)
	c.Advance()
	pitch.SetValue(12)
	expectNearlyEqual(t, g.LogFrequency(c), 12)
}

func TestFilterCutoff(t *testing.T) {
	c := NewClock(44100)
	for _, tc := range []struct {
		cutoff   float64
		depth    float64
		envelope float64
		expected float64
	}{
		{0.5, 0, 0, 0.5},
		{0.5, 1, 1, 0.5},
		{0.5, -1, 1, 0.5},
		{0.5, 1, 0, 1},
		{0.5, -1, 0, 0},
		{0.5, 0.5, 0, 0.5 + (0.25-0.5)*(-1)},
		{0.2, -0.5, 0.5, 0.2 + 0.1*(-0.5)},
	} {
		f := NewFilterCutoff(Constant(tc.cutoff), Constant(tc.depth), Constant(tc.envelope))
		expectNearlyEqual(t, f.Value(c), tc.expected)
	}
}

func TestTransitiveValue(t *testing.T) {
	tv := transitiveValue{}
	tv.init(1)
	expectEqual(t, tv.step(0.1), false)
	expectNearlyEqual(t, tv.value, 1)
	tv.linear(1, 3)
	tv.step(0.25)
	expectNearlyEqual(t, tv.value, 1.5)
	// retargeting starts from the current value
	tv.linear(1, 0.5)
	tv.step(0.5)
	expectNearlyEqual(t, tv.value, 1)
	expectEqual(t, tv.step(0.5), true)
	expectNearlyEqual(t, tv.value, 0.5)
}
