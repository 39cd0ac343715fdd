package synth

import (
	"math"
	"testing"
)

func TestParamInput(t *testing.T) {
	c := NewClock(44100)
	p := NewParamInput("cutoff", 0, 1, 0.5)
	expectEqual(t, p.Name(), "cutoff")
	expectNearlyEqual(t, p.Value(c), 0.5)

	p.SetValue(2)
	expectNearlyEqual(t, p.Get(), 1)
	p.SetValue(-2)
	expectNearlyEqual(t, p.Get(), 0)
	p.SetValue(0.3)
	p.SetValue(math.NaN())
	expectNearlyEqual(t, p.Get(), 0.3)
}

func TestParamInputInitialIsClamped(t *testing.T) {
	p := NewParamInput("q", 0.5, 10, 0)
	expectNearlyEqual(t, p.Get(), 0.5)
	expectNearlyEqual(t, p.Min(), 0.5)
	expectNearlyEqual(t, p.Max(), 10)
}

func TestParamInputNormalized(t *testing.T) {
	p := NewParamInput("depth", -1, 1, 0)
	p.SetNormalized(0)
	expectNearlyEqual(t, p.Get(), -1)
	p.SetNormalized(0.75)
	expectNearlyEqual(t, p.Get(), 0.5)
	p.SetNormalized(1)
	expectNearlyEqual(t, p.Get(), 1)
}

func TestWaveformInput(t *testing.T) {
	w, err := NewWaveformInput([]string{"a", "b"}, "b")
	expectNoError(t, err)
	expectEqual(t, w.Selected(), "b")
	expectEqual(t, w.Has("a"), true)
	expectEqual(t, w.Has("c"), false)

	expectNoError(t, w.Select("a"))
	expectEqual(t, w.Selected(), "a")
	expectError(t, w.Select("c"))
	expectEqual(t, w.Selected(), "a")

	_, err = NewWaveformInput([]string{"a", "b"}, "c")
	expectError(t, err)
}

func TestWaveformSelector(t *testing.T) {
	c := NewClock(44100)
	w, err := NewWaveformInput([]string{"a", "b"}, "a")
	expectNoError(t, err)
	a := &counter{value: 1}
	b := &counter{value: 2}
	s, err := NewWaveformSelector(w, map[string]SignalProvider{"a": a, "b": b})
	expectNoError(t, err)

	expectNearlyEqual(t, run(c, s, 3), 1)
	expectEqual(t, a.calls, 3)
	expectEqual(t, b.calls, 0)

	expectNoError(t, w.Select("b"))
	expectNearlyEqual(t, run(c, s, 1), 2)
	expectEqual(t, a.calls, 3)
	expectEqual(t, b.calls, 1)

	_, err = NewWaveformSelector(w, map[string]SignalProvider{"a": a})
	expectError(t, err)
}

func TestSettingNames(t *testing.T) {
	for s := Setting(0); s < numSettings; s++ {
		parsed, err := SettingFromString(s.String())
		expectNoError(t, err)
		expectEqual(t, parsed, s)
	}
	_, err := SettingFromString("unknown")
	expectError(t, err)
	expectEqual(t, Setting(-1).String(), "setting(-1)")
}

func TestParams(t *testing.T) {
	p := newParams()
	_, err := p.param(SettingWaveform)
	expectError(t, err)
	_, err = p.param(numSettings)
	expectError(t, err)
	volume, err := p.param(SettingVolume)
	expectNoError(t, err)
	expectNearlyEqual(t, volume.Get(), 0.8)
	expectEqual(t, p.waveform.Selected(), WaveSine)
	for _, name := range waveformNames {
		expectEqual(t, p.waveform.Has(name), true)
	}
}
