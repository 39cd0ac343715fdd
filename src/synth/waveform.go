package synth

import (
	"fmt"
	"sync/atomic"
)

// ----- Waveform Input ----- //

// WaveformInput selects one of a fixed list of named waveforms. It is shared
// across the voices of a channel like ParamInput.
type WaveformInput struct {
	names    []string
	selected atomic.Int32
}

// NewWaveformInput ...
func NewWaveformInput(names []string, initial string) (*WaveformInput, error) {
	w := &WaveformInput{names: append([]string(nil), names...)}
	if err := w.Select(initial); err != nil {
		return nil, err
	}
	return w, nil
}

// Names ...
func (w *WaveformInput) Names() []string {
	return w.names
}

// Has ...
func (w *WaveformInput) Has(name string) bool {
	return w.indexOf(name) >= 0
}

// Select switches to the named waveform. Unknown names are rejected and the
// current selection is kept.
func (w *WaveformInput) Select(name string) error {
	i := w.indexOf(name)
	if i < 0 {
		return fmt.Errorf("unknown waveform %q", name)
	}
	w.selected.Store(int32(i))
	return nil
}

// Selected returns the name of the current waveform.
func (w *WaveformInput) Selected() string {
	return w.names[w.selected.Load()]
}

func (w *WaveformInput) index() int {
	return int(w.selected.Load())
}

func (w *WaveformInput) indexOf(name string) int {
	for i, n := range w.names {
		if n == name {
			return i
		}
	}
	return -1
}

// ----- Waveform Selector ----- //

// WaveformSelector forwards to the branch chosen by its input. Branches that
// are not selected are not pulled and do not advance.
type WaveformSelector struct {
	input    *WaveformInput
	branches []SignalProvider
}

// NewWaveformSelector binds a branch to every name of the input.
func NewWaveformSelector(input *WaveformInput, branches map[string]SignalProvider) (*WaveformSelector, error) {
	s := &WaveformSelector{
		input:    input,
		branches: make([]SignalProvider, len(input.names)),
	}
	for i, name := range input.names {
		b, ok := branches[name]
		if !ok {
			return nil, fmt.Errorf("no branch for waveform %q", name)
		}
		s.branches[i] = b
	}
	return s, nil
}

// Value ...
func (s *WaveformSelector) Value(c *Clock) float64 {
	return s.branches[s.input.index()].Value(c)
}
