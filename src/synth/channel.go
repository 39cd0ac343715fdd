package synth

import (
	"encoding/json"
	"fmt"
)

// ----- Channel ----- //

// Channel is a fixed set of fingers sharing one set of named parameters and
// one echo/delay tail.
type Channel struct {
	index  int
	params *params
	voices []*Voice
	echo   *Echo
	delay  *Delay
	output SignalProvider
}

func newChannel(index int, fingers int, maxEchoTime float64, maxLoopTime float64, ctx *voiceContext) (*Channel, error) {
	if fingers <= 0 {
		return nil, fmt.Errorf("channel %d: number of fingers must be positive: %d", index, fingers)
	}
	p := newParams()
	ch := &Channel{
		index:  index,
		params: p,
		voices: make([]*Voice, fingers),
	}
	outputs := make([]SignalProvider, fingers)
	for i := range ch.voices {
		v, err := newVoice(p, ctx)
		if err != nil {
			return nil, fmt.Errorf("channel %d finger %d: %w", index, i, err)
		}
		ch.voices[i] = v
		outputs[i] = v
	}
	ch.echo = NewEcho(NewAverage(outputs...), p.get(SettingEchoTime), p.get(SettingEchoMix), maxEchoTime, ctx.sampleRate)
	ch.delay = NewDelay(ch.echo, p.get(SettingDelayMix), maxLoopTime, ctx.sampleRate)
	ch.output = Memoize(NewMultiply(ch.delay, p.get(SettingVolume)))
	return ch, nil
}

// Index ...
func (ch *Channel) Index() int {
	return ch.index
}

// Fingers returns the number of finger slots.
func (ch *Channel) Fingers() int {
	return len(ch.voices)
}

// Voice ...
func (ch *Channel) Voice(finger int) (*Voice, error) {
	if finger < 0 || finger >= len(ch.voices) {
		return nil, fmt.Errorf("channel %d: finger %d out of range [0,%d)", ch.index, finger, len(ch.voices))
	}
	return ch.voices[finger], nil
}

// NoteOn ...
func (ch *Channel) NoteOn(finger int, logFreq float64, velocity float64) error {
	v, err := ch.Voice(finger)
	if err != nil {
		return err
	}
	v.NoteOn(logFreq, velocity, true)
	return nil
}

// NoteOff ...
func (ch *Channel) NoteOff(finger int) error {
	v, err := ch.Voice(finger)
	if err != nil {
		return err
	}
	v.NoteOff()
	return nil
}

// SetPitch ...
func (ch *Channel) SetPitch(finger int, logFreq float64) error {
	v, err := ch.Voice(finger)
	if err != nil {
		return err
	}
	v.SetPitch(logFreq)
	return nil
}

// AllNotesOff releases every finger.
func (ch *Channel) AllNotesOff() {
	for _, v := range ch.voices {
		v.NoteOff()
	}
}

// Param returns the shared input behind a scalar setting.
func (ch *Channel) Param(s Setting) (*ParamInput, error) {
	return ch.params.param(s)
}

// Set writes a scalar setting; the value is clamped to its range.
func (ch *Channel) Set(s Setting, value float64) error {
	p, err := ch.params.param(s)
	if err != nil {
		return err
	}
	p.SetValue(value)
	return nil
}

// SetWaveform ...
func (ch *Channel) SetWaveform(name string) error {
	return ch.params.waveform.Select(name)
}

// Waveform ...
func (ch *Channel) Waveform() *WaveformInput {
	return ch.params.waveform
}

// ApplyPreset validates every assignment of the preset against this channel
// before changing anything. It never touches the fingers' gates.
func (ch *Channel) ApplyPreset(preset *Preset) error {
	for _, sv := range preset.Values {
		if _, err := ch.params.param(sv.Setting); err != nil {
			return fmt.Errorf("preset %q: %w", preset.Name, err)
		}
	}
	for _, sw := range preset.Waveforms {
		if sw.Setting != SettingWaveform {
			return fmt.Errorf("preset %q: %v is not a waveform setting", preset.Name, sw.Setting)
		}
		if !ch.params.waveform.Has(sw.Waveform) {
			return fmt.Errorf("preset %q: unknown waveform %q", preset.Name, sw.Waveform)
		}
	}
	for _, sv := range preset.Values {
		ch.params.get(sv.Setting).SetValue(sv.Value)
	}
	for _, sw := range preset.Waveforms {
		// validated above
		_ = ch.params.waveform.Select(sw.Waveform)
	}
	return nil
}

// Echo ...
func (ch *Channel) Echo() *Echo {
	return ch.echo
}

// Delay returns the channel's loop recorder.
func (ch *Channel) Delay() *Delay {
	return ch.delay
}

// ToJSON dumps the current settings.
func (ch *Channel) ToJSON() json.RawMessage {
	return ch.params.toJSON()
}

// Value ...
func (ch *Channel) Value(c *Clock) float64 {
	return ch.output.Value(c)
}
