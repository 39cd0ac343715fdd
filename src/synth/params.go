package synth

import (
	"encoding/json"
	"fmt"
)

// ----- Params ----- //

// params is the set of named inputs one channel shares across its fingers.
type params struct {
	waveform *WaveformInput
	values   [numSettings]*ParamInput
}

func newParams() *params {
	waveform, err := NewWaveformInput(waveformNames, WaveSine)
	if err != nil {
		panic(err)
	}
	p := &params{waveform: waveform}
	for s := Setting(0); s < numSettings; s++ {
		if s == SettingWaveform {
			continue
		}
		spec := settingSpecs[s]
		p.values[s] = NewParamInput(spec.name, spec.min, spec.max, spec.initial)
	}
	return p
}

func (p *params) param(s Setting) (*ParamInput, error) {
	if s < 0 || s >= numSettings || p.values[s] == nil {
		return nil, fmt.Errorf("%v is not a scalar setting", s)
	}
	return p.values[s], nil
}

// get is param for settings known to exist.
func (p *params) get(s Setting) *ParamInput {
	return p.values[s]
}

func (p *params) toJSON() json.RawMessage {
	m := make(map[string]interface{}, numSettings)
	m[SettingWaveform.String()] = p.waveform.Selected()
	for _, v := range p.values {
		if v != nil {
			m[v.Name()] = v.Get()
		}
	}
	return toRawMessage(m)
}

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}
