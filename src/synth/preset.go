package synth

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ----- Preset ----- //

// SettingValue assigns a scalar setting.
type SettingValue struct {
	Setting Setting
	Value   float64
}

// SettingWaveform assigns a waveform setting.
type SettingWaveform struct {
	Setting  Setting
	Waveform string
}

// Preset is a named, immutable snapshot of setting assignments.
type Preset struct {
	Name      string
	Values    []SettingValue
	Waveforms []SettingWaveform
}

type presetYAML struct {
	Name      string             `yaml:"name"`
	Values    map[string]float64 `yaml:"values"`
	Waveforms map[string]string  `yaml:"waveforms"`
}

type presetLibraryYAML struct {
	Presets []presetYAML `yaml:"presets"`
}

func (j *presetYAML) toPreset() (*Preset, error) {
	p := &Preset{Name: j.Name}
	for name, value := range j.Values {
		s, err := SettingFromString(name)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", j.Name, err)
		}
		if s == SettingWaveform {
			return nil, fmt.Errorf("preset %q: %v takes a waveform name", j.Name, s)
		}
		p.Values = append(p.Values, SettingValue{Setting: s, Value: value})
	}
	for name, waveform := range j.Waveforms {
		s, err := SettingFromString(name)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", j.Name, err)
		}
		if s != SettingWaveform {
			return nil, fmt.Errorf("preset %q: %v is not a waveform setting", j.Name, s)
		}
		if !isWaveformName(waveform) {
			return nil, fmt.Errorf("preset %q: unknown waveform %q", j.Name, waveform)
		}
		p.Waveforms = append(p.Waveforms, SettingWaveform{Setting: s, Waveform: waveform})
	}
	sort.Slice(p.Values, func(a, b int) bool { return p.Values[a].Setting < p.Values[b].Setting })
	return p, nil
}

func isWaveformName(name string) bool {
	for _, n := range waveformNames {
		if n == name {
			return true
		}
	}
	return false
}

// ----- Preset Library ----- //

// PresetLibrary is an ordered list of presets addressed by program number.
type PresetLibrary struct {
	presets []*Preset
}

// NewPresetLibrary ...
func NewPresetLibrary(presets ...*Preset) *PresetLibrary {
	return &PresetLibrary{presets: presets}
}

// LoadPresets decodes a YAML preset list. Every setting and waveform name is
// checked here so a bad preset never reaches a channel.
func LoadPresets(r io.Reader) (*PresetLibrary, error) {
	var j presetLibraryYAML
	if err := yaml.NewDecoder(r).Decode(&j); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}
	lib := &PresetLibrary{presets: make([]*Preset, 0, len(j.Presets))}
	for i := range j.Presets {
		p, err := j.Presets[i].toPreset()
		if err != nil {
			return nil, err
		}
		lib.presets = append(lib.presets, p)
	}
	return lib, nil
}

// LoadPresetFile ...
func LoadPresetFile(path string) (*PresetLibrary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadPresets(f)
}

// Len ...
func (l *PresetLibrary) Len() int {
	return len(l.presets)
}

// At returns the preset for a program number.
func (l *PresetLibrary) At(index int) (*Preset, error) {
	if index < 0 || index >= len(l.presets) {
		return nil, fmt.Errorf("no preset at %d", index)
	}
	return l.presets[index], nil
}

// Find ...
func (l *PresetLibrary) Find(name string) (*Preset, error) {
	for _, p := range l.presets {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no preset named %q", name)
}

// Names ...
func (l *PresetLibrary) Names() []string {
	names := make([]string, len(l.presets))
	for i, p := range l.presets {
		names[i] = p.Name
	}
	return names
}

// DefaultPresets is the built-in library used when none is loaded.
func DefaultPresets() *PresetLibrary {
	return NewPresetLibrary(
		&Preset{
			Name: "init",
			Waveforms: []SettingWaveform{
				{SettingWaveform, WaveSine},
			},
		},
		&Preset{
			Name: "soft-pad",
			Values: []SettingValue{
				{SettingAmpAttack, 0.6},
				{SettingAmpRelease, 1.2},
				{SettingFilterCutoff, 0.55},
				{SettingFilterDepth, -0.5},
				{SettingVibratoDepth, 0.15},
				{SettingEchoTime, 0.35},
				{SettingEchoMix, 0.35},
			},
			Waveforms: []SettingWaveform{
				{SettingWaveform, WaveSawWT},
			},
		},
		&Preset{
			Name: "pluck",
			Values: []SettingValue{
				{SettingAmpAttack, 0},
				{SettingAmpSustain, 1},
				{SettingAmpRelease, 0.4},
				{SettingPluckDecay, 3},
			},
			Waveforms: []SettingWaveform{
				{SettingWaveform, WavePluck},
			},
		},
		&Preset{
			Name: "organ",
			Values: []SettingValue{
				{SettingAmpAttack, 0.005},
				{SettingAmpSustain, 1},
				{SettingAmpRelease, 0.05},
				{SettingTremoloDepth, 0.3},
				{SettingTremoloRate, 6},
			},
			Waveforms: []SettingWaveform{
				{SettingWaveform, WaveOrgan},
			},
		},
	)
}
