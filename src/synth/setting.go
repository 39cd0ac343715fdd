package synth

import "fmt"

// ----- Setting ----- //

// Setting identifies a named channel-level parameter.
type Setting int

// Setting values
const (
	SettingWaveform Setting = iota
	SettingVolume
	SettingGlideTime
	SettingCoarseTune
	SettingFineTune
	SettingVibratoRate
	SettingVibratoDepth
	SettingVibratoAttack
	SettingVibratoDecay
	SettingVibratoSustain
	SettingVibratoRelease
	SettingTremoloRate
	SettingTremoloDepth
	SettingTremoloAttack
	SettingTremoloDecay
	SettingTremoloSustain
	SettingTremoloRelease
	SettingFilterCutoff
	SettingFilterDepth
	SettingFilterResonance
	SettingFilterAttack
	SettingFilterDecay
	SettingFilterSustain
	SettingFilterRelease
	SettingAmpAttack
	SettingAmpDecay
	SettingAmpSustain
	SettingAmpRelease
	SettingEchoTime
	SettingEchoMix
	SettingDelayMix
	SettingPluckDecay
	SettingDrawbar1
	SettingDrawbar2
	SettingDrawbar3
	SettingDrawbar4
	SettingDrawbar6
	SettingDrawbar8
	numSettings
)

type settingSpec struct {
	name    string
	min     float64
	max     float64
	initial float64
}

// ranges of the scalar settings; SettingWaveform has none.
var settingSpecs = [numSettings]settingSpec{
	SettingWaveform:        {name: "waveform"},
	SettingVolume:          {"volume", 0, 1, 0.8},
	SettingGlideTime:       {"glide_time", 0, 2, 0.05},
	SettingCoarseTune:      {"coarse_tune", -24, 24, 0},
	SettingFineTune:        {"fine_tune", -100, 100, 0},
	SettingVibratoRate:     {"vibrato_rate", 0, 20, 5},
	SettingVibratoDepth:    {"vibrato_depth", 0, 2, 0},
	SettingVibratoAttack:   {"vibrato_attack", 0, 10, 0.5},
	SettingVibratoDecay:    {"vibrato_decay", 0, 10, 0},
	SettingVibratoSustain:  {"vibrato_sustain", 0, 1, 1},
	SettingVibratoRelease:  {"vibrato_release", 0, 10, 0},
	SettingTremoloRate:     {"tremolo_rate", 0, 20, 4},
	SettingTremoloDepth:    {"tremolo_depth", 0, 1, 0},
	SettingTremoloAttack:   {"tremolo_attack", 0, 10, 0.5},
	SettingTremoloDecay:    {"tremolo_decay", 0, 10, 0},
	SettingTremoloSustain:  {"tremolo_sustain", 0, 1, 1},
	SettingTremoloRelease:  {"tremolo_release", 0, 10, 0},
	SettingFilterCutoff:    {"filter_cutoff", 0, 1, 1},
	SettingFilterDepth:     {"filter_depth", -1, 1, 0},
	SettingFilterResonance: {"filter_resonance", 0.5, 10, 0.707},
	SettingFilterAttack:    {"filter_attack", 0, 10, 0.01},
	SettingFilterDecay:     {"filter_decay", 0, 10, 0.3},
	SettingFilterSustain:   {"filter_sustain", 0, 1, 0.5},
	SettingFilterRelease:   {"filter_release", 0, 10, 0.3},
	SettingAmpAttack:       {"amp_attack", 0, 10, 0.01},
	SettingAmpDecay:        {"amp_decay", 0, 10, 0.2},
	SettingAmpSustain:      {"amp_sustain", 0, 1, 0.8},
	SettingAmpRelease:      {"amp_release", 0, 10, 0.3},
	SettingEchoTime:        {"echo_time", 0, 2, 0},
	SettingEchoMix:         {"echo_mix", 0, 1, 0.3},
	SettingDelayMix:        {"delay_mix", 0, 1, 0.5},
	SettingPluckDecay:      {"pluck_decay", 0.05, 10, 2},
	SettingDrawbar1:        {"drawbar_1", 0, 1, 1},
	SettingDrawbar2:        {"drawbar_2", 0, 1, 0.5},
	SettingDrawbar3:        {"drawbar_3", 0, 1, 0.3},
	SettingDrawbar4:        {"drawbar_4", 0, 1, 0.2},
	SettingDrawbar6:        {"drawbar_6", 0, 1, 0.1},
	SettingDrawbar8:        {"drawbar_8", 0, 1, 0.05},
}

var drawbarSettings = [...]Setting{
	SettingDrawbar1,
	SettingDrawbar2,
	SettingDrawbar3,
	SettingDrawbar4,
	SettingDrawbar6,
	SettingDrawbar8,
}

func (s Setting) String() string {
	if s < 0 || s >= numSettings {
		return fmt.Sprintf("setting(%d)", int(s))
	}
	return settingSpecs[s].name
}

// SettingFromString ...
func SettingFromString(name string) (Setting, error) {
	for i, spec := range settingSpecs {
		if spec.name == name {
			return Setting(i), nil
		}
	}
	return 0, fmt.Errorf("unknown setting %q", name)
}

// ----- Waveform Names ----- //

// Waveform names understood by every channel.
const (
	WaveSine     = "sine"
	WaveTriangle = "triangle"
	WaveSquare   = "square"
	WaveSaw      = "saw"
	WaveNoise    = "noise"
	WaveSquareWT = "square-wt"
	WaveSawWT    = "saw-wt"
	WaveOrgan    = "organ"
	WavePluck    = "pluck"
	WaveSample   = "sample"
)

var waveformNames = []string{
	WaveSine,
	WaveTriangle,
	WaveSquare,
	WaveSaw,
	WaveNoise,
	WaveSquareWT,
	WaveSawWT,
	WaveOrgan,
	WavePluck,
	WaveSample,
}

// ----- Controllers ----- //

// controllerSettings maps MIDI control numbers onto settings. The 0-127 value
// is spread linearly over the setting's range.
var controllerSettings = map[int]Setting{
	1:  SettingVibratoDepth,
	5:  SettingGlideTime,
	7:  SettingVolume,
	12: SettingVibratoRate,
	13: SettingTremoloRate,
	71: SettingFilterResonance,
	72: SettingAmpRelease,
	73: SettingAmpAttack,
	74: SettingFilterCutoff,
	75: SettingAmpDecay,
	76: SettingFilterDepth,
	77: SettingTremoloDepth,
	79: SettingAmpSustain,
	91: SettingEchoMix,
	92: SettingEchoTime,
	93: SettingDelayMix,
	94: SettingFineTune,
}

const (
	controllerAllSoundOff = 120
	controllerAllNotesOff = 123
)
