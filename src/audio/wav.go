package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jinjor/finger-synth/src/synth"
	"gopkg.in/yaml.v3"
)

// ----- WAV Sample Bank ----- //

// A sample bank is a YAML manifest listing WAV files and the key/velocity
// ranges they answer to:
//
//	zones:
//	  - file: piano-c4.wav
//	    root_key: 60
//	    low_key: 0
//	    high_key: 71
//	    loop_start: 1200
//	    loop_end: 20000
//	    loop_mode: continuous   # none | continuous | finish
//
// Paths are relative to the manifest. high_key and high_velocity default to
// 127 when absent, end defaults to the end of the file.

type zoneYAML struct {
	File         string `yaml:"file"`
	RootKey      int    `yaml:"root_key"`
	LowKey       int    `yaml:"low_key"`
	HighKey      *int   `yaml:"high_key"`
	LowVelocity  int    `yaml:"low_velocity"`
	HighVelocity *int   `yaml:"high_velocity"`
	Start        int    `yaml:"start"`
	End          int    `yaml:"end"`
	LoopStart    int    `yaml:"loop_start"`
	LoopEnd      int    `yaml:"loop_end"`
	LoopMode     string `yaml:"loop_mode"`
}

type sampleBankYAML struct {
	Zones []zoneYAML `yaml:"zones"`
}

type bankZone struct {
	lowKey       int
	highKey      int
	lowVelocity  int
	highVelocity int
	zone         *synth.Zone
}

// WavSampleBank is a SampleLibrary decoded from WAV files up front.
type WavSampleBank struct {
	zones []bankZone
}

var _ synth.SampleLibrary = (*WavSampleBank)(nil)

// Zone returns the first zone covering key and velocity.
func (b *WavSampleBank) Zone(key, velocity int) (*synth.Zone, bool) {
	for i := range b.zones {
		z := &b.zones[i]
		if key >= z.lowKey && key <= z.highKey && velocity >= z.lowVelocity && velocity <= z.highVelocity {
			return z.zone, true
		}
	}
	return nil, false
}

// Len ...
func (b *WavSampleBank) Len() int {
	return len(b.zones)
}

// LoadWavSampleBank reads the manifest at path and decodes every WAV file it
// names.
func LoadWavSampleBank(path string) (*WavSampleBank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var manifest sampleBankYAML
	if err := yaml.NewDecoder(f).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to decode sample bank %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	decoded := make(map[string]*wavData)
	bank := &WavSampleBank{}
	for i, z := range manifest.Zones {
		file := z.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		data, ok := decoded[file]
		if !ok {
			data, err = decodeWav(file)
			if err != nil {
				return nil, err
			}
			decoded[file] = data
		}
		bz, err := z.toBankZone(data)
		if err != nil {
			return nil, fmt.Errorf("zone %d (%s): %w", i, z.File, err)
		}
		bank.zones = append(bank.zones, bz)
	}
	return bank, nil
}

func parseLoopMode(s string) (synth.LoopMode, error) {
	switch s {
	case "", "none":
		return synth.NoLoop, nil
	case "continuous":
		return synth.LoopContinuously, nil
	case "finish":
		return synth.LoopThenFinish, nil
	}
	return synth.NoLoop, fmt.Errorf("unknown loop mode %q", s)
}

func (z *zoneYAML) toBankZone(data *wavData) (bankZone, error) {
	mode, err := parseLoopMode(z.LoopMode)
	if err != nil {
		return bankZone{}, err
	}
	end := z.End
	if end == 0 || end > len(data.samples) {
		end = len(data.samples)
	}
	if z.Start < 0 || z.Start >= end {
		return bankZone{}, fmt.Errorf("invalid range %d-%d", z.Start, end)
	}
	if mode != synth.NoLoop && (z.LoopStart < z.Start || z.LoopEnd <= z.LoopStart || z.LoopEnd > end) {
		return bankZone{}, fmt.Errorf("invalid loop %d-%d", z.LoopStart, z.LoopEnd)
	}
	bz := bankZone{
		lowKey:       z.LowKey,
		highKey:      127,
		lowVelocity:  z.LowVelocity,
		highVelocity: 127,
		zone: &synth.Zone{
			Samples:    data.samples,
			Start:      z.Start,
			End:        end,
			LoopStart:  z.LoopStart,
			LoopEnd:    z.LoopEnd,
			SampleRate: data.sampleRate,
			RootKey:    z.RootKey,
			LoopMode:   mode,
		},
	}
	if z.HighKey != nil {
		bz.highKey = *z.HighKey
	}
	if z.HighVelocity != nil {
		bz.highVelocity = *z.HighVelocity
	}
	return bz, nil
}

type wavData struct {
	samples    []float64 // mono
	sampleRate float64
}

// decodeWav reads a PCM WAV file and mixes it down to mono in [-1,1].
func decodeWav(path string) (*wavData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	if err := decoder.FwdToPCM(); err != nil {
		return nil, err
	}
	format := decoder.Format()
	bitDepth := int(decoder.SampleBitDepth())
	if bitDepth == 0 {
		return nil, fmt.Errorf("unknown bit depth for WAV file: %s", path)
	}
	bytesPerSample := (bitDepth-1)/8 + 1
	nsamples := int(decoder.PCMLen()) / bytesPerSample
	nchannels := format.NumChannels
	if nchannels <= 0 {
		return nil, fmt.Errorf("no channels in WAV file: %s", path)
	}
	buf := &goaudio.IntBuffer{
		Format:         format,
		Data:           make([]int, nsamples),
		SourceBitDepth: bitDepth,
	}
	if _, err := decoder.PCMBuffer(buf); err != nil {
		return nil, err
	}
	floatBuf := buf.AsFloatBuffer()
	factor := math.Pow(2, float64(bitDepth-1))
	nframes := len(floatBuf.Data) / nchannels
	samples := make([]float64, nframes)
	for i := range samples {
		sum := 0.0
		for c := 0; c < nchannels; c++ {
			sum += floatBuf.Data[i*nchannels+c]
		}
		samples[i] = sum / float64(nchannels) / factor
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty WAV file: %s", path)
	}
	return &wavData{samples: samples, sampleRate: float64(format.SampleRate)}, nil
}
