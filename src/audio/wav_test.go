package audio

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jinjor/finger-synth/src/synth"
)

func writeTestWav(t *testing.T, path string, sampleRate int, numChannels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, numChannels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeManifest(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bank.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWavSampleBank(t *testing.T) {
	dir := t.TempDir()
	writeTestWav(t, filepath.Join(dir, "low.wav"), 100, 1, []int{0, 8192, 16384, -16384, 0, 0})
	writeTestWav(t, filepath.Join(dir, "high.wav"), 200, 2, []int{16384, 0, 16384, 16384, -16384, -16384, 0, 0})
	path := writeManifest(t, dir, `
zones:
  - file: low.wav
    root_key: 48
    low_key: 36
    high_key: 59
  - file: high.wav
    root_key: 72
    low_key: 60
    high_velocity: 100
    loop_start: 1
    loop_end: 3
    loop_mode: continuous
  - file: low.wav
    root_key: 72
    low_key: 60
    low_velocity: 101
    start: 1
    end: 4
    loop_start: 1
    loop_end: 3
    loop_mode: finish
`)
	bank, err := LoadWavSampleBank(path)
	expectNoError(t, err)
	if err != nil {
		return
	}
	expectEqual(t, bank.Len(), 3)

	low, ok := bank.Zone(50, 64)
	expectEqual(t, ok, true)
	expectEqual(t, low.RootKey, 48)
	expectEqual(t, low.LoopMode, synth.NoLoop)
	expectNearlyEqual(t, low.SampleRate, 100)
	expectEqual(t, low.End, 6)
	expectNearlyEqual(t, low.Samples[1], 0.25)
	expectNearlyEqual(t, low.Samples[2], 0.5)
	expectNearlyEqual(t, low.Samples[3], -0.5)

	// stereo files are mixed down
	high, ok := bank.Zone(72, 64)
	expectEqual(t, ok, true)
	expectEqual(t, len(high.Samples), 4)
	expectEqual(t, high.LoopMode, synth.LoopContinuously)
	expectNearlyEqual(t, high.SampleRate, 200)
	expectNearlyEqual(t, high.Samples[0], 0.25)
	expectNearlyEqual(t, high.Samples[1], 0.5)
	expectNearlyEqual(t, high.Samples[2], -0.5)

	loud, ok := bank.Zone(72, 120)
	expectEqual(t, ok, true)
	expectEqual(t, loud.LoopMode, synth.LoopThenFinish)
	expectEqual(t, loud.Start, 1)
	expectEqual(t, loud.End, 4)
	// the same file is decoded once
	expectEqual(t, &loud.Samples[0], &low.Samples[0])

	_, ok = bank.Zone(30, 64)
	expectEqual(t, ok, false)
}

func TestWavSampleBankExplicitZeroRanges(t *testing.T) {
	dir := t.TempDir()
	writeTestWav(t, filepath.Join(dir, "a.wav"), 100, 1, []int{0, 1, 2, 3})
	bank, err := LoadWavSampleBank(writeManifest(t, dir, `
zones:
  - file: a.wav
    high_key: 0
  - file: a.wav
    low_key: 60
    high_velocity: 0
`))
	if err != nil {
		t.Fatal(err)
	}
	_, ok := bank.Zone(0, 64)
	expectEqual(t, ok, true)
	_, ok = bank.Zone(1, 64)
	expectEqual(t, ok, false)
	_, ok = bank.Zone(60, 0)
	expectEqual(t, ok, true)
	_, ok = bank.Zone(60, 1)
	expectEqual(t, ok, false)
}

func TestLoadWavSampleBankErrors(t *testing.T) {
	dir := t.TempDir()
	writeTestWav(t, filepath.Join(dir, "a.wav"), 100, 1, []int{0, 1, 2, 3})
	if err := os.WriteFile(filepath.Join(dir, "broken.wav"), []byte("not a wav file"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, manifest := range []string{
		"zones: [",
		"zones:\n  - file: missing.wav\n",
		"zones:\n  - file: broken.wav\n",
		"zones:\n  - file: a.wav\n    loop_mode: pingpong\n",
		"zones:\n  - file: a.wav\n    loop_mode: continuous\n    loop_start: 2\n    loop_end: 2\n",
		"zones:\n  - file: a.wav\n    loop_mode: continuous\n    loop_start: 1\n    loop_end: 9\n",
		"zones:\n  - file: a.wav\n    start: 4\n",
	} {
		_, err := LoadWavSampleBank(writeManifest(t, dir, manifest))
		expectError(t, err)
	}
	_, err := LoadWavSampleBank(filepath.Join(dir, "none.yaml"))
	expectError(t, err)
}

func TestWavSampleBankPlays(t *testing.T) {
	dir := t.TempDir()
	data := make([]int, 400)
	for i := range data {
		data[i] = 16384
	}
	writeTestWav(t, filepath.Join(dir, "dc.wav"), 8000, 1, data)
	bank, err := LoadWavSampleBank(writeManifest(t, dir, "zones:\n  - file: dc.wav\n    root_key: 69\n"))
	if err != nil {
		t.Fatal(err)
	}
	c := synth.NewClock(8000)
	sampler := synth.NewSampler(synth.Constant(synth.NoteToLog(69)), synth.Constant(1), bank)
	sampler.TurnOn(true)
	expectNearlyEqual(t, sampler.Value(c), 0.5)
}
