package audio

import (
	"fmt"
	"testing"

	"github.com/jinjor/finger-synth/src/synth"
)

type recorder struct {
	events  []string
	pitches []float64
}

func (r *recorder) OnNoteOn(channel int, logFreq float64, finger int, velocity float64) {
	r.events = append(r.events, fmt.Sprintf("on %d %d %.2f", channel, finger, velocity))
	r.pitches = append(r.pitches, logFreq)
}

func (r *recorder) OnNoteOff(channel int, finger int) {
	r.events = append(r.events, fmt.Sprintf("off %d %d", channel, finger))
}

func (r *recorder) OnPitch(channel int, finger int, logFreq float64) {
	r.events = append(r.events, fmt.Sprintf("pitch %d %d", channel, finger))
	r.pitches = append(r.pitches, logFreq)
}

func (r *recorder) OnController(channel int, control int, value int) {
	r.events = append(r.events, fmt.Sprintf("cc %d %d %d", channel, control, value))
}

func (r *recorder) OnProgramChange(channel int, index int) {
	r.events = append(r.events, fmt.Sprintf("program %d %d", channel, index))
}

func expectEvents(t *testing.T, r *recorder, expected ...string) {
	t.Helper()
	if len(r.events) != len(expected) {
		t.Fatalf("expected %v, but got: %v", expected, r.events)
	}
	for i := range expected {
		expectEqual(t, r.events[i], expected[i])
	}
}

func TestFingerAllocation(t *testing.T) {
	r := &recorder{}
	router := NewMidiRouter(r, 2, 2)
	router.Handle([]byte{0x90, 60, 127})
	router.Handle([]byte{0x90, 64, 127})
	router.Handle([]byte{0x90, 67, 127}) // dropped
	router.Handle([]byte{0x91, 67, 127})
	expectEvents(t, r, "on 0 0 1.00", "on 0 1 1.00", "on 1 0 1.00")
	expectEqual(t, fmt.Sprint(router.Held(0)), "[60 64]")
	expectEqual(t, fmt.Sprint(router.Held(1)), "[67 -1]")
	expectNearlyEqual(t, r.pitches[0], synth.NoteToLog(60))
	expectNearlyEqual(t, r.pitches[2], synth.NoteToLog(67))

	r.events = nil
	router.Handle([]byte{0x80, 60, 0})
	router.Handle([]byte{0x80, 67, 0}) // not held
	router.Handle([]byte{0x90, 67, 127})
	expectEvents(t, r, "off 0 0", "on 0 0 1.00")
	expectEqual(t, fmt.Sprint(router.Held(0)), "[67 64]")
}

func TestSameKeyReusesFinger(t *testing.T) {
	r := &recorder{}
	router := NewMidiRouter(r, 1, 3)
	router.Handle([]byte{0x90, 60, 127})
	router.Handle([]byte{0x90, 62, 127})
	router.Handle([]byte{0x90, 62, 0}) // velocity 0 is note off
	router.Handle([]byte{0x90, 60, 127})
	expectEvents(t, r, "on 0 0 1.00", "on 0 1 1.00", "off 0 1", "on 0 0 1.00")
	expectEqual(t, fmt.Sprint(router.Held(0)), "[60 -1 -1]")
}

func TestControlAndProgram(t *testing.T) {
	r := &recorder{}
	router := NewMidiRouter(r, 1, 2)
	router.Handle([]byte{0x90, 60, 127})
	router.Handle([]byte{0xB0, 7, 100})
	router.Handle([]byte{0xB0, 123, 0})
	router.Handle([]byte{0xC0, 3})
	expectEvents(t, r, "on 0 0 1.00", "cc 0 7 100", "cc 0 123 0", "program 0 3")
	expectEqual(t, fmt.Sprint(router.Held(0)), "[-1 -1]")
}

func TestPitchBend(t *testing.T) {
	r := &recorder{}
	router := NewMidiRouter(r, 1, 2)
	router.Handle([]byte{0x90, 60, 127})
	// +4096 of 8192 is one semitone
	router.Handle([]byte{0xE0, 0x00, 0x60})
	expectEvents(t, r, "on 0 0 1.00", "pitch 0 0")
	expectNearlyEqual(t, r.pitches[1], synth.NoteToLog(61))

	// later notes are bent too
	router.Handle([]byte{0x90, 64, 127})
	expectNearlyEqual(t, r.pitches[2], synth.NoteToLog(65))

	router.Handle([]byte{0xE0, 0x00, 0x40})
	expectNearlyEqual(t, r.pitches[3], synth.NoteToLog(60))
	expectNearlyEqual(t, r.pitches[4], synth.NoteToLog(64))
}

func TestUnknownChannel(t *testing.T) {
	r := &recorder{}
	router := NewMidiRouter(r, 1, 2)
	router.Handle([]byte{0x95, 60, 127})
	router.Handle([]byte{0x85, 60, 0})
	router.Handle([]byte{0xE5, 0x00, 0x60})
	router.Handle([]byte{0xF8}) // clock
	expectEvents(t, r)
	if router.Held(5) != nil {
		t.Errorf("expected nil")
	}
}

func TestRouterDrivesSynthesizer(t *testing.T) {
	a := newTestAudio(t)
	a.AddMidiEvent([]byte{0x90, 69, 64})
	ch, _ := a.Synthesizer().Channel(0)
	v, _ := ch.Voice(0)
	expectNearlyEqual(t, v.Pitch(), synth.HzToLog(440))
	expectEqual(t, v.Envelopes()[0].(*synth.ADSR).Gate(), true)
	a.AddMidiEvent([]byte{0x80, 69, 0})
	expectEqual(t, v.Envelopes()[0].(*synth.ADSR).Gate(), false)
}
