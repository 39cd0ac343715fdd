package audio

import (
	"context"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/jinjor/finger-synth/src/synth"
	"gitlab.com/gomidi/midi"
	midiv2 "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/rtmididrv"
)

// ListenToMidiIn forwards raw messages from the first MIDI IN port whose name
// contains portName. The channel is closed when ctx is done or when no port
// could be opened.
func ListenToMidiIn(ctx context.Context, portName string) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)

		in := findMidiIn(ins, portName)
		if in == nil {
			log.Printf("WARN: MIDI IN %q not found\n", portName)
			return
		}
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
				log.Println("WARN: MIDI IN buffer is full")
			}
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}

func findMidiIn(ins []midi.In, portName string) midi.In {
	for _, in := range ins {
		if strings.Contains(in.String(), portName) {
			return in
		}
	}
	return nil
}

// ----- MIDI Router ----- //

const pitchBendRange = 2.0 // semitones

// Instrument receives channel-addressed events. *synth.Synthesizer
// implements it.
type Instrument interface {
	OnNoteOn(channel int, logFreq float64, finger int, velocity float64)
	OnNoteOff(channel int, finger int)
	OnPitch(channel int, finger int, logFreq float64)
	OnController(channel int, control int, value int)
	OnProgramChange(channel int, index int)
}

var _ Instrument = (*synth.Synthesizer)(nil)

// MidiRouter turns MIDI messages into finger events. Each MIDI channel drives
// the synthesizer channel of the same number and every held key occupies one
// finger. When all fingers are held, further keys are dropped.
type MidiRouter struct {
	sync.Mutex
	instrument Instrument
	keys       [][]int // per channel: held key of each finger, -1 if free
	bends      []float64
}

// NewMidiRouter ...
func NewMidiRouter(instrument Instrument, channels int, fingers int) *MidiRouter {
	keys := make([][]int, channels)
	for i := range keys {
		keys[i] = make([]int, fingers)
		for f := range keys[i] {
			keys[i][f] = -1
		}
	}
	return &MidiRouter{
		instrument: instrument,
		keys:       keys,
		bends:      make([]float64, channels),
	}
}

// Handle decodes and routes one message. Anything else than note, control,
// program and pitch bend messages is ignored.
func (r *MidiRouter) Handle(data []byte) {
	msg := midiv2.Message(data)
	var channel, key, velocity, control, value, program uint8
	var relative int16
	var absolute uint16
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		r.noteOn(int(channel), int(key), float64(velocity)/127)
	case msg.GetNoteEnd(&channel, &key):
		r.noteOff(int(channel), int(key))
	case msg.GetControlChange(&channel, &control, &value):
		r.controlChange(int(channel), int(control), int(value))
	case msg.GetProgramChange(&channel, &program):
		r.instrument.OnProgramChange(int(channel), int(program))
	case msg.GetPitchBend(&channel, &relative, &absolute):
		r.pitchBend(int(channel), float64(relative)/8192*pitchBendRange)
	}
}

func (r *MidiRouter) logFreq(channel int, key int) float64 {
	bend := 0.0
	if channel < len(r.bends) {
		bend = r.bends[channel]
	}
	return synth.NoteToLog(key) + bend/12
}

func (r *MidiRouter) noteOn(channel int, key int, velocity float64) {
	r.Lock()
	defer r.Unlock()
	if channel >= len(r.keys) {
		log.Printf("note on ignored: no channel %d\n", channel)
		return
	}
	finger := r.fingerOf(channel, key)
	if finger < 0 {
		finger = r.fingerOf(channel, -1)
	}
	if finger < 0 {
		log.Printf("note on ignored: all fingers of channel %d are held\n", channel)
		return
	}
	r.keys[channel][finger] = key
	r.instrument.OnNoteOn(channel, r.logFreq(channel, key), finger, velocity)
}

func (r *MidiRouter) noteOff(channel int, key int) {
	r.Lock()
	defer r.Unlock()
	if channel >= len(r.keys) {
		return
	}
	finger := r.fingerOf(channel, key)
	if finger < 0 {
		return
	}
	r.keys[channel][finger] = -1
	r.instrument.OnNoteOff(channel, finger)
}

func (r *MidiRouter) controlChange(channel int, control int, value int) {
	r.Lock()
	if channel < len(r.keys) && (control == 120 || control == 123) {
		for f := range r.keys[channel] {
			r.keys[channel][f] = -1
		}
	}
	r.Unlock()
	r.instrument.OnController(channel, control, value)
}

func (r *MidiRouter) pitchBend(channel int, semitones float64) {
	r.Lock()
	defer r.Unlock()
	if channel >= len(r.bends) || math.IsNaN(semitones) {
		return
	}
	r.bends[channel] = semitones
	for finger, key := range r.keys[channel] {
		if key >= 0 {
			r.instrument.OnPitch(channel, finger, r.logFreq(channel, key))
		}
	}
}

func (r *MidiRouter) fingerOf(channel int, key int) int {
	for f, k := range r.keys[channel] {
		if k == key {
			return f
		}
	}
	return -1
}

// Held returns the key held by each finger of a channel, -1 if free.
func (r *MidiRouter) Held(channel int) []int {
	r.Lock()
	defer r.Unlock()
	if channel < 0 || channel >= len(r.keys) {
		return nil
	}
	return append([]int(nil), r.keys[channel]...)
}
