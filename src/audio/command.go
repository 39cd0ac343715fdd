package audio

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jinjor/finger-synth/src/synth"
)

// ----- Commands ----- //
//
// note_on <channel> <finger> <note> [velocity]
// note_off <channel> <finger>
// pitch <channel> <finger> <note>
// cc <channel> <control> <value>
// program <channel> <index|name>
// set <channel> <setting> <value>
// waveform <channel> <name>
// record <channel> start|stop
// loop <channel> start|stop
// all_notes_off <channel>
// dump <channel>
// midi <hex>
//
// Notes are MIDI note numbers and may be fractional. Velocity is 0-1.

// StateKey is the Changes key of a channel's settings.
func StateKey(channel int) string {
	return "state:" + strconv.Itoa(channel)
}

// NoteToLog converts a fractional MIDI note number to a log frequency.
func NoteToLog(note float64) float64 {
	return synth.NoteToLog(69) + (note-69)/12
}

func (a *Audio) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	name, args := command[0], command[1:]
	if name == "midi" {
		if len(args) != 1 {
			return fmt.Errorf("midi takes one argument")
		}
		data, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid MIDI message %q: %w", args[0], err)
		}
		a.router.Handle(data)
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("%s: channel is missing", name)
	}
	channel, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%s: invalid channel: %w", name, err)
	}
	args = args[1:]
	s := a.synth
	switch name {
	case "note_on":
		if len(args) != 2 && len(args) != 3 {
			return fmt.Errorf("note_on takes finger, note and optional velocity")
		}
		finger, note, err := parseFingerAndNote(args)
		if err != nil {
			return err
		}
		velocity := 1.0
		if len(args) == 3 {
			if velocity, err = strconv.ParseFloat(args[2], 64); err != nil {
				return fmt.Errorf("note_on: invalid velocity: %w", err)
			}
		}
		s.OnNoteOn(channel, NoteToLog(note), finger, velocity)
	case "note_off":
		if len(args) != 1 {
			return fmt.Errorf("note_off takes a finger")
		}
		finger, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("note_off: invalid finger: %w", err)
		}
		s.OnNoteOff(channel, finger)
	case "pitch":
		if len(args) != 2 {
			return fmt.Errorf("pitch takes finger and note")
		}
		finger, note, err := parseFingerAndNote(args)
		if err != nil {
			return err
		}
		s.OnPitch(channel, finger, NoteToLog(note))
	case "cc":
		if len(args) != 2 {
			return fmt.Errorf("cc takes control and value")
		}
		control, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("cc: invalid control: %w", err)
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("cc: invalid value: %w", err)
		}
		s.OnController(channel, control, value)
		a.Changes.Add(StateKey(channel))
	case "program":
		if len(args) != 1 {
			return fmt.Errorf("program takes an index or a name")
		}
		index, err := a.presetIndex(args[0])
		if err != nil {
			return err
		}
		s.OnProgramChange(channel, index)
		a.Changes.Add(StateKey(channel))
	default:
		ch, err := s.Channel(channel)
		if err != nil {
			return err
		}
		return a.updateChannel(ch, name, args)
	}
	return nil
}

func (a *Audio) updateChannel(ch *synth.Channel, name string, args []string) error {
	switch name {
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("invalid key-value pair %v", args)
		}
		setting, err := synth.SettingFromString(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("set %s: %w", args[0], err)
		}
		if err := ch.Set(setting, value); err != nil {
			return err
		}
	case "waveform":
		if len(args) != 1 {
			return fmt.Errorf("waveform takes a name")
		}
		if err := ch.SetWaveform(args[0]); err != nil {
			return err
		}
	case "record":
		if len(args) != 1 {
			return fmt.Errorf("record takes start or stop")
		}
		switch args[0] {
		case "start":
			ch.Delay().StartRecording()
		case "stop":
			ch.Delay().StopRecording()
		default:
			return fmt.Errorf("record: unknown action %q", args[0])
		}
	case "loop":
		if len(args) != 1 {
			return fmt.Errorf("loop takes start or stop")
		}
		switch args[0] {
		case "start":
			ch.Delay().StartPlaying()
		case "stop":
			ch.Delay().StopPlaying()
		default:
			return fmt.Errorf("loop: unknown action %q", args[0])
		}
	case "all_notes_off":
		ch.AllNotesOff()
		return nil
	case "dump":
	default:
		return fmt.Errorf("unknown command %v", name)
	}
	a.Changes.Add(StateKey(ch.Index()))
	return nil
}

func parseFingerAndNote(args []string) (int, float64, error) {
	finger, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid finger: %w", err)
	}
	note, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid note: %w", err)
	}
	return finger, note, nil
}

func (a *Audio) presetIndex(arg string) (int, error) {
	if index, err := strconv.Atoi(arg); err == nil {
		return index, nil
	}
	for i, name := range a.synth.Presets().Names() {
		if strings.EqualFold(name, arg) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no preset named %q", arg)
}

type stateJSON struct {
	Channel  int             `json:"channel"`
	Settings json.RawMessage `json:"settings"`
	Delay    string          `json:"delay"`
	Recorded int             `json:"recorded"` // samples
}

// StateJSON returns the settings and loop state of a channel.
func (a *Audio) StateJSON(channel int) ([]byte, error) {
	ch, err := a.synth.Channel(channel)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&stateJSON{
		Channel:  ch.Index(),
		Settings: ch.ToJSON(),
		Delay:    ch.Delay().Mode().String(),
		Recorded: ch.Delay().RecordedLength(),
	})
}
