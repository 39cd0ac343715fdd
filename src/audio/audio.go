package audio

import (
	"context"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/finger-synth/src/synth"
)

const (
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096

// ----- Changes ----- //

// Changes is a set of keys whose state should be reported.
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

func newChanges() *Changes {
	return &Changes{dict: make(map[string]struct{})}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- Level Meter ----- //

// meterRelease is how much the held peak falls per rendered buffer.
const meterRelease = 0.9

type meter struct {
	bits atomic.Uint64
}

func (m *meter) update(out []float64) {
	peak := math.Float64frombits(m.bits.Load()) * meterRelease
	for _, v := range out {
		peak = math.Max(peak, math.Abs(v))
	}
	m.bits.Store(math.Float64bits(peak))
}

func (m *meter) level() float64 {
	return math.Float64frombits(m.bits.Load())
}

// ----- Audio ----- //

// Audio pulls the synthesizer once per sample and feeds the result to the
// platform output.
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	Changes    *Changes
	synth      *synth.Synthesizer
	router     *MidiRouter
	out        []float64 // length: samplesPerCycle
	meter      meter
	analyser   *analyser
	closeOnce  sync.Once
}

var _ io.Reader = (*Audio)(nil)

func newAudio(s *synth.Synthesizer) *Audio {
	return &Audio{
		ctx:       context.Background(),
		CommandCh: make(chan []string, 256),
		Changes:   newChanges(),
		synth:     s,
		router:    NewMidiRouter(s, s.NumChannels(), fingersOf(s)),
		out:       make([]float64, samplesPerCycle),
		analyser:  newAnalyser(),
	}
}

// NewAudio opens the output device at the synthesizer's sample rate and
// starts processing commands.
func NewAudio(s *synth.Synthesizer) (*Audio, error) {
	sampleRate := int(s.Clock().SampleRate())
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	audio := newAudio(s)
	audio.otoContext = otoContext
	go processCommands(audio, audio.CommandCh)
	return audio, nil
}

func fingersOf(s *synth.Synthesizer) int {
	ch, err := s.Channel(0)
	if err != nil {
		return 0
	}
	return ch.Fingers()
}

func processCommands(audio *Audio, commandCh <-chan []string) {
	for command := range commandCh {
		if err := audio.update(command); err != nil {
			log.Printf("command ignored: %v\n", err)
		}
	}
	log.Println("processCommands() ended.")
}

// Synthesizer ...
func (a *Audio) Synthesizer() *synth.Synthesizer {
	return a.synth
}

// Router returns the MIDI router feeding the synthesizer.
func (a *Audio) Router() *MidiRouter {
	return a.router
}

// Spectrum returns the magnitude spectrum of the latest output frame.
func (a *Audio) Spectrum() []float64 {
	return a.analyser.spectrum()
}

// Level returns the recent peak of the master output.
func (a *Audio) Level() float64 {
	return a.meter.level()
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	n := len(buf) / bytesPerSample
	if n > len(a.out) {
		n = len(a.out)
	}
	out := a.out[:n]
	a.synth.Render(out)
	a.meter.update(out)
	a.analyser.write(out)
	for ch := 0; ch < channelNum; ch++ {
		writeBuffer(out, buf, ch)
	}
	return n * bytesPerSample, nil
}

// writeBuffer clamps the output to [-1,1] before the 16-bit conversion.
func writeBuffer(out []float64, buf []byte, ch int) {
	const max = 32767
	for i, value := range out {
		if value > 1 {
			value = 1
		} else if value < -1 {
			value = -1
		}
		b := int16(value * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	a.closeOnce.Do(func() {
		close(a.CommandCh)
	})
	if a.otoContext == nil {
		return nil
	}
	return a.otoContext.Close()
}

// Start blocks until ctx is cancelled.
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// AddMidiEvent routes a raw MIDI message to the synthesizer.
func (a *Audio) AddMidiEvent(data []byte) {
	a.router.Handle(data)
}
