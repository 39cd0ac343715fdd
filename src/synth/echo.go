package synth

import "sync"

// ----- Echo ----- //

// Echo is a feedback echo on a fixed circular buffer. Each sample reads the
// slot under the cursor, writes mix*slot + (1-mix)*in back into it and
// returns the written value.
type Echo struct {
	memo
	src  SignalProvider
	time SignalProvider // sec
	mix  SignalProvider // 0-1

	buffer   []float64 // allocated for the maximum time
	length   int
	cursor   int
	timed    bool
	lastTime float64
}

// NewEcho ...
func NewEcho(src, time, mix SignalProvider, maxTime float64, sampleRate float64) *Echo {
	return &Echo{
		src:    src,
		time:   time,
		mix:    mix,
		buffer: make([]float64, int(maxTime*sampleRate)+1),
	}
}

// Value ...
func (e *Echo) Value(c *Clock) float64 {
	return e.pull(c, e)
}

func (e *Echo) compute(c *Clock) float64 {
	in := e.src.Value(c)
	mix := e.mix.Value(c)
	t := e.time.Value(c)
	if !e.timed || t != e.lastTime {
		e.timed = true
		e.lastTime = t
		e.resize(t, c.SampleRate())
	}
	if e.length == 0 {
		return (1 - mix) * in
	}
	v := mix*e.buffer[e.cursor] + (1-mix)*in
	e.buffer[e.cursor] = v
	e.cursor++
	if e.cursor >= e.length {
		e.cursor = 0
	}
	return v
}

func (e *Echo) resize(sec float64, sampleRate float64) {
	length := int(sec * sampleRate)
	if length < 0 {
		length = 0
	}
	if length > len(e.buffer) {
		length = len(e.buffer)
	}
	if length > e.length {
		// slots beyond the old length hold echoes from before a shrink
		clear(e.buffer[e.length:length])
	}
	e.length = length
	if e.cursor >= e.length {
		e.cursor = 0
	}
}

// ----- Delay (loop recorder) ----- //

// DelayMode ...
type DelayMode int

// DelayMode values
const (
	DelayIdle DelayMode = iota
	DelayRecording
	DelayPlaying
)

func (m DelayMode) String() string {
	switch m {
	case DelayRecording:
		return "recording"
	case DelayPlaying:
		return "playing"
	default:
		return "idle"
	}
}

// Delay records its input into a fixed-capacity buffer and can play the
// recording back as a loop mixed under the live input.
type Delay struct {
	memo
	src SignalProvider
	mix SignalProvider

	mu     sync.Mutex
	mode   DelayMode
	buffer []float64
	length int
	cursor int
}

// NewDelay ...
func NewDelay(src, mix SignalProvider, maxTime float64, sampleRate float64) *Delay {
	return &Delay{
		src:    src,
		mix:    mix,
		buffer: make([]float64, int(maxTime*sampleRate)),
	}
}

// StartRecording begins a new take, discarding the previous one.
func (d *Delay) StartRecording() {
	d.mu.Lock()
	d.mode = DelayRecording
	d.length = 0
	d.cursor = 0
	d.mu.Unlock()
}

// StopRecording ...
func (d *Delay) StopRecording() {
	d.mu.Lock()
	if d.mode == DelayRecording {
		d.mode = DelayIdle
	}
	d.cursor = 0
	d.mu.Unlock()
}

// StartPlaying loops the current take from its beginning.
func (d *Delay) StartPlaying() {
	d.mu.Lock()
	d.mode = DelayPlaying
	d.cursor = 0
	d.mu.Unlock()
}

// StopPlaying ...
func (d *Delay) StopPlaying() {
	d.mu.Lock()
	if d.mode == DelayPlaying {
		d.mode = DelayIdle
	}
	d.cursor = 0
	d.mu.Unlock()
}

// Mode ...
func (d *Delay) Mode() DelayMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// RecordedLength returns the length of the current take in samples.
func (d *Delay) RecordedLength() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.length
}

// Value ...
func (d *Delay) Value(c *Clock) float64 {
	return d.pull(c, d)
}

func (d *Delay) compute(c *Clock) float64 {
	in := d.src.Value(c)
	mix := d.mix.Value(c)
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.mode {
	case DelayRecording:
		if d.length < len(d.buffer) {
			d.buffer[d.length] = in
			d.length++
		}
		if d.length >= len(d.buffer) {
			d.mode = DelayIdle
			d.cursor = 0
		}
	case DelayPlaying:
		if d.length == 0 {
			break
		}
		v := mix*d.buffer[d.cursor] + (1-mix)*in
		d.cursor++
		if d.cursor >= d.length {
			d.cursor = 0
		}
		return v
	}
	return (1 - mix) * in
}
