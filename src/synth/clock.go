package synth

// ----- Clock ----- //

// Clock is the per-sample time cursor of a render session.
// Only the render loop advances it.
type Clock struct {
	tick       uint64
	time       float64
	sampleRate float64
	delta      float64
}

// NewClock ...
func NewClock(sampleRate float64) *Clock {
	return &Clock{
		sampleRate: sampleRate,
		delta:      1.0 / sampleRate,
	}
}

// Advance moves the clock forward by one sample.
func (c *Clock) Advance() {
	c.tick++
	c.time = float64(c.tick) * c.delta
}

// Tick ...
func (c *Clock) Tick() uint64 {
	return c.tick
}

// Time returns the absolute time in seconds.
func (c *Clock) Time() float64 {
	return c.time
}

// Delta ...
func (c *Clock) Delta() float64 {
	return c.delta
}

// SampleRate ...
func (c *Clock) SampleRate() float64 {
	return c.sampleRate
}
