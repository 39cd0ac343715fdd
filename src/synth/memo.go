package synth

// ----- Memoization ----- //

// computer is implemented by nodes whose value must be computed at most once
// per tick.
type computer interface {
	compute(c *Clock) float64
}

// memo caches the last computed value together with the tick it belongs to.
// It is only touched by the render loop.
type memo struct {
	valid bool
	tick  uint64
	value float64
}

func (m *memo) pull(c *Clock, n computer) float64 {
	tick := c.Tick()
	if m.valid && m.tick == tick {
		return m.value
	}
	v := n.compute(c)
	m.valid = true
	m.tick = tick
	m.value = v
	return v
}

// Cached wraps any SignalProvider so that it is evaluated once per tick
// regardless of how many parents pull it.
type Cached struct {
	memo
	src SignalProvider
}

// Memoize ...
func Memoize(src SignalProvider) *Cached {
	return &Cached{src: src}
}

// Value ...
func (m *Cached) Value(c *Clock) float64 {
	return m.pull(c, m)
}

func (m *Cached) compute(c *Clock) float64 {
	return m.src.Value(c)
}

// CachedFrequency is Cached for FrequencyProviders.
type CachedFrequency struct {
	memo
	src FrequencyProvider
}

// MemoizeFrequency ...
func MemoizeFrequency(src FrequencyProvider) *CachedFrequency {
	return &CachedFrequency{src: src}
}

// LogFrequency ...
func (m *CachedFrequency) LogFrequency(c *Clock) float64 {
	return m.pull(c, m)
}

func (m *CachedFrequency) compute(c *Clock) float64 {
	return m.src.LogFrequency(c)
}
