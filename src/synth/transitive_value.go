package synth

// ----- Transition Kind ----- //

const (
	transitionNone = iota
	transitionLinear
)

// ----- Transitive Value ----- //

// transitiveValue moves linearly from its value at the start of a transition
// to a target over a duration in seconds.
type transitiveValue struct {
	kind         int
	duration     float64 // sec
	initialValue float64
	targetValue  float64
	value        float64
	elapsed      float64 // sec
}

func (tv *transitiveValue) init(value float64) {
	tv.kind = transitionNone
	tv.duration = 0
	tv.initialValue = value
	tv.targetValue = value
	tv.value = value
	tv.elapsed = 0
}

func (tv *transitiveValue) linear(duration float64, targetValue float64) {
	tv.kind = transitionLinear
	tv.duration = duration
	tv.elapsed = 0
	tv.initialValue = tv.value
	tv.targetValue = targetValue
}

func (tv *transitiveValue) step(dt float64) bool {
	if tv.kind != transitionLinear {
		return false
	}
	tv.elapsed += dt
	if tv.elapsed >= tv.duration {
		tv.end()
		return true
	}
	t := tv.elapsed / tv.duration
	tv.value = t*tv.targetValue + (1-t)*tv.initialValue
	return false
}

func (tv *transitiveValue) end() {
	tv.kind = transitionNone
	tv.value = tv.targetValue
	tv.elapsed = 0
}
