package synth

import "sync"

// ----- ADSR ----- //

/*
  1 +     x
    |    / \
    |   /   \
  s +  /     x------x
    | /              \
    |/                \
  0 +-----+---+------+---
    |a    |d  |      |r |
*/

// ADSR is a linear attack/decay/sustain/release envelope. Attack always
// starts from the current level, and release from wherever the level was
// when the gate closed.
type ADSR struct {
	memo
	attack  SignalProvider // sec
	decay   SignalProvider // sec
	sustain SignalProvider // 0-1
	release SignalProvider // sec

	mu      sync.Mutex
	gate    bool
	trigger bool

	// render loop only
	attacking bool
	level     float64
}

// NewADSR ...
func NewADSR(attack, decay, sustain, release SignalProvider) *ADSR {
	return &ADSR{
		attack:  attack,
		decay:   decay,
		sustain: sustain,
		release: release,
	}
}

// TurnOn opens the gate. An already open gate is left alone unless retrigger
// is set, in which case the attack restarts from the current level.
func (e *ADSR) TurnOn(retrigger bool) {
	e.mu.Lock()
	if !e.gate || retrigger {
		e.gate = true
		e.trigger = true
	}
	e.mu.Unlock()
}

// TurnOff closes the gate without touching the level.
func (e *ADSR) TurnOff() {
	e.mu.Lock()
	e.gate = false
	e.mu.Unlock()
}

// Gate ...
func (e *ADSR) Gate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate
}

// Value ...
func (e *ADSR) Value(c *Clock) float64 {
	return e.pull(c, e)
}

func (e *ADSR) compute(c *Clock) float64 {
	e.mu.Lock()
	gate, trigger := e.gate, e.trigger
	e.trigger = false
	e.mu.Unlock()

	if trigger {
		e.attacking = true
		if e.level == 0 {
			// attack from silence begins on the next tick
			return 0
		}
	}
	dt := c.Delta()
	if gate {
		if e.attacking {
			e.stepAttack(c, dt)
		} else {
			e.stepDecay(c, dt)
		}
	} else {
		e.attacking = false
		e.stepRelease(c, dt)
	}
	return e.level
}

func (e *ADSR) stepAttack(c *Clock, dt float64) {
	attack := e.attack.Value(c)
	if attack <= 0 {
		e.level = 1
	} else {
		e.level += dt / attack
	}
	if e.level >= 1 {
		e.level = 1
		e.attacking = false
	}
}

func (e *ADSR) stepDecay(c *Clock, dt float64) {
	sustain := e.sustain.Value(c)
	decay := e.decay.Value(c)
	switch {
	case e.level > sustain:
		e.level = approach(e.level, sustain, (sustain-1)*dt, decay)
	case e.level < sustain:
		e.level = approach(e.level, sustain, (1-sustain)*dt, decay)
	}
}

func (e *ADSR) stepRelease(c *Clock, dt float64) {
	if e.level <= 0 {
		e.level = 0
		return
	}
	sustain := e.sustain.Value(c)
	if sustain > 0 {
		e.level = approach(e.level, 0, -sustain*dt, e.release.Value(c))
	} else {
		e.level = approach(e.level, 0, -dt, e.decay.Value(c))
	}
}

// approach moves level toward target by step/duration without crossing it.
// A zero duration or a step pointing away from the target jumps directly.
func approach(level, target, step, duration float64) float64 {
	if duration <= 0 {
		return target
	}
	d := step / duration
	if d == 0 || (target-level)*d < 0 {
		return target
	}
	next := level + d
	if (d < 0 && next < target) || (d > 0 && next > target) {
		return target
	}
	return next
}
