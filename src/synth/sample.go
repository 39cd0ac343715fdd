package synth

import "github.com/cwbudde/algo-dsp/dsp/interp"

// ----- Sample Library ----- //

// LoopMode ...
type LoopMode int

// LoopMode values
const (
	NoLoop LoopMode = iota
	LoopContinuously
	LoopThenFinish
)

// Zone is one playable sample region. Start/End and LoopStart/LoopEnd are
// indices into Samples; End and LoopEnd are exclusive.
type Zone struct {
	Samples    []float64
	Start      int
	End        int
	LoopStart  int
	LoopEnd    int
	SampleRate float64
	RootKey    int
	LoopMode   LoopMode
}

// SampleLibrary provides the zone to play for a key and velocity (0-127).
// Implementations are called from the render loop and must not block.
type SampleLibrary interface {
	Zone(key, velocity int) (*Zone, bool)
}

func (z *Zone) sampleAt(i int, looping bool) float64 {
	if looping && i >= z.LoopEnd {
		i = z.LoopStart + (i-z.LoopStart)%(z.LoopEnd-z.LoopStart)
	}
	if i < z.Start {
		i = z.Start
	}
	if i >= z.End {
		i = z.End - 1
	}
	return z.Samples[i]
}

// at reads the zone at a fractional position with 4-point Hermite
// interpolation. While looping, the points after LoopEnd wrap to LoopStart.
func (z *Zone) at(pos float64, looping bool) float64 {
	i := int(pos)
	t := pos - float64(i)
	return interp.Hermite4(t,
		z.sampleAt(i-1, looping),
		z.sampleAt(i, looping),
		z.sampleAt(i+1, looping),
		z.sampleAt(i+2, looping))
}

func (z *Zone) loops() bool {
	return z.LoopEnd > z.LoopStart && z.LoopMode != NoLoop
}

func (z *Zone) valid() bool {
	return z != nil &&
		z.Start >= 0 &&
		z.End > z.Start &&
		z.End <= len(z.Samples) &&
		z.SampleRate > 0
}
