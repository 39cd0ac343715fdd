package synth

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

const (
	wavetableOctaves = 10
	wavetableSamples = 2048
	wavetableLowest  = 16.0 // Hz, bottom of the first octave
)

// ----- Wavetable ----- //

type wavetable struct {
	values []float64
}

func newWavetable(cap int) *wavetable {
	return &wavetable{
		values: make([]float64, 0, cap),
	}
}

func (wt *wavetable) generate(samples int, phaseToValue func(phase float64) float64) error {
	if samples > cap(wt.values) {
		return fmt.Errorf("capacity exceeded")
	}
	wt.values = wt.values[0:samples]
	for i := 0; i < samples; i++ {
		phase := 2.0 * math.Pi / float64(samples) * float64(i)
		wt.values[i] = phaseToValue(phase)
	}
	return nil
}

// getAtPhase reads the table at phase in [0,1) with linear interpolation.
func (wt *wavetable) getAtPhase(phase float64) float64 {
	length := len(wt.values)
	pos := phase * float64(length)
	index := int(pos)
	if index >= length {
		index = length - 1
	}
	nextIndex := index + 1
	if nextIndex >= length {
		nextIndex = 0
	}
	frac := pos - float64(index)
	return wt.values[index]*(1-frac) + wt.values[nextIndex]*frac
}

func (wt *wavetable) makeBandLimitedTableForGivenNumberOfPartials(samples int, partials int, gain float64, calcFourierPartialAtPhase func(n int, phase float64) float64) error {
	return wt.generate(samples, func(phase float64) float64 {
		value := 0.0
		for i := 1; i <= partials; i++ {
			value += calcFourierPartialAtPhase(i, phase)
		}
		return value * gain
	})
}

// ----- Wavetable Set ----- //

// WavetableSet holds one band-limited table per octave. The table of an
// octave has no partial above Nyquist for any pitch inside that octave.
type WavetableSet struct {
	tables []*wavetable
}

func newWavetableSet(numTables int, sampleCap int) *WavetableSet {
	tables := make([]*wavetable, numTables)
	for i := 0; i < numTables; i++ {
		tables[i] = newWavetable(sampleCap)
	}
	return &WavetableSet{
		tables: tables,
	}
}

func (wts *WavetableSet) makeBandLimitedTables(sampleRate float64, gain float64, calcFourierPartialAtPhase func(n int, phase float64) float64) error {
	for i, wt := range wts.tables {
		top := wavetableLowest * math.Exp2(float64(i+1))
		partials := int(sampleRate / 2 / top)
		if partials < 1 {
			partials = 1
		}
		if err := wt.makeBandLimitedTableForGivenNumberOfPartials(cap(wt.values), partials, gain, calcFourierPartialAtPhase); err != nil {
			return err
		}
	}
	return nil
}

func (wts *WavetableSet) at(hz float64, phase float64) float64 {
	octave := 0
	if hz > wavetableLowest {
		octave = int(math.Log2(hz / wavetableLowest))
	}
	if octave >= len(wts.tables) {
		octave = len(wts.tables) - 1
	}
	return wts.tables[octave].getAtPhase(phase)
}

// ----- Band-limited Waves ----- //

// BandLimitedWaves are the anti-aliased square and saw tables of one sample
// rate.
type BandLimitedWaves struct {
	Square *WavetableSet
	Saw    *WavetableSet
}

// NewBandLimitedWaves generates both sets concurrently.
func NewBandLimitedWaves(ctx context.Context, sampleRate float64) (*BandLimitedWaves, error) {
	waves := &BandLimitedWaves{
		Square: newWavetableSet(wavetableOctaves, wavetableSamples),
		Saw:    newWavetableSet(wavetableOctaves, wavetableSamples),
	}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return waves.Square.makeBandLimitedTables(sampleRate, 4/math.Pi, calcPartialSquareAtPhase)
	})
	g.Go(func() error {
		return waves.Saw.makeBandLimitedTables(sampleRate, 2/math.Pi, calcPartialSawAtPhase)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to generate wavetables: %w", err)
	}
	return waves, nil
}

func calcPartialSquareAtPhase(n int, phase float64) float64 {
	if n%2 == 1 {
		x := float64(n)
		return math.Sin(x*phase) / x
	}
	return 0.0
}

func calcPartialSawAtPhase(n int, phase float64) float64 {
	x := float64(n)
	return -math.Sin(x*phase) / x
}
