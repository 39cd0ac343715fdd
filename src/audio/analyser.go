package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

// ----- FFT ----- //

const fftSize = 2048 // multiple of samplesPerCycle

type fft struct {
	bitReverseTable []int
	wTable          []complex128
}

func newFFT(n int) *fft {
	f := &fft{
		bitReverseTable: make([]int, n),
		wTable:          make([]complex128, n),
	}
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		f.bitReverseTable[i] = bitReverse(i, n)
		f.wTable[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return f
}

func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}

// transform runs an in-place radix-2 FFT. len(x) must equal the table size.
func (f *fft) transform(x []complex128) {
	n := len(x)
	if n != len(f.bitReverseTable) {
		panic("fft: length mismatch")
	}
	for i := 0; i < n; i++ {
		rev := f.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			w := f.wTable[n/step*k]
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
}

// ----- Spectrum Analyser ----- //

// analyser keeps the latest fftSize samples of the master output.
type analyser struct {
	sync.Mutex
	ring   []float64
	pos    int
	fft    *fft
	window []float64
}

func newAnalyser() *analyser {
	win, err := window.Hann(fftSize, window.WithPeriodic())
	if err != nil {
		panic(err)
	}
	return &analyser{
		ring:   make([]float64, fftSize),
		fft:    newFFT(fftSize),
		window: win,
	}
}

func (a *analyser) write(out []float64) {
	a.Lock()
	for _, v := range out {
		a.ring[a.pos] = v
		a.pos = (a.pos + 1) % fftSize
	}
	a.Unlock()
}

// spectrum returns fftSize/2 magnitudes of the latest frame.
func (a *analyser) spectrum() []float64 {
	// ring:   | 3 | 4 | 1 | 2 |
	// frame:  | 1 | 2 | 3 | 4 |
	frame := make([]float64, fftSize)
	a.Lock()
	copy(frame, a.ring[a.pos:])
	copy(frame[fftSize-a.pos:], a.ring[:a.pos])
	a.Unlock()

	if err := window.ApplyCoefficientsInPlace(frame, a.window); err != nil {
		panic(err)
	}
	x := make([]complex128, fftSize)
	for i, v := range frame {
		x[i] = complex(v, 0)
	}
	a.fft.transform(x)
	result := spectrum.Magnitude(x[:fftSize/2])
	for i, value := range result {
		result[i] = value * 2 / fftSize
	}
	return result
}
