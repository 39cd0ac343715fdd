package audio

import (
	"math"
	"testing"
)

func TestBitreverse(t *testing.T) {
	expectEqual(t, bitReverse(0, 8), 0)
	expectEqual(t, bitReverse(1, 8), 4)
	expectEqual(t, bitReverse(2, 8), 2)
	expectEqual(t, bitReverse(3, 8), 6)
	expectEqual(t, bitReverse(4, 8), 1)
	expectEqual(t, bitReverse(5, 8), 5)
	expectEqual(t, bitReverse(6, 8), 3)
	expectEqual(t, bitReverse(7, 8), 7)
}

func TestFFT(t *testing.T) {
	f := newFFT(8)
	values := []float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25}
	x := make([]complex128, len(values))
	for i, v := range values {
		x[i] = complex(v, 0)
	}
	f.transform(x)
	expectNearlyEqual(t, real(x[0]), 4)
	expectNearlyEqual(t, real(x[1]), -(1 + math.Sqrt(2)/2))
	expectNearlyEqual(t, real(x[2]), 0)
	expectNearlyEqual(t, real(x[3]), -(1 - math.Sqrt(2)/2))
	expectNearlyEqual(t, real(x[4]), 0)
	expectNearlyEqual(t, real(x[5]), -(1 - math.Sqrt(2)/2))
	expectNearlyEqual(t, real(x[6]), 0)
	expectNearlyEqual(t, real(x[7]), -(1 + math.Sqrt(2)/2))
	for i := range x {
		expectNearlyEqual(t, imag(x[i]), 0)
	}
}

func TestAnalyserPeak(t *testing.T) {
	a := newAnalyser()
	bin := 64
	out := make([]float64, samplesPerCycle)
	// write more than one frame so the ring wraps
	for n := 0; n < 3; n++ {
		for i := range out {
			k := n*samplesPerCycle + i
			out[i] = math.Sin(2 * math.Pi * float64(bin) * float64(k) / fftSize)
		}
		a.write(out)
	}
	result := a.spectrum()
	expectEqual(t, len(result), fftSize/2)
	peak := 0
	for i, v := range result {
		if v > result[peak] {
			peak = i
		}
	}
	expectEqual(t, peak, bin)
	if result[peak] < 0.45 || result[peak] > 0.55 {
		t.Errorf("expected about 0.5, but got: %v", result[peak])
	}
	if result[bin*4] > 0.001 {
		t.Errorf("expected leakage to be small, but got: %v", result[bin*4])
	}
}

func TestAnalyserSilence(t *testing.T) {
	a := newTestAudio(t)
	_, err := a.Read(make([]byte, bufferSizeInBytes))
	expectNoError(t, err)
	for _, v := range a.Spectrum() {
		expectNearlyEqual(t, v, 0)
	}
}
