// Unit tests for the biquad low-pass filter
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package filter

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

// frequencyResponse computes |H(f)| of the filter at integer frequencies
// by taking the FFT of its impulse response. n equal to the sample rate
// gives a 1 Hz bin spacing.
func frequencyResponse(b *Biquad, n int) []float64 {
	impulse := make([]float64, n)
	b.Reset()
	for i := 0; i < n; i++ {
		var x float32
		if i == 0 {
			x = 1
		}
		impulse[i] = float64(b.Apply(x))
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, impulse)
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = cmplx.Abs(c)
	}
	return mags
}

// TestLowPassDCGain verifies unity gain at DC
func TestLowPassDCGain(t *testing.T) {
	b := NewLowPass(1000, 2.0, 0.707)

	// The coefficient sums must match for unity DC gain.
	num := float64(b.B0 + b.B1 + b.B2)
	den := 1.0 + float64(b.A1) + float64(b.A2)
	if math.Abs(num/den-1.0) > 1e-4 {
		t.Errorf("DC gain %g, want 1.0", num/den)
	}

	// A constant input settles to the same constant output.
	var y float32
	for i := 0; i < 3000; i++ {
		y = b.Apply(1.0)
	}
	if math.Abs(float64(y)-1.0) > 1e-3 {
		t.Errorf("step response settled at %g, want 1.0", y)
	}
}

// TestLowPassCutoff verifies roughly -3dB gain at the cutoff frequency
func TestLowPassCutoff(t *testing.T) {
	b := NewLowPass(1000, 2.0, 0.707)
	mags := frequencyResponse(b, 1000)

	// Bin 2 is 2 Hz with a 1000-point FFT at 1 kHz.
	got := mags[2]
	want := 1.0 / math.Sqrt2
	if math.Abs(got-want) > 0.05 {
		t.Errorf("gain at cutoff %0.4f, want about %0.4f", got, want)
	}
}

// TestLowPassStopbandAttenuation verifies strong attenuation well above cutoff
func TestLowPassStopbandAttenuation(t *testing.T) {
	b := NewLowPass(1000, 2.0, 0.707)
	mags := frequencyResponse(b, 1000)

	// Second-order rolloff puts 100 Hz more than 60 dB down.
	if mags[100] > 0.01 {
		t.Errorf("gain at 100 Hz %g, want < 0.01", mags[100])
	}
	// Response must be monotonically non-increasing past the cutoff.
	for f := 10; f < 400; f += 10 {
		if mags[f+10] > mags[f]*1.01 {
			t.Errorf("gain rose from %g at %d Hz to %g at %d Hz", mags[f], f, mags[f+10], f+10)
		}
	}
}

// TestBiquadReset verifies the delay line is cleared
func TestBiquadReset(t *testing.T) {
	b := NewLowPass(1000, 2.0, 0.707)
	for i := 0; i < 100; i++ {
		b.Apply(2.5)
	}
	b.Reset()

	first := b.Apply(0)
	if first != 0 {
		t.Errorf("output after reset with zero input = %g, want 0", first)
	}
}

// TestBiquadStability verifies a bounded input stays bounded
func TestBiquadStability(t *testing.T) {
	b := NewLowPass(1000, 2.0, 0.707)
	for i := 0; i < 100000; i++ {
		y := b.Apply(float32(math.Sin(float64(i) * 0.37)))
		if math.IsNaN(float64(y)) || math.Abs(float64(y)) > 10 {
			t.Fatalf("unstable output %g at sample %d", y, i)
		}
	}
}
