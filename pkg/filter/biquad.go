// Second-order IIR (biquad) filter used by the throttle signal chain.
//
// Copyright (C) 2026  ebike-g4 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package filter provides the biquad low-pass primitive for analog
// signal conditioning. All processing is single precision to match the
// numeric behavior of the STM32 firmware it replaces.
package filter

import "math"

// Biquad is a single second-order IIR section in Direct Form I.
// Coefficients are normalized so that a0 == 1 and is not stored.
//
//	y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]
//
// A Biquad is owned by exactly one processor and must not be shared
// across channels.
type Biquad struct {
	B0, B1, B2 float32 // feedforward (numerator)
	A1, A2     float32 // feedback (denominator)

	x1, x2 float32 // input delay line
	y1, y2 float32 // output delay line
}

// NewLowPass designs a low-pass biquad using the RBJ cookbook formulas.
// sampleRate and cutoff are in Hz; q is the quality factor (0.707 for a
// Butterworth response). The design math runs in float64 and the result
// is stored at single precision.
func NewLowPass(sampleRate, cutoff, q float32) *Biquad {
	w0 := 2.0 * math.Pi * float64(cutoff) / float64(sampleRate)
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * float64(q))

	a0 := 1.0 + alpha
	b := &Biquad{
		B0: float32((1.0 - cosw0) / 2.0 / a0),
		B1: float32((1.0 - cosw0) / a0),
		B2: float32((1.0 - cosw0) / 2.0 / a0),
		A1: float32(-2.0 * cosw0 / a0),
		A2: float32((1.0 - alpha) / a0),
	}
	return b
}

// Apply filters one input sample and returns the output sample. No
// saturation is performed; overflow is a caller-level concern.
func (b *Biquad) Apply(x float32) float32 {
	y := b.B0*x + b.B1*b.x1 + b.B2*b.x2 - b.A1*b.y1 - b.A2*b.y2

	b.x2 = b.x1
	b.x1 = x
	b.y2 = b.y1
	b.y1 = y

	return y
}

// Reset clears the delay line to zero.
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}
