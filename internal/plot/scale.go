// Package plot holds the shared scaling and layout math used by every chart
// renderer: linear value-to-pixel mapping, degenerate-range padding, tick
// generation, and greedy text wrapping against a measurement function.
package plot

import "math"

// minSpanEpsilon is the synthetic half-span substituted when a range collapses
// around zero, so scales never divide by zero.
const minSpanEpsilon = 0.5

// LinearScale maps a source value range onto a destination pixel range.
// A degenerate source range (lo == hi) is widened symmetrically before use.
type LinearScale struct {
	lo, hi float64
	p0, p1 float64
}

// NewLinearScale builds a scale from [lo, hi] onto [p0, p1]. The pixel range
// may be inverted (p0 > p1) for screen-down Y axes.
func NewLinearScale(lo, hi, p0, p1 float64) LinearScale {
	if lo == hi {
		pad := math.Abs(lo) * 0.1
		if pad == 0 {
			pad = minSpanEpsilon
		}
		lo -= pad
		hi += pad
	}
	return LinearScale{lo: lo, hi: hi, p0: p0, p1: p1}
}

// Apply maps a value into pixel space.
func (s LinearScale) Apply(v float64) float64 {
	return s.p0 + (v-s.lo)/(s.hi-s.lo)*(s.p1-s.p0)
}

// Domain returns the (possibly widened) source range.
func (s LinearScale) Domain() (float64, float64) { return s.lo, s.hi }

// PadRange expands a raw [min, max] for display. A collapsed range grows
// symmetrically by 10% of |min| (or a fixed epsilon at zero); otherwise both
// ends move outward by 5% of the span. Applied independently per axis.
func PadRange(min, max float64) (float64, float64) {
	if min == max {
		pad := math.Abs(min) * 0.1
		if pad == 0 {
			pad = minSpanEpsilon
		}
		return min - pad, max + pad
	}
	pad := (max - min) * 0.05
	return min - pad, max + pad
}

// TickValues returns n evenly spaced values across [lo, hi], inclusive of both
// ends. n < 2 yields just the bounds.
func TickValues(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo, hi}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
