// Package cell implements the incremental per-cell height aggregator: a
// numerically stable online mean/variance accumulator (Welford) and its
// associative pairwise fusion (Chan), the two primitives every other
// package in this module builds on.
package cell

import "math"

// Cell is a fixed-shape running-statistics record for one grid square's
// height samples. NPoints == 0 means the cell is empty; every other field
// is unspecified in that state and must not be read.
type Cell struct {
	NPoints    uint64
	ZMin       float64
	ZMax       float64
	ZMean      float64
	M2         float64// sum of squared deviations from ZMean, not variance
	LastUpdate float64
}

// Variance returns the finalized sample variance (m2/(n-1)) for reporting,
// or 0 if fewer than two samples have been folded in.
func (c Cell) Variance() float64 {
	if c.NPoints < 2 {
		return 0
	}
	return c.M2 / float64(c.NPoints-1)
}

// Empty reports whether the cell holds no samples.
func (c Cell) Empty() bool {
	return c.NPoints == 0
}

// AddSample folds one new height z into the cell using Welford's online
// algorithm. It does not touch LastUpdate; the caller stamps that once it
// knows the point was accepted.
func AddSample(c *Cell, z float64) {
	if c.NPoints == 0 {
		c.NPoints = 1
		c.ZMin, c.ZMax, c.ZMean = z, z, z
		c.M2 = 0
		return
	}

	n := float64(c.NPoints)
	muOld := c.ZMean
	c.NPoints++
	c.ZMean = (muOld*n + z) / (n + 1)
	c.M2 += (z - muOld) * (z - c.ZMean)
	if z < c.ZMin {
		c.ZMin = z
	}
	if z > c.ZMax {
		c.ZMax = z
	}
}

// MergeCells folds src into dst using the Chan parallel-variance formula,
// so tile-tile and scan-window reconciliation are associative up to
// floating-point error regardless of fold order.
func MergeCells(dst *Cell, src Cell) {
	if src.NPoints == 0 {
		return
	}
	if dst.NPoints == 0 {
		*dst = src
		return
	}

	n1, n2 := float64(dst.NPoints), float64(src.NPoints)
	n := n1 + n2
	delta := src.ZMean - dst.ZMean

	dst.M2 = dst.M2 + src.M2 + delta*delta*n1*n2/n
	dst.ZMean = (dst.ZMean*n1 + src.ZMean*n2) / n
	dst.NPoints += src.NPoints
	if src.ZMin < dst.ZMin {
		dst.ZMin = src.ZMin
	}
	if src.ZMax > dst.ZMax {
		dst.ZMax = src.ZMax
	}
}

// IsVertical classifies a cell as a vertical obstacle rather than flat
// ground by comparing its finalized variance against a threshold tau
// (see package merge for how tau is derived from a whole scan).
func IsVertical(c Cell, tau float64) bool {
	return c.Variance() > tau
}

// finite reports whether z is usable as a height sample.
func finite(z float64) bool {
	return !math.IsNaN(z) && !math.IsInf(z, 0)
}

// Finite is the exported form of finite, used by callers that filter
// points before they ever reach AddSample.
func Finite(z float64) bool {
	return finite(z)
}
