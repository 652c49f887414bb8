// Package scale solves the fixed-point scaling problem of spec.md §4.F: for
// each channel, choose (shift, scalar, divisor) so every resampled sample
// fits in a bounded signed 32-bit integer with at most 10% relative error.
package scale

import (
	"math"
)

// MaxScalarDivisor is the .ld format's 11-bit limit on scalar and divisor
// (spec.md §3/§6: "size 0x7FF").
const MaxScalarDivisor = 0x7FF

// Result is the solved (shift, scalar, divisor) tuple plus the encoded
// samples (spec.md's "Encoded" channel fields).
type Result struct {
	Shift   int8
	Scalar  uint16
	Divisor uint16
	VEnc    []int32
}

// Solve computes shift/scalar/divisor for a channel whose samples range
// within [vMin, vMax], then encodes vUniform against that tuple. ok is
// false if no (scalar, divisor) pair within MaxScalarDivisor can represent
// the channel — the caller must drop it (spec.md's EncodingFail).
func Solve(vMin, vMax float64, vUniform []float64) (Result, bool) {
	absMax := math.Max(math.Abs(vMin), math.Abs(vMax))

	var shift int
	var scalar, divisor int
	if absMax == 0 {
		shift, scalar, divisor = 9, 1, 1
	} else {
		x := int(math.Floor(math.Log10(absMax / 8)))
		if x < -3 {
			x = -3
		}
		scaleFactor := (8 * math.Pow(10, float64(x))) / absMax
		shift = 6 - x

		var ok bool
		scalar, divisor, ok = bestRational(scaleFactor, MaxScalarDivisor)
		if !ok || scalar > MaxScalarDivisor {
			return Result{}, false
		}
	}

	vEnc := make([]int32, len(vUniform))
	pow := math.Pow(10, float64(-shift))
	for i, v := range vUniform {
		enc := v / pow / float64(scalar) * float64(divisor)
		vEnc[i] = int32(math.Round(enc))
	}

	return Result{
		Shift:   int8(shift),
		Scalar:  uint16(scalar),
		Divisor: uint16(divisor),
		VEnc:    vEnc,
	}, true
}

// Decode reverses the encoding law: v = v_enc * 10^-shift * scalar / divisor.
func Decode(vEnc int32, shift int8, scalar, divisor uint16) float64 {
	return float64(vEnc) * math.Pow(10, float64(-shift)) * float64(scalar) / float64(divisor)
}

// bestRational finds the best rational approximation p/q to x with
// 1 <= q <= maxDenom, via the continued-fraction convergent search
// (spec.md §4.F step 4 / §9: must be deterministic across platforms,
// equivalent to Python's Fraction.limit_denominator).
//
// Negative or non-finite x is rejected (the scale-solver domain only calls
// this with a positive, finite scale factor).
func bestRational(x float64, maxDenom int) (num, den int, ok bool) {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, 0, false
	}

	// Continued-fraction expansion of x, generating successive convergents
	// h_k/k_k, stopping once a convergent's denominator would exceed
	// maxDenom. At that point the best approximation is either the last
	// convergent that fit, or a semiconvergent blending it with the one
	// before — matching Python's Fraction.limit_denominator algorithm.
	p0, q0 := 0, 1 // h_{-2}/k_{-2}: seeds of the standard two-term recurrence
	p1, q1 := 1, 0
	rem := x
	for {
		a := int(math.Floor(rem))
		p2 := a*p1 + p0
		q2 := a*q1 + q0
		if q2 > maxDenom {
			// Try the semiconvergent: largest k such that q0 + k*q1 <= maxDenom.
			if q1 > 0 {
				k := (maxDenom - q0) / q1
				if k >= 1 {
					semiP := k*p1 + p0
					semiQ := k*q1 + q0
					// Compare semiconvergent vs. the prior convergent (p1/q1)
					// for which is closer to x; pick the closer (ties favor
					// the convergent already examined, i.e. semiconvergent
					// only wins on strictly smaller error).
					if math.Abs(float64(semiP)/float64(semiQ)-x) < math.Abs(float64(p1)/float64(q1)-x) {
						return normalize(semiP, semiQ)
					}
				}
			}
			return normalize(p1, q1)
		}
		p0, q0 = p1, q1
		p1, q1 = p2, q2
		frac := rem - float64(a)
		if frac < 1e-12 {
			break
		}
		rem = 1 / frac
		if q1 == maxDenom { // denominator at the limit: no later convergent can fit
			break
		}
	}
	return normalize(p1, q1)
}

func normalize(p, q int) (int, int, bool) {
	if q <= 0 {
		return 0, 0, false
	}
	if q > MaxScalarDivisorSentinel {
		return 0, 0, false
	}
	return p, q, true
}

// MaxScalarDivisorSentinel bounds denominators considered by bestRational;
// callers pass MaxScalarDivisor as maxDenom, so a denominator can never
// legitimately exceed it once normalize runs — this is a defensive ceiling
// against a runaway continued-fraction expansion on pathological input.
const MaxScalarDivisorSentinel = 1 << 30
