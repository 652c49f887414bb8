package scale

import (
	"math"
	"testing"
)

func TestSolveScenarioS4(t *testing.T) {
	res, ok := Solve(-3275, 3275, []float64{3275})
	if !ok {
		t.Fatal("Solve() failed, want success for abs_max=3275")
	}
	if res.Shift != 4 {
		t.Fatalf("Shift = %d, want 4", res.Shift)
	}
	if res.Scalar > MaxScalarDivisor || res.Divisor > MaxScalarDivisor {
		t.Fatalf("scalar/divisor = %d/%d exceed %#x", res.Scalar, res.Divisor, MaxScalarDivisor)
	}

	got := Decode(res.VEnc[0], res.Shift, res.Scalar, res.Divisor)
	relErr := math.Abs(got-3275) / 3275
	if relErr > 0.10 {
		t.Fatalf("relative error = %v, want <= 0.10 (decoded %v)", relErr, got)
	}
}

func TestSolveZeroRangeUsesFixedTuple(t *testing.T) {
	res, ok := Solve(0, 0, []float64{0, 0})
	if !ok {
		t.Fatal("Solve() failed for an all-zero channel")
	}
	if res.Shift != 9 || res.Scalar != 1 || res.Divisor != 1 {
		t.Fatalf("got (%d,%d,%d), want (9,1,1)", res.Shift, res.Scalar, res.Divisor)
	}
}

func TestSolveRoundTripWithinErrorBudget(t *testing.T) {
	samples := []float64{-50.25, -10, 0, 10, 25.5, 50}
	res, ok := Solve(-50.25, 50, samples)
	if !ok {
		t.Fatal("Solve() failed")
	}
	for i, v := range samples {
		got := Decode(res.VEnc[i], res.Shift, res.Scalar, res.Divisor)
		eps := 1e-9
		denom := math.Max(math.Abs(v), eps)
		relErr := math.Abs(got-v) / denom
		if relErr > 0.10 {
			t.Fatalf("sample %d: v=%v decoded=%v relErr=%v exceeds 0.10", i, v, got, relErr)
		}
	}
}

func TestSolveEncodedFitsInt32(t *testing.T) {
	res, ok := Solve(-2e6, 2e6, []float64{2e6, -2e6})
	if !ok {
		t.Fatal("Solve() failed for a large-magnitude channel")
	}
	for _, v := range res.VEnc {
		if v > math.MaxInt32-1 || v < math.MinInt32+1 {
			t.Fatalf("encoded value %d overflows the i32 budget", v)
		}
	}
}

func TestBestRationalBoundsDenominator(t *testing.T) {
	num, den, ok := bestRational(0.24427, MaxScalarDivisor)
	if !ok {
		t.Fatal("bestRational() failed")
	}
	if den > MaxScalarDivisor || num > MaxScalarDivisor {
		t.Fatalf("num/den = %d/%d, want both <= %#x", num, den, MaxScalarDivisor)
	}
	approx := float64(num) / float64(den)
	if math.Abs(approx-0.24427) > 0.01 {
		t.Fatalf("approximation %v too far from 0.24427", approx)
	}
}
