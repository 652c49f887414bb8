package resample

import (
	"testing"

	"github.com/gopher-motorsports/gopher-vision/internal/channel"
)

func chanFromPoints(pts []channel.Sample) *channel.Channel {
	ch := &channel.Channel{Points: pts, NPoints: len(pts)}
	ch.TMin, ch.TMax = pts[0].T, pts[len(pts)-1].T
	ch.VMin, ch.VMax = pts[0].V, pts[0].V
	for _, p := range pts {
		if p.V < ch.VMin {
			ch.VMin = p.V
		}
		if p.V > ch.VMax {
			ch.VMax = p.V
		}
	}
	return ch
}

func TestResampleScenarioS2(t *testing.T) {
	ch := chanFromPoints([]channel.Sample{
		{T: 0, V: 10}, {T: 10, V: 11}, {T: 20, V: 12}, {T: 30, V: 13},
	})
	Resample(ch)

	if ch.DeltaMS != 10 {
		t.Fatalf("DeltaMS = %d, want 10", ch.DeltaMS)
	}
	if ch.FreqHz != 100 {
		t.Fatalf("FreqHz = %d, want 100", ch.FreqHz)
	}
	if ch.SampleCount != 3 {
		t.Fatalf("SampleCount = %d, want 3", ch.SampleCount)
	}
	wantT := []float64{0, 10, 20}
	wantV := []float64{10, 11, 12}
	for i := range wantT {
		if ch.TUniform[i] != wantT[i] || ch.VUniform[i] != wantV[i] {
			t.Fatalf("tick %d = (%v,%v), want (%v,%v)", i, ch.TUniform[i], ch.VUniform[i], wantT[i], wantV[i])
		}
	}
}

func TestResampleScenarioS3RoundsUpToDivisorOf1000(t *testing.T) {
	ch := chanFromPoints([]channel.Sample{
		{T: 0, V: 1}, {T: 7, V: 2}, {T: 14, V: 3}, {T: 21, V: 4},
	})
	Resample(ch)

	if ch.DeltaMS != 8 {
		t.Fatalf("DeltaMS = %d, want 8 (7 rounds up to the next divisor of 1000)", ch.DeltaMS)
	}
	if ch.FreqHz != 125 {
		t.Fatalf("FreqHz = %d, want 125", ch.FreqHz)
	}
}

func TestResampleSinglePointUsesOneHertzDefault(t *testing.T) {
	ch := chanFromPoints([]channel.Sample{{T: 0, V: 42}})
	Resample(ch)

	if ch.DeltaMS != 1000 || ch.FreqHz != 1 {
		t.Fatalf("DeltaMS/FreqHz = %d/%d, want 1000/1", ch.DeltaMS, ch.FreqHz)
	}
}

func TestResampleUsesNearestPastBeforeFirstSample(t *testing.T) {
	ch := chanFromPoints([]channel.Sample{{T: 5, V: 9}, {T: 15, V: 11}})
	Resample(ch)
	if ch.VUniform[0] != 9 {
		t.Fatalf("tick 0 = %v, want 9 (boundary policy: use points[0].v)", ch.VUniform[0])
	}
}
