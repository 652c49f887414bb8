// Package resample synthesizes a uniform time axis for a channel's raw
// samples (spec.md §4.E).
//
// A nearest-past ("last-known-at-or-before") resampler is used rather than
// linear interpolation: CAN-derived signals are frequently step-like
// (switch states, gear number, fault flags), and lerp would invent
// intermediate values that were never actually observed. This mirrors one
// of two competing implementations in the original source; spec.md §9
// fixes on this one deliberately — do not switch to lerp.
package resample

import "github.com/gopher-motorsports/gopher-vision/internal/channel"

// Resample fills ch's DeltaMS/FreqHz/SampleCount/TUniform/VUniform fields
// from its raw Points. ch.Points must already be sorted by t (Store.Finalize
// guarantees this) and ch.NPoints must be > 0.
func Resample(ch *channel.Channel) {
	delta := chooseDelta(ch)
	ch.DeltaMS = delta
	ch.FreqHz = uint16(1000 / uint32(delta))

	sampleCount := int(ch.TMax) / int(delta)
	ch.SampleCount = sampleCount

	tUniform := make([]float64, sampleCount)
	vUniform := make([]float64, sampleCount)
	j := 0
	for i := 0; i < sampleCount; i++ {
		t := float64(i) * float64(delta)
		tUniform[i] = t
		for j+1 < ch.NPoints && t >= ch.Points[j+1].T {
			j++
		}
		vUniform[i] = ch.Points[j].V
	}
	ch.TUniform = tUniform
	ch.VUniform = vUniform
}

// chooseDelta picks delta_ms per spec.md §4.E steps 1-3.
func chooseDelta(ch *channel.Channel) uint16 {
	if ch.NPoints == 1 {
		return 1000
	}

	counts := make(map[int]int)
	for i := 1; i < ch.NPoints; i++ {
		d := int(ch.Points[i].T - ch.Points[i-1].T)
		if d >= 1 && d <= 100 {
			counts[d]++
		}
	}

	var delta int
	if len(counts) == 0 {
		delta = 100
	} else {
		best, bestCount := 0, -1
		for d, c := range counts {
			if c > bestCount || (c == bestCount && d < best) {
				best, bestCount = d, c
			}
		}
		delta = best
	}

	for 1000%delta != 0 {
		delta++
	}
	return uint16(delta)
}
