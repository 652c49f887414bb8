// Package channel is the channel store (spec.md §4.D): a per-parameter-id
// ordered set of raw (t, v) samples plus derived statistics, and a
// single-writer/multi-reader latest-value view for live operation.
//
// Per spec.md §9's design note, one Channel record owns its raw, resampled,
// and encoded arrays contiguously instead of the source's dictionary-of-
// parallel-arrays representation — there's one struct per id, not three
// scratch slices keyed by the same id.
package channel

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gopher-motorsports/gopher-vision/internal/decode"
	"github.com/gopher-motorsports/gopher-vision/internal/schema"
)

// Channel owns one parameter id's full lifecycle: raw samples as they
// arrive, the uniform-time-axis resampling of them, and the fixed-point
// encoding of that resampling. Resampled and Encoded are populated by
// internal/resample and internal/scale respectively; Channel itself only
// owns storage and the raw-sample statistics.
type Channel struct {
	Param schema.Parameter

	// Raw, insertion-ordered until Finalize sorts it.
	Points []Sample
	NPoints int
	TMin, TMax float64
	VMin, VMax float64

	// Resampled: populated by internal/resample.
	DeltaMS     uint16
	FreqHz      uint16
	SampleCount int
	TUniform    []float64
	VUniform    []float64

	// Encoded: populated by internal/scale.
	VEnc    []int32
	Shift   int8
	Scalar  uint16
	Divisor uint16
	Offset  int16
}

// Sample is a raw (t, v) point as appended from a decoded packet.
type Sample struct {
	T float64
	V float64
}

// Store maps parameter id to Channel, and separately exposes a lock-free
// latest-value view for live consumers (spec.md §4.B/§5: the live map is
// single-writer/multi-reader and deliberately avoids locking the sample
// arrays).
type Store struct {
	mu       sync.Mutex
	channels map[uint16]*building

	latest sync.Map // uint16 -> *uint64 (math.Float64bits of the value)
}

// building accumulates a channel's raw points before Finalize sorts and
// summarizes them into an immutable Channel.
type building struct {
	param  schema.Parameter
	points []Sample
}

// New returns an empty Store.
func New() *Store {
	return &Store{channels: make(map[uint16]*building)}
}

// Append records one decoded sample, amortized O(1), and updates the
// latest-value view for live readers. Insertion order is preserved for a
// stable sort in Finalize.
func (s *Store) Append(sch *schema.Schema, sm decode.Sample) {
	p, ok := sch.Lookup(sm.ID)
	if !ok {
		return
	}
	s.mu.Lock()
	b, ok := s.channels[sm.ID]
	if !ok {
		b = &building{param: p}
		s.channels[sm.ID] = b
	}
	b.points = append(b.points, Sample{T: float64(sm.T), V: sm.V})
	s.mu.Unlock()

	s.setLatest(sm.ID, sm.V)
}

// Latest returns the most recently appended value for id, for live use.
func (s *Store) Latest(id uint16) (float64, bool) {
	v, ok := s.latest.Load(id)
	if !ok {
		return 0, false
	}
	return loadFloat(v.(*uint64)), true
}

// LatestAll returns a snapshot of every id's latest value.
func (s *Store) LatestAll() map[uint16]float64 {
	out := make(map[uint16]float64)
	s.latest.Range(func(k, v any) bool {
		out[k.(uint16)] = loadFloat(v.(*uint64))
		return true
	})
	return out
}

func (s *Store) setLatest(id uint16, v float64) {
	slot, _ := s.latest.LoadOrStore(id, new(uint64))
	storeFloat(slot.(*uint64), v)
}

func storeFloat(slot *uint64, v float64) { atomic.StoreUint64(slot, math.Float64bits(v)) }
func loadFloat(slot *uint64) float64     { return math.Float64frombits(atomic.LoadUint64(slot)) }

// Finalize stably sorts each channel's points by timestamp, computes
// (t_min, t_max, v_min, v_max, n_points), and drops channels with zero
// points. It returns the finalized channels in ascending parameter-id
// order (a stable, deterministic write order for the LD writer).
func (s *Store) Finalize() []*Channel {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint16, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*Channel, 0, len(ids))
	for _, id := range ids {
		b := s.channels[id]
		if len(b.points) == 0 {
			continue
		}
		sort.SliceStable(b.points, func(i, j int) bool { return b.points[i].T < b.points[j].T })
		ch := &Channel{
			Param:   b.param,
			Points:  b.points,
			NPoints: len(b.points),
			TMin:    b.points[0].T,
			TMax:    b.points[len(b.points)-1].T,
		}
		ch.VMin, ch.VMax = b.points[0].V, b.points[0].V
		for _, pt := range b.points {
			if pt.V < ch.VMin {
				ch.VMin = pt.V
			}
			if pt.V > ch.VMax {
				ch.VMax = pt.V
			}
		}
		out = append(out, ch)
	}
	return out
}
