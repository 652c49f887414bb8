package ldformat

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTripScenarioS6(t *testing.T) {
	sess := Session{
		T0:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Driver:      "J. Gopher",
		VehicleID:   "car-42",
		SessionName: "practice-1",
	}

	mk := func(name string, rate uint16, n int, v0 int32) Channel {
		samples := make([]int32, n)
		for i := range samples {
			samples[i] = v0 + int32(i)
		}
		return Channel{
			Name:       name,
			ShortName:  name[:min(8, len(name))],
			Unit:       "rpm",
			SampleRate: rate,
			Shift:      2,
			Scalar:     1,
			Divisor:    1,
			Samples:    samples,
		}
	}
	channels := []Channel{mk("engine_rpm", 100, 50, 10), mk("wheel_speed", 100, 50, 1000)}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sess, channels))

	result, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, result.Channels, 2)

	for i, want := range channels {
		got := result.Channels[i]
		require.Equal(t, want.Name, got.Name)
		require.Equal(t, want.Unit, got.Unit)
		require.Equal(t, want.SampleRate, got.SampleRate)
		require.Len(t, got.Samples, len(want.Samples))
		for j := range want.Samples {
			wantV := decodeSample(want.Samples[j], want.Shift, want.Scalar, want.Divisor)
			gotV := got.Value(j)
			require.InEpsilon(t, wantV, gotV, 0.10+1e-9, "sample %d of channel %q", j, want.Name)
		}
	}
	require.Equal(t, sess.Driver, result.Session.Driver)
	require.Equal(t, sess.VehicleID, result.Session.VehicleID)
}

func TestPointerLayoutScenarioS5(t *testing.T) {
	ch := Channel{Name: "single", SampleRate: 10, Shift: 0, Scalar: 1, Divisor: 1, Samples: make([]int32, 100)}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Session{}, []Channel{ch}))

	data := buf.Bytes()
	wantMetaPtr := uint32(HeaderSize + EventSize + VenueSize + VehicleSize + WeatherSize)
	gotMetaPtr := getU32(data[:HeaderSize], hdrMetaPtr)
	require.Equal(t, wantMetaPtr, gotMetaPtr)

	wantDataPtr := wantMetaPtr + ChanMetaSize
	gotDataPtr := getU32(data[:HeaderSize], hdrDataPtr)
	require.Equal(t, wantDataPtr, gotDataPtr)

	cm := data[wantMetaPtr : wantMetaPtr+ChanMetaSize]
	require.Equal(t, wantDataPtr, getU32(cm, cmDataPtr))
	require.Equal(t, uint32(0), getU32(cm, cmPrevPtr))
	require.Equal(t, uint32(0), getU32(cm, cmNextPtr))
}

func TestReadRejectsTruncatedFile(t *testing.T) {
	_, err := Read(bytes.NewReader(make([]byte, 10)))
	require.ErrorIs(t, err, ErrFormat)
}
