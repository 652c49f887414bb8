package ldformat

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gopher-motorsports/gopher-vision/internal/logging"
)

// ErrFormat signals a pointer chain leading outside the file or a magic
// constant mismatch (spec.md §7 FormatError). The caller may still receive
// a partial Result where spec.md requires a best-effort return.
var ErrFormat = errors.New("ldformat: malformed ld file")

// Result is the outcome of reading an LD file: the session metadata plus
// every channel reached by walking the channel-meta linked list.
type Result struct {
	Session  Session
	Channels []Channel
}

// Read parses an LD file fully into memory (reference files are small
// enough that streaming isn't warranted) and reconstructs every channel's
// metadata and encoded samples; Channel.Value converts a sample to its
// physical value.
func Read(r io.Reader) (Result, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("ldformat: read: %w", err)
	}
	if len(buf) < HeaderSize {
		return Result{}, fmt.Errorf("%w: file shorter than header", ErrFormat)
	}

	hdr := buf[:HeaderSize]
	if getU64(hdr, hdrSOF) != hdrSOFValue {
		return Result{}, fmt.Errorf("%w: bad header sof", ErrFormat)
	}
	metaPtr := getU32(hdr, hdrMetaPtr)
	dataPtr := getU32(hdr, hdrDataPtr)
	eventPtr := getU32(hdr, hdrEventPtr)
	numChannels := getU16(hdr, hdrNumChannels)

	sess := Session{
		Driver:       getString(hdr, hdrDriver, 64),
		VehicleID:    getString(hdr, hdrVehicleID, 64),
		EngineID:     getString(hdr, hdrEngineID, 64),
		Venue:        getString(hdr, hdrVenue, 64),
		SessionName:  getString(hdr, hdrSession, 64),
		ShortComment: getString(hdr, hdrShortComment, 64),
		Team:         getString(hdr, hdrTeam, 32),
	}
	if err := boundsCheck(buf, eventPtr, EventSize); err != nil {
		return Result{Session: sess}, err
	}
	evt := buf[eventPtr : eventPtr+EventSize]
	sess.Event = getString(evt, evtEvent, 64)
	sess.SessionName = getString(evt, evtSession, 64)
	sess.LongComment = getString(evt, evtLongComment, 1024)
	venuePtr := getU32(evt, evtVenuePtr)
	weatherPtr := getU32(evt, evtWeatherPtr)

	if err := boundsCheck(buf, venuePtr, VenueSize); err != nil {
		return Result{Session: sess}, err
	}
	ven := buf[venuePtr : venuePtr+VenueSize]
	sess.Venue = getString(ven, venVenue, 64)
	sess.VenueLengthMM = getU32(ven, venLengthMM)
	sess.VenueCategory = getString(ven, venCategory, 32)
	vehiclePtr := getU32(ven, venVehiclePtr)

	if err := boundsCheck(buf, vehiclePtr, VehicleSize); err != nil {
		return Result{Session: sess}, err
	}
	veh := buf[vehiclePtr : vehiclePtr+VehicleSize]
	sess.VehicleID = getString(veh, vehVehicleID, 64)
	sess.VehicleDesc = getString(veh, vehVehicleDesc, 64)
	sess.EngineID = getString(veh, vehEngineID, 64)
	sess.VehicleWeightKG = getU16(veh, vehWeightKG)
	sess.FuelTankDL = getU16(veh, vehFuelTankDL)
	sess.VehicleType = getString(veh, vehVehicleType, 32)
	sess.DriverType = getString(veh, vehDriverType, 32)
	sess.DiffRatio = getU16(veh, vehDiffRatio)
	for i := range sess.Gears {
		sess.Gears[i] = getU16(veh, vehGear1+i*2)
	}
	sess.TrackMM = getU16(veh, vehTrackMM)
	sess.WheelbaseMM = getU32(veh, vehWheelbaseMM)
	sess.VehicleComment = getString(veh, vehComment, 1024)
	sess.VehicleNumber = getString(veh, vehNumber, 32)

	if err := boundsCheck(buf, weatherPtr, WeatherSize); err != nil {
		return Result{Session: sess}, err
	}
	wth := buf[weatherPtr : weatherPtr+WeatherSize]
	sess.Weather = Weather{
		Sky:            getString(wth, wthSky, 64),
		AirTemp:        getString(wth, wthAirTemp, 16),
		AirTempUnit:    getString(wth, wthAirTempUnit, 8),
		TrackTemp:      getString(wth, wthTrackTemp, 16),
		TrackTempUnit:  getString(wth, wthTrackTempUnit, 8),
		Pressure:       getString(wth, wthPressure, 16),
		PressureUnit:   getString(wth, wthPressureUnit, 8),
		Humidity:       getString(wth, wthHumidity, 16),
		HumidityUnit:   getString(wth, wthHumidityUnit, 8),
		WindSpeed:      getString(wth, wthWindSpeed, 16),
		WindSpeedUnit:  getString(wth, wthWindSpeedUnit, 8),
		WindDirection:  getString(wth, wthWindDirection, 64),
		WeatherComment: getString(wth, wthComment, 1024),
	}

	channels, err := walkChannelList(buf, metaPtr, dataPtr)
	if err != nil {
		return Result{Session: sess, Channels: channels}, err
	}
	if len(channels) != int(numChannels) {
		logging.L().Warn("ld_channel_count_mismatch", "header_count", numChannels, "found", len(channels))
	}
	return Result{Session: sess, Channels: channels}, nil
}

func walkChannelList(buf []byte, metaPtr, _ uint32) ([]Channel, error) {
	seen := make(map[string]bool)
	var channels []Channel

	ptr := metaPtr
	for ptr != 0 {
		if err := boundsCheck(buf, ptr, ChanMetaSize); err != nil {
			return channels, err
		}
		cm := buf[ptr : ptr+ChanMetaSize]
		if getU32(cm, cmMagic1) != ChanMagic1 {
			return channels, fmt.Errorf("%w: channel meta at %#x has bad magic", ErrFormat, ptr)
		}
		name := getString(cm, cmName, 32)
		if seen[name] {
			logging.L().Warn("ld_duplicate_channel", "name", name)
			ptr = getU32(cm, cmNextPtr)
			continue
		}
		seen[name] = true

		sampleCount := getU32(cm, cmSampleCount)
		size := getU16(cm, cmSize)
		dataPtr := getU32(cm, cmDataPtr)
		samples, err := readSamples(buf, dataPtr, int(sampleCount), int(size))
		if err != nil {
			return channels, err
		}

		channels = append(channels, Channel{
			Name:       name,
			ShortName:  getString(cm, cmShortName, 8),
			Unit:       getString(cm, cmUnit, 12),
			SampleRate: getU16(cm, cmSampleRate),
			Offset:     getI16(cm, cmOffset),
			Scalar:     getI16(cm, cmScalar),
			Divisor:    getI16(cm, cmDivisor),
			Shift:      getI16(cm, cmShift),
			Samples:    samples,
		})

		ptr = getU32(cm, cmNextPtr)
	}
	return channels, nil
}

func readSamples(buf []byte, ptr uint32, count, size int) ([]int32, error) {
	if size != ChanSampleSize {
		return nil, fmt.Errorf("%w: unsupported sample size %d", ErrFormat, size)
	}
	want := uint32(count * size)
	if err := boundsCheck(buf, ptr, int(want)); err != nil {
		return nil, err
	}
	out := make([]int32, count)
	region := buf[ptr : ptr+want]
	for i := 0; i < count; i++ {
		out[i] = getI32(region, i*size)
	}
	return out, nil
}

func boundsCheck(buf []byte, ptr uint32, size int) error {
	if size < 0 || int(ptr)+size > len(buf) || int(ptr) < 0 {
		return fmt.Errorf("%w: pointer %#x+%d exceeds file length %d", ErrFormat, ptr, size, len(buf))
	}
	return nil
}

// decodeSample reverses the writer's encoding law (spec.md §4.H step 4).
func decodeSample(vEnc int32, shift, scalar, divisor int16) float64 {
	return float64(vEnc) * math.Pow(10, float64(-shift)) * float64(scalar) / float64(divisor)
}
