package ldformat

import (
	"fmt"
	"io"
)

// Write lays out header, event, venue, vehicle, weather, the channel-meta
// linked list, and the packed sample blob in the fixed order of spec.md
// §4.G, and writes the result to w. Channels are written in the order
// given. Write does not reject an empty channel list or a channel with no
// samples; it writes them as given.
func Write(w io.Writer, sess Session, channels []Channel) error {
	n := len(channels)

	eventPtr := uint32(HeaderSize)
	venuePtr := eventPtr + EventSize
	vehiclePtr := venuePtr + VenueSize
	weatherPtr := vehiclePtr + VehicleSize
	metaOffset := weatherPtr + WeatherSize
	dataOffset := metaOffset + uint32(n)*ChanMetaSize

	header := buildHeader(sess, metaOffset, dataOffset, eventPtr, uint16(n))
	event := buildEvent(sess, venuePtr, weatherPtr)
	venue := buildVenue(sess, vehiclePtr)
	vehicle := buildVehicle(sess)
	weather := buildWeather(sess.Weather)

	metas := make([]byte, int(n)*ChanMetaSize)
	dataOff := dataOffset
	for i, ch := range channels {
		base := i * ChanMetaSize
		var prevPtr, nextPtr uint32
		if i > 0 {
			prevPtr = metaOffset + uint32(i-1)*ChanMetaSize
		}
		if i < n-1 {
			nextPtr = metaOffset + uint32(i+1)*ChanMetaSize
		}
		putChannelMeta(metas[base:base+ChanMetaSize], ch, prevPtr, nextPtr, dataOff)
		dataOff += uint32(len(ch.Samples)) * ChanSampleSize
	}

	data := make([]byte, 0, dataOff-dataOffset)
	for _, ch := range channels {
		for _, v := range ch.Samples {
			buf := make([]byte, 4)
			putI32(buf, 0, v)
			data = append(data, buf...)
		}
	}

	for _, chunk := range [][]byte{header, event, venue, vehicle, weather, metas, data} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("ldformat: write: %w", err)
		}
	}
	return nil
}

func buildHeader(sess Session, metaPtr, dataPtr, eventPtr uint32, numChannels uint16) []byte {
	b := make([]byte, HeaderSize)
	putU64(b, hdrSOF, hdrSOFValue)
	putU32(b, hdrMetaPtr, metaPtr)
	putU32(b, hdrDataPtr, dataPtr)
	putU32(b, hdrEventPtr, eventPtr)
	putU16(b, hdrMagicSeq, 0x0000)
	putU16(b, hdrMagicSeq+2, 0x4240)
	putU16(b, hdrMagicSeq+4, 0x000F)
	putU32(b, hdrDeviceSerial, hdrDeviceSerialValue)
	putString(b, hdrDeviceType, 8, "ADL")
	putU16(b, hdrDeviceVer, hdrDeviceVerValue)
	putU16(b, hdrMagic1, hdrMagic1Value)
	putU16(b, hdrNumChannels, numChannels)
	putU16(b, hdrNumChannels2, numChannels)
	putU32(b, hdrMagic2, hdrMagic2Value)
	putString(b, hdrDate, 32, sess.T0.Format("02/01/2006"))
	putString(b, hdrTime, 32, sess.T0.Format("15:04:05"))
	putString(b, hdrDriver, 64, sess.Driver)
	putString(b, hdrVehicleID, 64, sess.VehicleID)
	putString(b, hdrEngineID, 64, sess.EngineID)
	putString(b, hdrVenue, 64, sess.Venue)
	putU32(b, hdrMagic3, hdrMagic3Value)
	putString(b, hdrSession, 64, sess.SessionName)
	putString(b, hdrShortComment, 64, sess.ShortComment)
	putU16(b, hdrMagic4, hdrMagic4Value)
	putString(b, hdrTeam, 32, sess.Team)
	return b
}

func buildEvent(sess Session, venuePtr, weatherPtr uint32) []byte {
	b := make([]byte, EventSize)
	putString(b, evtEvent, 64, sess.Event)
	putString(b, evtSession, 64, sess.SessionName)
	putString(b, evtLongComment, 1024, sess.LongComment)
	putU32(b, evtVenuePtr, venuePtr)
	putU32(b, evtWeatherPtr, weatherPtr)
	return b
}

func buildVenue(sess Session, vehiclePtr uint32) []byte {
	b := make([]byte, VenueSize)
	putString(b, venVenue, 64, sess.Venue)
	putU32(b, venLengthMM, sess.VenueLengthMM)
	putU32(b, venVehiclePtr, vehiclePtr)
	putString(b, venCategory, 32, sess.VenueCategory)
	return b
}

func buildVehicle(sess Session) []byte {
	b := make([]byte, VehicleSize)
	putString(b, vehVehicleID, 64, sess.VehicleID)
	putString(b, vehVehicleDesc, 64, sess.VehicleDesc)
	putString(b, vehEngineID, 64, sess.EngineID)
	putU16(b, vehWeightKG, sess.VehicleWeightKG)
	putU16(b, vehFuelTankDL, sess.FuelTankDL)
	putString(b, vehVehicleType, 32, sess.VehicleType)
	putString(b, vehDriverType, 32, sess.DriverType)
	putU16(b, vehDiffRatio, sess.DiffRatio)
	for i, g := range sess.Gears {
		putU16(b, vehGear1+i*2, g)
	}
	putU16(b, vehTrackMM, sess.TrackMM)
	putU32(b, vehWheelbaseMM, sess.WheelbaseMM)
	putString(b, vehComment, 1024, sess.VehicleComment)
	putString(b, vehNumber, 32, sess.VehicleNumber)
	return b
}

func buildWeather(w Weather) []byte {
	b := make([]byte, WeatherSize)
	putString(b, wthSky, 64, w.Sky)
	putString(b, wthAirTemp, 16, w.AirTemp)
	putString(b, wthAirTempUnit, 8, w.AirTempUnit)
	putString(b, wthTrackTemp, 16, w.TrackTemp)
	putString(b, wthTrackTempUnit, 8, w.TrackTempUnit)
	putString(b, wthPressure, 16, w.Pressure)
	putString(b, wthPressureUnit, 8, w.PressureUnit)
	putString(b, wthHumidity, 16, w.Humidity)
	putString(b, wthHumidityUnit, 8, w.HumidityUnit)
	putString(b, wthWindSpeed, 16, w.WindSpeed)
	putString(b, wthWindSpeedUnit, 8, w.WindSpeedUnit)
	putString(b, wthWindDirection, 64, w.WindDirection)
	putString(b, wthComment, 1024, w.WeatherComment)
	return b
}

func putChannelMeta(b []byte, ch Channel, prevPtr, nextPtr, dataPtr uint32) {
	putU32(b, cmPrevPtr, prevPtr)
	putU32(b, cmNextPtr, nextPtr)
	putU32(b, cmDataPtr, dataPtr)
	putU32(b, cmSampleCount, uint32(len(ch.Samples)))
	putU32(b, cmMagic1, ChanMagic1)
	putU16(b, cmSize, ChanSampleSize)
	putU16(b, cmSampleRate, ch.SampleRate)
	putI16(b, cmOffset, ch.Offset)
	putI16(b, cmScalar, ch.Scalar)
	putI16(b, cmDivisor, ch.Divisor)
	putI16(b, cmShift, ch.Shift)
	putString(b, cmName, 32, ch.Name)
	putString(b, cmShortName, 8, ch.ShortName)
	putString(b, cmUnit, 12, ch.Unit)
}
