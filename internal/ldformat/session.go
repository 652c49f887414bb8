package ldformat

import "time"

// Session carries the vendor-constant-laden placeholder metadata that
// accompanies every LD file (spec.md §3: "non-semantic placeholders"). Zero
// values are valid and are written as-is (empty strings, zero numbers); the
// only constants Write adds are the format's fixed magic values.
type Session struct {
	T0 time.Time

	Driver      string
	VehicleID   string
	EngineID    string
	Venue       string
	Team        string
	Event       string
	SessionName string
	ShortComment string
	LongComment string

	VenueLengthMM  uint32
	VenueCategory  string
	VehicleDesc    string
	VehicleWeightKG uint16
	FuelTankDL     uint16
	VehicleType    string
	DriverType     string
	DiffRatio      uint16
	Gears          [10]uint16
	TrackMM        uint16
	WheelbaseMM    uint32
	VehicleComment string
	VehicleNumber  string

	Weather Weather
}

// Weather mirrors the LD weather region's free-text fields; none of them
// are interpreted by this package.
type Weather struct {
	Sky             string
	AirTemp         string
	AirTempUnit     string
	TrackTemp       string
	TrackTempUnit   string
	Pressure        string
	PressureUnit    string
	Humidity        string
	HumidityUnit    string
	WindSpeed       string
	WindSpeedUnit   string
	WindDirection   string
	WeatherComment  string
}

// Channel is one decoded-or-to-be-written channel record: metadata plus its
// i32-encoded samples.
type Channel struct {
	Name      string
	ShortName string
	Unit      string
	SampleRate uint16
	Offset    int16
	Scalar    int16
	Divisor   int16
	Shift     int16
	Samples   []int32
}

// Value reconstructs the physical value of sample i (spec.md §4.H step 4).
func (c *Channel) Value(i int) float64 {
	return decodeSample(c.Samples[i], c.Shift, c.Scalar, c.Divisor)
}
