// Package ldformat reads and writes the vendor .ld binary container
// (spec.md §6). Every record is little-endian and field-by-field against an
// explicit offset table below — no struct-packing library — so each field's
// offset is self-documenting and independently testable (spec.md §9).
package ldformat

// Region sizes, spec.md §6.
const (
	HeaderSize  = 0x6E4
	EventSize   = 0xC54
	VenueSize   = 0xC1E
	VehicleSize = 0xCF4
	WeatherSize = 0x4F8
	ChanMetaSize = 0x7C
)

// Channel metadata constants, spec.md §4.G/§6.
const (
	ChanMagic1  = 0x0005AA55
	ChanSampleSize = 4 // bytes per encoded sample (i32)
)

// Header field offsets (size 0x6E4).
const (
	hdrSOF          = 0x00 // u64 = 0x40
	hdrMetaPtr      = 0x08 // u32
	hdrDataPtr      = 0x0C // u32
	// 20 bytes reserved at 0x10
	hdrEventPtr     = 0x24 // u32
	// 24 bytes reserved at 0x28
	hdrMagicSeq     = 0x40 // u16 0x0000, u16 0x4240, u16 0x000F
	hdrDeviceSerial = 0x46 // u32 = 21115
	hdrDeviceType   = 0x4A // 8s = "ADL"
	hdrDeviceVer    = 0x52 // u16 = 560
	hdrMagic1       = 0x54 // u16 = 0x0080
	hdrNumChannels  = 0x56 // u16
	hdrNumChannels2 = 0x58 // u16
	hdrMagic2       = 0x5A // u32 = 0x00050014
	hdrDate         = 0x5E // 32s
	hdrTime         = 0x7E // 32s
	hdrDriver       = 0x9E // 64s
	hdrVehicleID    = 0xDE // 64s
	hdrEngineID     = 0x11E // 64s
	hdrVenue        = 0x15E // 64s
	// 1088 bytes reserved at 0x19E
	hdrMagic3       = 0x5DE // u32 = 0x02B09201
	// 2 bytes reserved at 0x5E2
	hdrSession      = 0x5E4 // 64s
	hdrShortComment = 0x624 // 64s
	// 8 bytes reserved at 0x664
	hdrMagic4       = 0x66C // u16 = 0x0045
	// 38 bytes reserved at 0x66E
	hdrTeam         = 0x694 // 32s
	// 46 bytes reserved at 0x6B4
)

const (
	hdrSOFValue          = 0x40
	hdrDeviceSerialValue = 21115
	hdrDeviceVerValue    = 560
	hdrMagic1Value       = 0x0080
	hdrMagic2Value       = 0x00050014
	hdrMagic3Value       = 0x02B09201
	hdrMagic4Value       = 0x0045
)

// Event field offsets (size 0xC54).
const (
	evtEvent       = 0x00 // 64s
	evtSession     = 0x40 // 64s
	evtLongComment = 0x80 // 1024s
	evtVenuePtr    = 0x480 // u32
	evtWeatherPtr  = 0x484 // u32
	// 1996 bytes reserved at 0x488
)

// Venue field offsets (size 0xC1E).
const (
	venVenue       = 0x00 // 64s
	// 2 bytes reserved at 0x40
	venLengthMM    = 0x42 // u32
	// 1028 bytes reserved at 0x46
	venVehiclePtr  = 0x44A // u32
	venCategory    = 0x44E // 32s
	// 1968 bytes reserved at 0x46E
)

// Vehicle field offsets (size 0xCF4).
const (
	vehVehicleID   = 0x00  // 64s
	vehVehicleDesc = 0x40  // 64s
	vehEngineID    = 0x80  // 64s
	vehWeightKG    = 0xC0  // u16
	vehFuelTankDL  = 0xC2  // u16
	vehVehicleType = 0xC4  // 32s
	vehDriverType  = 0xE4  // 32s
	vehDiffRatio   = 0x104 // u16
	vehGear1       = 0x106 // u16 × 10 (gear1..gear10)
	vehTrackMM     = 0x11A // u16
	vehWheelbaseMM = 0x11C // u32
	vehComment     = 0x120 // 1024s
	// 4 bytes reserved at 0x520
	vehNumber      = 0x524 // 32s
	// 1968 bytes reserved at 0x544
)

// Weather field offsets (size 0x4F8).
const (
	wthSky           = 0x00  // 64s
	wthAirTemp       = 0x40  // 16s
	wthAirTempUnit   = 0x50  // 8s
	wthTrackTemp     = 0x58  // 16s
	wthTrackTempUnit = 0x68  // 8s
	wthPressure      = 0x70  // 16s
	wthPressureUnit  = 0x80  // 8s
	wthHumidity      = 0x88  // 16s
	wthHumidityUnit  = 0x98  // 8s
	wthWindSpeed     = 0xA0  // 16s
	wthWindSpeedUnit = 0xB0  // 8s
	wthWindDirection = 0xB8  // 64s
	wthComment       = 0xF8  // 1024s
	// the comment field ends at 0x4F8 (= WeatherSize); no reserved tail fits
)

// Channel metadata field offsets (size 0x7C).
const (
	cmPrevPtr     = 0x00 // u32
	cmNextPtr     = 0x04 // u32
	cmDataPtr     = 0x08 // u32
	cmSampleCount = 0x0C // u32
	cmMagic1      = 0x10 // u32 = 0x0005AA55
	cmSize        = 0x14 // u16 = 4
	cmSampleRate  = 0x16 // u16
	cmOffset      = 0x18 // i16
	cmScalar      = 0x1A // i16
	cmDivisor     = 0x1C // i16
	cmShift       = 0x1E // i16
	cmName        = 0x20 // 32s
	cmShortName   = 0x40 // 8s
	cmUnit        = 0x48 // 12s
	// 40 bytes reserved at 0x54
)
