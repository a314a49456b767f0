package register

// DefaultAddress is the 7-bit I²C address the module answers on out of reset.
const DefaultAddress uint16 = 0x48

// Register addresses. They are fixed by the module firmware.
const (
	RegVersion   uint8 = 0x00
	RegDeviceID3 uint8 = 0x01 // most significant byte
	RegDeviceID2 uint8 = 0x02
	RegDeviceID1 uint8 = 0x03
	RegDeviceID0 uint8 = 0x04 // least significant byte
	RegScratch   uint8 = 0x05
	RegControl   uint8 = 0x06
	RegTavgHigh  uint8 = 0x07
	RegTavgLow   uint8 = 0x08
	RegReset     uint8 = 0x09
	RegDecibel   uint8 = 0x0A
	RegMax       uint8 = 0x0C
	RegMin       uint8 = 0x0D

	// RegGain only exists on modules with an external microphone.
	RegGain uint8 = 0x0F
)

// DeviceIDLen is the number of ID registers, read as one block from RegDeviceID3.
const DeviceIDLen = 4

// Register defaults after power-on or a system reset.
const (
	ControlDefault uint8  = 0b0000_0010
	ResetDefault   uint8  = 0b0000_0000
	TavgDefault    uint16 = 1000
)

// Published firmware versions reported by RegVersion.
const (
	// VersionMEMSLTS is the base feature set.
	VersionMEMSLTS uint8 = 0x31

	// VersionMEMSLTSASA adds the audio spectrum analyzer.
	// Some production units report 0x33 instead.
	VersionMEMSLTSASA uint8 = 0x32
)

// MaxGain is the largest documented GAIN value (95 steps of 0.5 dB).
// The driver does not enforce it.
const MaxGain uint8 = 95

// Name returns a short name for a register address, or "" if unknown.
func Name(reg uint8) string {
	switch reg {
	case RegVersion:
		return "VERSION"
	case RegDeviceID3:
		return "ID3"
	case RegDeviceID2:
		return "ID2"
	case RegDeviceID1:
		return "ID1"
	case RegDeviceID0:
		return "ID0"
	case RegScratch:
		return "SCRATCH"
	case RegControl:
		return "CONTROL"
	case RegTavgHigh:
		return "TAVG_HIGH"
	case RegTavgLow:
		return "TAVG_LOW"
	case RegReset:
		return "RESET"
	case RegDecibel:
		return "DECIBEL"
	case RegMax:
		return "MAX"
	case RegMin:
		return "MIN"
	case RegGain:
		return "GAIN"
	default:
		return ""
	}
}
