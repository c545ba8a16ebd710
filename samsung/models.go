package samsung

import "fmt"

type Power int

const (
	PowerUnknown Power = iota
	PowerOn
	PowerOff
)

type Mode int

const (
	ModeUnknown Mode = iota
	ModeAuto
	ModeCool
	ModeDry
	ModeFan
	ModeHeat
)

type FanSpeed int

const (
	FanUnknown FanSpeed = iota
	FanAuto
	FanMin
	FanMid
	FanMax
)

// Set point range a request may ask for. The SET frame has five temperature
// bits, and 0 stands for unknown.
const (
	MinTemperature = 1
	MaxTemperature = 31
)

// DeviceState is either the last state observed on the bus or a desired state
// waiting in the command queue. The zero value is all unknown.
type DeviceState struct {
	Power       Power
	Mode        Mode
	FanSpeed    FanSpeed
	Temperature uint8
}

func (s DeviceState) String() string {
	return fmt.Sprintf("power=%v mode=%v fan=%v temp=%d", s.Power, s.Mode, s.FanSpeed, s.Temperature)
}

// Byte returns the value the unit expects in the power byte of a SET frame.
func (p Power) Byte() byte {
	switch p {
	case PowerOn:
		return 0xf4
	case PowerOff:
		return 0xc4
	default:
		return 0x00
	}
}

func (p Power) String() string {
	switch p {
	case PowerOn:
		return "on"
	case PowerOff:
		return "off"
	default:
		return "???"
	}
}

func ParsePower(s string) (Power, error) {
	switch s {
	case "on":
		return PowerOn, nil
	case "off":
		return PowerOff, nil
	}

	return PowerUnknown, fmt.Errorf("invalid power %q", s)
}

// Byte returns the raw mode value. Unknown has no wire value of its own and
// is sent as 0xff, which the unit ignores.
func (m Mode) Byte() byte {
	switch m {
	case ModeAuto:
		return 0
	case ModeCool:
		return 1
	case ModeDry:
		return 2
	case ModeFan:
		return 3
	case ModeHeat:
		return 4
	default:
		return 0xff
	}
}

// ModeFromByte maps the mode byte of a 0x53 status frame. Values above 4 are
// not modes.
func ModeFromByte(b byte) (Mode, bool) {
	switch b {
	case 0:
		return ModeAuto, true
	case 1:
		return ModeCool, true
	case 2:
		return ModeDry, true
	case 3:
		return ModeFan, true
	case 4:
		return ModeHeat, true
	}

	return ModeUnknown, false
}

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeCool:
		return "cool"
	case ModeDry:
		return "dry"
	case ModeFan:
		return "fan"
	case ModeHeat:
		return "heat"
	default:
		return "???"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto":
		return ModeAuto, nil
	case "cool":
		return ModeCool, nil
	case "dry":
		return ModeDry, nil
	case "fan":
		return ModeFan, nil
	case "heat":
		return ModeHeat, nil
	}

	return ModeUnknown, fmt.Errorf("invalid mode %q", s)
}

// Byte returns the fan bit pattern. It occupies bits 5-7 of the
// fan/temperature byte of a SET frame.
func (f FanSpeed) Byte() byte {
	switch f {
	case FanAuto:
		return 0b0010_0000
	case FanMin:
		return 0b0100_0000
	case FanMid:
		return 0b1000_0000
	case FanMax:
		return 0b1010_0000
	default:
		return 0
	}
}

// fanFromStatus maps the low nibble of data byte 3 of a 0x52 status frame.
func fanFromStatus(nibble byte) FanSpeed {
	switch nibble {
	case 0x0a:
		return FanMin
	case 0x0c:
		return FanMid
	case 0x0d:
		return FanMax
	default:
		return FanAuto
	}
}

func (f FanSpeed) String() string {
	switch f {
	case FanAuto:
		return "auto"
	case FanMin:
		return "min"
	case FanMid:
		return "mid"
	case FanMax:
		return "max"
	default:
		return "???"
	}
}

func ParseFanSpeed(s string) (FanSpeed, error) {
	switch s {
	case "auto":
		return FanAuto, nil
	case "min":
		return FanMin, nil
	case "mid":
		return FanMid, nil
	case "max":
		return FanMax, nil
	}

	return FanUnknown, fmt.Errorf("invalid fan speed %q", s)
}
