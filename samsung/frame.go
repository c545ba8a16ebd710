package samsung

import (
	"errors"
	"fmt"
)

/*
<start> <src> <dst> <cmd> <data: 8 bytes> <chksum> <end>

The start marker is read separately, so a received message is the 13 bytes
from src to end. Checksum is the XOR of src, dst, cmd and the data bytes.
*/
const (
	MessageStart = 0x32
	MessageEnd   = 0x34

	// AddressWallRemote is the wired wall remote, which is also the address
	// we pretend to be when sending.
	AddressWallRemote = 0x84
	AddressUnit       = 0x20
	// AddressPauseMark is used as destination right before ~300ms of silence
	// on the bus. That silence is the only moment we may transmit.
	AddressPauseMark = 0xad

	CommandSet        = 0xa0
	CommandStatus     = 0x52
	CommandStatusMode = 0x53

	MessageLength = 13
	checksumRange = 11

	swingOff        = 0x1f
	setConstant     = 0x18
	temperatureMask = 0x1f
)

var (
	ErrTruncatedFrame   = errors.New("truncated frame")
	ErrInvalidEnd       = errors.New("invalid end marker")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

type Frame struct {
	Source      byte
	Destination byte
	Command     byte
	Data        [8]byte
	Checksum    byte
}

// Change describes a single field of the device state that changed while
// interpreting a status frame.
type Change struct {
	Field string
	Value string
}

// Checksum XORs the first 11 bytes of a message that has its start marker
// stripped.
func Checksum(message []byte) byte {
	var checksum byte
	for _, b := range message[:checksumRange] {
		checksum ^= b
	}

	return checksum
}

func DecodeStatusFrame(raw []byte) (Frame, error) {
	if len(raw) < MessageLength {
		return Frame{}, fmt.Errorf("%w: %d of %d bytes", ErrTruncatedFrame, len(raw), MessageLength)
	}

	if raw[12] != MessageEnd {
		return Frame{}, fmt.Errorf("%w: %#02x", ErrInvalidEnd, raw[12])
	}

	if expected := Checksum(raw); raw[11] != expected {
		return Frame{}, fmt.Errorf("%w: expected %02X found %02X", ErrChecksumMismatch, expected, raw[11])
	}

	frame := Frame{
		Source:      raw[0],
		Destination: raw[1],
		Command:     raw[2],
		Checksum:    raw[11],
	}
	copy(frame.Data[:], raw[3:11])

	return frame, nil
}

// Bytes returns the 13 byte message without start marker.
func (f Frame) Bytes() []byte {
	message := make([]byte, MessageLength)
	message[0] = f.Source
	message[1] = f.Destination
	message[2] = f.Command
	copy(message[3:11], f.Data[:])
	message[11] = f.Checksum
	message[12] = MessageEnd

	return message
}

// Wire returns the frame as it goes on the bus, start marker included.
func (f Frame) Wire() []byte {
	return append([]byte{MessageStart}, f.Bytes()...)
}

// InterpretStatusFrame returns the state after applying a status frame sent by
// the unit on top of prior, together with the fields that actually changed.
// Frames with other commands leave the state untouched.
func InterpretStatusFrame(frame Frame, prior DeviceState) (DeviceState, []Change) {
	next := prior
	var changes []Change

	switch frame.Command {
	case CommandStatusMode:
		// Mode is in the last data byte
		if mode, ok := ModeFromByte(frame.Data[7]); ok && mode != prior.Mode {
			next.Mode = mode
			changes = append(changes, Change{Field: "mode", Value: mode.String()})
		}
	case CommandStatus:
		// bits 0-4 of the first data byte hold the set point minus 9
		next.Temperature = (frame.Data[0] & temperatureMask) + 9

		next.Power = PowerOff
		if frame.Data[4]&0x80 != 0 {
			next.Power = PowerOn
		}

		next.FanSpeed = fanFromStatus(frame.Data[3] & 0x0f)

		if next.Temperature != prior.Temperature {
			changes = append(changes, Change{Field: "temperature", Value: fmt.Sprintf("%d", next.Temperature)})
		}
		if next.Power != prior.Power {
			changes = append(changes, Change{Field: "power", Value: next.Power.String()})
		}
		if next.FanSpeed != prior.FanSpeed {
			changes = append(changes, Change{Field: "fan", Value: next.FanSpeed.String()})
		}
	}

	return next, changes
}

// EncodeCommandFrame builds the 14 byte SET frame the wall remote would send
// for state.
func EncodeCommandFrame(state DeviceState) []byte {
	frame := Frame{
		Source:      AddressWallRemote,
		Destination: AddressUnit,
		Command:     CommandSet,
		Data: [8]byte{
			swingOff,
			setConstant,
			// temperature must stay below the fan bits
			state.FanSpeed.Byte() | state.Temperature&temperatureMask,
			state.Mode.Byte(),
			state.Power.Byte(),
		},
	}
	frame.Checksum = Checksum(frame.Bytes())

	return frame.Wire()
}
