package samsung

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusMessage builds a valid 13 byte message, start marker stripped.
func statusMessage(source, destination, command byte, data [8]byte) []byte {
	frame := Frame{
		Source:      source,
		Destination: destination,
		Command:     command,
		Data:        data,
	}
	frame.Checksum = Checksum(frame.Bytes())

	return frame.Bytes()
}

func randomMessage(r *rand.Rand) []byte {
	message := make([]byte, MessageLength)
	for i := range message {
		message[i] = byte(r.UintN(256))
	}

	return message
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		message  []byte
		expected byte
	}{
		{
			name:     "zeroes",
			message:  make([]byte, 11),
			expected: 0x00,
		},
		{
			name:     "single byte",
			message:  []byte{0xaa, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			expected: 0xaa,
		},
		{
			name:     "ignores bytes after index 10",
			message:  []byte{0x20, 0x84, 0x52, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0x34},
			expected: 0x20 ^ 0x84 ^ 0x52,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Checksum(tt.message))
		})
	}
}

func TestDecodeStatusFrame(t *testing.T) {
	raw := statusMessage(AddressUnit, AddressWallRemote, CommandStatus, [8]byte{1, 2, 3, 4, 5, 6, 7, 8})

	frame, err := DecodeStatusFrame(raw)
	require.NoError(t, err)

	assert.Equal(t, byte(AddressUnit), frame.Source)
	assert.Equal(t, byte(AddressWallRemote), frame.Destination)
	assert.Equal(t, byte(CommandStatus), frame.Command)
	assert.Equal(t, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, frame.Data)
	assert.Equal(t, raw[11], frame.Checksum)
}

func TestDecodeStatusFrameTruncated(t *testing.T) {
	raw := statusMessage(AddressUnit, AddressWallRemote, CommandStatus, [8]byte{})

	_, err := DecodeStatusFrame(raw[:7])
	assert.ErrorIs(t, err, ErrTruncatedFrame)
}

func TestDecodeChecksumRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 1000; i++ {
		raw := randomMessage(r)
		raw[11] = Checksum(raw)
		raw[12] = MessageEnd

		frame, err := DecodeStatusFrame(raw)
		require.NoError(t, err, "% X", raw)

		assert.Equal(t, raw[11], Checksum(frame.Bytes()), "% X", raw)
		assert.Equal(t, raw, frame.Bytes())
	}
}

func TestDecodeInvalidEnd(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))

	for i := 0; i < 1000; i++ {
		raw := randomMessage(r)
		if raw[12] == MessageEnd {
			raw[12] ^= 0xff
		}
		// a valid checksum must not matter
		if i%2 == 0 {
			raw[11] = Checksum(raw)
		}

		_, err := DecodeStatusFrame(raw)
		assert.ErrorIs(t, err, ErrInvalidEnd, "% X", raw)
	}
}

func TestDecodeChecksumMismatch(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))

	for i := 0; i < 1000; i++ {
		raw := randomMessage(r)
		raw[12] = MessageEnd
		raw[11] = Checksum(raw) ^ byte(1+r.UintN(255))

		_, err := DecodeStatusFrame(raw)
		assert.ErrorIs(t, err, ErrChecksumMismatch, "% X", raw)
	}
}

func TestInterpretStatus(t *testing.T) {
	// temperature 0x11 + 9, fan nibble 0x0a in data byte 3, power bit clear
	raw := statusMessage(AddressUnit, AddressWallRemote, CommandStatus, [8]byte{0x11, 0x00, 0x00, 0x0a, 0x00})
	frame, err := DecodeStatusFrame(raw)
	require.NoError(t, err)

	state, changes := InterpretStatusFrame(frame, DeviceState{})

	assert.Equal(t, uint8(26), state.Temperature)
	assert.Equal(t, FanMin, state.FanSpeed)
	assert.Equal(t, PowerOff, state.Power)
	assert.Equal(t, ModeUnknown, state.Mode)
	assert.ElementsMatch(t, []Change{
		{Field: "temperature", Value: "26"},
		{Field: "power", Value: "off"},
		{Field: "fan", Value: "min"},
	}, changes)
}

func TestInterpretStatusFields(t *testing.T) {
	tests := []struct {
		name  string
		data  [8]byte
		power Power
		fan   FanSpeed
		temp  uint8
	}{
		{"power on", [8]byte{0x00, 0, 0, 0x00, 0x80}, PowerOn, FanAuto, 9},
		{"power bit with others", [8]byte{0x0f, 0, 0, 0x0c, 0xc4}, PowerOn, FanMid, 24},
		{"fan max", [8]byte{0x1f, 0, 0, 0xfd, 0x00}, PowerOff, FanMax, 40},
		{"high temperature bits ignored", [8]byte{0xe0, 0, 0, 0x0b, 0x00}, PowerOff, FanAuto, 9},
		{"fan nibble at byte 3 only", [8]byte{0x00, 0x0a, 0x0a, 0x00, 0x00}, PowerOff, FanAuto, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := Frame{Source: AddressUnit, Destination: AddressWallRemote, Command: CommandStatus, Data: tt.data}

			state, _ := InterpretStatusFrame(frame, DeviceState{})

			assert.Equal(t, tt.power, state.Power)
			assert.Equal(t, tt.fan, state.FanSpeed)
			assert.Equal(t, tt.temp, state.Temperature)
		})
	}
}

func TestInterpretStatusIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))

	for i := 0; i < 200; i++ {
		frame := Frame{Source: AddressUnit, Destination: AddressWallRemote, Command: CommandStatus}
		for j := range frame.Data {
			frame.Data[j] = byte(r.UintN(256))
		}
		prior := DeviceState{Mode: ModeHeat, Temperature: byte(r.UintN(64))}

		once, _ := InterpretStatusFrame(frame, prior)
		twice, changes := InterpretStatusFrame(frame, once)

		assert.Equal(t, once, twice)
		assert.Empty(t, changes)
	}
}

func TestInterpretStatusUnchangedReportsNothing(t *testing.T) {
	frame := Frame{Command: CommandStatus, Data: [8]byte{0x0f, 0, 0, 0x0d, 0x80}}
	prior := DeviceState{Power: PowerOn, Mode: ModeCool, FanSpeed: FanMax, Temperature: 24}

	state, changes := InterpretStatusFrame(frame, prior)

	assert.Equal(t, prior, state)
	assert.Empty(t, changes)
}

func TestInterpretMode(t *testing.T) {
	prior := DeviceState{Mode: ModeAuto, Power: PowerOn, Temperature: 22}

	frame := Frame{Command: CommandStatusMode, Data: [8]byte{7: 1}}
	state, changes := InterpretStatusFrame(frame, prior)
	assert.Equal(t, ModeCool, state.Mode)
	assert.Equal(t, []Change{{Field: "mode", Value: "cool"}}, changes)
	assert.Equal(t, PowerOn, state.Power)
	assert.Equal(t, uint8(22), state.Temperature)

	frame = Frame{Command: CommandStatusMode, Data: [8]byte{7: 7}}
	state, changes = InterpretStatusFrame(frame, prior)
	assert.Equal(t, ModeAuto, state.Mode)
	assert.Empty(t, changes)

	frame = Frame{Command: CommandStatusMode, Data: [8]byte{7: 0}}
	state, changes = InterpretStatusFrame(frame, prior)
	assert.Equal(t, ModeAuto, state.Mode)
	assert.Empty(t, changes)
}

func TestInterpretOtherCommand(t *testing.T) {
	prior := DeviceState{Power: PowerOn, Mode: ModeDry, FanSpeed: FanMid, Temperature: 20}
	frame := Frame{Command: 0x54, Data: [8]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}}

	state, changes := InterpretStatusFrame(frame, prior)

	assert.Equal(t, prior, state)
	assert.Empty(t, changes)
}

func TestEncodeCommandFrame(t *testing.T) {
	message := EncodeCommandFrame(DeviceState{
		Power:       PowerOn,
		Mode:        ModeCool,
		FanSpeed:    FanMax,
		Temperature: 24,
	})

	require.Len(t, message, 14)
	assert.Equal(t, []byte{
		0x32,             // start
		0x84, 0x20, 0xa0, // remote -> unit, SET
		0x1f, 0x18, // swing off, constant
		0xb8, // fan max | 24
		0x01, // cool
		0xf4, // on
		0x00, 0x00, 0x00,
		0x4e, // checksum
		0x34, // end
	}, message)

	var checksum byte
	for _, b := range message[1:12] {
		checksum ^= b
	}
	assert.Equal(t, checksum, message[12])
}

func TestEncodeCommandFrameKeepsFanBits(t *testing.T) {
	message := EncodeCommandFrame(DeviceState{FanSpeed: FanMin, Temperature: 40})

	assert.Equal(t, FanMin.Byte(), message[6]&0xe0)
	assert.Equal(t, byte(40&0x1f), message[6]&0x1f)
	assert.Equal(t, Checksum(message[1:]), message[12])
}

func TestEncodeUnknownState(t *testing.T) {
	message := EncodeCommandFrame(DeviceState{})

	assert.Equal(t, byte(0x00), message[6])
	assert.Equal(t, byte(0xff), message[7])
	assert.Equal(t, byte(0x00), message[8])
	assert.Equal(t, byte(MessageEnd), message[13])
}
