package cmd

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorjacobs/go-samsunghvac/config"
	"github.com/victorjacobs/go-samsunghvac/samsung"
)

func TestEncodeFrame(t *testing.T) {
	frame, err := encodeFrame("on", "cool", "max", 24)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x32, 0x84, 0x20, 0xa0, 0x1f, 0x18, 0xb8, 0x01, 0xf4, 0x00, 0x00, 0x00, 0x4e, 0x34}, frame)
}

func TestEncodeFrameInvalid(t *testing.T) {
	tests := []struct {
		name  string
		power string
		mode  string
		fan   string
		temp  int
	}{
		{"power", "standby", "cool", "max", 24},
		{"mode", "on", "eco", "max", 24},
		{"fan", "on", "cool", "turbo", 24},
		{"temperature", "on", "cool", "max", 32},
		{"zero temperature", "on", "cool", "max", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeFrame(tt.power, tt.mode, tt.fan, tt.temp)
			assert.Error(t, err)
		})
	}
}

func TestEncodeCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"encode", "--power", "off", "--mode", "heat", "--fan", "min", "--temp", "20"})

	require.NoError(t, rootCmd.Execute())

	frame := samsung.EncodeCommandFrame(samsung.DeviceState{
		Power:       samsung.PowerOff,
		Mode:        samsung.ModeHeat,
		FanSpeed:    samsung.FanMin,
		Temperature: 20,
	})
	assert.Equal(t, fmt.Sprintf("% X\n", frame), out.String())
}

func TestFormatFrame(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 30, 15, 123_000_000, time.UTC)

	status := samsung.Frame{
		Source:      samsung.AddressUnit,
		Destination: samsung.AddressWallRemote,
		Command:     samsung.CommandStatus,
		Data:        [8]byte{0x0e, 0, 0, 0x0c, 0x80},
	}
	assert.Equal(t,
		"[12:30:15.123] 20 -> 84 cmd=52 data=0E 00 00 0C 80 00 00 00\n  power=on mode=??? fan=mid temp=23\n",
		formatFrame(timestamp, status))

	pause := samsung.Frame{Source: samsung.AddressUnit, Destination: samsung.AddressPauseMark}
	assert.Equal(t,
		"[12:30:15.123] 20 -> AD cmd=00 data=00 00 00 00 00 00 00 00\n  pause mark\n",
		formatFrame(timestamp, pause))
}

func TestTiming(t *testing.T) {
	bus := config.Bus{
		PollInterval: 50 * time.Millisecond,
		StartTimeout: 10 * time.Millisecond,
		FrameTimeout: 20 * time.Millisecond,
		SendBudget:   180 * time.Millisecond,
		SettleDelay:  10 * time.Millisecond,
		SendTimeout:  300 * time.Millisecond,
	}

	assert.Equal(t, samsung.DefaultTiming(), timing(bus))
}
