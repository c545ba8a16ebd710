package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victorjacobs/go-samsunghvac/samsung"
)

var (
	encodePower string
	encodeMode  string
	encodeFan   string
	encodeTemp  int
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the SET frame for a desired state",
	RunE: func(cmd *cobra.Command, args []string) error {
		frame, err := encodeFrame(encodePower, encodeMode, encodeFan, encodeTemp)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "% X\n", frame)
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVar(&encodePower, "power", "on", "Power (on|off)")
	encodeCmd.Flags().StringVar(&encodeMode, "mode", "auto", "Mode (auto|cool|dry|fan|heat)")
	encodeCmd.Flags().StringVar(&encodeFan, "fan", "auto", "Fan speed (auto|min|mid|max)")
	encodeCmd.Flags().IntVar(&encodeTemp, "temp", 24, "Temperature (1-31)")

	rootCmd.AddCommand(encodeCmd)
}

func encodeFrame(power, mode, fan string, temp int) ([]byte, error) {
	var state samsung.DeviceState
	var err error

	if state.Power, err = samsung.ParsePower(power); err != nil {
		return nil, err
	}
	if state.Mode, err = samsung.ParseMode(mode); err != nil {
		return nil, err
	}
	if state.FanSpeed, err = samsung.ParseFanSpeed(fan); err != nil {
		return nil, err
	}
	if temp < samsung.MinTemperature || temp > samsung.MaxTemperature {
		return nil, fmt.Errorf("temperature %d out of range %d-%d", temp, samsung.MinTemperature, samsung.MaxTemperature)
	}
	state.Temperature = uint8(temp)

	return samsung.EncodeCommandFrame(state), nil
}
