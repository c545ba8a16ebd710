package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/config"
	"github.com/victorjacobs/go-samsunghvac/logging"
	"github.com/victorjacobs/go-samsunghvac/samsung"
	"github.com/victorjacobs/go-samsunghvac/transport"
)

var (
	monitorPort   string
	monitorDriver string
	monitorBaud   int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode and print bus traffic without transmitting",
	Long: `Listen on the bus and print every frame with its source, destination and
command. Status frames from the unit to the wall remote are decoded as well.

Nothing is ever sent, so this is safe to run next to a working installation.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVarP(&monitorPort, "port", "p", "/dev/ttyUSB0", "Serial port device")
	monitorCmd.Flags().StringVarP(&monitorDriver, "driver", "d", config.DriverBugst, "Serial driver (bugst or rs485)")
	monitorCmd.Flags().IntVarP(&monitorBaud, "baud", "b", transport.DefaultMode().BaudRate, "Baud rate")

	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	logger, err := logging.InitLogger(config.Logging{Level: "warn", Format: "console"})
	if err != nil {
		return err
	}
	defer logger.Sync()

	port, err := transport.Open(config.Serial{
		Port:     monitorPort,
		Driver:   monitorDriver,
		BaudRate: monitorBaud,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", monitorPort, err)
	}
	defer port.Close()

	fmt.Printf("samsunghvac - bus monitor\n")
	fmt.Printf("Port: %s @ %d baud (%s)\n", monitorPort, monitorBaud, monitorDriver)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The queue of this client is never filled, so the worker never sends.
	worker := samsung.NewWorker(port, samsung.NewClient(nil),
		samsung.WithLogger(logger),
		samsung.WithObserver(func(frame samsung.Frame) {
			fmt.Print(formatFrame(time.Now(), frame))
		}),
	)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Monitor stopped", zap.Error(err))
		return err
	}

	return nil
}

func formatFrame(timestamp time.Time, frame samsung.Frame) string {
	result := fmt.Sprintf("[%s] %02X -> %02X cmd=%02X data=% X\n",
		timestamp.Format("15:04:05.000"), frame.Source, frame.Destination, frame.Command, frame.Data[:])

	switch {
	case frame.Destination == samsung.AddressPauseMark:
		result += "  pause mark\n"
	case frame.Source == samsung.AddressUnit && frame.Destination == samsung.AddressWallRemote:
		state, changes := samsung.InterpretStatusFrame(frame, samsung.DeviceState{})
		if len(changes) > 0 {
			result += fmt.Sprintf("  %v\n", state)
		}
	}

	return result
}
