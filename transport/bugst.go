package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/victorjacobs/go-samsunghvac/config"
)

// bugstPort drives a plain serial port. Adapters without automatic direction
// control get RTS raised for the duration of a send when rtsDirection is set.
type bugstPort struct {
	port         serial.Port
	rtsDirection bool
}

func openBugst(cfg config.Serial, mode Mode) (Port, error) {
	port, err := serial.Open(cfg.Port, &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
		Parity:   bugstParity(mode.Parity),
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}

	if cfg.RtsDirection {
		if err := port.SetRTS(false); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to release RTS on %s: %w", cfg.Port, err)
		}
	}

	return &bugstPort{
		port:         port,
		rtsDirection: cfg.RtsDirection,
	}, nil
}

func bugstParity(parity Parity) serial.Parity {
	switch parity {
	case EvenParity:
		return serial.EvenParity
	case OddParity:
		return serial.OddParity
	default:
		return serial.NoParity
	}
}

func (p *bugstPort) read(buf []byte, timeout time.Duration) (int, error) {
	if err := p.port.SetReadTimeout(timeout); err != nil {
		return 0, err
	}

	n, err := p.port.Read(buf)
	if err != nil {
		return n, err
	}

	// go.bug.st/serial reports a timeout as an empty read
	if n == 0 {
		return 0, ErrTimeout
	}

	return n, nil
}

func (p *bugstPort) ReadByte(timeout time.Duration) (byte, error) {
	buf := make([]byte, 1)
	if _, err := p.read(buf, timeout); err != nil {
		return 0, err
	}

	return buf[0], nil
}

func (p *bugstPort) ReadBytes(n int, timeout time.Duration) ([]byte, error) {
	return collect(n, timeout, p.read)
}

// WriteBytes leaves RTS raised on success, WaitSendComplete releases it.
// On failure it is released right away, nothing would release it later.
func (p *bugstPort) WriteBytes(buf []byte) (err error) {
	if p.rtsDirection {
		if err := p.port.SetRTS(true); err != nil {
			return err
		}

		defer func() {
			if err != nil {
				if rtsErr := p.port.SetRTS(false); rtsErr != nil {
					err = fmt.Errorf("%w (releasing RTS: %v)", err, rtsErr)
				}
			}
		}()
	}

	n, err := p.port.Write(buf)
	if err != nil {
		return err
	}

	if n != len(buf) {
		return fmt.Errorf("short write: %v of %v bytes", n, len(buf))
	}

	return nil
}

func (p *bugstPort) WaitSendComplete(timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- p.port.Drain()
	}()

	var err error
	select {
	case err = <-done:
	case <-time.After(timeout):
		err = ErrTimeout
	}

	if p.rtsDirection {
		if rtsErr := p.port.SetRTS(false); rtsErr != nil && err == nil {
			err = rtsErr
		}
	}

	return err
}

func (p *bugstPort) Close() error {
	return p.port.Close()
}
