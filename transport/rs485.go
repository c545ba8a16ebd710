package transport

import (
	"errors"
	"fmt"
	"time"

	goburrow "github.com/goburrow/serial"

	"github.com/victorjacobs/go-samsunghvac/config"
)

// rs485Port uses the kernel's RS485 mode, which switches the transceiver
// direction by itself. Every read returns after one inter-byte timeout of
// silence, so the timeout handed to ReadByte is only an upper bound.
type rs485Port struct {
	port           goburrow.Port
	characterTime  time.Duration
	delayAfterSend time.Duration
	lastWrite      int
}

func openRS485(cfg config.Serial, mode Mode) (Port, error) {
	port, err := goburrow.Open(&goburrow.Config{
		Address:  cfg.Port,
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
		StopBits: mode.StopBits,
		Parity:   goburrowParity(mode.Parity),
		Timeout:  mode.InterByteTimeout(),
		RS485: goburrow.RS485Config{
			Enabled:            true,
			DelayRtsBeforeSend: cfg.RS485.DelayRtsBeforeSend,
			DelayRtsAfterSend:  cfg.RS485.DelayRtsAfterSend,
			RtsHighDuringSend:  true,
			RtsHighAfterSend:   false,
			RxDuringTx:         false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open RS485 port %s: %w", cfg.Port, err)
	}

	return &rs485Port{
		port:           port,
		characterTime:  mode.CharacterTime(),
		delayAfterSend: cfg.RS485.DelayRtsAfterSend,
	}, nil
}

func goburrowParity(parity Parity) string {
	switch parity {
	case EvenParity:
		return "E"
	case OddParity:
		return "O"
	default:
		return "N"
	}
}

func (p *rs485Port) read(buf []byte, _ time.Duration) (int, error) {
	n, err := p.port.Read(buf)
	if errors.Is(err, goburrow.ErrTimeout) {
		return n, ErrTimeout
	}

	return n, err
}

func (p *rs485Port) ReadByte(timeout time.Duration) (byte, error) {
	buf, err := collect(1, timeout, p.read)
	if err != nil {
		return 0, err
	}

	if len(buf) == 0 {
		return 0, ErrTimeout
	}

	return buf[0], nil
}

func (p *rs485Port) ReadBytes(n int, timeout time.Duration) ([]byte, error) {
	return collect(n, timeout, p.read)
}

func (p *rs485Port) WriteBytes(buf []byte) error {
	n, err := p.port.Write(buf)
	p.lastWrite = n
	if err != nil {
		return err
	}

	if n != len(buf) {
		return fmt.Errorf("short write: %v of %v bytes", n, len(buf))
	}

	return nil
}

// WaitSendComplete has no drain to wait on, the write returns once the bytes
// are queued in the kernel. It waits for the time the last write needs on
// the wire instead.
func (p *rs485Port) WaitSendComplete(timeout time.Duration) error {
	wait := time.Duration(p.lastWrite)*p.characterTime + p.delayAfterSend
	p.lastWrite = 0

	if wait > timeout {
		time.Sleep(timeout)
		return ErrTimeout
	}

	time.Sleep(wait)

	return nil
}

func (p *rs485Port) Close() error {
	return p.port.Close()
}
