package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/victorjacobs/go-samsunghvac/config"
)

// ErrTimeout is returned when nothing arrived within the read timeout. On an
// idle bus this is the normal outcome of a read.
var ErrTimeout = errors.New("transport: timeout")

// Port is the byte level access to the RS485 bus.
type Port interface {
	// ReadByte waits at most timeout for a single byte.
	ReadByte(timeout time.Duration) (byte, error)
	// ReadBytes collects up to n bytes within timeout. Fewer bytes may be
	// returned without error when the time runs out.
	ReadBytes(n int, timeout time.Duration) ([]byte, error)
	WriteBytes(buf []byte) error
	// WaitSendComplete blocks until the last write left the wire or the
	// timeout expires.
	WaitSendComplete(timeout time.Duration) error
	Close() error
}

type Parity int

const (
	NoParity Parity = iota
	OddParity
	EvenParity
)

// Mode is the line configuration. The unit talks 8E1.
type Mode struct {
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits int
}

func DefaultMode() Mode {
	return Mode{
		BaudRate: 2400,
		DataBits: 8,
		Parity:   EvenParity,
		StopBits: 1,
	}
}

// CharacterTime is the time one character takes on the wire, start, parity
// and stop bits included.
func (m Mode) CharacterTime() time.Duration {
	bits := 1 + m.DataBits + m.StopBits
	if m.Parity != NoParity {
		bits++
	}

	return time.Duration(bits) * time.Second / time.Duration(m.BaudRate)
}

// InterByteTimeout is the silence after which a receive is considered done,
// 3.5 character times.
func (m Mode) InterByteTimeout() time.Duration {
	return m.CharacterTime() * 7 / 2
}

// Open opens the configured port with the default line settings and the
// configured baud rate.
func Open(cfg config.Serial) (Port, error) {
	mode := DefaultMode()
	if cfg.BaudRate > 0 {
		mode.BaudRate = cfg.BaudRate
	}

	switch cfg.Driver {
	case config.DriverBugst, "":
		return openBugst(cfg, mode)
	case config.DriverRS485:
		return openRS485(cfg, mode)
	}

	return nil, fmt.Errorf("unknown serial driver %q", cfg.Driver)
}

// collect keeps calling read until n bytes arrived or the deadline passed.
// read must return within the timeout it is given.
func collect(n int, timeout time.Duration, read func(p []byte, timeout time.Duration) (int, error)) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	deadline := time.Now().Add(timeout)

	for got < n {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		k, err := read(buf[got:], remaining)
		got += k
		if errors.Is(err, ErrTimeout) {
			break
		}
		if err != nil {
			return buf[:got], err
		}
	}

	return buf[:got], nil
}
