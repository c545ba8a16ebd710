// Package samsungtest provides a fake bus for tests of the worker and of code
// built on top of samsung.Client.
package samsungtest

import (
	"sync"
	"testing"
	"time"

	"github.com/victorjacobs/go-samsunghvac/samsung"
	"github.com/victorjacobs/go-samsunghvac/transport"
)

// Port replays fed bytes as if they arrived on the bus and records writes.
// Once Fail is called every read and write returns that error, FailWrites
// only breaks writes.
type Port struct {
	mutex    sync.Mutex
	incoming []byte
	written  [][]byte
	waits    int
	closed   int
	err      error
	writeErr error
}

func (p *Port) Feed(chunks ...[]byte) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, chunk := range chunks {
		p.incoming = append(p.incoming, chunk...)
	}
}

func (p *Port) Fail(err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.err = err
}

func (p *Port) FailWrites(err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.writeErr = err
}

func (p *Port) ReadByte(time.Duration) (byte, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.err != nil {
		return 0, p.err
	}
	if len(p.incoming) == 0 {
		return 0, transport.ErrTimeout
	}

	b := p.incoming[0]
	p.incoming = p.incoming[1:]

	return b, nil
}

func (p *Port) ReadBytes(n int, _ time.Duration) ([]byte, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.err != nil {
		return nil, p.err
	}

	n = min(n, len(p.incoming))
	buf := append([]byte(nil), p.incoming[:n]...)
	p.incoming = p.incoming[n:]

	return buf, nil
}

func (p *Port) WriteBytes(buf []byte) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.err != nil {
		return p.err
	}
	if p.writeErr != nil {
		return p.writeErr
	}
	p.written = append(p.written, append([]byte(nil), buf...))

	return nil
}

func (p *Port) WaitSendComplete(time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.waits++

	return nil
}

func (p *Port) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.closed++

	return nil
}

func (p *Port) Written() [][]byte {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return append([][]byte(nil), p.written...)
}

func (p *Port) Waits() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.waits
}

func (p *Port) Closed() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.closed
}

// Message builds a valid 13 byte message, start marker not included.
func Message(source, destination, command byte, data [8]byte) []byte {
	frame := samsung.Frame{
		Source:      source,
		Destination: destination,
		Command:     command,
		Data:        data,
	}
	frame.Checksum = samsung.Checksum(frame.Bytes())

	return frame.Bytes()
}

// Wire prefixes message with the start marker.
func Wire(message []byte) []byte {
	return append([]byte{samsung.MessageStart}, message...)
}

// PauseFrame is the unit announcing a quiet period.
func PauseFrame() []byte {
	return Wire(Message(samsung.AddressUnit, samsung.AddressPauseMark, 0x00, [8]byte{}))
}

// StatusFrames returns the pair of frames the unit sends to the wall remote
// to report state. Temperature must be at least 9.
func StatusFrames(state samsung.DeviceState) []byte {
	var status [8]byte
	status[0] = (state.Temperature - 9) & 0x1f
	switch state.FanSpeed {
	case samsung.FanMin:
		status[3] = 0x0a
	case samsung.FanMid:
		status[3] = 0x0c
	case samsung.FanMax:
		status[3] = 0x0d
	}
	if state.Power == samsung.PowerOn {
		status[4] = 0x80
	}

	var mode [8]byte
	mode[7] = state.Mode.Byte()

	return append(
		Wire(Message(samsung.AddressUnit, samsung.AddressWallRemote, samsung.CommandStatus, status)),
		Wire(Message(samsung.AddressUnit, samsung.AddressWallRemote, samsung.CommandStatusMode, mode))...,
	)
}

// Observe makes client see state as if the unit had reported it on the bus.
func Observe(t testing.TB, client *samsung.Client, state samsung.DeviceState) {
	t.Helper()

	port := &Port{}
	port.Feed(StatusFrames(state))
	worker := samsung.NewWorker(port, client)

	for i := 0; i < 2; i++ {
		if err := worker.Tick(); err != nil {
			t.Fatalf("feeding status: %v", err)
		}
	}
}
