package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/victorjacobs/go-samsunghvac/config"
)

func TestDefaultModeTiming(t *testing.T) {
	mode := DefaultMode()

	assert.Equal(t, 2400, mode.BaudRate)
	assert.Equal(t, EvenParity, mode.Parity)
	// 1 start + 8 data + 1 parity + 1 stop bit at 2400 baud
	assert.Equal(t, 11*time.Second/2400, mode.CharacterTime())
	assert.InDelta(t, float64(16*time.Millisecond), float64(mode.InterByteTimeout()), float64(time.Millisecond))
}

func TestCharacterTimeWithoutParity(t *testing.T) {
	mode := Mode{BaudRate: 9600, DataBits: 8, Parity: NoParity, StopBits: 1}

	assert.Equal(t, 10*time.Second/9600, mode.CharacterTime())
}

type scriptedRead struct {
	chunks [][]byte
	errs   []error
}

func (s *scriptedRead) read(p []byte, _ time.Duration) (int, error) {
	if len(s.chunks) == 0 {
		return 0, ErrTimeout
	}

	chunk, err := s.chunks[0], s.errs[0]
	s.chunks, s.errs = s.chunks[1:], s.errs[1:]

	return copy(p, chunk), err
}

func TestCollect(t *testing.T) {
	t.Run("assembles chunks", func(t *testing.T) {
		r := &scriptedRead{
			chunks: [][]byte{{1, 2, 3}, {4, 5}},
			errs:   []error{nil, nil},
		}

		got, err := collect(5, time.Second, r.read)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4, 5}, got)
	})

	t.Run("short on timeout", func(t *testing.T) {
		r := &scriptedRead{
			chunks: [][]byte{{1, 2, 3}},
			errs:   []error{nil},
		}

		got, err := collect(13, time.Second, r.read)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("read error", func(t *testing.T) {
		broken := errors.New("device unplugged")
		r := &scriptedRead{
			chunks: [][]byte{{1}, {}},
			errs:   []error{nil, broken},
		}

		got, err := collect(13, time.Second, r.read)
		assert.ErrorIs(t, err, broken)
		assert.Equal(t, []byte{1}, got)
	})

	t.Run("expired deadline", func(t *testing.T) {
		got, err := collect(13, 0, func(p []byte, _ time.Duration) (int, error) {
			t.Fatal("read called after deadline")
			return 0, nil
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestParityMapping(t *testing.T) {
	assert.Equal(t, serial.EvenParity, bugstParity(EvenParity))
	assert.Equal(t, serial.NoParity, bugstParity(NoParity))
	assert.Equal(t, "E", goburrowParity(EvenParity))
	assert.Equal(t, "O", goburrowParity(OddParity))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.Serial{Port: "/dev/null", Driver: "carrier-pigeon"})
	assert.Error(t, err)
}
