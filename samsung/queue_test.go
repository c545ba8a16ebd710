package samsung

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()

	for i := 0; i < 50; i++ {
		q.Enqueue(DeviceState{Temperature: uint8(i)})
	}
	assert.Equal(t, 50, q.Len())

	for i := 0; i < 50; i++ {
		state, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, uint8(i), state.Temperature)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok)
	assert.Zero(t, q.Len())
}

func TestQueueDoesNotDeduplicate(t *testing.T) {
	q := NewQueue()
	state := DeviceState{Power: PowerOn}

	q.Enqueue(state)
	q.Enqueue(state)

	assert.Equal(t, 2, q.Len())
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(DeviceState{})
	q.Enqueue(DeviceState{})

	assert.Equal(t, 2, q.Clear())
	assert.Zero(t, q.Len())

	q.Enqueue(DeviceState{Mode: ModeFan})
	state, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, ModeFan, state.Mode)
}

func TestQueueConcurrent(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	for producer := 0; producer < 8; producer++ {
		wg.Add(1)
		go func(producer int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Enqueue(DeviceState{Temperature: uint8(producer)})
			}
		}(producer)
	}
	wg.Wait()

	counts := map[uint8]int{}
	for {
		state, ok := q.TryDequeue()
		if !ok {
			break
		}
		counts[state.Temperature]++
	}

	assert.Len(t, counts, 8)
	for producer, count := range counts {
		assert.Equal(t, 100, count, "producer %d", producer)
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.ApplyUpdate(func(state *DeviceState) {
		state.Power = PowerOn
		state.Temperature = 21
	})

	snapshot := s.Snapshot()
	snapshot.Power = PowerOff
	snapshot.Temperature = 30

	assert.Equal(t, DeviceState{Power: PowerOn, Temperature: 21}, s.Snapshot())
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.ApplyUpdate(func(state *DeviceState) {
		state.Mode = ModeHeat
	})

	s.Reset()

	assert.Equal(t, DeviceState{}, s.Snapshot())
}

func TestStoreNoTornReads(t *testing.T) {
	s := NewStore()
	a := DeviceState{Power: PowerOn, Mode: ModeCool, FanSpeed: FanMax, Temperature: 18}
	b := DeviceState{Power: PowerOff, Mode: ModeHeat, FanSpeed: FanMin, Temperature: 28}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			next := a
			if i%2 == 0 {
				next = b
			}
			s.ApplyUpdate(func(state *DeviceState) {
				state.Power = next.Power
				state.Mode = next.Mode
				state.FanSpeed = next.FanSpeed
				state.Temperature = next.Temperature
			})
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}

		snapshot := s.Snapshot()
		if snapshot != (DeviceState{}) {
			require.True(t, snapshot == a || snapshot == b, "torn read: %v", snapshot)
		}
	}
}
