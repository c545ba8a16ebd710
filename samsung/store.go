package samsung

import "sync"

// Store holds the last state observed on the bus. Only the bus worker writes
// to it.
type Store struct {
	mutex sync.Mutex
	state DeviceState
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() DeviceState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state
}

// ApplyUpdate runs mutate on the stored state while holding the lock, so
// readers never see a half applied update.
func (s *Store) ApplyUpdate(mutate func(state *DeviceState)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	mutate(&s.state)
}

func (s *Store) Reset() {
	s.ApplyUpdate(func(state *DeviceState) {
		*state = DeviceState{}
	})
}
