package samsung

import "sync"

// Queue is an unbounded FIFO of requested states.
type Queue struct {
	mutex   sync.Mutex
	pending []DeviceState
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(state DeviceState) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.pending = append(q.pending, state)
}

// TryDequeue pops the oldest request. The second return value is false when
// the queue is empty.
func (q *Queue) TryDequeue() (DeviceState, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.pending) == 0 {
		return DeviceState{}, false
	}

	state := q.pending[0]
	q.pending[0] = DeviceState{}
	q.pending = q.pending[1:]

	return state, true
}

func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.pending)
}

// Clear drops all pending requests and returns how many there were.
func (q *Queue) Clear() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	n := len(q.pending)
	q.pending = nil

	return n
}
