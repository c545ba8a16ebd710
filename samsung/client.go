package samsung

import "go.uber.org/zap"

// Client is what the HTTP and MQTT handlers talk to. Reads come from the
// store, writes go through the queue and reach the unit whenever the worker
// finds a send window.
type Client struct {
	store  *Store
	queue  *Queue
	logger *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		store:  NewStore(),
		queue:  NewQueue(),
		logger: logger,
	}
}

// GetStatus returns a copy of the last state seen on the bus.
func (c *Client) GetStatus() DeviceState {
	return c.store.Snapshot()
}

// RequestChange queues desired for sending. Fields left unknown are taken
// from the current state, so a request only for power keeps mode, fan and
// temperature as they are. There is no acknowledgment: the request may
// still be dropped if its send window is missed.
func (c *Client) RequestChange(desired DeviceState) {
	current := c.store.Snapshot()

	if desired.Power == PowerUnknown {
		desired.Power = current.Power
	}
	if desired.Mode == ModeUnknown {
		desired.Mode = current.Mode
	}
	if desired.FanSpeed == FanUnknown {
		desired.FanSpeed = current.FanSpeed
	}
	if desired.Temperature == 0 {
		desired.Temperature = current.Temperature
	}

	c.queue.Enqueue(desired)
	c.logger.Info("New status requested", zap.Stringer("state", desired), zap.Int("queue_length", c.queue.Len()))
}

// Update starts from the current state, applies mutate and queues the result.
func (c *Client) Update(mutate func(state *DeviceState)) DeviceState {
	desired := c.store.Snapshot()
	mutate(&desired)
	c.RequestChange(desired)

	return desired
}

func (c *Client) QueueLen() int {
	return c.queue.Len()
}

// Reset forgets the observed state and every pending request.
func (c *Client) Reset() {
	c.store.Reset()
	if dropped := c.queue.Clear(); dropped > 0 {
		c.logger.Info("Dropped pending requests", zap.Int("count", dropped))
	}
}
