package samsung

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/metrics"
	"github.com/victorjacobs/go-samsunghvac/transport"
)

// ErrSendWindowMissed means a request was taken from the queue but too much
// of the quiet period had passed to still send it. The request is dropped.
var ErrSendWindowMissed = errors.New("send window missed")

// Timing of the bus worker.
type Timing struct {
	// PollInterval is the pause between two ticks.
	PollInterval time.Duration
	// StartTimeout bounds the wait for a start marker.
	StartTimeout time.Duration
	// FrameTimeout bounds the wait for the 13 bytes following a start marker.
	FrameTimeout time.Duration
	// SendBudget is how long after seeing a pause mark we may still start
	// writing. The quiet period itself lasts about 300ms.
	SendBudget time.Duration
	// SettleDelay lets the remote finish its own frame before we transmit.
	// Without it the wall remote shows E607.
	SettleDelay time.Duration
	SendTimeout time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		PollInterval: 50 * time.Millisecond,
		StartTimeout: 10 * time.Millisecond,
		FrameTimeout: 20 * time.Millisecond,
		SendBudget:   180 * time.Millisecond,
		SettleDelay:  10 * time.Millisecond,
		SendTimeout:  300 * time.Millisecond,
	}
}

// Worker owns the bus. It reads one frame per tick, keeps the store up to date
// and sends queued requests when the unit announces a quiet period.
type Worker struct {
	port     transport.Port
	store    *Store
	queue    *Queue
	timing   Timing
	logger   *zap.Logger
	metrics  *metrics.BusMetrics
	observer func(Frame)
	now      func() time.Time
	sleep    func(time.Duration)
}

type Option func(*Worker)

func WithTiming(timing Timing) Option {
	return func(w *Worker) {
		w.timing = timing
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.BusMetrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithObserver registers a function that is called with every valid frame.
func WithObserver(observer func(Frame)) Option {
	return func(w *Worker) {
		w.observer = observer
	}
}

// WithClock replaces the clock used for the send budget and settle delay.
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(w *Worker) {
		w.now = now
		w.sleep = sleep
	}
}

func NewWorker(port transport.Port, client *Client, opts ...Option) *Worker {
	w := &Worker{
		port:   port,
		store:  client.store,
		queue:  client.queue,
		timing: DefaultTiming(),
		logger: zap.NewNop(),
		now:    time.Now,
		sleep:  time.Sleep,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run ticks until ctx is cancelled or the port fails. Bad frames and missed
// windows are logged and never stop the loop. Any other error from the port
// is returned, the port is unlikely to recover without being reopened.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Bus worker started", zap.Duration("poll_interval", w.timing.PollInterval))

	timer := time.NewTimer(w.timing.PollInterval)
	defer timer.Stop()

	for {
		if err := w.Tick(); err != nil {
			if !recoverable(err) {
				w.logger.Error("Bus worker stopped on port failure", zap.Error(err))
				return fmt.Errorf("bus worker: %w", err)
			}
			w.logTickError(err)
		}

		timer.Reset(w.timing.PollInterval)
		select {
		case <-ctx.Done():
			w.logger.Info("Bus worker stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Tick reads at most one frame from the bus and acts on it. A quiet bus
// yields transport.ErrTimeout.
func (w *Worker) Tick() error {
	start, err := w.port.ReadByte(w.timing.StartTimeout)
	if err != nil {
		return err
	}

	if start != MessageStart {
		return nil
	}

	raw, err := w.port.ReadBytes(MessageLength, w.timing.FrameTimeout)
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}

	w.logger.Debug("[IN MESSAGE]", zap.String("raw", fmt.Sprintf("% X", append([]byte{MessageStart}, raw...))))

	frame, err := DecodeStatusFrame(raw)
	if err != nil {
		w.metrics.Frame(frameResult(err))
		return err
	}
	w.metrics.Frame(metrics.FrameOK)

	if w.observer != nil {
		w.observer(frame)
	}

	// Both checks look at the same frame, a pause mark is never a status
	// frame in practice but nothing forbids it.
	var sendErr error
	if frame.Destination == AddressPauseMark {
		sendErr = w.send()
	}

	if frame.Source == AddressUnit && frame.Destination == AddressWallRemote {
		w.updateStatus(frame)
	}

	return sendErr
}

func (w *Worker) send() error {
	start := w.now()

	state, ok := w.queue.TryDequeue()
	if !ok {
		return nil
	}

	message := EncodeCommandFrame(state)

	waited := w.now().Sub(start)
	if waited > w.timing.SendBudget {
		w.metrics.WindowMissed()
		return fmt.Errorf("%w: waited %v for %v", ErrSendWindowMissed, waited, state)
	}

	w.sleep(w.timing.SettleDelay)

	if err := w.port.WriteBytes(message); err != nil {
		return fmt.Errorf("write command: %w", err)
	}

	if err := w.port.WaitSendComplete(w.timing.SendTimeout); err != nil {
		w.logger.Warn("[OUT MESSAGE] Waiting for transmission failed", zap.Error(err))
	}

	w.metrics.CommandSent()
	w.logger.Info("[OUT MESSAGE]",
		zap.Duration("waited", waited),
		zap.Duration("sent_in", w.now().Sub(start)-waited),
		zap.Stringer("power", state.Power),
		zap.Uint8("temperature", state.Temperature),
		zap.Stringer("mode", state.Mode),
		zap.Stringer("fan", state.FanSpeed),
		zap.String("raw", fmt.Sprintf("% X", message)),
	)

	return nil
}

func (w *Worker) updateStatus(frame Frame) {
	var changes []Change
	w.store.ApplyUpdate(func(state *DeviceState) {
		*state, changes = InterpretStatusFrame(frame, *state)
	})

	for _, change := range changes {
		w.metrics.StatusUpdate(change.Field)
		w.logger.Info("[STATUS UPDATE]", zap.String(change.Field, change.Value))
	}
}

func (w *Worker) logTickError(err error) {
	switch {
	case errors.Is(err, transport.ErrTimeout):
		// nothing on the bus
	case errors.Is(err, ErrTruncatedFrame):
		w.logger.Info("[IN MESSAGE] Invalid length", zap.Error(err))
	case errors.Is(err, ErrInvalidEnd), errors.Is(err, ErrChecksumMismatch):
		w.logger.Warn("[IN MESSAGE] Dropped", zap.Error(err))
	case errors.Is(err, ErrSendWindowMissed):
		w.logger.Info("[OUT MESSAGE] Too much time elapsed, request dropped", zap.Error(err))
	}
}

// recoverable reports whether err only ends the current tick.
func recoverable(err error) bool {
	return errors.Is(err, transport.ErrTimeout) ||
		errors.Is(err, ErrTruncatedFrame) ||
		errors.Is(err, ErrInvalidEnd) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrSendWindowMissed)
}

func frameResult(err error) string {
	switch {
	case errors.Is(err, ErrTruncatedFrame):
		return metrics.FrameTruncated
	case errors.Is(err, ErrInvalidEnd):
		return metrics.FrameInvalidEnd
	default:
		return metrics.FrameChecksum
	}
}
