package samsung

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/transport"
)

const reopenDelay = time.Second

var errRestartRequested = errors.New("restart requested")

// Session keeps a worker running on an open port. On a restart request the
// port is closed, the client forgets its state and pending requests, and the
// port is opened again. When the port fails it is reopened as well, keeping
// the client as it is.
type Session struct {
	open    func() (transport.Port, error)
	client  *Client
	logger  *zap.Logger
	options []Option
	restart chan struct{}
}

func NewSession(open func() (transport.Port, error), client *Client, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		open:    open,
		client:  client,
		logger:  logger,
		options: opts,
		restart: make(chan struct{}, 1),
	}
}

// Restart asks Run to restart the bus session. It never blocks, and requests
// made while one is already pending are merged.
func (s *Session) Restart() {
	select {
	case s.restart <- struct{}{}:
	default:
	}
}

// Run returns an error only when the first open fails. Otherwise it runs
// until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	port, err := s.open()
	if err != nil {
		return err
	}

	for {
		err := s.runWorker(ctx, port)

		if closeErr := port.Close(); closeErr != nil {
			s.logger.Warn("Closing port failed", zap.Error(closeErr))
		}

		switch {
		case err == nil:
			return nil
		case errors.Is(err, errRestartRequested):
			s.logger.Info("Restarting bus session")
			s.client.Reset()
		default:
			s.logger.Error("Port failed, reopening", zap.Error(err), zap.Duration("delay", reopenDelay))
			if !s.wait(ctx) {
				return nil
			}
		}

		if port = s.reopen(ctx); port == nil {
			return nil
		}
	}
}

// runWorker returns nil when ctx is done, errRestartRequested on a restart
// request, or the error the worker stopped with.
func (s *Session) runWorker(ctx context.Context, port transport.Port) error {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- NewWorker(port, s.client, s.options...).Run(workerCtx)
	}()

	select {
	case <-ctx.Done():
		<-done
		return nil
	case <-s.restart:
		cancel()
		<-done
		return errRestartRequested
	case err := <-done:
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

func (s *Session) reopen(ctx context.Context) transport.Port {
	for {
		port, err := s.open()
		if err == nil {
			return port
		}
		s.logger.Error("Reopening port failed", zap.Error(err))

		if !s.wait(ctx) {
			return nil
		}
	}
}

// wait sleeps for reopenDelay and reports false if ctx ended first.
func (s *Session) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(reopenDelay):
		return true
	}
}
