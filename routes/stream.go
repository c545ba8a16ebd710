package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/samsung"
)

const (
	streamPollInterval = 500 * time.Millisecond
	streamWriteTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Stream pushes the state as JSON over a websocket, once on connect and then
// every time it changes.
func Stream(client *samsung.Client, logger *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("Websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		logger.Debug("Stream client connected", zap.String("remote", r.RemoteAddr))

		// Incoming messages are discarded, reading is only needed to notice
		// the client going away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(streamPollInterval)
		defer ticker.Stop()

		var last samsung.DeviceState
		first := true

		for {
			if state := client.GetStatus(); first || state != last {
				conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
				if err := conn.WriteJSON(newStateResponse(state)); err != nil {
					logger.Debug("Stream write failed", zap.Error(err))
					return
				}
				last = state
				first = false
			}

			select {
			case <-closed:
				logger.Debug("Stream client disconnected", zap.String("remote", r.RemoteAddr))
				return
			case <-ticker.C:
			}
		}
	}
}
