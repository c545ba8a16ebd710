package routes

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/victorjacobs/go-samsunghvac/samsung"
)

type stateResponse struct {
	Power       string `json:"power"`
	Mode        string `json:"mode"`
	Temperature uint8  `json:"temp"`
	FanSpeed    string `json:"fan"`
	// Home Assistant's REST integration expects these two.
	HaStatus string `json:"ha_status"`
	HaActive bool   `json:"ha_active"`
}

func newStateResponse(state samsung.DeviceState) stateResponse {
	return stateResponse{
		Power:       state.Power.String(),
		Mode:        state.Mode.String(),
		Temperature: state.Temperature,
		FanSpeed:    state.FanSpeed.String(),
		HaStatus:    "OK",
		HaActive:    true,
	}
}

func State(client *samsung.Client, logger *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		marshaled, err := json.Marshal(newStateResponse(client.GetStatus()))
		if err != nil {
			logger.Error("Error marshaling state", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(marshaled)
	}
}
