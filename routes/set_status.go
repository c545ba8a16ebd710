package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/victorjacobs/go-samsunghvac/samsung"
)

// SetStatus applies the power, fan, mode and temp query parameters on top of
// the current state and queues the result. Every parameter gets one line in
// the plain text response, invalid ones included.
func SetStatus(client *samsung.Client) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain")

		if r.URL.RawQuery == "" {
			fmt.Fprint(w, "No argument received!")
			return
		}

		query := r.URL.Query()
		desired := client.GetStatus()

		if param, ok := lookup(query, "power"); ok {
			if power, err := samsung.ParsePower(param); err == nil {
				desired.Power = power
				fmt.Fprintf(w, "Power changed to %v\r\n", strings.ToUpper(power.String()))
			} else {
				fmt.Fprintf(w, "Power INVALID! valid values = on|off but received = %v\r\n", param)
			}
		}

		if param, ok := lookup(query, "fan"); ok {
			if fanSpeed, err := samsung.ParseFanSpeed(param); err == nil {
				desired.FanSpeed = fanSpeed
				fmt.Fprintf(w, "Fan changed to %v\r\n", strings.ToUpper(fanSpeed.String()))
			} else {
				fmt.Fprintf(w, "Fan INVALID! valid values = auto|max|mid|min but received = %v\r\n", param)
			}
		}

		if param, ok := lookup(query, "mode"); ok {
			if mode, err := samsung.ParseMode(param); err == nil {
				desired.Mode = mode
				fmt.Fprintf(w, "Mode changed to %v\r\n", strings.ToUpper(mode.String()))
			} else {
				fmt.Fprintf(w, "Mode INVALID! valid values = auto|cool|dry|heat|fan but received = %v\r\n", param)
			}
		}

		if param, ok := lookup(query, "temp"); ok {
			if temperature, err := strconv.Atoi(param); err == nil && temperature >= samsung.MinTemperature && temperature <= samsung.MaxTemperature {
				desired.Temperature = uint8(temperature)
				fmt.Fprintf(w, "Temperature changed to: %d\r\n", temperature)
			} else {
				fmt.Fprintf(w, "Temperature INVALID! valid values = %d-%d but received = %v\r\n", samsung.MinTemperature, samsung.MaxTemperature, param)
			}
		}

		client.RequestChange(desired)
	}
}

func lookup(query map[string][]string, key string) (string, bool) {
	values, ok := query[key]
	if !ok || len(values) == 0 {
		return "", false
	}

	return values[0], true
}
