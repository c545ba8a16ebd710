package homeassistant

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	ModeOff     = "off"
	ModeFanOnly = "fan_only"

	// Range offered in the Home Assistant UI, which is what the wall remote
	// allows.
	MinTemperature = 16
	MaxTemperature = 30
)

// Topics builds the state and command topics below a prefix.
type Topics struct {
	Prefix string
}

func (t Topics) State(name string) string {
	return fmt.Sprintf("%v/climate/%v/state", t.Prefix, name)
}

func (t Topics) Command(name string) string {
	return fmt.Sprintf("%v/climate/%v/set", t.Prefix, name)
}

type Client struct {
	mqtt            mqtt.Client
	discoveryPrefix string
	topics          Topics
}

func NewClient(mqtt mqtt.Client, discoveryPrefix string, topics Topics) *Client {
	return &Client{
		mqtt:            mqtt,
		discoveryPrefix: discoveryPrefix,
		topics:          topics,
	}
}

func (h *Client) climateConfiguration() climateConfiguration {
	return climateConfiguration{
		UniqueId: "samsunghvac_climate",
		Name:     "Samsung HVAC",
		Device: deviceConfiguration{
			Identifiers:  []string{"samsunghvac"},
			Name:         "Samsung HVAC",
			Manufacturer: "Samsung",
		},
		Modes:                   []string{ModeOff, "auto", "cool", "dry", ModeFanOnly, "heat"},
		FanModes:                []string{"auto", "min", "mid", "max"},
		ModeStateTopic:          h.topics.State("mode"),
		ModeCommandTopic:        h.topics.Command("mode"),
		TemperatureStateTopic:   h.topics.State("temperature"),
		TemperatureCommandTopic: h.topics.Command("temperature"),
		FanModeStateTopic:       h.topics.State("fan_mode"),
		FanModeCommandTopic:     h.topics.Command("fan_mode"),
		MinTemp:                 MinTemperature,
		MaxTemp:                 MaxTemperature,
		TempStep:                1,
		TemperatureUnit:         "C",
	}
}

// RegisterClimate publishes the retained discovery message for the climate
// entity.
func (h *Client) RegisterClimate() error {
	climateConfiguration, err := json.Marshal(h.climateConfiguration())
	if err != nil {
		return err
	}

	configTopic := fmt.Sprintf("%v/climate/samsunghvac/config", h.discoveryPrefix)

	if t := h.mqtt.Publish(configTopic, 0, true, climateConfiguration); t.Wait() && t.Error() != nil {
		return t.Error()
	}

	return nil
}
