package homeassistant

type deviceConfiguration struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
}

type climateConfiguration struct {
	UniqueId                string              `json:"unique_id"`
	Name                    string              `json:"name"`
	Device                  deviceConfiguration `json:"device"`
	Modes                   []string            `json:"modes"`
	FanModes                []string            `json:"fan_modes"`
	ModeStateTopic          string              `json:"mode_state_topic"`
	ModeCommandTopic        string              `json:"mode_command_topic"`
	TemperatureStateTopic   string              `json:"temperature_state_topic"`
	TemperatureCommandTopic string              `json:"temperature_command_topic"`
	FanModeStateTopic       string              `json:"fan_mode_state_topic"`
	FanModeCommandTopic     string              `json:"fan_mode_command_topic"`
	MinTemp                 int                 `json:"min_temp"`
	MaxTemp                 int                 `json:"max_temp"`
	TempStep                float32             `json:"temp_step"`
	TemperatureUnit         string              `json:"temperature_unit"`
}
