package bridge

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/victorjacobs/go-samsunghvac/homeassistant"
	"github.com/victorjacobs/go-samsunghvac/samsung"
)

var stateDefinitions = [...]*stateConfiguration{
	{
		name: "mode",
		get:  climateMode,
	},
	{
		name: "temperature",
		get: func(state samsung.DeviceState) string {
			if state.Temperature == 0 {
				return ""
			}
			return strconv.Itoa(int(state.Temperature))
		},
	},
	{
		name: "fan_mode",
		get: func(state samsung.DeviceState) string {
			if state.FanSpeed == samsung.FanUnknown {
				return ""
			}
			return state.FanSpeed.String()
		},
	},
}

var commandDefinitions = [...]*commandConfiguration{
	{
		name:  "mode",
		apply: applyMode,
	},
	{
		name:  "temperature",
		apply: applyTemperature,
	},
	{
		name:  "fan_mode",
		apply: applyFanMode,
	},
}

// climateMode folds power and mode into the single mode Home Assistant knows.
func climateMode(state samsung.DeviceState) string {
	switch {
	case state.Power == samsung.PowerOff:
		return homeassistant.ModeOff
	case state.Power == samsung.PowerUnknown || state.Mode == samsung.ModeUnknown:
		return ""
	case state.Mode == samsung.ModeFan:
		return homeassistant.ModeFanOnly
	default:
		return state.Mode.String()
	}
}

func applyMode(payload string) (func(state *samsung.DeviceState), error) {
	switch payload {
	case homeassistant.ModeOff:
		return func(state *samsung.DeviceState) {
			state.Power = samsung.PowerOff
		}, nil
	case homeassistant.ModeFanOnly:
		payload = samsung.ModeFan.String()
	}

	mode, err := samsung.ParseMode(payload)
	if err != nil {
		return nil, err
	}

	return func(state *samsung.DeviceState) {
		state.Power = samsung.PowerOn
		state.Mode = mode
	}, nil
}

func applyTemperature(payload string) (func(state *samsung.DeviceState), error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid temperature %q: %w", payload, err)
	}

	temperature := math.Round(value)
	if temperature < samsung.MinTemperature || temperature > samsung.MaxTemperature {
		return nil, fmt.Errorf("temperature %v out of range %d-%d", value, samsung.MinTemperature, samsung.MaxTemperature)
	}

	return func(state *samsung.DeviceState) {
		state.Temperature = uint8(temperature)
	}, nil
}

func applyFanMode(payload string) (func(state *samsung.DeviceState), error) {
	fanSpeed, err := samsung.ParseFanSpeed(payload)
	if err != nil {
		return nil, err
	}

	return func(state *samsung.DeviceState) {
		state.FanSpeed = fanSpeed
	}, nil
}
