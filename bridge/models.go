package bridge

import "github.com/victorjacobs/go-samsunghvac/samsung"

// stateConfiguration is one retained state topic of the climate entity. An
// empty value from get means the field is not known yet and is not published.
type stateConfiguration struct {
	name string
	get  func(state samsung.DeviceState) string
}

// commandConfiguration is one command topic of the climate entity. apply
// validates the payload and returns the change to make to the current state.
type commandConfiguration struct {
	name  string
	apply func(payload string) (func(state *samsung.DeviceState), error)
}
