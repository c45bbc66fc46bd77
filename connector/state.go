package connector

import (
	"encoding/json"
	"fmt"
)

// State is the connector lifecycle state.
type State uint8

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
)

var stateNames = [...]string{
	StateDisconnected: "disconnected",
	StateConnecting:   "connecting",
	StateConnected:    "connected",
	StateFailed:       "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Status is the state plus the selected device and, for Failed and a denied
// Disconnected, the reason.
type Status struct {
	State  State
	Device Device
	Reason error
}

func (s Status) String() string {
	if s.Reason != nil {
		return fmt.Sprintf("%s(%v)", s.State, s.Reason)
	}
	return s.State.String()
}

// MarshalJSON renders the reason as a string.
func (s Status) MarshalJSON() ([]byte, error) {
	reason := ""
	if s.Reason != nil {
		reason = s.Reason.Error()
	}
	return json.Marshal(struct {
		State   State  `json:"state"`
		Device  string `json:"device,omitempty"`
		Address string `json:"address,omitempty"`
		Reason  string `json:"reason,omitempty"`
	}{s.State, s.Device.Name, s.Device.Address, reason})
}
