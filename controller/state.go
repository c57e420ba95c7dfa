package controller

import (
	"fmt"

	"scenenode-go/errcode"
)

// State is the debounce state of the current press.
type State uint8

const (
	// Idle: no press is being handled; the next pressed sample acts.
	Idle State = iota
	// Handled: the current press already acted; further pressed samples are
	// ignored until release.
	Handled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Handled:
		return "handled"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Policy decides what a failed command send does to the loop.
type Policy uint8

const (
	// PolicyFatal stops the loop on the first transport error.
	PolicyFatal Policy = iota
	// PolicyLog logs the failure and keeps polling; local feedback carries on.
	PolicyLog
)

func (p Policy) String() string {
	switch p {
	case PolicyFatal:
		return "fatal"
	case PolicyLog:
		return "log"
	default:
		return fmt.Sprintf("Policy(%d)", p)
	}
}

// ParsePolicy accepts "fatal" (or "") and "log".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "fatal":
		return PolicyFatal, nil
	case "log":
		return PolicyLog, nil
	default:
		return 0, errcode.New(errcode.InvalidConfig, "controller.policy", "unknown policy "+s)
	}
}

// Fatal reports whether err must stop the loop under p. Colour and
// peripheral failures always do; transport failures depend on p.
func (p Policy) Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !(errcode.Is(err, errcode.TransportError) && p == PolicyLog)
}
