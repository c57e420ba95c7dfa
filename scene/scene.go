// Package scene holds the preset table the button cycles through.
package scene

import (
	"strconv"

	"scenenode-go/color"
	"scenenode-go/errcode"
)

// Scene maps one button press to a remote preset and a local feedback colour.
type Scene struct {
	// ID is the light's opaque preset identifier.
	ID int
	// Dimming is the brightness in percent sent with the preset.
	Dimming uint8
	// Feedback is shown on the local pixel while the button is held.
	Feedback color.HSV
}

// Table is the ordered list of scenes.
type Table []Scene

// Default is the two-scene table the node ships with.
func Default() Table {
	return Table{
		{ID: 12, Dimming: 100, Feedback: color.HSV{H: 0, S: 100, V: 20}},
		{ID: 6, Dimming: 10, Feedback: color.HSV{H: 100, S: 100, V: 20}},
	}
}

func (t Table) Validate() error {
	if len(t) == 0 {
		return errcode.New(errcode.InvalidConfig, "scene.table", "no scenes")
	}
	for i, s := range t {
		if s.Dimming > 100 {
			return errcode.New(errcode.InvalidConfig, "scene.table", "scene "+strconv.Itoa(i)+": dimming "+strconv.Itoa(int(s.Dimming))+" > 100")
		}
		if err := s.Feedback.Validate(); err != nil {
			return errcode.Wrap(errcode.InvalidConfig, "scene.table", err)
		}
	}
	return nil
}

// Counter is the current scene index. It lives only in memory.
type Counter struct {
	i, n int
}

// NewCounter starts at scene 0 of an n-scene table. n < 1 is treated as 1.
func NewCounter(n int) *Counter {
	if n < 1 {
		n = 1
	}
	return &Counter{n: n}
}

func (c *Counter) Current() int { return c.i }

// Advance moves to the next scene, wrapping, and returns it.
func (c *Counter) Advance() int {
	c.i = (c.i + 1) % c.n
	return c.i
}

// Event is published whenever a press is handled.
type Event struct {
	// Index is the scene that was applied.
	Index   int
	ID      int
	Dimming uint8
	// Next is the scene the following press will apply.
	Next int
}
