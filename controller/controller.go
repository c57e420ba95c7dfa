// Package controller polls the scene button, debounces it and turns each
// press into local feedback plus one command to the light.
package controller

import (
	"context"
	"io"
	"log/slog"
	"time"

	"scenenode-go/bus"
	"scenenode-go/color"
	"scenenode-go/command"
	"scenenode-go/errcode"
	"scenenode-go/led"
	"scenenode-go/scene"
)

// DefaultPoll is the reference sampling period.
const DefaultPoll = 100 * time.Millisecond

// Bus topics the controller publishes on.
var (
	TopicScene        = bus.T("scene", "current")    // retained scene.Event
	TopicLED          = bus.T("led", "rgb")          // retained color.RGB
	TopicCommandError = bus.T("command", "error")    // string
	TopicState        = bus.T("controller", "state") // retained string
)

// Input is the button line. Get reports the current level (true = high).
type Input interface {
	Get() bool
}

// Config is fixed at construction.
type Config struct {
	Poll time.Duration
	// ActiveHigh inverts the default pull-up wiring (pressed = low).
	ActiveHigh bool
	Scenes     scene.Table
	// TransportErrors decides whether a failed send ends Run.
	TransportErrors Policy
}

// Controller is single-threaded: Step and Run must not be called
// concurrently.
type Controller struct {
	cfg    Config
	in     Input
	pixel  *led.Pixel
	sender command.Sender
	conn   *bus.Connection
	log    *slog.Logger

	scenes *scene.Counter
	state  State
}

// Option customises a Controller.
type Option func(*Controller)

// WithBus publishes state changes on conn.
func WithBus(conn *bus.Connection) Option {
	return func(c *Controller) { c.conn = conn }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New validates cfg and builds a controller starting at scene 0.
func New(cfg Config, in Input, pixel *led.Pixel, sender command.Sender, opts ...Option) (*Controller, error) {
	if cfg.Poll <= 0 {
		cfg.Poll = DefaultPoll
	}
	if len(cfg.Scenes) == 0 {
		cfg.Scenes = scene.Default()
	}
	if err := cfg.Scenes.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:    cfg,
		in:     in,
		pixel:  pixel,
		sender: sender,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		scenes: scene.NewCounter(len(cfg.Scenes)),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Scene is the index the next press will apply.
func (c *Controller) Scene() int { return c.scenes.Current() }

// State is the current debounce state.
func (c *Controller) State() State { return c.state }

func (c *Controller) pressed() bool {
	level := c.in.Get()
	if c.cfg.ActiveHigh {
		return level
	}
	return !level
}

// Step runs one polling cycle. The returned error has already been judged
// fatal by the transport policy; recoverable failures are logged and nil is
// returned.
func (c *Controller) Step(ctx context.Context) error {
	if c.pressed() {
		if c.state == Handled {
			return nil
		}
		c.setState(Handled)
		return c.press(ctx)
	}

	if c.state == Idle {
		return nil
	}
	c.setState(Idle)
	if err := c.show(color.Off); err != nil {
		return err
	}
	c.log.Debug("button released")
	return nil
}

// press applies the current scene: local feedback, then the command, then
// the counter advances.
func (c *Controller) press(ctx context.Context) error {
	idx := c.scenes.Current()
	s := c.cfg.Scenes[idx]

	if err := c.show(s.Feedback); err != nil {
		return err
	}

	if err := c.sender.Send(ctx, command.FromScene(s)); err != nil {
		if c.cfg.TransportErrors.Fatal(err) {
			return err
		}
		c.log.Warn("failed to send scene command",
			"scene", idx,
			"scene_id", s.ID,
			"error", err)
		c.publish(TopicCommandError, err.Error(), false)
	}

	next := c.scenes.Advance()
	c.log.Info("light set to scene",
		"scene", idx,
		"scene_id", s.ID,
		"dimming", s.Dimming)
	c.publish(TopicScene, scene.Event{Index: idx, ID: s.ID, Dimming: s.Dimming, Next: next}, true)
	return nil
}

func (c *Controller) show(hsv color.HSV) error {
	if err := c.pixel.SetHSV(hsv); err != nil {
		return err
	}
	c.publish(TopicLED, c.pixel.Last(), true)
	return nil
}

func (c *Controller) setState(s State) {
	c.state = s
	c.publish(TopicState, s.String(), true)
}

func (c *Controller) publish(t bus.Topic, payload any, retained bool) {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(t, payload, retained))
}

// Run clears the pixel, then calls Step every poll period until Step fails
// or ctx is done. A press shorter than one period can be missed.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.show(color.Off); err != nil {
		return err
	}

	c.log.Info("polling button",
		"period", c.cfg.Poll,
		"scenes", len(c.cfg.Scenes),
		"transport_errors", c.cfg.TransportErrors)

	ticker := time.NewTicker(c.cfg.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := c.Step(ctx); err != nil {
			c.log.Error("control loop stopped",
				"code", errcode.Of(err),
				"error", err)
			return err
		}
	}
}
