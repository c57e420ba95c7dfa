// Package config loads the node configuration: per-board defaults compiled
// into the binary, overlaid by an optional TOML file.
package config

import (
	"encoding"
	"io"
	"net"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"scenenode-go/color"
	"scenenode-go/command"
	"scenenode-go/controller"
	"scenenode-go/errcode"
	"scenenode-go/scene"
)

// Poll period limits. Shorter periods burn CPU in the polling loop; longer
// ones miss ordinary presses.
const (
	MinPoll = 10 * time.Millisecond
	MaxPoll = 10 * time.Second
)

// Config is the full node configuration.
type Config struct {
	// Board selects the compiled-in defaults ("pico", "esp32c3").
	Board string `toml:"board"`
	// Poll is the button sampling period.
	Poll Duration `toml:"poll"`
	// TransportErrors is "fatal" or "log".
	TransportErrors string `toml:"transport_errors"`

	Button ButtonConfig  `toml:"button"`
	LED    LEDConfig     `toml:"led"`
	Light  LightConfig   `toml:"light"`
	WiFi   WiFiConfig    `toml:"wifi"`
	Serial SerialConfig  `toml:"serial"`
	Scenes []SceneConfig `toml:"scene"`
}

// ButtonConfig describes the scene button line.
type ButtonConfig struct {
	Pin int `toml:"pin"`
	// ActiveHigh is set for buttons wired to pull the line up when pressed.
	// The default is a pull-up input that reads low while pressed.
	ActiveHigh bool `toml:"active_high"`
}

// LEDConfig describes the feedback pixel.
type LEDConfig struct {
	Pin     int    `toml:"pin"`
	ClockHz uint32 `toml:"clock_hz"`
}

// LightConfig is the remote light's control endpoint.
type LightConfig struct {
	Addr string `toml:"addr"`
}

// WiFiConfig holds station credentials for boards that join the network
// themselves.
type WiFiConfig struct {
	SSID     string `toml:"ssid"`
	Password string `toml:"password"`
}

// SerialConfig is the host-side link to the pixel/button bridge.
type SerialConfig struct {
	Device string `toml:"device"`
	Baud   int    `toml:"baud"`
}

// SceneConfig is one row of the scene table.
type SceneConfig struct {
	ID       int       `toml:"id"`
	Dimming  uint8     `toml:"dimming"`
	Feedback color.HSV `toml:"feedback"`
}

// Duration is a time.Duration that reads and writes as "100ms".
type Duration time.Duration

var (
	_ encoding.TextUnmarshaler = (*Duration)(nil)
	_ encoding.TextMarshaler   = (*Duration)(nil)
)

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Parse decodes a TOML document without applying defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg, _, err := parse(r)
	return cfg, err
}

// parse also returns the document tree so Load can tell keys the file
// sets to a zero value from keys it leaves out.
func parse(r io.Reader) (*Config, *toml.Tree, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode config")
	}
	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode config")
	}
	return &cfg, tree, nil
}

// Load reads the file in r (may be nil) on top of the defaults for board.
// An empty board falls back to the file's board, then DefaultBoard.
func Load(r io.Reader, board string) (*Config, error) {
	cfg := &Config{}
	set := func(...string) bool { return false }
	if r != nil {
		c, tree, err := parse(r)
		if err != nil {
			return nil, err
		}
		cfg = c
		set = func(keys ...string) bool { return tree.HasPath(keys) }
	}
	if board == "" {
		board = cfg.Board
	}
	if board == "" {
		board = DefaultBoard
	}

	def, err := Defaults(board)
	if err != nil {
		return nil, err
	}
	cfg.Board = board
	cfg.inherit(def, set)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// inherit fills fields the file left out from def. Fields whose zero value
// is meaningful are checked against set; the rest inherit when zero.
func (c *Config) inherit(def *Config, set func(key ...string) bool) {
	if !set("poll") {
		c.Poll = def.Poll
	}
	if c.TransportErrors == "" {
		c.TransportErrors = def.TransportErrors
	}
	if c.Button.Pin == 0 {
		c.Button.Pin = def.Button.Pin
	}
	if !set("button", "active_high") {
		c.Button.ActiveHigh = def.Button.ActiveHigh
	}
	if c.LED.Pin == 0 {
		c.LED.Pin = def.LED.Pin
	}
	if c.LED.ClockHz == 0 {
		c.LED.ClockHz = def.LED.ClockHz
	}
	if c.Light.Addr == "" {
		c.Light.Addr = def.Light.Addr
	}
	if c.WiFi.SSID == "" && c.WiFi.Password == "" {
		c.WiFi = def.WiFi
	}
	if c.Serial.Device == "" {
		c.Serial.Device = def.Serial.Device
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if len(c.Scenes) == 0 {
		c.Scenes = append([]SceneConfig(nil), def.Scenes...)
	}
	if _, _, err := net.SplitHostPort(c.Light.Addr); err != nil && c.Light.Addr != "" {
		c.Light.Addr = net.JoinHostPort(c.Light.Addr, command.DefaultPort)
	}
}

// Validate checks the configuration for values the node cannot run with.
func (c *Config) Validate() error {
	poll := time.Duration(c.Poll)
	if poll < MinPoll || poll > MaxPoll {
		return errors.Wrapf(errcode.InvalidConfig, "poll %s outside [%s, %s]", poll, MinPoll, MaxPoll)
	}
	if _, err := controller.ParsePolicy(c.TransportErrors); err != nil {
		return errors.Wrapf(errcode.InvalidConfig, "transport_errors %q", c.TransportErrors)
	}
	if c.Light.Addr == "" {
		return errors.Wrap(errcode.InvalidConfig, "light.addr is required")
	}
	if _, _, err := net.SplitHostPort(c.Light.Addr); err != nil {
		return errors.Wrapf(errcode.InvalidConfig, "light.addr %q: %v", c.Light.Addr, err)
	}
	if c.WiFi.Password != "" && c.WiFi.SSID == "" {
		return errors.Wrap(errcode.InvalidConfig, "wifi.password set without wifi.ssid")
	}
	if c.LED.ClockHz == 0 {
		return errors.Wrap(errcode.InvalidConfig, "led.clock_hz is required")
	}
	if err := c.SceneTable().Validate(); err != nil {
		return errors.Wrap(err, "scene table")
	}
	return nil
}

// SceneTable converts the configured scenes.
func (c *Config) SceneTable() scene.Table {
	t := make(scene.Table, len(c.Scenes))
	for i, s := range c.Scenes {
		t[i] = scene.Scene{ID: s.ID, Dimming: s.Dimming, Feedback: s.Feedback}
	}
	return t
}

// Controller returns the settings the input controller is built with.
// c must have passed Validate.
func (c *Config) Controller() controller.Config {
	policy, _ := controller.ParsePolicy(c.TransportErrors)
	return controller.Config{
		Poll:            time.Duration(c.Poll),
		ActiveHigh:      c.Button.ActiveHigh,
		Scenes:          c.SceneTable(),
		TransportErrors: policy,
	}
}
