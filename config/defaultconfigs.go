package config

import (
	"bytes"

	"github.com/pkg/errors"
)

// DefaultBoard is used when neither the command line nor the file names one.
const DefaultBoard = "pico"

// Compiled-in per-board defaults. Credentials are left empty on purpose;
// they come from the deployment's config file.

const cfgPico = `
poll = "100ms"
transport_errors = "fatal"

[button]
pin = 4

[led]
pin = 5
clock_hz = 125000000

[light]
addr = "192.168.4.145:38899"

[serial]
device = "/dev/ttyACM0"
baud = 115200

[[scene]]
id = 12
dimming = 100
feedback = { h = 0, s = 100, v = 20 }

[[scene]]
id = 6
dimming = 10
feedback = { h = 100, s = 100, v = 20 }
`

const cfgESP32C3 = `
poll = "100ms"
transport_errors = "fatal"

[button]
pin = 4

[led]
pin = 5
clock_hz = 80000000

[light]
addr = "192.168.4.145:38899"

[serial]
device = "/dev/ttyUSB0"
baud = 115200

[[scene]]
id = 12
dimming = 100
feedback = { h = 0, s = 100, v = 20 }

[[scene]]
id = 6
dimming = 10
feedback = { h = 100, s = 100, v = 20 }
`

var embeddedConfigs = map[string][]byte{
	"pico":    []byte(cfgPico),
	"esp32c3": []byte(cfgESP32C3),
}

// EmbeddedLookup resolves a board's default document. Tests override it.
var EmbeddedLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Defaults parses the compiled-in configuration for board.
func Defaults(board string) (*Config, error) {
	raw, ok := EmbeddedLookup(board)
	if !ok || len(raw) == 0 {
		return nil, errors.Errorf("no embedded config for board %q", board)
	}
	cfg, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "board %q", board)
	}
	cfg.Board = board
	return cfg, nil
}
