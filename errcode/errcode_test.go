package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	cause := errors.New("rmt: clock not running")
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"bare code", TransportError, TransportError},
		{"wrapped code", fmt.Errorf("send: %w", TransportError), TransportError},
		{"E", &E{C: PeripheralError, Op: "led.transmit", Err: cause}, PeripheralError},
		{"wrapped E", fmt.Errorf("loop: %w", Wrap(InvalidColorInput, "color.hsv", cause)), InvalidColorInput},
		{"foreign", cause, Error},
	}
	for _, tt := range tests {
		if got := Of(tt.err); got != tt.want {
			t.Errorf("%s: Of = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(TransportError, "x", nil); err != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", err)
	}
}

func TestEError(t *testing.T) {
	cause := errors.New("boom")
	err := &E{C: TransportError, Op: "command.send", Msg: "192.168.4.145:38899", Err: cause}
	want := "command.send: transport_error: 192.168.4.145:38899: boom"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should see the cause")
	}
}
