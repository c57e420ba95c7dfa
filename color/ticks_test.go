package color

import (
	"testing"
	"time"

	"scenenode-go/errcode"
)

func TestFrameTicks_80MHz(t *testing.T) {
	// 80 MHz APB clock with divider 1: 12.5 ns per tick.
	f := Encode(RGB{R: 0x80})
	ticks, err := f.Ticks(80_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if ticks[0] != (TickPair{High: 56, Low: 48}) {
		t.Fatalf("one = %+v", ticks[0])
	}
	if ticks[1] != (TickPair{High: 28, Low: 64}) {
		t.Fatalf("zero = %+v", ticks[1])
	}
}

func TestToTicks_Limits(t *testing.T) {
	if _, err := ToTicks(350*time.Nanosecond, 0); !errcode.Is(err, errcode.PeripheralError) {
		t.Fatalf("0 Hz: err = %v", err)
	}
	// 1 MHz: 350ns rounds to 0 ticks.
	if _, err := ToTicks(350*time.Nanosecond, 1_000_000); !errcode.Is(err, errcode.PeripheralError) {
		t.Fatalf("too coarse: err = %v", err)
	}
	// 40 µs at 1 GHz overflows 15 bits.
	if _, err := ToTicks(40*time.Microsecond, 1_000_000_000); !errcode.Is(err, errcode.PeripheralError) {
		t.Fatalf("overflow: err = %v", err)
	}
	if n, err := ToTicks(800*time.Nanosecond, 10_000_000); err != nil || n != 8 {
		t.Fatalf("ToTicks = %d, %v", n, err)
	}
}
