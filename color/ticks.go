package color

import (
	"strconv"
	"time"

	"scenenode-go/errcode"
	"scenenode-go/x/mathx"
)

// MaxTicks is the widest duration a timing peripheral item can hold (15 bits).
const MaxTicks = 1<<15 - 1

// TickPair is a PulsePair expressed in counter ticks.
type TickPair struct {
	High uint16
	Low  uint16
}

// ToTicks converts d at a counter clock of clockHz, rounding to the nearest
// tick. Durations that round to zero or exceed MaxTicks are rejected.
func ToTicks(d time.Duration, clockHz uint32) (uint16, error) {
	if clockHz == 0 {
		return 0, errcode.New(errcode.PeripheralError, "color.ticks", "counter clock is 0 Hz")
	}
	n := mathx.RoundDiv(uint64(d.Nanoseconds())*uint64(clockHz), uint64(time.Second))
	if n == 0 || n > MaxTicks {
		return 0, errcode.New(errcode.PeripheralError, "color.ticks",
			d.String()+" is "+strconv.FormatUint(n, 10)+" ticks at "+strconv.FormatUint(uint64(clockHz), 10)+" Hz")
	}
	return uint16(n), nil
}

// Ticks converts every slot of f at clockHz.
func (f *Frame) Ticks(clockHz uint32) ([FrameLen]TickPair, error) {
	var out [FrameLen]TickPair
	// Only two distinct pairs exist; convert each once.
	one, err := pairTicks(One, clockHz)
	if err != nil {
		return out, err
	}
	zero, err := pairTicks(Zero, clockHz)
	if err != nil {
		return out, err
	}
	for i, p := range f {
		switch p {
		case One:
			out[i] = one
		case Zero:
			out[i] = zero
		default:
			if out[i], err = pairTicks(p, clockHz); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

func pairTicks(p PulsePair, clockHz uint32) (TickPair, error) {
	h, err := ToTicks(p.High, clockHz)
	if err != nil {
		return TickPair{}, err
	}
	l, err := ToTicks(p.Low, clockHz)
	if err != nil {
		return TickPair{}, err
	}
	return TickPair{High: h, Low: l}, nil
}
