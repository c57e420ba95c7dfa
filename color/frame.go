package color

import (
	"strconv"
	"time"

	"scenenode-go/errcode"
)

// FrameLen is the number of bits (and pulse pairs) per pixel.
const FrameLen = 24

// PulsePair is one transmitted bit: the line is held high for High, then low
// for Low.
type PulsePair struct {
	High time.Duration
	Low  time.Duration
}

// Canonical one-wire bit timings.
var (
	One  = PulsePair{High: 700 * time.Nanosecond, Low: 600 * time.Nanosecond}
	Zero = PulsePair{High: 350 * time.Nanosecond, Low: 800 * time.Nanosecond}
)

func (p PulsePair) String() string {
	return "{" + strconv.FormatInt(p.High.Nanoseconds(), 10) + "ns," + strconv.FormatInt(p.Low.Nanoseconds(), 10) + "ns}"
}

// Frame is the pulse train for one pixel, most significant bit first:
// slot 0 is bit 7 of R, slot 23 is bit 0 of B.
type Frame [FrameLen]PulsePair

// Encode builds a fresh frame for c.
func Encode(c RGB) Frame {
	var f Frame
	w := c.Word()
	for bit := FrameLen - 1; bit >= 0; bit-- {
		p := Zero
		if w&(1<<uint(bit)) != 0 {
			p = One
		}
		f[FrameLen-1-bit] = p
	}
	return f
}

// Word recovers the packed colour from f. It fails if a slot holds anything
// other than One or Zero.
func (f *Frame) Word() (uint32, error) {
	var w uint32
	for i, p := range f {
		w <<= 1
		switch p {
		case One:
			w |= 1
		case Zero:
		default:
			return 0, errcode.New(errcode.PeripheralError, "color.frame", "slot "+strconv.Itoa(i)+" has pulse "+p.String())
		}
	}
	return w, nil
}

// RGB is the colour f encodes.
func (f *Frame) RGB() (RGB, error) {
	w, err := f.Word()
	if err != nil {
		return RGB{}, err
	}
	return RGB{R: uint8(w >> 16), G: uint8(w >> 8), B: uint8(w)}, nil
}
