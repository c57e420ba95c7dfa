// Package color turns perceptual HSV requests into the timed pulse frame a
// single WS2812-style pixel expects.
package color

import (
	"math"
	"strconv"

	"scenenode-go/errcode"
	"scenenode-go/x/mathx"
)

// Domain limits for HSV components.
const (
	MaxHue        = 360
	MaxSaturation = 100
	MaxValue      = 100
)

// HSV is a colour request: hue in degrees, saturation and value in percent.
type HSV struct {
	H uint16 `toml:"h" json:"h"`
	S uint16 `toml:"s" json:"s"`
	V uint16 `toml:"v" json:"v"`
}

// Off is the colour shown while the button is released.
var Off = HSV{}

// Validate rejects out-of-range components. Values are never clamped.
func (c HSV) Validate() error {
	switch {
	case !mathx.Between(c.H, 0, MaxHue):
		return errcode.New(errcode.InvalidColorInput, "color.hsv", "hue "+strconv.Itoa(int(c.H))+" > 360")
	case !mathx.Between(c.S, 0, MaxSaturation):
		return errcode.New(errcode.InvalidColorInput, "color.hsv", "saturation "+strconv.Itoa(int(c.S))+" > 100")
	case !mathx.Between(c.V, 0, MaxValue):
		return errcode.New(errcode.InvalidColorInput, "color.hsv", "value "+strconv.Itoa(int(c.V))+" > 100")
	}
	return nil
}

// RGB converts c, see HSVToRGB.
func (c HSV) RGB() (RGB, error) { return HSVToRGB(c.H, c.S, c.V) }

func (c HSV) String() string {
	return "hsv(" + strconv.Itoa(int(c.H)) + "," + strconv.Itoa(int(c.S)) + "," + strconv.Itoa(int(c.V)) + ")"
}

// RGB is an 8-bit-per-channel colour.
type RGB struct {
	R, G, B uint8
}

// Word packs the channels as R<<16 | G<<8 | B.
func (c RGB) Word() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBA implements image/color.Color (fully opaque).
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

func (c RGB) String() string {
	return "rgb(" + strconv.Itoa(int(c.R)) + "," + strconv.Itoa(int(c.G)) + "," + strconv.Itoa(int(c.B)) + ")"
}

// HSVToRGB converts with the usual 60° sector decomposition. Channels are
// truncated, not rounded, so output matches the deployed firmware byte for
// byte.
func HSVToRGB(h, s, v uint16) (RGB, error) {
	if err := (HSV{H: h, S: s, V: v}).Validate(); err != nil {
		return RGB{}, err
	}

	sf := float64(s) / 100
	vf := float64(v) / 100
	c := vf * sf
	x := c * (1 - math.Abs(math.Mod(float64(h)/60, 2)-1))
	m := vf - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB{
		R: channel(r + m),
		G: channel(g + m),
		B: channel(b + m),
	}, nil
}

func channel(f float64) uint8 {
	return uint8(mathx.Clamp(f*255, 0, 255))
}
