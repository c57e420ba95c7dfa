// Package led drives a single addressable pixel through a Transmitter.
package led

import (
	"scenenode-go/color"
	"scenenode-go/errcode"
)

// Transmitter clocks a pulse frame out on a timing peripheral.
// Transmit must send all slots in order and return only once the frame is
// on the wire. Transmitters do their own timing from the frame; Pixel
// queries ClockHz only to reject frames the peripheral cannot time, and
// never sends it a tick table.
type Transmitter interface {
	// ClockHz reports the counter clock the peripheral times pulses with.
	ClockHz() (uint32, error)
	Transmit(f *color.Frame) error
}

// Pixel is one LED. It is not safe for concurrent use.
type Pixel struct {
	tx   Transmitter
	last color.RGB
}

func NewPixel(tx Transmitter) *Pixel {
	return &Pixel{tx: tx}
}

// SetHSV validates and converts c, then shows it.
func (p *Pixel) SetHSV(c color.HSV) error {
	rgb, err := c.RGB()
	if err != nil {
		return err
	}
	return p.SetRGB(rgb)
}

// SetRGB encodes a fresh frame for c and transmits it.
func (p *Pixel) SetRGB(c color.RGB) error {
	f := color.Encode(c)

	hz, err := p.tx.ClockHz()
	if err != nil {
		return errcode.Wrap(errcode.PeripheralError, "led.clock", err)
	}
	// Only a check; the ticks are not handed on.
	if _, err := f.Ticks(hz); err != nil {
		return err
	}
	if err := p.tx.Transmit(&f); err != nil {
		if errcode.Is(err, errcode.PeripheralError) {
			return err
		}
		return errcode.Wrap(errcode.PeripheralError, "led.transmit", err)
	}
	p.last = c
	return nil
}

// Off shows black.
func (p *Pixel) Off() error { return p.SetHSV(color.Off) }

// Last is the most recent colour transmitted successfully.
func (p *Pixel) Last() color.RGB { return p.last }
