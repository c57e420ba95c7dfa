// Command framedump prints what the pixel would be sent for one HSV colour:
// the truncated RGB triple, the 24 pulse slots and their tick counts.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"scenenode-go/color"
	"scenenode-go/errcode"
	"scenenode-go/led"
)

var (
	hue     uint16 = 0
	sat     uint16 = 100
	val     uint16 = 20
	clockHz uint32 = led.DefaultClockHz
)

func init() {
	pflag.Uint16VarP(&hue, "hue", "H", hue, "hue, 0-360")
	pflag.Uint16VarP(&sat, "saturation", "s", sat, "saturation, 0-100")
	pflag.Uint16VarP(&val, "value", "v", val, "value, 0-100")
	pflag.Uint32Var(&clockHz, "clock", clockHz, "pulse peripheral counter clock in Hz")
}

func main() {
	pflag.Parse()

	if err := dump(os.Stdout, color.HSV{H: hue, S: sat, V: val}, clockHz); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errcode.Is(err, errcode.InvalidColorInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func dump(w io.Writer, hsv color.HSV, hz uint32) error {
	rgb, err := hsv.RGB()
	if err != nil {
		return errors.Wrapf(err, "cannot convert %v", hsv)
	}
	frame := color.Encode(rgb)
	ticks, err := frame.Ticks(hz)
	if err != nil {
		return errors.Wrapf(err, "cannot time frame at %d Hz", hz)
	}

	fmt.Fprintf(w, "%v -> %v word=0x%06x\n", hsv, rgb, rgb.Word())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "slot\tbit\thigh\tlow\thigh ticks\tlow ticks")
	for i, p := range frame {
		bit := 0
		if p == color.One {
			bit = 1
		}
		fmt.Fprintf(tw, "%d\t%d\t%v\t%v\t%d\t%d\n", i, bit, p.High, p.Low, ticks[i].High, ticks[i].Low)
	}
	return tw.Flush()
}
