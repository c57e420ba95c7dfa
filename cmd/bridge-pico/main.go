//go:build rp2040

// Command bridge-pico is the firmware for an RP2040 that carries the scene
// button and the status pixel for a host running scenenode. It speaks the
// ledserial protocol on UART0.
package main

import (
	"context"
	"image/color"
	"machine"
	"sync"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"

	"scenenode-go/ledserial"
)

const (
	baud       = 115200
	buttonPin  = machine.GP4
	ledPin     = machine.GP5
	levelPoll  = 10 * time.Millisecond
	levelEvery = time.Second
)

func main() {
	time.Sleep(1500 * time.Millisecond)
	println("[bridge] boot …")

	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	buttonPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	d := &device{
		port:   u,
		button: buttonPin,
		led:    ws2812.New(ledPin),
	}
	d.setPixel(0, 0, 0)

	go d.readLoop(context.Background())
	d.levelLoop()
}

type device struct {
	port   *uartx.UART
	button machine.Pin
	led    ws2812.Device

	wmu sync.Mutex
}

// Read adapts the UART to io.Reader for the packet decoder.
func (d *device) Read(p []byte) (int, error) {
	return d.port.RecvSomeContext(context.Background(), p)
}

func (d *device) Write(p []byte) (int, error) { return d.port.Write(p) }

func (d *device) readLoop(ctx context.Context) {
	for {
		p, err := ledserial.ReadIncomingPacket(d)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			println("[bridge] bad packet:", err.Error())
			d.send(ledserial.LogPacket{Message: "dropped packet: " + err.Error()})
			continue
		}

		switch p := p.(type) {
		case ledserial.SetPacket:
			if err := d.setPixel(p.R, p.G, p.B); err != nil {
				d.send(ledserial.ErrorPacket{Message: "ws2812: " + err.Error()})
			}
		case ledserial.PingPacket:
			d.sendLevel()
		}
	}
}

// levelLoop reports every change of the button line, plus a periodic
// refresh so a host that missed a packet converges.
func (d *device) levelLoop() {
	last := d.button.Get()
	d.sendLevel()
	refresh := time.Now()
	for {
		time.Sleep(levelPoll)
		lvl := d.button.Get()
		if lvl != last || time.Since(refresh) >= levelEvery {
			last = lvl
			refresh = time.Now()
			d.send(ledserial.LevelPacket{Low: !lvl})
		}
	}
}

func (d *device) sendLevel() {
	d.send(ledserial.LevelPacket{Low: !d.button.Get()})
}

func (d *device) send(p ledserial.OutgoingPacket) {
	d.wmu.Lock()
	defer d.wmu.Unlock()
	if err := ledserial.WriteOutgoingPacket(d, p); err != nil {
		println("[bridge] write failed:", err.Error())
	}
}

func (d *device) setPixel(r, g, b uint8) error {
	return d.led.WriteColors([]color.RGBA{{R: r, G: g, B: b}})
}
