// Package bridge is the host end of the serial link to the bridge MCU. A Link
// is both the controller's button Input and the pixel's led.Transmitter.
package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"

	"scenenode-go/color"
	"scenenode-go/errcode"
	"scenenode-go/ledserial"
)

// ClockHz is the tick rate the bridge's pixel driver is timed against.
const ClockHz = 125_000_000

// Link owns the serial port. The reader goroutine started by Run is the only
// writer of the level and fault fields; the controller only loads them.
type Link struct {
	rw     io.ReadWriteCloser
	logger *slog.Logger
	hz     uint32

	wmu sync.Mutex // serialises packet writes

	low   atomic.Bool
	fault atomic.Pointer[string]
}

// Open opens the serial device at baud.
func Open(device string, baud int, clockHz uint32, logger *slog.Logger) (*Link, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errcode.Wrap(errcode.PeripheralError, "bridge.open", err)
	}
	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errcode.Wrap(errcode.PeripheralError, "bridge.open", err)
	}
	return New(port, clockHz, logger), nil
}

// New wraps an already open stream. clockHz 0 selects ClockHz.
func New(rw io.ReadWriteCloser, clockHz uint32, logger *slog.Logger) *Link {
	if clockHz == 0 {
		clockHz = ClockHz
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Link{rw: rw, logger: logger, hz: clockHz}
}

// Get reports the last level the bridge sent; true (released on a pull-up
// line) until the first report arrives.
func (l *Link) Get() bool { return !l.low.Load() }

// ClockHz implements led.Transmitter.
func (l *Link) ClockHz() (uint32, error) { return l.hz, nil }

// Transmit implements led.Transmitter. It fails if the bridge reported an
// error since the previous call.
func (l *Link) Transmit(f *color.Frame) error {
	if msg := l.fault.Swap(nil); msg != nil {
		return errcode.New(errcode.PeripheralError, "bridge.transmit", "bridge reported: "+*msg)
	}
	c, err := f.RGB()
	if err != nil {
		return err
	}
	return l.write(ledserial.SetPacket{R: c.R, G: c.G, B: c.B})
}

func (l *Link) write(p ledserial.IncomingPacket) error {
	l.wmu.Lock()
	defer l.wmu.Unlock()
	if err := ledserial.WriteIncomingPacket(l.rw, p); err != nil {
		return errcode.Wrap(errcode.PeripheralError, "bridge.write", err)
	}
	return nil
}

// Close closes the port, which also stops Run.
func (l *Link) Close() error { return l.rw.Close() }

// Run asks for the current level and reads bridge packets until ctx is done
// or the port fails. The port is closed when Run returns.
func (l *Link) Run(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)

	done := make(chan struct{})
	errg.Go(func() error {
		select {
		case <-ctx.Done():
		case <-done:
		}
		l.logger.Debug("closing bridge port")
		l.rw.Close()
		return nil
	})

	errg.Go(func() error {
		defer close(done)
		if err := l.write(ledserial.PingPacket{}); err != nil {
			return err
		}
		return l.readLoop(ctx)
	})

	return errg.Wait()
}

func (l *Link) readLoop(ctx context.Context) error {
	for {
		p, err := ledserial.ReadOutgoingPacket(l.rw)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errcode.Is(err, errcode.InvalidPacket) {
				// An unknown type byte is the only byte consumed, so the next
				// read starts on the following byte. Without a sync marker a
				// lost or corrupted byte can leave the stream misaligned;
				// the bridge's periodic level report restores the level
				// once framing lines up again.
				l.logger.Warn("dropping malformed packet from bridge", "error", err)
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return errcode.New(errcode.PeripheralError, "bridge.read", "port closed")
			}
			return errcode.Wrap(errcode.PeripheralError, "bridge.read", err)
		}
		l.handle(p)
	}
}

func (l *Link) handle(p ledserial.OutgoingPacket) {
	switch p := p.(type) {
	case ledserial.LevelPacket:
		l.low.Store(p.Low)
		l.logger.Debug("button level from bridge", "low", p.Low)
	case ledserial.ErrorPacket:
		msg := p.Message
		l.fault.Store(&msg)
		l.logger.Warn("bridge reported error", "message", p.Message)
	case ledserial.LogPacket:
		l.logger.Info("bridge", "message", p.Message)
	}
}
