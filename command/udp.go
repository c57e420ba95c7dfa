package command

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"scenenode-go/errcode"
)

// DefaultPort is the light's local control port.
const DefaultPort = "38899"

const defaultWriteTimeout = time.Second

// UDPSender writes each command as a single datagram to Addr.
type UDPSender struct {
	// Addr is the light's host:port.
	Addr string
	// WriteTimeout bounds a send when ctx has no deadline.
	WriteTimeout time.Duration

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewUDPSender(addr string) *UDPSender {
	return &UDPSender{Addr: addr, WriteTimeout: defaultWriteTimeout}
}

// Send marshals p and writes it from an ephemeral local port.
func (s *UDPSender) Send(ctx context.Context, p Pilot) error {
	const op = "command.send"

	msg, err := json.Marshal(p)
	if err != nil {
		return errcode.Wrap(errcode.TransportError, op, err)
	}

	dial := s.dial
	if dial == nil {
		var d net.Dialer
		dial = d.DialContext
	}
	conn, err := dial(ctx, "udp", s.Addr)
	if err != nil {
		return &errcode.E{C: errcode.TransportError, Op: op, Msg: s.Addr, Err: err}
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		to := s.WriteTimeout
		if to <= 0 {
			to = defaultWriteTimeout
		}
		deadline = time.Now().Add(to)
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return &errcode.E{C: errcode.TransportError, Op: op, Msg: s.Addr, Err: err}
	}

	if _, err := conn.Write(msg); err != nil {
		return &errcode.E{C: errcode.TransportError, Op: op, Msg: s.Addr, Err: err}
	}
	return nil
}
