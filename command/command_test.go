package command

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scenenode-go/errcode"
	"scenenode-go/scene"
)

func TestPilot_Wire(t *testing.T) {
	b, err := json.Marshal(Pilot{SceneID: 12, Dimming: 100})
	require.NoError(t, err)
	require.Equal(t, `{"method":"setPilot","params":{"sceneId":12,"dimming":100}}`, string(b))

	b, err = json.Marshal(FromScene(scene.Default()[1]))
	require.NoError(t, err)
	require.Equal(t, `{"method":"setPilot","params":{"sceneId":6,"dimming":10}}`, string(b))
}

func TestUDPSender_DeliversOneDatagram(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	s := NewUDPSender(pc.LocalAddr().String())
	require.NoError(t, s.Send(context.Background(), Pilot{SceneID: 6, Dimming: 10}))

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	require.JSONEq(t, `{"method":"setPilot","params":{"sceneId":6,"dimming":10}}`, string(buf[:n]))
}

func TestUDPSender_BadAddress(t *testing.T) {
	s := NewUDPSender("not-an-address")
	err := s.Send(context.Background(), Pilot{SceneID: 1})
	require.Error(t, err)
	require.Equal(t, errcode.TransportError, errcode.Of(err))
}

func TestUDPSender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewUDPSender("127.0.0.1:"+DefaultPort).Send(ctx, Pilot{SceneID: 1})
	require.Equal(t, errcode.TransportError, errcode.Of(err))
}

// noDeadlineConn is a connection whose deadlines cannot be set.
type noDeadlineConn struct {
	net.Conn
	wrote bool
}

func (c *noDeadlineConn) SetWriteDeadline(time.Time) error {
	return errors.New("deadline not supported")
}

func (c *noDeadlineConn) Write(b []byte) (int, error) {
	c.wrote = true
	return len(b), nil
}

func (c *noDeadlineConn) Close() error { return nil }

func TestUDPSender_DeadlineFailure(t *testing.T) {
	conn := &noDeadlineConn{}
	s := NewUDPSender("127.0.0.1:" + DefaultPort)
	s.dial = func(context.Context, string, string) (net.Conn, error) { return conn, nil }

	err := s.Send(context.Background(), Pilot{SceneID: 1})
	require.Equal(t, errcode.TransportError, errcode.Of(err), "got %v", err)
	require.False(t, conn.wrote, "datagram written without a deadline")
}
