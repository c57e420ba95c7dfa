// Package ledserial implements the framed serial protocol between a host
// running the node and the bridge MCU wired to the pixel and the button.
//
// Every packet is a type byte, a type-specific body and a little-endian
// CRC-32 (IEEE) of type and body.
package ledserial

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"scenenode-go/errcode"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// MaxMessageLen bounds error and log strings.
const MaxMessageLen = 256

// IncomingPacketType is a packet sent from the host to the bridge.
type IncomingPacketType uint8

const (
	TypeSetPacket IncomingPacketType = iota + 1
	TypePingPacket
)

func (t IncomingPacketType) String() string {
	switch t {
	case TypeSetPacket:
		return "set"
	case TypePingPacket:
		return "ping"
	default:
		return fmt.Sprintf("IncomingPacketType(%d)", t)
	}
}

// IncomingPacket is a packet the bridge reads.
type IncomingPacket interface {
	Type() IncomingPacketType
}

// SetPacket shows a colour on the pixel.
type SetPacket struct {
	R, G, B uint8
}

// PingPacket asks the bridge to report the button level now.
type PingPacket struct{}

func (SetPacket) Type() IncomingPacketType  { return TypeSetPacket }
func (PingPacket) Type() IncomingPacketType { return TypePingPacket }

// OutgoingPacketType is a packet sent from the bridge to the host.
type OutgoingPacketType uint8

const (
	TypeLevelPacket OutgoingPacketType = iota + 1
	TypeErrorPacket
	TypeLogPacket
)

func (t OutgoingPacketType) String() string {
	switch t {
	case TypeLevelPacket:
		return "level"
	case TypeErrorPacket:
		return "error"
	case TypeLogPacket:
		return "log"
	default:
		return fmt.Sprintf("OutgoingPacketType(%d)", t)
	}
}

// OutgoingPacket is a packet the host reads.
type OutgoingPacket interface {
	Type() OutgoingPacketType
}

// LevelPacket reports the button line level.
type LevelPacket struct {
	Low bool
}

// ErrorPacket reports a failure on the bridge, e.g. a malformed packet.
type ErrorPacket struct {
	Message string
}

// LogPacket carries a diagnostic line from the bridge.
type LogPacket struct {
	Message string
}

func (LevelPacket) Type() OutgoingPacketType { return TypeLevelPacket }
func (ErrorPacket) Type() OutgoingPacketType { return TypeErrorPacket }
func (LogPacket) Type() OutgoingPacketType   { return TypeLogPacket }

// ReadIncomingPacket reads one host→bridge packet.
func ReadIncomingPacket(r io.Reader) (IncomingPacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptype [1]byte
	if _, err := io.ReadFull(r, ptype[:]); err != nil {
		return nil, fmt.Errorf("failed to read incoming packet type: %w", err)
	}

	var packet IncomingPacket
	switch t := IncomingPacketType(ptype[0]); t {
	case TypeSetPacket:
		var pix [3]byte
		if _, err := io.ReadFull(r, pix[:]); err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		packet = SetPacket{R: pix[0], G: pix[1], B: pix[2]}
	case TypePingPacket:
		packet = PingPacket{}
	default:
		return nil, &errcode.E{C: errcode.InvalidPacket, Op: "ledserial.read", Msg: "unknown packet type " + t.String()}
	}

	if err := readChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteIncomingPacket writes one host→bridge packet in a single Write.
func WriteIncomingPacket(w io.Writer, p IncomingPacket) error {
	buf := make([]byte, 0, 8)
	switch p := p.(type) {
	case SetPacket:
		buf = append(buf, byte(TypeSetPacket), p.R, p.G, p.B)
	case PingPacket:
		buf = append(buf, byte(TypePingPacket))
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}
	return writeFrame(w, buf)
}

// ReadOutgoingPacket reads one bridge→host packet.
func ReadOutgoingPacket(r io.Reader) (OutgoingPacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptype [1]byte
	if _, err := io.ReadFull(r, ptype[:]); err != nil {
		return nil, fmt.Errorf("failed to read outgoing packet type: %w", err)
	}

	var packet OutgoingPacket
	switch t := OutgoingPacketType(ptype[0]); t {
	case TypeLevelPacket:
		var lvl [1]byte
		if _, err := io.ReadFull(r, lvl[:]); err != nil {
			return nil, fmt.Errorf("failed to read level: %w", err)
		}
		packet = LevelPacket{Low: lvl[0] != 0}
	case TypeErrorPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read error message: %w", err)
		}
		packet = ErrorPacket{Message: msg}
	case TypeLogPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read log message: %w", err)
		}
		packet = LogPacket{Message: msg}
	default:
		return nil, &errcode.E{C: errcode.InvalidPacket, Op: "ledserial.read", Msg: "unknown packet type " + t.String()}
	}

	if err := readChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteOutgoingPacket writes one bridge→host packet in a single Write.
func WriteOutgoingPacket(w io.Writer, p OutgoingPacket) error {
	buf := make([]byte, 0, 16)
	switch p := p.(type) {
	case LevelPacket:
		var lvl byte
		if p.Low {
			lvl = 1
		}
		buf = append(buf, byte(TypeLevelPacket), lvl)
	case ErrorPacket:
		buf = appendMessage(append(buf, byte(TypeErrorPacket)), p.Message)
	case LogPacket:
		buf = appendMessage(append(buf, byte(TypeLogPacket)), p.Message)
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}
	return writeFrame(w, buf)
}

func writeFrame(w io.Writer, body []byte) error {
	body = Endianness.AppendUint32(body, crc32.ChecksumIEEE(body))
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}
	return nil
}

// readChecksum reads the trailer from r. want must be taken before the read
// so the trailer itself is not hashed.
func readChecksum(r io.Reader, want uint32) error {
	var sum [4]byte
	if _, err := io.ReadFull(r, sum[:]); err != nil {
		return fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if Endianness.Uint32(sum[:]) != want {
		return &errcode.E{C: errcode.InvalidPacket, Op: "ledserial.read", Msg: "checksum mismatch"}
	}
	return nil
}

func appendMessage(buf []byte, msg string) []byte {
	if len(msg) > MaxMessageLen {
		msg = msg[:MaxMessageLen]
	}
	buf = Endianness.AppendUint16(buf, uint16(len(msg)))
	return append(buf, msg...)
}

func readMessage(r io.Reader) (string, error) {
	var n [2]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return "", err
	}
	length := Endianness.Uint16(n[:])
	if length > MaxMessageLen {
		return "", &errcode.E{C: errcode.InvalidPacket, Op: "ledserial.read", Msg: "message too long"}
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
