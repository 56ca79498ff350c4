package codec

import (
	"fmt"

	"github.com/slimproto-go/slimproto/capability"
	"github.com/slimproto-go/slimproto/message"
	"github.com/slimproto-go/slimproto/wire"
)

// Encode serializes a CS message into its wire frame: a 4-byte ASCII
// opcode, a big-endian u32 payload length, then the payload itself, per
// spec §4.2. This u32 length prefix is the client→server framing; it is
// distinct from the u16 prefix the session strips on the server→client
// side (spec §4.2's noted asymmetry).
func Encode(msg message.CS) ([]byte, error) {
	switch m := msg.(type) {
	case message.Helo:
		return encodeHelo(m)
	case message.Stat:
		return encodeStat(m)
	case message.Bye:
		return encodeBye(m)
	case message.SetName:
		return encodeSetName(m)
	default:
		return nil, fmt.Errorf("%w: unencodable CS message %T", wire.ErrInvalidArgument, msg)
	}
}

func frame(opcode string, payload []byte) []byte {
	w := wire.NewWriter()
	w.Raw([]byte(opcode))
	w.U32(uint32(len(payload)))
	w.Raw(payload)
	return w.Take()
}

func encodeHelo(m message.Helo) ([]byte, error) {
	caps := m.Capabilities
	if caps == nil {
		caps = capability.NewSet()
	}
	capStr, err := caps.Render()
	if err != nil {
		return nil, err
	}

	w := wire.NewWriter()
	w.U8(m.DeviceID)
	w.U8(m.Revision)
	w.Raw(m.MAC[:])
	w.Raw(m.UUID[:])
	w.U16(m.WLANChannels)
	w.U64(m.BytesReceived)
	w.Raw(m.Language[:])
	w.Raw([]byte(capStr))
	return frame(opHelo, w.Take()), nil
}

func encodeStat(m message.Stat) ([]byte, error) {
	w := wire.NewWriter()
	w.Raw(m.EventCode[:])
	s := m.Status
	w.U8(s.CRLF)
	w.U16(0) // reserved, always zero
	w.U32(s.BufferSize)
	w.U32(s.Fullness)
	w.U64(s.BytesReceived)
	w.U16(s.SignalStrength)
	w.U32(s.JiffiesMs)
	w.U32(s.OutputBufferSize)
	w.U32(s.OutputBufferFullness)
	w.U32(s.ElapsedSeconds)
	w.U16(s.Voltage)
	w.U32(s.ElapsedMs)
	w.U32(s.TimestampMs)
	w.U16(s.ErrorCode)
	payload := w.Take()
	if len(payload) != 4+message.WireSize {
		return nil, fmt.Errorf("%w: STAT payload length %d, want %d", wire.ErrInvalidArgument, len(payload), 4+message.WireSize)
	}
	return frame(opStat, payload), nil
}

func encodeBye(m message.Bye) ([]byte, error) {
	return frame(opBye, []byte{m.Reason}), nil
}

func encodeSetName(m message.SetName) ([]byte, error) {
	w := wire.NewWriter()
	w.U8(0x00)
	w.Raw([]byte(m.Name))
	return frame(opSetd, w.Take()), nil
}
