package codec

import (
	"fmt"
	"net"

	"github.com/slimproto-go/slimproto/message"
	"github.com/slimproto-go/slimproto/wire"
)

// Decode parses one already-deframed server→client payload (opcode
// included, no length prefix) into a tagged SC variant, per spec §4.3.
// Unrecognized opcodes are not an error: they decode to message.Unknown
// so framing alignment is never lost (spec §7).
func Decode(input []byte) (message.SC, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("%w: frame shorter than opcode", wire.ErrMalformed)
	}
	opcode := string(input[0:4])
	body := input[4:]

	switch opcode {
	case opServ:
		return decodeServ(body)
	case opStrm:
		return decodeStrm(input, body)
	case opAude:
		return decodeAude(body)
	case opAudg:
		return decodeAudg(body)
	case opVers:
		return message.Version{Text: string(body)}, nil
	case opSetdLower:
		return decodeSetd(input, body)
	default:
		return message.Unknown{Opcode: opcode, Raw: append([]byte(nil), input...)}, nil
	}
}

func decodeServ(body []byte) (message.SC, error) {
	if len(body) < 4 {
		return nil, fmt.Errorf("%w: serv payload shorter than 4 bytes", wire.ErrMalformed)
	}
	ip := net.IPv4(body[0], body[1], body[2], body[3])
	var syncGroup *string
	if len(body) > 4 {
		s := string(body[4:])
		syncGroup = &s
	}
	return message.Serv{IP: ip, SyncGroupID: syncGroup}, nil
}

func decodeAude(body []byte) (message.SC, error) {
	if len(body) < 2 {
		return nil, fmt.Errorf("%w: aude payload shorter than 2 bytes", wire.ErrMalformed)
	}
	return message.Enable{Spdif: body[0] != 0, Dac: body[1] != 0}, nil
}

func decodeAudg(body []byte) (message.SC, error) {
	if len(body) < 18 {
		return nil, fmt.Errorf("%w: audg payload shorter than 18 bytes", wire.ErrMalformed)
	}
	r := wire.NewReader(body[10:18])
	left, _ := r.U32()
	right, _ := r.U32()
	return message.Gain{
		Left:  float64(left) / 65536.0,
		Right: float64(right) / 65536.0,
	}, nil
}
