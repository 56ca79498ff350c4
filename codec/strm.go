package codec

import (
	"fmt"
	"net"
	"time"

	"github.com/slimproto-go/slimproto/message"
	"github.com/slimproto-go/slimproto/wire"
)

// decodeStrm implements the strm sub-dispatch of spec §4.3. body is the
// payload after the "strm" opcode: body[0] is the command character,
// body[1:] ("remainder") carries the command-specific fields. Every
// offset named in the per-command tables (including the Stream field
// table's "+N" columns) is an index into remainder, not body — spec
// §4.3's own worked Pause example only reconciles against remainder
// offsets, not body offsets.
func decodeStrm(raw, body []byte) (message.SC, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("%w: strm payload missing command byte", wire.ErrMalformed)
	}
	cmd := body[0]
	remainder := body[1:]

	switch cmd {
	case 't':
		ts, err := strmTimestamp(remainder)
		if err != nil {
			return nil, err
		}
		return message.StatusRequest{Interval: ts}, nil
	case 's':
		return decodeStream(remainder)
	case 'q':
		return message.Stop{}, nil
	case 'f':
		return message.Flush{}, nil
	case 'p':
		ts, err := strmTimestamp(remainder)
		if err != nil {
			return nil, err
		}
		return message.Pause{Timestamp: ts}, nil
	case 'u':
		ts, err := strmTimestamp(remainder)
		if err != nil {
			return nil, err
		}
		return message.Unpause{Timestamp: ts}, nil
	case 'a':
		ts, err := strmTimestamp(remainder)
		if err != nil {
			return nil, err
		}
		return message.Skip{Timestamp: ts}, nil
	default:
		return message.Unknown{
			Opcode: "strm_" + string(cmd),
			Raw:    append([]byte(nil), raw...),
		}, nil
	}
}

// strmTimestamp reads the shared u32-BE-milliseconds slot at remainder
// offset 13 that StatusRequest.Interval, Pause.Timestamp,
// Unpause.Timestamp, and Skip.Timestamp all decode from (spec §9: the
// fields are not semantically related despite sharing a wire slot).
func strmTimestamp(remainder []byte) (time.Duration, error) {
	if len(remainder) < 17 {
		return 0, fmt.Errorf("%w: strm command remainder shorter than 17 bytes", wire.ErrMalformed)
	}
	r := wire.NewReader(remainder[13:17])
	ms, _ := r.U32()
	return time.Duration(ms) * time.Millisecond, nil
}

var sampleSizeBits = map[byte]message.PCMSampleSize{
	'0': 8, '1': 16, '2': 20, '3': 32, '?': message.SelfDescribing,
}

var sampleRateHz = map[byte]message.PCMSampleRate{
	'0': 11025, '1': 22050, '2': 32000, '3': 44100, '4': 48000,
	'5': 8000, '6': 12000, '7': 16000, '8': 24000, '9': 96000,
	'?': message.SelfDescribing,
}

func decodeStream(remainder []byte) (message.SC, error) {
	if len(remainder) < 23 {
		return nil, fmt.Errorf("%w: strm 's' remainder shorter than 23 bytes", wire.ErrMalformed)
	}

	autoStart, err := decodeAutoStart(remainder[0])
	if err != nil {
		return nil, err
	}
	format, err := decodeFormat(remainder[1])
	if err != nil {
		return nil, err
	}
	sampleSize, ok := sampleSizeBits[remainder[2]]
	if !ok {
		return nil, fmt.Errorf("%w: invalid pcm_sample_size byte %q", wire.ErrMalformed, remainder[2])
	}
	sampleRate, ok := sampleRateHz[remainder[3]]
	if !ok {
		return nil, fmt.Errorf("%w: invalid pcm_sample_rate byte %q", wire.ErrMalformed, remainder[3])
	}
	channels, err := decodeChannels(remainder[4])
	if err != nil {
		return nil, err
	}
	endian, err := decodeEndian(remainder[5])
	if err != nil {
		return nil, err
	}
	spdif, err := decodeSpdifMode(remainder[7])
	if err != nil {
		return nil, err
	}
	transitionType, err := decodeDigit(remainder[9], 0, 4)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transition_type byte %q", wire.ErrMalformed, remainder[9])
	}

	r := wire.NewReader(remainder[13:17])
	gainRaw, _ := r.U32()
	portR := wire.NewReader(remainder[17:19])
	port, _ := portR.U16()
	ip := net.IPv4(remainder[19], remainder[20], remainder[21], remainder[22])

	var headers *string
	if len(remainder) > 23 {
		h := string(remainder[23:])
		headers = &h
	}

	return message.Stream{
		AutoStart:         autoStart,
		Format:            format,
		PCMSampleSize:     sampleSize,
		PCMSampleRate:     sampleRate,
		PCMChannels:       channels,
		PCMEndian:         endian,
		ThresholdBytes:    uint32(remainder[6]) * 1024,
		SpdifEnable:       spdif,
		TransitionSeconds: remainder[8],
		TransitionType:    transitionType,
		Flags:             message.StreamFlags(remainder[10]),
		OutputThresholdMs: uint32(remainder[11]) * 10,
		ReplayGain:        float64(gainRaw) / 65536.0,
		ServerPort:        port,
		ServerIP:          ip,
		HTTPHeaders:       headers,
	}, nil
}

func decodeAutoStart(b byte) (message.AutoStart, error) {
	switch b {
	case '0':
		return message.AutoStartNone, nil
	case '1':
		return message.AutoStartAuto, nil
	case '2':
		return message.AutoStartDirect, nil
	case '3':
		return message.AutoStartAutoDirect, nil
	default:
		return 0, fmt.Errorf("%w: invalid auto_start byte %q", wire.ErrMalformed, b)
	}
}

func decodeFormat(b byte) (message.AudioFormat, error) {
	switch b {
	case 'p':
		return message.FormatPcm, nil
	case 'm':
		return message.FormatMp3, nil
	case 'f':
		return message.FormatFlac, nil
	case 'w':
		return message.FormatWma, nil
	case 'o':
		return message.FormatOgg, nil
	case 'a':
		return message.FormatAac, nil
	case 'l':
		return message.FormatAlac, nil
	default:
		return 0, fmt.Errorf("%w: invalid format byte %q", wire.ErrMalformed, b)
	}
}

func decodeChannels(b byte) (message.PCMChannels, error) {
	switch b {
	case '1':
		return message.ChannelsMono, nil
	case '2':
		return message.ChannelsStereo, nil
	case '?':
		return message.PCMChannels(message.SelfDescribing), nil
	default:
		return 0, fmt.Errorf("%w: invalid pcm_channels byte %q", wire.ErrMalformed, b)
	}
}

func decodeEndian(b byte) (message.PCMEndian, error) {
	switch b {
	case '0':
		return message.EndianBig, nil
	case '1':
		return message.EndianLittle, nil
	case '?':
		return message.PCMEndian(message.SelfDescribing), nil
	default:
		return 0, fmt.Errorf("%w: invalid pcm_endian byte %q", wire.ErrMalformed, b)
	}
}

func decodeSpdifMode(b byte) (message.SpdifMode, error) {
	switch b {
	case 0:
		return message.SpdifAuto, nil
	case 1:
		return message.SpdifOn, nil
	case 2:
		return message.SpdifOff, nil
	default:
		return 0, fmt.Errorf("%w: invalid spdif_enable byte %d", wire.ErrMalformed, b)
	}
}

func decodeDigit(b byte, min, max byte) (uint8, error) {
	if b < '0'+min || b > '0'+max {
		return 0, fmt.Errorf("%w: digit %q out of range", wire.ErrMalformed, b)
	}
	return b - '0', nil
}

// decodeSetd implements the setd sub-dispatch of spec §4.3. body is the
// payload after the "setd" opcode: body[0] is the id byte.
func decodeSetd(raw, body []byte) (message.SC, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("%w: setd payload missing id byte", wire.ErrMalformed)
	}
	id := body[0]
	remainder := body[1:]

	switch id {
	case 0:
		if len(remainder) == 0 {
			return message.QueryName{}, nil
		}
		// The final byte is assumed to be a NUL terminator and is
		// dropped unconditionally, even if the sender omitted one
		// (spec §9 flags this as a known data-loss edge case).
		return message.SetNameRequest{Name: string(remainder[:len(remainder)-1])}, nil
	case 4:
		return message.DisableDac{}, nil
	default:
		return message.Unknown{
			Opcode: fmt.Sprintf("setd_%d", id),
			Raw:    append([]byte(nil), raw...),
		}, nil
	}
}
