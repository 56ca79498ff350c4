package codec

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/slimproto-go/slimproto/capability"
	"github.com/slimproto-go/slimproto/message"
	"github.com/slimproto-go/slimproto/wire"
)

func hexBytes(t *testing.T, groups ...any) []byte {
	t.Helper()
	var out []byte
	for _, g := range groups {
		switch v := g.(type) {
		case []byte:
			out = append(out, v...)
		case string:
			out = append(out, []byte(v)...)
		case byte:
			out = append(out, v)
		default:
			t.Fatalf("unsupported literal type %T", v)
		}
	}
	return out
}

// Scenario 1: Helo encode (spec §8.1).
func TestEncodeHeloScenario(t *testing.T) {
	msg := message.Helo{
		DeviceID:      0,
		Revision:      1,
		MAC:           [6]byte{1, 2, 3, 4, 5, 6},
		UUID:          [16]byte{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7},
		WLANChannels:  0x89AB,
		BytesReceived: 1234,
		Language:      [2]byte{'u', 'k'},
		Capabilities:  capability.NewSet().Add(capability.Wmal, ""),
	}
	got, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := hexBytes(t,
		"HELO",
		[]byte{0x00, 0x00, 0x00, 0x28},
		[]byte{0x00, 0x01, 1, 2, 3, 4, 5, 6},
		[]byte{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7},
		[]byte{0x89, 0xAB},
		[]byte{0, 0, 0, 0, 0, 0, 0x04, 0xD2},
		"uk",
		"wmal",
	)
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(Helo) =\n%x\nwant\n%x", got, want)
	}
}

// Scenario 2: Bye encode (spec §8.2).
func TestEncodeByeScenario(t *testing.T) {
	got, err := Encode(message.Bye{Reason: 55})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := hexBytes(t, "BYE!", []byte{0, 0, 0, 1}, byte(0x37))
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(Bye) = %x, want %x", got, want)
	}
}

func TestEncodeHeloEmptyCapabilitiesRendersEmptyString(t *testing.T) {
	// Encode itself never rejects an empty capability string; that
	// check belongs to session.Connect (spec §9's open question 3).
	msg := message.Helo{MAC: [6]byte{1, 2, 3, 4, 5, 6}, Capabilities: capability.NewSet()}
	if _, err := Encode(msg); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func TestEncodeStatFixedLength(t *testing.T) {
	got, err := Encode(message.Stat{EventCode: [4]byte{'S', 'T', 'M', 'c'}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("STAT")) {
		t.Fatalf("missing STAT opcode")
	}
	payloadLen := uint32(got[4])<<24 | uint32(got[5])<<16 | uint32(got[6])<<8 | uint32(got[7])
	if payloadLen != 53 {
		t.Fatalf("STAT payload length = %d, want 53", payloadLen)
	}
	if len(got) != 8+53 {
		t.Fatalf("total frame length = %d, want %d", len(got), 8+53)
	}
}

func TestEncodeSetName(t *testing.T) {
	got, err := Encode(message.SetName{Name: "bedroom"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := hexBytes(t, "SETD", []byte{0, 0, 0, byte(1 + len("bedroom"))}, byte(0x00), "bedroom")
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(SetName) = %x, want %x", got, want)
	}
}

// Opcode/length round-trip property from spec §8.
func TestEncodeRoundTripOpcodeAndLength(t *testing.T) {
	msgs := []message.CS{
		message.Helo{MAC: [6]byte{1, 2, 3, 4, 5, 6}, Capabilities: capability.Default()},
		message.Stat{EventCode: message.Connect.ToEventCode()},
		message.Bye{Reason: 1},
		message.SetName{Name: "x"},
	}
	for _, m := range msgs {
		b, err := Encode(m)
		if err != nil {
			t.Fatalf("Encode(%T): %v", m, err)
		}
		if len(b) < 8 {
			t.Fatalf("frame too short: %x", b)
		}
		payloadLen := uint32(b[4])<<24 | uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7])
		if int(payloadLen) != len(b)-8 {
			t.Fatalf("%T: declared payload length %d, actual %d", m, payloadLen, len(b)-8)
		}
	}
}

// Scenario 3: serv decode without sync group (spec §8.3).
func TestDecodeServWithoutSyncGroup(t *testing.T) {
	got, err := Decode(hexBytes(t, "serv", []byte{0xC0, 0xA8, 0x01, 0x64}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	serv, ok := got.(message.Serv)
	if !ok {
		t.Fatalf("got %T, want message.Serv", got)
	}
	if !serv.IP.Equal(net.IPv4(192, 168, 1, 100)) {
		t.Fatalf("ip = %v", serv.IP)
	}
	if serv.SyncGroupID != nil {
		t.Fatalf("sync_group_id = %v, want nil", *serv.SyncGroupID)
	}
}

// Scenario 4: serv decode with sync group (spec §8.4).
func TestDecodeServWithSyncGroup(t *testing.T) {
	got, err := Decode(hexBytes(t, "serv", []byte{0xAC, 0x10, 0x01, 0x02}, "sync"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	serv := got.(message.Serv)
	if !serv.IP.Equal(net.IPv4(172, 16, 1, 2)) {
		t.Fatalf("ip = %v", serv.IP)
	}
	if serv.SyncGroupID == nil || *serv.SyncGroupID != "sync" {
		t.Fatalf("sync_group_id = %v, want sync", serv.SyncGroupID)
	}
}

// Scenario 5: strm pause decode (spec §8.5).
func TestDecodeStrmPause(t *testing.T) {
	body := hexBytes(t, byte('p'), []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10, 0x11,
	})
	got, err := Decode(hexBytes(t, "strm", body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	pause, ok := got.(message.Pause)
	if !ok {
		t.Fatalf("got %T, want message.Pause", got)
	}
	want := 235868177 * time.Millisecond
	if pause.Timestamp != want {
		t.Fatalf("timestamp = %v, want %v", pause.Timestamp, want)
	}
}

// Scenario 6: audg gain decode (spec §8.6).
func TestDecodeAudgGain(t *testing.T) {
	body := hexBytes(t,
		make([]byte, 10),
		[]byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00},
	)
	got, err := Decode(hexBytes(t, "audg", body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	gain := got.(message.Gain)
	if gain.Left != 1.0 || gain.Right != 0.5 {
		t.Fatalf("gain = %+v, want left=1.0 right=0.5", gain)
	}
}

// Scenario 7: setd query vs set (spec §8.7).
func TestDecodeSetdQueryName(t *testing.T) {
	got, err := Decode(hexBytes(t, "setd", byte(0x00)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := got.(message.QueryName); !ok {
		t.Fatalf("got %T, want message.QueryName", got)
	}
}

func TestDecodeSetdSetNameRequest(t *testing.T) {
	got, err := Decode(hexBytes(t, "setd", byte(0x00), "newname", byte(0x00)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	set, ok := got.(message.SetNameRequest)
	if !ok {
		t.Fatalf("got %T, want message.SetNameRequest", got)
	}
	if set.Name != "newname" {
		t.Fatalf("name = %q, want newname", set.Name)
	}
}

// Scenario 8: unknown top-level opcode (spec §8.8).
func TestDecodeUnknownTopLevel(t *testing.T) {
	raw := hexBytes(t, "XYZQ", []byte{0x01, 0x02, 0x03, 0x04})
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	unk, ok := got.(message.Unknown)
	if !ok {
		t.Fatalf("got %T, want message.Unknown", got)
	}
	if unk.Opcode != "XYZQ" || !bytes.Equal(unk.Raw, raw) {
		t.Fatalf("unknown = %+v", unk)
	}
}

func TestDecodeUnknownStrmSubcommand(t *testing.T) {
	raw := hexBytes(t, "strm", byte('z'), []byte{1, 2, 3})
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	unk := got.(message.Unknown)
	if unk.Opcode != "strm_z" {
		t.Fatalf("opcode = %q, want strm_z", unk.Opcode)
	}
	if !bytes.Equal(unk.Raw, raw) {
		t.Fatalf("raw mismatch")
	}
}

func TestDecodeUnknownSetdSubcommand(t *testing.T) {
	raw := hexBytes(t, "setd", byte(65), []byte{1, 2, 3})
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	unk := got.(message.Unknown)
	if unk.Opcode != "setd_65" {
		t.Fatalf("opcode = %q, want setd_65", unk.Opcode)
	}
}

func TestDecodeTruncatedFrameBelow4Bytes(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); !errors.Is(err, wire.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeVersion(t *testing.T) {
	got, err := Decode(hexBytes(t, "vers", "7.9.1"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	vers := got.(message.Version)
	if vers.Text != "7.9.1" {
		t.Fatalf("text = %q", vers.Text)
	}
}

func TestDecodeEnable(t *testing.T) {
	got, err := Decode(hexBytes(t, "aude", []byte{1, 0}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	en := got.(message.Enable)
	if !en.Spdif || en.Dac {
		t.Fatalf("enable = %+v", en)
	}
}

func TestDecodeStop(t *testing.T) {
	got, err := Decode(hexBytes(t, "strm", byte('q')))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := got.(message.Stop); !ok {
		t.Fatalf("got %T, want Stop", got)
	}
}

func TestDecodeDisableDac(t *testing.T) {
	got, err := Decode(hexBytes(t, "setd", byte(4)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := got.(message.DisableDac); !ok {
		t.Fatalf("got %T, want DisableDac", got)
	}
}

func TestDecodeStream(t *testing.T) {
	remainder := []byte{
		'1',        // auto_start = Auto
		'f',        // format = Flac
		'1',        // pcm_sample_size = 16
		'3',        // pcm_sample_rate = 44.1k
		'2',        // pcm_channels = Stereo
		'0',        // pcm_endian = Big
		10,         // threshold = 10*1024
		0,          // spdif_enable = Auto
		5,          // transition_period = 5s
		'2',        // transition_type
		0x81,       // flags: InfiniteLoop | InvertPolarityLeft
		20,         // output_threshold = 20*10ms
		0,          // reserved
		0, 1, 0, 0, // replay_gain = 1.0
		0x0D, 0xAC, // server_port = 3500
		10, 0, 0, 1, // server_ip
	}
	raw := hexBytes(t, "strm", byte('s'), remainder)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	st, ok := got.(message.Stream)
	if !ok {
		t.Fatalf("got %T, want Stream", got)
	}
	if st.AutoStart != message.AutoStartAuto || st.Format != message.FormatFlac {
		t.Fatalf("auto_start/format = %v/%v", st.AutoStart, st.Format)
	}
	if st.PCMSampleSize != 16 || st.PCMSampleRate != 44100 || st.PCMChannels != message.ChannelsStereo {
		t.Fatalf("pcm fields = %+v", st)
	}
	if st.ThresholdBytes != 10*1024 {
		t.Fatalf("threshold = %d", st.ThresholdBytes)
	}
	if !st.Flags.Has(message.FlagInfiniteLoop) || !st.Flags.Has(message.FlagInvertPolarityLeft) {
		t.Fatalf("flags = %v", st.Flags)
	}
	if st.OutputThresholdMs != 200 {
		t.Fatalf("output_threshold_ms = %d", st.OutputThresholdMs)
	}
	if st.ReplayGain != 1.0 {
		t.Fatalf("replay_gain = %v", st.ReplayGain)
	}
	if st.ServerPort != 0x0DAC {
		t.Fatalf("server_port = %d", st.ServerPort)
	}
	if !st.ServerIP.Equal(net.IPv4(10, 0, 0, 1)) {
		t.Fatalf("server_ip = %v", st.ServerIP)
	}
	if st.HTTPHeaders != nil {
		t.Fatalf("http_headers = %v, want nil", st.HTTPHeaders)
	}
}

func TestDecodeStreamWithHTTPHeaders(t *testing.T) {
	remainder := []byte{
		'0', 'p', '?', '?', '?', '?', 0, 0, 0, '0', 0, 0, 0,
		0, 0, 0, 0,
		0, 80,
		192, 168, 1, 1,
	}
	headers := "GET /stream HTTP/1.0\r\n\r\n"
	raw := hexBytes(t, "strm", byte('s'), remainder, headers)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	st := got.(message.Stream)
	if st.HTTPHeaders == nil || *st.HTTPHeaders != headers {
		t.Fatalf("http_headers = %v, want %q", st.HTTPHeaders, headers)
	}
	if st.PCMSampleSize != message.SelfDescribing || st.PCMChannels != message.PCMChannels(message.SelfDescribing) {
		t.Fatalf("self-describing fields not preserved: %+v", st)
	}
}
