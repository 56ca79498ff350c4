package message

import "net"

// AutoStart controls whether the client starts playback automatically,
// per spec §4.3's 's' (Stream) command byte +0.
type AutoStart int

const (
	AutoStartNone AutoStart = iota
	AutoStartAuto
	AutoStartDirect
	AutoStartAutoDirect
)

// AudioFormat is the stream's codec, decoded from byte +1.
type AudioFormat int

const (
	FormatPcm AudioFormat = iota
	FormatMp3
	FormatFlac
	FormatWma
	FormatOgg
	FormatAac
	FormatAlac
)

// SelfDescribing marks a PCM parameter ('?') whose value is carried in
// the stream's own container/header rather than the strm payload.
const SelfDescribing = -1

// PCMSampleSize is the PCM bit depth in bits, or SelfDescribing.
type PCMSampleSize int

// PCMSampleRate is the PCM sample rate in Hz, or SelfDescribing.
type PCMSampleRate int

// PCMChannels is the channel count, or SelfDescribing.
type PCMChannels int

const (
	ChannelsMono   PCMChannels = 1
	ChannelsStereo PCMChannels = 2
)

// PCMEndian is the PCM sample byte order, or SelfDescribing.
type PCMEndian int

const (
	EndianBig PCMEndian = iota
	EndianLittle
)

// SpdifMode controls S/PDIF passthrough for a stream.
type SpdifMode int

const (
	SpdifAuto SpdifMode = iota
	SpdifOn
	SpdifOff
)

// StreamFlags is the byte +10 bitfield: bit7 InfiniteLoop, bit6
// NoRestartDecoder, bit1 InvertPolarityRight, bit0 InvertPolarityLeft.
type StreamFlags uint8

const (
	FlagInfiniteLoop         StreamFlags = 1 << 7
	FlagNoRestartDecoder     StreamFlags = 1 << 6
	FlagInvertPolarityRight  StreamFlags = 1 << 1
	FlagInvertPolarityLeft   StreamFlags = 1 << 0
)

// Has reports whether flag bit is set.
func (f StreamFlags) Has(flag StreamFlags) bool {
	return f&flag != 0
}

// Stream starts or continues a network stream, per spec §4.3's 's'
// command and field table.
type Stream struct {
	AutoStart         AutoStart
	Format            AudioFormat
	PCMSampleSize     PCMSampleSize
	PCMSampleRate     PCMSampleRate
	PCMChannels       PCMChannels
	PCMEndian         PCMEndian
	ThresholdBytes    uint32
	SpdifEnable       SpdifMode
	TransitionSeconds uint8
	TransitionType    uint8
	Flags             StreamFlags
	OutputThresholdMs uint32
	ReplayGain        float64
	ServerPort        uint16
	ServerIP          net.IP
	HTTPHeaders       *string
}

func (Stream) scMessage() {}
