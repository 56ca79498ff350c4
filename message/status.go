package message

// EventCode identifies a STAT opcode's 4-ASCII-byte event tag, per
// spec §4.5.
type EventCode int

const (
	Connect EventCode = iota
	DecoderReady
	StreamEstablished
	Flushed
	HeadersReceived
	BufferThreshold
	NotSupported
	OutputUnderrun
	PauseEvent
	Resume
	TrackStarted
	Timer
	Underrun
)

var eventCodeWire = map[EventCode][4]byte{
	Connect:           {'S', 'T', 'M', 'c'},
	DecoderReady:      {'S', 'T', 'M', 'd'},
	StreamEstablished: {'S', 'T', 'M', 'e'},
	Flushed:           {'S', 'T', 'M', 'f'},
	HeadersReceived:   {'S', 'T', 'M', 'h'},
	BufferThreshold:   {'S', 'T', 'M', 'l'},
	NotSupported:      {'S', 'T', 'M', 'n'},
	OutputUnderrun:    {'S', 'T', 'M', 'o'},
	PauseEvent:        {'S', 'T', 'M', 'p'},
	Resume:            {'S', 'T', 'M', 'r'},
	TrackStarted:      {'S', 'T', 'M', 's'},
	Timer:             {'S', 'T', 'M', 't'},
	Underrun:          {'S', 'T', 'M', 'u'},
}

// ToEventCode renders the 4 ASCII wire bytes for this event code.
func (c EventCode) ToEventCode() [4]byte {
	return eventCodeWire[c]
}

// StatusSnapshot is the 49-byte status payload carried by Stat, per
// spec §3. All counters use modular arithmetic on overflow.
type StatusSnapshot struct {
	CRLF                  uint8
	BufferSize            uint32
	Fullness              uint32
	BytesReceived         uint64
	SignalStrength        uint16
	JiffiesMs             uint32
	OutputBufferSize      uint32
	OutputBufferFullness  uint32
	ElapsedSeconds        uint32
	Voltage               uint16
	ElapsedMs             uint32
	TimestampMs           uint32
	ErrorCode             uint16
}

// WireSize is the fixed on-wire length of a StatusSnapshot.
const WireSize = 49
