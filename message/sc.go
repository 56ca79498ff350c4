package message

import (
	"net"
	"time"
)

// Serv tells the client which server (and optionally sync group) to use,
// per spec §4.3.
type Serv struct {
	IP          net.IP
	SyncGroupID *string
}

func (Serv) scMessage() {}

// StatusRequest asks the client to report status at the given interval.
// Spec §9 notes this reuses the same wire slot as Pause/Unpause/Skip's
// timestamp; the fields are not semantically related.
type StatusRequest struct {
	Interval time.Duration
}

func (StatusRequest) scMessage() {}

// Stop ends the current stream.
type Stop struct{}

func (Stop) scMessage() {}

// Flush discards buffered audio.
type Flush struct{}

func (Flush) scMessage() {}

// Pause pauses playback at the given timestamp.
type Pause struct {
	Timestamp time.Duration
}

func (Pause) scMessage() {}

// Unpause resumes playback at the given timestamp.
type Unpause struct {
	Timestamp time.Duration
}

func (Unpause) scMessage() {}

// Skip seeks to the given timestamp.
type Skip struct {
	Timestamp time.Duration
}

func (Skip) scMessage() {}

// Enable toggles the S/PDIF output and DAC.
type Enable struct {
	Spdif bool
	Dac   bool
}

func (Enable) scMessage() {}

// Gain sets per-channel output gain, decoded from Q16.16 fixed point.
type Gain struct {
	Left  float64
	Right float64
}

func (Gain) scMessage() {}

// QueryName asks the client to report its name via SetName.
type QueryName struct{}

func (QueryName) scMessage() {}

// SetNameRequest asks the client to adopt a new name.
//
// Spec §9 flags that the decoder unconditionally drops the final byte of
// the remainder, assuming it is a NUL terminator; a name sent without one
// loses its last character. This is the source's actual behavior and is
// preserved rather than silently corrected.
type SetNameRequest struct {
	Name string
}

func (SetNameRequest) scMessage() {}

// DisableDac disables the DAC.
type DisableDac struct{}

func (DisableDac) scMessage() {}

// Version reports the server's SlimProto version string.
type Version struct {
	Text string
}

func (Version) scMessage() {}

// Unknown preserves any frame whose opcode (or sub-dispatch command) was
// not recognized, so framing alignment is never lost. Per spec §7 this is
// not an error condition.
type Unknown struct {
	Opcode string
	Raw    []byte
}

func (Unknown) scMessage() {}
