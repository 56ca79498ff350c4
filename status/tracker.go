// Package status implements the mutable status tracker spec §4.5
// describes: a StatusSnapshot plus an injected clock, with wrapping
// counters and a factory for Stat messages.
package status

import (
	"sync"

	"github.com/slimproto-go/slimproto/clock"
	"github.com/slimproto-go/slimproto/message"
)

// Tracker holds the mutable StatusSnapshot a player reports in Stat
// messages. It is single-owner per spec §5; callers that mutate it from
// more than one goroutine must add their own synchronization, though the
// tracker guards its own fields with a mutex so concurrent setters never
// corrupt a single field.
type Tracker struct {
	mu    sync.Mutex
	clk   clock.Clock
	snap  message.StatusSnapshot
}

// New returns a Tracker whose jiffies are read from clk.Since(). New
// does not start or reset clk, so jiffies count from clk's own start.
func New(clk clock.Clock) *Tracker {
	return &Tracker{clk: clk}
}

// Snapshot returns a copy of the current StatusSnapshot.
func (t *Tracker) Snapshot() message.StatusSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// SetBufferSize sets the decode buffer size in bytes.
func (t *Tracker) SetBufferSize(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.BufferSize = v
}

// SetFullness sets the decode buffer fullness in bytes.
func (t *Tracker) SetFullness(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Fullness = v
}

// SetSignalStrength sets the reported signal strength.
func (t *Tracker) SetSignalStrength(v uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.SignalStrength = v
}

// SetOutputBufferSize sets the output buffer size in bytes.
func (t *Tracker) SetOutputBufferSize(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.OutputBufferSize = v
}

// SetOutputBufferFullness sets the output buffer fullness in bytes.
func (t *Tracker) SetOutputBufferFullness(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.OutputBufferFullness = v
}

// SetElapsedSeconds sets the track-elapsed time in whole seconds.
func (t *Tracker) SetElapsedSeconds(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.ElapsedSeconds = v
}

// SetVoltage sets the reported voltage.
func (t *Tracker) SetVoltage(v uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Voltage = v
}

// SetElapsedMs sets the track-elapsed time in milliseconds.
func (t *Tracker) SetElapsedMs(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.ElapsedMs = v
}

// SetTimestampMs sets the timestamp correlated with the elapsed fields.
func (t *Tracker) SetTimestampMs(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.TimestampMs = v
}

// SetErrorCode sets the last reported error code.
func (t *Tracker) SetErrorCode(v uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.ErrorCode = v
}

// AddCRLF adds k to the crlf counter modulo 256, per spec §3's wrapping
// invariant.
func (t *Tracker) AddCRLF(k uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.CRLF += k
}

// AddBytesReceived adds k to the bytes-received counter modulo 2^64, per
// spec §3's wrapping invariant. Go's unsigned overflow already wraps, so
// this is a plain add.
func (t *Tracker) AddBytesReceived(k uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.BytesReceived += k
}

// CreateStatusMessage refreshes jiffies from the injected clock and
// returns a Stat tagged with code's wire event bytes, per spec §4.5.
func (t *Tracker) CreateStatusMessage(code message.EventCode) message.Stat {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.JiffiesMs = uint32(t.clk.Since().Milliseconds())
	return message.Stat{
		EventCode: code.ToEventCode(),
		Status:    t.snap,
	}
}
