// Package session implements the framed TCP session spec §4.6 describes:
// a single-owner socket that drives the handshake, encodes/sends CS
// messages raw, and decodes/receives length-prefixed SC frames. Grounded
// on the teacher's MirageClient/MirageSession shape (dial, handshake,
// mutex-guarded conn, Close) adapted from a JSON control handshake to
// SlimProto's binary HELO handshake.
package session

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/slimproto-go/slimproto/codec"
	"github.com/slimproto-go/slimproto/internal/metrics"
	"github.com/slimproto-go/slimproto/message"
	"github.com/slimproto-go/slimproto/wire"
)

// MaxFrameSize is the largest server→client frame the session will
// accept; larger length prefixes fail with ErrMalformed per spec §6.
const MaxFrameSize = 1 << 20 // 1 MiB

// ProtocolPort is the well-known SlimProto TCP/UDP port, per spec §6.
const ProtocolPort = 3483

// defaultMAC is substituted when Connect is called with an all-zero MAC,
// per spec §4.6.
var defaultMAC = [6]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}

// State is the session's connection lifecycle state, per spec §4.6's
// state machine diagram.
type State int

const (
	Disconnected State = iota
	Handshaking
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Handshaking:
		return "handshaking"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Endpoint is a server address to dial, per spec §3's discovery result
// shape.
type Endpoint struct {
	IP   net.IP
	Port int
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP.String(), fmt.Sprintf("%d", e.Port))
}

// Dialer opens a TCP connection. Tests substitute an in-memory net.Pipe
// pair instead of dialing a real socket, per spec §9's test-seam note.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Session owns one TCP socket at a time. It is not safe for concurrent
// use per spec §5: at most one outstanding Send and one outstanding
// Receive, though they may run on different goroutines as long as
// neither races the other's access to conn.
type Session struct {
	dialer Dialer
	logger zerolog.Logger

	mu       sync.Mutex
	state    State
	conn     net.Conn
	reader   *bufio.Reader
	endpoint Endpoint
}

// New returns a disconnected Session. dialer is typically
// &net.Dialer{}; logger defaults to zerolog.Nop() if the zero value is
// passed.
func New(dialer Dialer, logger zerolog.Logger) *Session {
	return &Session{dialer: dialer, logger: logger}
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Endpoint reports the cached server endpoint from the last Connect.
func (s *Session) Endpoint() Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// Connect tears down any existing connection, opens a fresh TCP socket
// to endpoint, and sends helo as the first message, per spec §4.6. The
// MAC is a fixed [6]byte, so its length needs no check; an all-zero MAC
// is replaced by the sentinel. Nil capabilities or an empty rendered
// capability string fail before any I/O, per spec §7's InvalidArgument
// disposition and §9's open question 3.
func (s *Session) Connect(ctx context.Context, endpoint Endpoint, helo message.Helo) error {
	if err := validateHelo(&helo); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()
	s.state = Handshaking

	conn, err := s.dialer.DialContext(ctx, "tcp", endpoint.String())
	if err != nil {
		s.state = Disconnected
		return fmt.Errorf("%w: dial %s: %v", wire.ErrIoFailure, endpoint, err)
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.endpoint = endpoint

	payload, err := codec.Encode(helo)
	if err != nil {
		s.teardownLocked()
		return err
	}
	if _, err := conn.Write(payload); err != nil {
		s.teardownLocked()
		return fmt.Errorf("%w: write helo: %v", wire.ErrIoFailure, err)
	}

	s.state = Connected
	s.logger.Info().Str("endpoint", endpoint.String()).Msg("session connected")
	return nil
}

// validateHelo checks the MAC/capability invariants spec §4.6 and §9
// require to fail before any socket is opened, substituting the
// sentinel MAC when the caller passed the zero value.
func validateHelo(helo *message.Helo) error {
	if helo.MAC == [6]byte{} {
		helo.MAC = defaultMAC
	}
	caps := helo.Capabilities
	if caps == nil {
		return fmt.Errorf("%w: helo capabilities required", wire.ErrInvalidArgument)
	}
	rendered, err := caps.Render()
	if err != nil {
		return err
	}
	if rendered == "" {
		return fmt.Errorf("%w: capability rendering is empty", wire.ErrInvalidArgument)
	}
	return nil
}

// Send encodes msg and writes it verbatim to the socket, then flushes.
// Fails with ErrNotConnected unless the session is Connected.
func (s *Session) Send(ctx context.Context, msg message.CS) error {
	s.mu.Lock()
	conn := s.conn
	state := s.state
	s.mu.Unlock()

	if state != Connected || conn == nil {
		return wire.ErrNotConnected
	}

	payload, err := codec.Encode(msg)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		defer conn.SetWriteDeadline(time.Time{})
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("%w: write: %v", wire.ErrIoFailure, err)
	}
	metrics.RecordFrameSent(csOpcode(msg))
	return nil
}

// csOpcode names msg's wire opcode for metrics labeling, independent of
// codec's own unexported opcode table.
func csOpcode(msg message.CS) string {
	switch msg.(type) {
	case message.Helo:
		return "HELO"
	case message.Stat:
		return "STAT"
	case message.Bye:
		return "BYE!"
	case message.SetName:
		return "SETD"
	default:
		return "unknown"
	}
}

// Receive reads one length-prefixed frame (spec §6's 2-byte BE prefix)
// and decodes it. Fails with ErrNotConnected unless the session is
// Connected, and with ErrSocketClosed if the peer closes mid-frame.
func (s *Session) Receive(ctx context.Context) (message.SC, error) {
	s.mu.Lock()
	conn := s.conn
	reader := s.reader
	state := s.state
	s.mu.Unlock()

	if state != Connected || conn == nil {
		return nil, wire.ErrNotConnected
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		defer conn.SetReadDeadline(time.Time{})
	}

	var lenBuf [2]byte
	if _, err := io.ReadFull(reader, lenBuf[:]); err != nil {
		return nil, translateReadErr(err)
	}
	frameLen := binary.BigEndian.Uint16(lenBuf[:])
	if int(frameLen) > MaxFrameSize {
		return nil, fmt.Errorf("%w: frame length %d exceeds max %d", wire.ErrMalformed, frameLen, MaxFrameSize)
	}

	payload := make([]byte, frameLen)
	if frameLen > 0 {
		if _, err := io.ReadFull(reader, payload); err != nil {
			return nil, translateReadErr(err)
		}
	}
	if len(payload) < 4 {
		metrics.RecordFrameReceived("")
		return message.Unknown{Opcode: "", Raw: payload}, nil
	}

	msg, err := codec.Decode(payload)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session decode failure")
		metrics.RecordDecodeError(decodeErrorKind(err))
		return nil, err
	}
	metrics.RecordFrameReceived(string(payload[0:4]))
	return msg, nil
}

func decodeErrorKind(err error) string {
	switch {
	case errors.Is(err, wire.ErrMalformed):
		return "malformed"
	case errors.Is(err, wire.ErrTruncated):
		return "truncated"
	case errors.Is(err, wire.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "unknown"
	}
}

func translateReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return wire.ErrSocketClosed
	}
	return fmt.Errorf("%w: read: %v", wire.ErrIoFailure, err)
}

// Disconnect sends a best-effort Bye (errors ignored) then tears down
// the socket, transitioning to Disconnected. The same Session can
// Connect again afterward.
func (s *Session) Disconnect(reason uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		if payload, err := codec.Encode(message.Bye{Reason: reason}); err == nil {
			_ = s.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			_, _ = s.conn.Write(payload)
		}
	}
	s.teardownLocked()
	s.logger.Info().Uint8("reason", reason).Msg("session disconnected")
}

// teardownLocked closes any open socket and resets to Disconnected.
// Callers must hold s.mu.
func (s *Session) teardownLocked() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = nil
	s.reader = nil
	s.state = Disconnected
}

// netDialer adapts *net.Dialer to the Dialer interface.
type netDialer struct {
	d net.Dialer
}

// NewNetDialer returns a Dialer backed by a real net.Dialer.
func NewNetDialer() Dialer {
	return &netDialer{}
}

func (n *netDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return n.d.DialContext(ctx, network, address)
}
