// Package discovery implements the UDP discovery exchange spec §4.7
// describes: broadcast a fixed query payload, wait for the first
// response starting with ASCII 'E', and parse its TLV advertisement.
// Grounded on the UDP broadcast loop in
// ChinmayShringi-distributed-computing's internal/discovery package
// (listen/announce goroutines, read-deadline-based cancellation) and on
// the teacher's tlv.go (a record-stream parser that stops cleanly on
// any malformed boundary rather than failing the whole parse).
package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/slimproto-go/slimproto/internal/metrics"
	"github.com/slimproto-go/slimproto/session"
	"github.com/slimproto-go/slimproto/wire"
)

// queryPayload is the literal discovery query spec §4.7 names.
var queryPayload = []byte("eNAME\x00IPAD\x00JSON\x00VERS")

const broadcastInterval = 5 * time.Second

// Server is one discovery response: the endpoint to dial and the TLV
// fields the server advertised.
type Server struct {
	Endpoint session.Endpoint
	Fields   map[string]Field
}

// FieldKind tags which variant a Field holds, per spec §4.7's
// recognized-token list.
type FieldKind int

const (
	FieldName FieldKind = iota
	FieldVersion
	FieldAddress
	FieldPort
)

// Field is one decoded TLV record, in exactly the shape the token
// called for: Name/Version carry Str, Address carries IP, Port carries
// Port.
type Field struct {
	Kind FieldKind
	Str  string
	IP   net.IP
	Port uint16
}

// udpSocket is the subset of *net.UDPConn discovery needs; tests
// substitute an in-memory implementation, per spec §9's test-seam note
// applied to the UDP case.
type udpSocket interface {
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// Discover broadcasts the discovery query every 5 seconds and returns
// the first Server that responds. If timeout is non-nil, Discover
// returns (nil, nil) once it elapses without a response. Cancelling ctx
// returns (nil, nil) as well, per spec §5: cancellation is never
// partial, and gets the same "no result" contract as timeout-expiry.
func Discover(ctx context.Context, timeout *time.Duration, logger zerolog.Logger) (*Server, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: listen: %v", wire.ErrIoFailure, err)
	}
	defer conn.Close()
	return discover(ctx, timeout, conn, logger)
}

func discover(ctx context.Context, timeout *time.Duration, conn udpSocket, logger zerolog.Logger) (*Server, error) {
	start := time.Now()
	workCtx := ctx
	if timeout != nil {
		var cancel context.CancelFunc
		workCtx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	broadcastAddr := &net.UDPAddr{IP: net.IPv4bcast, Port: session.ProtocolPort}
	done := make(chan struct{})
	defer close(done)
	go broadcastLoop(conn, broadcastAddr, done, logger)

	type datagram struct {
		data []byte
		addr *net.UDPAddr
	}
	packets := make(chan datagram, 8)
	readErrs := make(chan error, 1)

	go func() {
		buf := make([]byte, 512)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				select {
				case readErrs <- err:
				default:
				}
				return
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case packets <- datagram{data: data, addr: addr}:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case <-workCtx.Done():
			if ctx.Err() == nil {
				logger.Debug().Msg("discovery timed out without a response")
			}
			return nil, nil
		case err := <-readErrs:
			return nil, fmt.Errorf("%w: read: %v", wire.ErrIoFailure, err)
		case pkt := <-packets:
			if len(pkt.data) < 1 || pkt.data[0] != 'E' {
				continue
			}
			fields := parseTLV(pkt.data[1:])
			ip := pkt.addr.IP.To4()
			if ip == nil {
				continue
			}
			metrics.RecordDiscoveryRoundTrip(time.Since(start))
			return &Server{
				Endpoint: session.Endpoint{IP: ip, Port: session.ProtocolPort},
				Fields:   fields,
			}, nil
		}
	}
}

func broadcastLoop(conn udpSocket, addr *net.UDPAddr, done <-chan struct{}, logger zerolog.Logger) {
	send := func() {
		if _, err := conn.WriteToUDP(queryPayload, addr); err != nil {
			logger.Debug().Err(err).Msg("discovery broadcast failed")
		}
	}
	send()
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			send()
		}
	}
}

// parseTLV implements spec §4.7's TLV parser over payload (already
// sliced to start at offset 1, past the leading 'E'). It never returns
// an error: malformed trailing bytes simply stop the scan, and
// recognized tokens that fail their own value parse are skipped while
// the scan continues.
func parseTLV(payload []byte) map[string]Field {
	out := make(map[string]Field)
	i := 0
	for {
		if len(payload)-i < 5 {
			return out
		}
		token := payload[i : i+4]
		if token[0] < 0x20 || token[0] > 0x7E {
			return out
		}
		length := int(payload[i+4])
		i += 5
		if length > len(payload)-i {
			return out
		}
		value := payload[i : i+length]
		i += length

		switch string(token) {
		case "NAME":
			out["NAME"] = Field{Kind: FieldName, Str: string(value)}
		case "VERS":
			out["VERS"] = Field{Kind: FieldVersion, Str: string(value)}
		case "IPAD":
			if len(value) == 4 {
				out["IPAD"] = Field{Kind: FieldAddress, IP: net.IPv4(value[0], value[1], value[2], value[3])}
			}
		case "JSON":
			if p, ok := parseDecimalU16(value); ok {
				out["JSON"] = Field{Kind: FieldPort, Port: p}
			}
		}
		// Unrecognized tokens are skipped with length already consumed.
	}
}

func parseDecimalU16(b []byte) (uint16, bool) {
	if len(b) == 0 || len(b) > 5 {
		return 0, false
	}
	var v uint32
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint32(c-'0')
		if v > 0xFFFF {
			return 0, false
		}
	}
	return uint16(v), true
}
