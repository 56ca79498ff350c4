// Package message defines the closed tagged-variant message model for
// SlimProto's two directions: CS (client→server) and SC (server→client),
// per spec §3. Decoders in the codec package return these variants
// directly; the message model itself performs no I/O.
package message

import "github.com/slimproto-go/slimproto/capability"

// CS is implemented by every client→server message variant.
type CS interface {
	csMessage()
}

// SC is implemented by every server→client message variant.
type SC interface {
	scMessage()
}

// Helo is the client's handshake announcement.
type Helo struct {
	DeviceID      uint8
	Revision      uint8
	MAC           [6]byte
	UUID          [16]byte
	WLANChannels  uint16
	BytesReceived uint64
	Language      [2]byte
	Capabilities  *capability.Set
}

func (Helo) csMessage() {}

// Stat reports a StatusSnapshot tagged with an event code.
type Stat struct {
	EventCode [4]byte
	Status    StatusSnapshot
}

func (Stat) csMessage() {}

// Bye announces a clean client disconnect.
type Bye struct {
	Reason uint8
}

func (Bye) csMessage() {}

// SetName answers a server SetNameRequest/QueryName with a new player name.
type SetName struct {
	Name string
}

func (SetName) csMessage() {}
