// Package codec implements spec §4.2-§4.3: serializing CS messages to
// wire bytes and parsing SC frames into tagged message.SC variants. The
// codec performs no I/O; it operates on already-assembled byte slices,
// per spec §5's "pure, never suspends" guarantee.
package codec

// Client→server opcodes, uppercase ASCII per spec §6.
const (
	opHelo = "HELO"
	opStat = "STAT"
	opBye  = "BYE!"
	opSetd = "SETD"
)

// Server→client top-level opcodes, lowercase ASCII per spec §6.
const (
	opServ = "serv"
	opStrm = "strm"
	opAude = "aude"
	opAudg = "audg"
	opVers = "vers"
	opSetdLower = "setd"
)
