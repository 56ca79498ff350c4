package wire

import "encoding/binary"

// Reader is a forward-only cursor over a byte slice. Every fixed-width
// read is big-endian per spec §4.1. A read that would exceed the
// remaining bytes returns ErrTruncated and leaves the cursor unmoved.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of bytes not yet consumed.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) need(n int) error {
	if r.Len() < n {
		return ErrTruncated
	}
	return nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// Bytes reads and returns a copy of n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Skip advances the cursor by n bytes without returning them.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Rest returns a copy of every byte not yet consumed.
func (r *Reader) Rest() []byte {
	out := make([]byte, r.Len())
	copy(out, r.buf[r.pos:])
	return out
}

// PeekOpcode reads the 4-byte ASCII opcode without advancing the cursor.
// Returns ErrTruncated if fewer than 4 bytes remain.
func (r *Reader) PeekOpcode() (string, error) {
	if err := r.need(4); err != nil {
		return "", err
	}
	return string(r.buf[r.pos : r.pos+4]), nil
}

// Writer accumulates bytes for one outbound message. All fixed-width
// writes are big-endian per spec §4.1.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// U8 appends one byte.
func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

// U16 appends a big-endian uint16.
func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U32 appends a big-endian uint32.
func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U64 appends a big-endian uint64.
func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Take returns the accumulated bytes. The Writer must not be reused
// after Take.
func (w *Writer) Take() []byte {
	return w.buf
}

// EqualOpcode reports whether b's first 4 bytes equal the ASCII opcode op,
// compared by value and case-sensitive per spec §6.
func EqualOpcode(b []byte, op string) bool {
	if len(b) < 4 || len(op) != 4 {
		return false
	}
	return b[0] == op[0] && b[1] == op[1] && b[2] == op[2] && b[3] == op[3]
}
