package dns

import "fmt"

// PacketSize is the fixed capacity of a PacketBuffer: the maximum size of a
// DNS message over UDP without EDNS (RFC 1035 Section 4.2.1).
const PacketSize = 512

// PacketBuffer holds one DNS message and a read/write position into it.
//
// The position only moves through the explicit stepping operations (reads,
// writes, Step, Seek); Get and GetRange peek without moving it. Every access
// is bounds-checked against the fixed capacity, including the full extent of
// multi-byte accesses, and reports ErrEndOfBuffer instead of panicking.
//
// A PacketBuffer serves exactly one decode or encode operation and must not
// be shared between goroutines.
type PacketBuffer struct {
	Buf [PacketSize]byte
	pos int
}

// NewPacketBuffer returns an empty buffer positioned at the start.
func NewPacketBuffer() *PacketBuffer {
	return &PacketBuffer{}
}

// Pos returns the current position in the buffer.
func (b *PacketBuffer) Pos() int {
	return b.pos
}

// Step moves the position forward by steps bytes without reading.
func (b *PacketBuffer) Step(steps int) error {
	b.pos += steps
	return nil
}

// Seek moves the position to an absolute offset.
func (b *PacketBuffer) Seek(pos int) error {
	b.pos = pos
	return nil
}

// Read returns the byte at the current position and advances by one.
func (b *PacketBuffer) Read() (uint8, error) {
	if b.pos < 0 || b.pos+1 > PacketSize {
		return 0, fmt.Errorf("%w: read at %d", ErrEndOfBuffer, b.pos)
	}
	res := b.Buf[b.pos]
	b.pos++
	return res, nil
}

// Get returns the byte at pos without moving the position.
func (b *PacketBuffer) Get(pos int) (uint8, error) {
	if pos < 0 || pos+1 > PacketSize {
		return 0, fmt.Errorf("%w: get at %d", ErrEndOfBuffer, pos)
	}
	return b.Buf[pos], nil
}

// GetRange returns len bytes starting at start without moving the position.
// The returned slice aliases the buffer and must not be retained.
func (b *PacketBuffer) GetRange(start, length int) ([]byte, error) {
	if start < 0 || length < 0 || start+length > PacketSize {
		return nil, fmt.Errorf("%w: range [%d, %d)", ErrEndOfBuffer, start, start+length)
	}
	return b.Buf[start : start+length], nil
}

// ReadUint16 reads two bytes big-endian, advancing by two.
func (b *PacketBuffer) ReadUint16() (uint16, error) {
	hi, err := b.Read()
	if err != nil {
		return 0, err
	}
	lo, err := b.Read()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadUint32 reads four bytes big-endian, advancing by four.
func (b *PacketBuffer) ReadUint32() (uint32, error) {
	hi, err := b.ReadUint16()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadUint16()
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// Write stores one byte at the current position and advances by one.
func (b *PacketBuffer) Write(val uint8) error {
	if b.pos < 0 || b.pos+1 > PacketSize {
		return fmt.Errorf("%w: write at %d", ErrEndOfBuffer, b.pos)
	}
	b.Buf[b.pos] = val
	b.pos++
	return nil
}

// WriteUint16 writes two bytes big-endian, advancing by two.
func (b *PacketBuffer) WriteUint16(val uint16) error {
	if err := b.Write(uint8(val >> 8)); err != nil {
		return err
	}
	return b.Write(uint8(val))
}

// WriteUint32 writes four bytes big-endian, advancing by four.
func (b *PacketBuffer) WriteUint32(val uint32) error {
	if err := b.WriteUint16(uint16(val >> 16)); err != nil {
		return err
	}
	return b.WriteUint16(uint16(val))
}

// SetUint16 patches two bytes big-endian at an absolute position without
// moving the main position. Record encoding uses this to backpatch rdlength
// fields once the variable-length payload has been written.
func (b *PacketBuffer) SetUint16(pos int, val uint16) error {
	if pos < 0 || pos+2 > PacketSize {
		return fmt.Errorf("%w: set at %d", ErrEndOfBuffer, pos)
	}
	b.Buf[pos] = uint8(val >> 8)
	b.Buf[pos+1] = uint8(val)
	return nil
}

// Bytes returns the written prefix of the buffer, up to the current position.
// The returned slice aliases the buffer.
func (b *PacketBuffer) Bytes() []byte {
	return b.Buf[:b.pos]
}

// Load copies a raw datagram into a fresh position-zero buffer.
// Datagrams larger than the fixed capacity are rejected.
func (b *PacketBuffer) Load(data []byte) error {
	if len(data) > PacketSize {
		return fmt.Errorf("%w: datagram of %d bytes", ErrEndOfBuffer, len(data))
	}
	copy(b.Buf[:], data)
	b.pos = 0
	return nil
}
