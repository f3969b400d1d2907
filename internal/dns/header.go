package dns

// Header represents the 12-byte DNS message header (RFC 1035 Section 4.1.1):
// a 16-bit id, two bytes of bit-packed flags, and four 16-bit section counts.
//
// The flag fields are kept unpacked here; packing happens only at the wire
// boundary in Read/Write. The section counts are authoritative only when
// they came off the wire: Packet.Write recomputes them from the actual list
// lengths, so callers mutating a packet's lists need not keep them in sync.
type Header struct {
	// ID is an opaque correlation token. Responses must echo the id of the
	// query they answer; this is what matches them up over stateless UDP.
	ID uint16

	RecursionDesired    bool  // RD: client asks the server to recurse
	TruncatedMessage    bool  // TC: message exceeded 512 bytes
	AuthoritativeAnswer bool  // AA: server owns the queried zone
	Opcode              uint8 // 4 bits, 0 for standard queries
	Response            bool  // QR: 0 query, 1 response

	ResCode          RCode // 4 bits
	CheckingDisabled bool  // CD
	AuthedData       bool  // AD
	Z                bool  // reserved bit
	RecursionAvailable bool // RA: server supports recursion

	Questions            uint16 // QDCOUNT
	Answers              uint16 // ANCOUNT
	AuthoritativeEntries uint16 // NSCOUNT
	ResourceEntries      uint16 // ARCOUNT
}

// HeaderSize is the fixed size of a DNS header in bytes.
const HeaderSize = 12

// Read decodes the header from the buffer's current position, advancing past
// all 12 bytes.
//
// Flag byte layout, bit 0 least significant. First byte: RD, TC, AA,
// opcode (bits 3-6), QR (bit 7). Second byte: rcode (bits 0-3), CD, AD, Z,
// RA (bit 7).
func (h *Header) Read(buffer *PacketBuffer) error {
	id, err := buffer.ReadUint16()
	if err != nil {
		return err
	}
	h.ID = id

	flags, err := buffer.ReadUint16()
	if err != nil {
		return err
	}
	a := uint8(flags >> 8)
	b := uint8(flags & 0xFF)

	h.RecursionDesired = a&(1<<0) > 0
	h.TruncatedMessage = a&(1<<1) > 0
	h.AuthoritativeAnswer = a&(1<<2) > 0
	h.Opcode = (a >> 3) & 0x0F
	h.Response = a&(1<<7) > 0

	h.ResCode = RCodeFromNum(b & 0x0F)
	h.CheckingDisabled = b&(1<<4) > 0
	h.AuthedData = b&(1<<5) > 0
	h.Z = b&(1<<6) > 0
	h.RecursionAvailable = b&(1<<7) > 0

	if h.Questions, err = buffer.ReadUint16(); err != nil {
		return err
	}
	if h.Answers, err = buffer.ReadUint16(); err != nil {
		return err
	}
	if h.AuthoritativeEntries, err = buffer.ReadUint16(); err != nil {
		return err
	}
	if h.ResourceEntries, err = buffer.ReadUint16(); err != nil {
		return err
	}

	return nil
}

// Write encodes the header at the buffer's current position, mirroring Read.
func (h *Header) Write(buffer *PacketBuffer) error {
	if err := buffer.WriteUint16(h.ID); err != nil {
		return err
	}

	if err := buffer.Write(boolBit(h.RecursionDesired, 0) |
		boolBit(h.TruncatedMessage, 1) |
		boolBit(h.AuthoritativeAnswer, 2) |
		(h.Opcode&0x0F)<<3 |
		boolBit(h.Response, 7)); err != nil {
		return err
	}

	if err := buffer.Write(uint8(h.ResCode)&0x0F |
		boolBit(h.CheckingDisabled, 4) |
		boolBit(h.AuthedData, 5) |
		boolBit(h.Z, 6) |
		boolBit(h.RecursionAvailable, 7)); err != nil {
		return err
	}

	if err := buffer.WriteUint16(h.Questions); err != nil {
		return err
	}
	if err := buffer.WriteUint16(h.Answers); err != nil {
		return err
	}
	if err := buffer.WriteUint16(h.AuthoritativeEntries); err != nil {
		return err
	}
	return buffer.WriteUint16(h.ResourceEntries)
}

func boolBit(v bool, bit uint) uint8 {
	if v {
		return 1 << bit
	}
	return 0
}
