package dns

import (
	"net"
	"strings"

	"github.com/pvandermeer/vosdns/internal/helpers"
)

// Packet represents a complete DNS message (RFC 1035 Section 4.1): one
// header plus the four ordered sections. Section order is wire-significant
// and preserved on both decode and encode.
//
// A Packet owns its header and record lists exclusively; nothing is shared
// between packets. One Packet serves a single datagram and holds no state
// beyond it.
type Packet struct {
	Header    Header
	Questions []Question

	// Answers holds the records answering the question.
	Answers []Record
	// Authorities holds NS records of servers authoritative for the
	// queried zone, used when resolving iteratively.
	Authorities []Record
	// Resources is the additional section: records that might save the
	// client a lookup, such as A records for the NS hosts above.
	Resources []Record
}

// NewPacket returns an empty packet.
func NewPacket() *Packet {
	return &Packet{}
}

// PacketFromBuffer decodes a packet from the start of the buffer: header
// first, then exactly the header-declared number of questions, answers,
// authorities, and additional records, in that order. Any failure aborts the
// whole decode; there is no partial-message recovery.
func PacketFromBuffer(buffer *PacketBuffer) (*Packet, error) {
	result := NewPacket()
	if err := result.Header.Read(buffer); err != nil {
		return nil, err
	}

	for i := uint16(0); i < result.Header.Questions; i++ {
		var question Question
		if err := question.Read(buffer); err != nil {
			return nil, err
		}
		result.Questions = append(result.Questions, question)
	}

	for i := uint16(0); i < result.Header.Answers; i++ {
		rec, err := ReadRecord(buffer)
		if err != nil {
			return nil, err
		}
		result.Answers = append(result.Answers, rec)
	}
	for i := uint16(0); i < result.Header.AuthoritativeEntries; i++ {
		rec, err := ReadRecord(buffer)
		if err != nil {
			return nil, err
		}
		result.Authorities = append(result.Authorities, rec)
	}
	for i := uint16(0); i < result.Header.ResourceEntries; i++ {
		rec, err := ReadRecord(buffer)
		if err != nil {
			return nil, err
		}
		result.Resources = append(result.Resources, rec)
	}

	return result, nil
}

// Write encodes the packet into the buffer in fixed section order.
//
// The header counts are overwritten with the current list lengths before
// writing; counts set elsewhere are never trusted. Note that lists may
// contain UnknownRecord entries, which count here but serialize to nothing,
// so the emitted counts can exceed the records actually present on the wire.
// That asymmetry is long-standing observed behavior and is kept as-is.
func (p *Packet) Write(buffer *PacketBuffer) error {
	p.Header.Questions = helpers.ClampIntToUint16(len(p.Questions))
	p.Header.Answers = helpers.ClampIntToUint16(len(p.Answers))
	p.Header.AuthoritativeEntries = helpers.ClampIntToUint16(len(p.Authorities))
	p.Header.ResourceEntries = helpers.ClampIntToUint16(len(p.Resources))

	if err := p.Header.Write(buffer); err != nil {
		return err
	}

	for i := range p.Questions {
		if err := p.Questions[i].Write(buffer); err != nil {
			return err
		}
	}
	for _, rec := range p.Answers {
		if _, err := WriteRecord(buffer, rec); err != nil {
			return err
		}
	}
	for _, rec := range p.Authorities {
		if _, err := WriteRecord(buffer, rec); err != nil {
			return err
		}
	}
	for _, rec := range p.Resources {
		if _, err := WriteRecord(buffer, rec); err != nil {
			return err
		}
	}

	return nil
}

// Marshal is a convenience wrapper encoding the packet into a fresh buffer
// and returning the wire bytes.
func (p *Packet) Marshal() ([]byte, error) {
	buffer := NewPacketBuffer()
	if err := p.Write(buffer); err != nil {
		return nil, err
	}
	out := make([]byte, buffer.Pos())
	copy(out, buffer.Bytes())
	return out, nil
}

// ParsePacket is a convenience wrapper decoding a raw datagram.
func ParsePacket(data []byte) (*Packet, error) {
	buffer := NewPacketBuffer()
	if err := buffer.Load(data); err != nil {
		return nil, err
	}
	return PacketFromBuffer(buffer)
}

// FirstAnswerAddress returns the address of the first A record in the answer
// section, or nil if there is none. Selection is deterministic first-match:
// when a name has several addresses any of them serves equally well, and the
// first is as good as any.
func (p *Packet) FirstAnswerAddress() net.IP {
	for _, rec := range p.Answers {
		if a, ok := rec.(*ARecord); ok {
			return a.Addr
		}
	}
	return nil
}

// nameServer is a (zone, host) pair taken from an authority NS record.
type nameServer struct {
	domain string
	host   string
}

// nameServers returns the NS entries in the authority section whose zone is
// a suffix of qname. The suffix match admits delegations from a parent zone.
// Well-formed responses only carry NS records here; anything else is ignored.
func (p *Packet) nameServers(qname string) []nameServer {
	var out []nameServer
	for _, rec := range p.Authorities {
		ns, ok := rec.(*NSRecord)
		if !ok {
			continue
		}
		if !strings.HasSuffix(qname, ns.Domain) {
			continue
		}
		out = append(out, nameServer{domain: ns.Domain, host: ns.Host})
	}
	return out
}

// ResolvedNameServer returns the address of a name server to query next for
// qname, if the response glued one in: servers often bundle the A records
// for their NS hosts into the additional section. Returns nil when no
// qualifying NS host has a glued address.
func (p *Packet) ResolvedNameServer(qname string) net.IP {
	for _, ns := range p.nameServers(qname) {
		for _, rec := range p.Resources {
			if a, ok := rec.(*ARecord); ok && a.Domain == ns.host {
				return a.Addr
			}
		}
	}
	return nil
}

// UnresolvedNameServer returns the hostname of the first name server
// qualifying for qname. Callers use it when ResolvedNameServer found no glue
// and a separate lookup of the NS host is needed before resolution can
// continue. Returns "" when the authority section names no usable server.
func (p *Packet) UnresolvedNameServer(qname string) string {
	if servers := p.nameServers(qname); len(servers) > 0 {
		return servers[0].host
	}
	return ""
}
