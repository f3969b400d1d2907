package dns

import (
	"fmt"
	"net"
)

// Record is the closed set of resource-record variants this package can
// interpret: ARecord, NSRecord, CNAMERecord, MXRecord, AAAARecord, plus
// UnknownRecord as the opaque fallback. Both ReadRecord and WriteRecord
// dispatch over the variants by explicit type matching.
type Record interface {
	// QType returns the record's DNS type code.
	QType() QueryType

	// String renders the record in a zone-file-like form for diagnostics.
	String() string
}

// ARecord is an IPv4 address record (RFC 1035 Section 3.4.1).
type ARecord struct {
	Domain string
	Addr   net.IP
	TTL    uint32
}

func (r *ARecord) QType() QueryType { return TypeA }

func (r *ARecord) String() string {
	return fmt.Sprintf("%s %d IN A %s", r.Domain, r.TTL, r.Addr)
}

// NSRecord names an authoritative name server for a zone.
type NSRecord struct {
	Domain string
	Host   string
	TTL    uint32
}

func (r *NSRecord) QType() QueryType { return TypeNS }

func (r *NSRecord) String() string {
	return fmt.Sprintf("%s %d IN NS %s", r.Domain, r.TTL, r.Host)
}

// CNAMERecord aliases a domain to a canonical name.
type CNAMERecord struct {
	Domain string
	Host   string
	TTL    uint32
}

func (r *CNAMERecord) QType() QueryType { return TypeCNAME }

func (r *CNAMERecord) String() string {
	return fmt.Sprintf("%s %d IN CNAME %s", r.Domain, r.TTL, r.Host)
}

// MXRecord names a mail exchange with its preference value.
type MXRecord struct {
	Domain   string
	Priority uint16
	Host     string
	TTL      uint32
}

func (r *MXRecord) QType() QueryType { return TypeMX }

func (r *MXRecord) String() string {
	return fmt.Sprintf("%s %d IN MX %d %s", r.Domain, r.TTL, r.Priority, r.Host)
}

// AAAARecord is an IPv6 address record (RFC 3596).
type AAAARecord struct {
	Domain string
	Addr   net.IP
	TTL    uint32
}

func (r *AAAARecord) QType() QueryType { return TypeAAAA }

func (r *AAAARecord) String() string {
	return fmt.Sprintf("%s %d IN AAAA %s", r.Domain, r.TTL, r.Addr)
}

// UnknownRecord carries a record of an unrecognized type. The payload is
// skipped on decode; only the type code, declared length, and TTL are kept
// for diagnostics. WriteRecord never serializes it.
type UnknownRecord struct {
	Domain  string
	TypeNum uint16
	DataLen uint16
	TTL     uint32
}

func (r *UnknownRecord) QType() QueryType { return QueryType(r.TypeNum) }

func (r *UnknownRecord) String() string {
	return fmt.Sprintf("%s %d IN TYPE%d \\# %d (skipped)", r.Domain, r.TTL, r.TypeNum, r.DataLen)
}

// ReadRecord decodes one resource record from the buffer's current position:
// name, type, class (discarded), TTL, declared rdata length, then the
// type-specific payload. Unrecognized types skip their payload by the
// declared length without interpreting it.
func ReadRecord(buffer *PacketBuffer) (Record, error) {
	domain, err := buffer.ReadName()
	if err != nil {
		return nil, err
	}

	qtypeNum, err := buffer.ReadUint16()
	if err != nil {
		return nil, err
	}
	if _, err := buffer.ReadUint16(); err != nil { // class
		return nil, err
	}
	ttl, err := buffer.ReadUint32()
	if err != nil {
		return nil, err
	}
	dataLen, err := buffer.ReadUint16()
	if err != nil {
		return nil, err
	}

	switch QueryType(qtypeNum) {
	case TypeA:
		rawAddr, err := buffer.ReadUint32()
		if err != nil {
			return nil, err
		}
		addr := net.IPv4(
			uint8(rawAddr>>24),
			uint8(rawAddr>>16),
			uint8(rawAddr>>8),
			uint8(rawAddr),
		)
		return &ARecord{Domain: domain, Addr: addr, TTL: ttl}, nil

	case TypeNS:
		host, err := buffer.ReadName()
		if err != nil {
			return nil, err
		}
		return &NSRecord{Domain: domain, Host: host, TTL: ttl}, nil

	case TypeCNAME:
		host, err := buffer.ReadName()
		if err != nil {
			return nil, err
		}
		return &CNAMERecord{Domain: domain, Host: host, TTL: ttl}, nil

	case TypeMX:
		priority, err := buffer.ReadUint16()
		if err != nil {
			return nil, err
		}
		host, err := buffer.ReadName()
		if err != nil {
			return nil, err
		}
		return &MXRecord{Domain: domain, Priority: priority, Host: host, TTL: ttl}, nil

	case TypeAAAA:
		var segments [8]uint16
		for i := 0; i < 4; i++ {
			word, err := buffer.ReadUint32()
			if err != nil {
				return nil, err
			}
			segments[i*2] = uint16(word >> 16)
			segments[i*2+1] = uint16(word)
		}
		addr := make(net.IP, net.IPv6len)
		for i, seg := range segments {
			addr[i*2] = uint8(seg >> 8)
			addr[i*2+1] = uint8(seg)
		}
		return &AAAARecord{Domain: domain, Addr: addr, TTL: ttl}, nil

	default:
		if err := buffer.Step(int(dataLen)); err != nil {
			return nil, err
		}
		return &UnknownRecord{Domain: domain, TypeNum: qtypeNum, DataLen: dataLen, TTL: ttl}, nil
	}
}

// WriteRecord encodes one resource record at the buffer's current position
// and returns the number of bytes written.
//
// Fixed-length payloads (A, AAAA) write their literal rdata length up front.
// Variable-length payloads (NS, CNAME, MX) embed a name whose encoded size
// is unknown until it is written, so a placeholder length is emitted first
// and backpatched via SetUint16 afterwards.
//
// UnknownRecord emits nothing: skipped payloads are round-trippable for
// inspection but never re-serialized.
func WriteRecord(buffer *PacketBuffer, record Record) (int, error) {
	startPos := buffer.Pos()

	switch r := record.(type) {
	case *ARecord:
		if err := writeRecordPreamble(buffer, r.Domain, TypeA, r.TTL); err != nil {
			return 0, err
		}
		if err := buffer.WriteUint16(4); err != nil {
			return 0, err
		}
		octets := r.Addr.To4()
		if octets == nil {
			return 0, fmt.Errorf("a record for %q has a non-IPv4 address", r.Domain)
		}
		for _, octet := range octets {
			if err := buffer.Write(octet); err != nil {
				return 0, err
			}
		}

	case *NSRecord:
		if err := writeRecordPreamble(buffer, r.Domain, TypeNS, r.TTL); err != nil {
			return 0, err
		}
		if err := writeNameRData(buffer, r.Host); err != nil {
			return 0, err
		}

	case *CNAMERecord:
		if err := writeRecordPreamble(buffer, r.Domain, TypeCNAME, r.TTL); err != nil {
			return 0, err
		}
		if err := writeNameRData(buffer, r.Host); err != nil {
			return 0, err
		}

	case *MXRecord:
		if err := writeRecordPreamble(buffer, r.Domain, TypeMX, r.TTL); err != nil {
			return 0, err
		}
		pos := buffer.Pos()
		if err := buffer.WriteUint16(0); err != nil {
			return 0, err
		}
		if err := buffer.WriteUint16(r.Priority); err != nil {
			return 0, err
		}
		if err := buffer.WriteName(r.Host); err != nil {
			return 0, err
		}
		if err := buffer.SetUint16(pos, uint16(buffer.Pos()-(pos+2))); err != nil {
			return 0, err
		}

	case *AAAARecord:
		if err := writeRecordPreamble(buffer, r.Domain, TypeAAAA, r.TTL); err != nil {
			return 0, err
		}
		if err := buffer.WriteUint16(16); err != nil {
			return 0, err
		}
		addr := r.Addr.To16()
		if addr == nil {
			return 0, fmt.Errorf("aaaa record for %q has an invalid address", r.Domain)
		}
		for i := 0; i < net.IPv6len; i += 2 {
			if err := buffer.WriteUint16(uint16(addr[i])<<8 | uint16(addr[i+1])); err != nil {
				return 0, err
			}
		}

	case *UnknownRecord:
		// Deliberately dropped from the output.

	default:
		return 0, fmt.Errorf("unhandled record variant %T", record)
	}

	return buffer.Pos() - startPos, nil
}

// writeRecordPreamble writes the fields shared by every record: name, type,
// class (always IN), and TTL. The rdata length follows and is type-specific.
func writeRecordPreamble(buffer *PacketBuffer, domain string, qtype QueryType, ttl uint32) error {
	if err := buffer.WriteName(domain); err != nil {
		return err
	}
	if err := buffer.WriteUint16(uint16(qtype)); err != nil {
		return err
	}
	if err := buffer.WriteUint16(uint16(ClassIN)); err != nil {
		return err
	}
	return buffer.WriteUint32(ttl)
}

// writeNameRData writes a single-name payload (NS, CNAME) with its length
// backpatched once the name's encoded size is known.
func writeNameRData(buffer *PacketBuffer, host string) error {
	pos := buffer.Pos()
	if err := buffer.WriteUint16(0); err != nil {
		return err
	}
	if err := buffer.WriteName(host); err != nil {
		return err
	}
	return buffer.SetUint16(pos, uint16(buffer.Pos()-(pos+2)))
}
