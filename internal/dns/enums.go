package dns

// QueryType identifies a DNS record type (RFC 1035, RFC 3596).
//
// Only the types this server can interpret get a named constant. Any other
// numeric code is carried through as-is and decodes to an Unknown record,
// which is kept for inspection but never re-serialized.
type QueryType uint16

const (
	TypeA     QueryType = 1  // IPv4 address
	TypeNS    QueryType = 2  // Authoritative name server
	TypeCNAME QueryType = 5  // Canonical name (alias)
	TypeMX    QueryType = 15 // Mail exchange
	TypeAAAA  QueryType = 28 // IPv6 address (RFC 3596)
)

func (t QueryType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypeMX:
		return "MX"
	case TypeAAAA:
		return "AAAA"
	default:
		return "UNKNOWN"
	}
}

// RecordClass represents DNS resource record classes (RFC 1035).
type RecordClass uint16

// ClassIN is the Internet class. It is the only class this package emits;
// the class field of inbound records is read and discarded.
const ClassIN RecordClass = 1

// RCode represents DNS response codes (RFC 1035 Section 4.1.1).
type RCode uint8

const (
	RCodeNoError  RCode = 0 // No error
	RCodeFormErr  RCode = 1 // Format error: query malformed
	RCodeServFail RCode = 2 // Server failure: internal error
	RCodeNXDomain RCode = 3 // Non-existent domain
	RCodeNotImp   RCode = 4 // Not implemented: unsupported query type
	RCodeRefused  RCode = 5 // Query refused by policy
)

// RCodeFromNum maps a 4-bit wire value to an RCode.
// Values outside the known set decode to RCodeNoError.
func RCodeFromNum(num uint8) RCode {
	switch num {
	case 1:
		return RCodeFormErr
	case 2:
		return RCodeServFail
	case 3:
		return RCodeNXDomain
	case 4:
		return RCodeNotImp
	case 5:
		return RCodeRefused
	default:
		return RCodeNoError
	}
}

func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	default:
		return "NOERROR"
	}
}
