// Package dns implements the RFC 1035 wire format on top of a fixed-size
// packet buffer.
//
// Standards Compliance:
//
//   - RFC 1035: Domain Names - Implementation and Specification (core DNS protocol)
//   - RFC 3596: DNS Extensions to Support IPv6 (AAAA records)
//   - RFC 4343: Domain Name System Case Insensitivity Clarification
//
// Everything in this package works against a PacketBuffer, a 512-byte buffer
// with an explicit read/write position. 512 bytes is the maximum size of a DNS
// message over UDP without EDNS, which this package does not support.
//
// Error Handling:
//
// Packet contents are untrusted network data, so no operation in this package
// panics on malformed input. All failures are reported as ordinary errors
// wrapping one of the sentinel values below, using fmt.Errorf("...: %w", err)
// so callers can match with errors.Is.
package dns

import "errors"

var (
	// ErrEndOfBuffer reports a read or write outside the fixed buffer capacity.
	ErrEndOfBuffer = errors.New("end of buffer")

	// ErrTooManyJumps reports a name whose compression pointers chain (or
	// cycle) beyond the jump limit. Such packets are malformed or malicious.
	ErrTooManyJumps = errors.New("too many compression jumps")

	// ErrLabelTooLong reports a name label exceeding the 63-byte limit on
	// encode (RFC 1035 Section 3.1).
	ErrLabelTooLong = errors.New("label exceeds 63 bytes")
)
