package dns

import (
	"fmt"
	"strings"
)

// maxJumps bounds compression-pointer chasing while reading a single name.
// DNS packets are untrusted data; a crafted packet can contain pointer
// cycles, and this limit is the only thing standing between such a packet
// and an infinite loop.
const maxJumps = 5

// ReadName decodes a domain name from the buffer's current position,
// following compression pointers (RFC 1035 Section 4.1.4).
//
// Wire format is a sequence of length-prefixed labels terminated by a
// zero-length label, e.g. [3]www[6]google[3]com[0] for "www.google.com".
// A length byte with its two high bits set (0xC0) is instead a pointer: the
// remaining 14 bits name an offset in the same message where the name
// continues.
//
// Reading tracks a local position separate from the buffer's shared one, so
// that pointer jumps can redirect label reading elsewhere in the message
// without disturbing where the caller's next field starts. The shared
// position is advanced exactly once: either past the terminating zero byte
// (no jumps), or past the first pointer encountered, where the name
// logically ends in the enclosing section.
//
// Labels are appended lowercased; non-ASCII bytes are kept via lossy UTF-8
// conversion. Label lengths are not otherwise validated on read.
func (b *PacketBuffer) ReadName() (string, error) {
	// Local shadow of the shared position; jumps move only this.
	pos := b.Pos()

	jumped := false
	jumpsPerformed := 0

	var out strings.Builder
	delim := ""
	for {
		if jumpsPerformed > maxJumps {
			return "", fmt.Errorf("%w: limit of %d exceeded", ErrTooManyJumps, maxJumps)
		}

		// Every iteration starts at a label length byte.
		length, err := b.Get(pos)
		if err != nil {
			return "", err
		}

		if length&0xC0 == 0xC0 {
			// Compression pointer. Move the shared position past it, but
			// only for the first jump: the name ends here no matter how
			// far the pointer chain wanders.
			if !jumped {
				if err := b.Seek(pos + 2); err != nil {
					return "", err
				}
			}

			b2, err := b.Get(pos + 1)
			if err != nil {
				return "", err
			}
			offset := (uint16(length)^0xC0)<<8 | uint16(b2)
			pos = int(offset)

			jumped = true
			jumpsPerformed++
			continue
		}

		// Literal label: skip the length byte, then the label bytes.
		pos++

		// A zero-length label terminates the name.
		if length == 0 {
			break
		}

		out.WriteString(delim)

		labelBytes, err := b.GetRange(pos, int(length))
		if err != nil {
			return "", err
		}
		out.WriteString(strings.ToLower(string(labelBytes)))

		delim = "."
		pos += int(length)
	}

	if !jumped {
		if err := b.Seek(pos); err != nil {
			return "", err
		}
	}

	return out.String(), nil
}

// WriteName encodes a domain name at the current position, always in full,
// uncompressed form. Compression is never produced on write, so re-encoding
// a decoded message is semantically but not byte-identically equivalent to
// the original.
//
// Fails with ErrLabelTooLong if any dot-separated label exceeds 63 bytes,
// the limit imposed by the 6-bit label length field.
func (b *PacketBuffer) WriteName(name string) error {
	for _, label := range strings.Split(name, ".") {
		if len(label) > 0x3F {
			return fmt.Errorf("%w: %q", ErrLabelTooLong, label)
		}

		if err := b.Write(uint8(len(label))); err != nil {
			return err
		}
		for i := 0; i < len(label); i++ {
			if err := b.Write(label[i]); err != nil {
				return err
			}
		}
	}

	return b.Write(0)
}

// NormalizeName lowercases a domain name and strips any trailing dot, for
// case-insensitive comparison per RFC 4343.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}
