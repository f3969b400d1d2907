// Package resolver provides the strategies VosDNS uses to answer queries.
//
// Two strategies exist:
//
//   - ForwardingResolver hands the question to an upstream recursive
//     resolver and relays its answer.
//   - IterativeResolver walks the delegation tree itself, starting at a
//     root server and following NS referrals (with glue when the upstream
//     provides it) until it reaches an authoritative answer.
//
// Both operate on decoded dns.Packet values; transport is plain UDP with a
// fixed 512-byte message limit and a per-attempt deadline.
package resolver

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/pvandermeer/vosdns/internal/dns"
)

// Resolver answers a single DNS question.
type Resolver interface {
	// Resolve answers the question for name and qtype. The returned packet
	// is a fully decoded upstream response; its header rcode conveys
	// NXDOMAIN and friends. The context bounds the whole resolution.
	Resolve(ctx context.Context, name string, qtype dns.QueryType) (*dns.Packet, error)

	// Close releases any resources held by the resolver.
	Close() error
}

// Exchange sends one query for (name, qtype) to server over UDP and decodes
// the reply. recursionDesired distinguishes stub queries (forwarding) from
// iterative ones, where the queried server must not recurse on our behalf.
func Exchange(ctx context.Context, server string, name string, qtype dns.QueryType, recursionDesired bool, timeout time.Duration) (*dns.Packet, error) {
	query := dns.NewPacket()
	query.Header.ID = randomQueryID()
	query.Header.RecursionDesired = recursionDesired
	query.Questions = append(query.Questions, dns.NewQuestion(name, qtype))

	reqBytes, err := query.Marshal()
	if err != nil {
		return nil, fmt.Errorf("build query for %q: %w", name, err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write(reqBytes); err != nil {
		return nil, err
	}

	buf := make([]byte, dns.PacketSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}

	resp, err := dns.ParsePacket(buf[:n])
	if err != nil {
		return nil, fmt.Errorf("decode reply from %s: %w", server, err)
	}
	if resp.Header.ID != query.Header.ID {
		return nil, fmt.Errorf("reply id %d does not match query id %d", resp.Header.ID, query.Header.ID)
	}
	return resp, nil
}

func randomQueryID() uint16 {
	return uint16(rand.Uint32()) //nolint:gosec // correlation token, not security material
}
