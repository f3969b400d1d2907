package resolver_test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandermeer/vosdns/internal/dns"
	"github.com/pvandermeer/vosdns/internal/resolver"
)

// fakeDNSServer answers UDP queries on a loopback port. respond receives
// the decoded query and returns the response packet, or nil to drop the
// request. The response ID is filled in automatically.
func fakeDNSServer(t *testing.T, respond func(query *dns.Packet) *dns.Packet) string {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, dns.PacketSize)
		for {
			n, addr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			query, err := dns.ParsePacket(buf[:n])
			if err != nil {
				continue
			}
			resp := respond(query)
			if resp == nil {
				continue
			}
			if resp.Header.ID == 0 {
				resp.Header.ID = query.Header.ID
			}
			out, err := resp.Marshal()
			if err != nil {
				continue
			}
			_, _ = conn.WriteTo(out, addr)
		}
	}()

	return conn.LocalAddr().String()
}

func answerPacket(query *dns.Packet, addr net.IP) *dns.Packet {
	resp := dns.NewPacket()
	resp.Header.Response = true
	resp.Header.RecursionAvailable = true
	resp.Questions = query.Questions
	resp.Answers = []dns.Record{
		&dns.ARecord{Domain: query.Questions[0].Name, Addr: addr, TTL: 300},
	}
	return resp
}

func TestExchange_Success(t *testing.T) {
	var sawRD atomic.Bool
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		sawRD.Store(q.Header.RecursionDesired)
		return answerPacket(q, net.IPv4(192, 0, 2, 1))
	})

	resp, err := resolver.Exchange(context.Background(), server, "example.com", dns.TypeA, true, time.Second)
	require.NoError(t, err)
	assert.True(t, sawRD.Load(), "recursion desired must be set on stub queries")
	assert.True(t, resp.FirstAnswerAddress().Equal(net.IPv4(192, 0, 2, 1)))
}

func TestExchange_RejectsMismatchedID(t *testing.T) {
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		resp := answerPacket(q, net.IPv4(192, 0, 2, 1))
		resp.Header.ID = q.Header.ID + 1
		return resp
	})

	_, err := resolver.Exchange(context.Background(), server, "example.com", dns.TypeA, true, time.Second)
	assert.ErrorContains(t, err, "does not match")
}

func TestExchange_TimesOutOnSilence(t *testing.T) {
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		return nil // never answer
	})

	start := time.Now()
	_, err := resolver.Exchange(context.Background(), server, "example.com", dns.TypeA, true, 50*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExchange_HonorsContextDeadline(t *testing.T) {
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := resolver.Exchange(ctx, server, "example.com", dns.TypeA, true, 10*time.Second)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "context deadline must override a longer timeout")
}

func TestForwardingResolver_RetriesTransportErrors(t *testing.T) {
	var requests atomic.Int32
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		if requests.Add(1) == 1 {
			return nil // drop the first attempt
		}
		return answerPacket(q, net.IPv4(10, 0, 0, 1))
	})

	r := resolver.NewForwardingResolver(server, 100*time.Millisecond, 3)
	resp, err := r.Resolve(context.Background(), "example.com", dns.TypeA)
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
	assert.True(t, resp.FirstAnswerAddress().Equal(net.IPv4(10, 0, 0, 1)))
}

func TestForwardingResolver_GivesUpAfterMaxRetries(t *testing.T) {
	var requests atomic.Int32
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		requests.Add(1)
		return nil
	})

	r := resolver.NewForwardingResolver(server, 50*time.Millisecond, 2)
	_, err := r.Resolve(context.Background(), "example.com", dns.TypeA)
	require.Error(t, err)
	assert.Equal(t, int32(2), requests.Load())
}

func TestIterativeResolver_AuthoritativeAnswerEndsWalk(t *testing.T) {
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		assert.False(t, q.Header.RecursionDesired, "iterative queries must not request recursion")
		return answerPacket(q, net.IPv4(93, 184, 216, 34))
	})

	r := resolver.NewIterativeResolver(server, time.Second)
	resp, err := r.Resolve(context.Background(), "example.com", dns.TypeA)
	require.NoError(t, err)
	assert.True(t, resp.FirstAnswerAddress().Equal(net.IPv4(93, 184, 216, 34)))
}

func TestIterativeResolver_NXDomainEndsWalk(t *testing.T) {
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		resp := dns.NewPacket()
		resp.Header.Response = true
		resp.Header.ResCode = dns.RCodeNXDomain
		resp.Questions = q.Questions
		return resp
	})

	r := resolver.NewIterativeResolver(server, time.Second)
	resp, err := r.Resolve(context.Background(), "no.such.name", dns.TypeA)
	require.NoError(t, err)
	assert.Equal(t, dns.RCodeNXDomain, resp.Header.ResCode)
}

func TestIterativeResolver_DeadEndReturnsResponse(t *testing.T) {
	// An empty NOERROR response with no referral leaves nowhere to go;
	// the walk must stop and hand that response back.
	server := fakeDNSServer(t, func(q *dns.Packet) *dns.Packet {
		resp := dns.NewPacket()
		resp.Header.Response = true
		resp.Questions = q.Questions
		return resp
	})

	r := resolver.NewIterativeResolver(server, time.Second)
	resp, err := r.Resolve(context.Background(), "example.com", dns.TypeA)
	require.NoError(t, err)
	assert.Empty(t, resp.Answers)
	assert.Equal(t, dns.RCodeNoError, resp.Header.ResCode)
}
