package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandermeer/vosdns/internal/dns"
	"github.com/pvandermeer/vosdns/internal/stats"
)

// stubResolver returns a canned response or error.
type stubResolver struct {
	response *dns.Packet
	err      error
	lastName string
}

func (s *stubResolver) Resolve(_ context.Context, name string, _ dns.QueryType) (*dns.Packet, error) {
	s.lastName = name
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubResolver) Close() error { return nil }

func queryBytes(t *testing.T, id uint16, name string) []byte {
	t.Helper()
	q := dns.NewPacket()
	q.Header.ID = id
	q.Header.RecursionDesired = true
	q.Questions = []dns.Question{dns.NewQuestion(name, dns.TypeA)}
	data, err := q.Marshal()
	require.NoError(t, err)
	return data
}

func TestQueryHandler_Success(t *testing.T) {
	upstream := dns.NewPacket()
	upstream.Answers = []dns.Record{
		&dns.ARecord{Domain: "example.com", Addr: net.IPv4(93, 184, 216, 34), TTL: 300},
	}
	resolver := &stubResolver{response: upstream}
	collected := stats.New()
	h := &QueryHandler{Resolver: resolver, Stats: collected}

	respBytes := h.Handle(context.Background(), "127.0.0.1:5300", queryBytes(t, 0x4242, "example.com"))
	require.NotNil(t, respBytes)

	resp, err := dns.ParsePacket(respBytes)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x4242), resp.Header.ID, "response must echo the query id")
	assert.True(t, resp.Header.Response)
	assert.True(t, resp.Header.RecursionDesired, "RD is copied from the request")
	assert.True(t, resp.Header.RecursionAvailable)
	assert.Equal(t, dns.RCodeNoError, resp.Header.ResCode)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "example.com", resp.Questions[0].Name)
	assert.True(t, resp.FirstAnswerAddress().Equal(net.IPv4(93, 184, 216, 34)))
	assert.Equal(t, "example.com", resolver.lastName)

	snap := collected.Snapshot()
	assert.Equal(t, uint64(1), snap.QueriesTotal)
	assert.Equal(t, uint64(1), snap.ResponsesOK)
}

func TestQueryHandler_PropagatesRCode(t *testing.T) {
	upstream := dns.NewPacket()
	upstream.Header.ResCode = dns.RCodeNXDomain
	h := &QueryHandler{Resolver: &stubResolver{response: upstream}}

	respBytes := h.Handle(context.Background(), "127.0.0.1:5300", queryBytes(t, 7, "no.such.name"))
	require.NotNil(t, respBytes)

	resp, err := dns.ParsePacket(respBytes)
	require.NoError(t, err)
	assert.Equal(t, dns.RCodeNXDomain, resp.Header.ResCode)
}

func TestQueryHandler_ResolverFailureIsServFail(t *testing.T) {
	collected := stats.New()
	h := &QueryHandler{
		Resolver: &stubResolver{err: errors.New("upstream unreachable")},
		Stats:    collected,
		Timeout:  100 * time.Millisecond,
	}

	respBytes := h.Handle(context.Background(), "127.0.0.1:5300", queryBytes(t, 9, "example.com"))
	require.NotNil(t, respBytes)

	resp, err := dns.ParsePacket(respBytes)
	require.NoError(t, err)
	assert.Equal(t, dns.RCodeServFail, resp.Header.ResCode)
	assert.Equal(t, uint16(9), resp.Header.ID)
	assert.Equal(t, uint64(1), collected.Snapshot().ResponsesErr)
}

func TestQueryHandler_EmptyQuestionIsFormErr(t *testing.T) {
	empty := dns.NewPacket()
	empty.Header.ID = 11
	data, err := empty.Marshal()
	require.NoError(t, err)

	h := &QueryHandler{Resolver: &stubResolver{response: dns.NewPacket()}}
	respBytes := h.Handle(context.Background(), "127.0.0.1:5300", data)
	require.NotNil(t, respBytes)

	resp, err := dns.ParsePacket(respBytes)
	require.NoError(t, err)
	assert.Equal(t, dns.RCodeFormErr, resp.Header.ResCode)
	assert.Equal(t, uint16(11), resp.Header.ID)
}

func TestQueryHandler_UndecodableWithHeaderIsFormErr(t *testing.T) {
	// A header declaring an impossible record count fails to decode as a
	// packet, but the id is still salvageable for a FORMERR reply.
	data := make([]byte, dns.HeaderSize)
	data[0], data[1] = 0xAB, 0xCD // id
	data[6] = 0xFF                // ANCOUNT way past what 512 bytes can hold

	h := &QueryHandler{Resolver: &stubResolver{response: dns.NewPacket()}}
	respBytes := h.Handle(context.Background(), "127.0.0.1:5300", data)
	require.NotNil(t, respBytes)

	resp, err := dns.ParsePacket(respBytes)
	require.NoError(t, err)
	assert.Equal(t, dns.RCodeFormErr, resp.Header.ResCode)
	assert.Equal(t, uint16(0xABCD), resp.Header.ID)
}

func TestQueryHandler_OversizedDatagramIsDropped(t *testing.T) {
	collected := stats.New()
	h := &QueryHandler{Resolver: &stubResolver{response: dns.NewPacket()}, Stats: collected}

	respBytes := h.Handle(context.Background(), "127.0.0.1:5300", make([]byte, dns.PacketSize+1))
	assert.Nil(t, respBytes)
	assert.Equal(t, uint64(1), collected.Snapshot().Dropped)
}
