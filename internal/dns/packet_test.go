package dns_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandermeer/vosdns/internal/dns"
)

func TestPacket_MarshalAndParse_SimpleQuery(t *testing.T) {
	query := dns.NewPacket()
	query.Header.ID = 0x1234
	query.Header.RecursionDesired = true
	query.Questions = []dns.Question{dns.NewQuestion("google.com", dns.TypeA)}

	data, err := query.Marshal()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	parsed, err := dns.ParsePacket(data)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1234), parsed.Header.ID)
	assert.True(t, parsed.Header.RecursionDesired)
	assert.False(t, parsed.Header.Response)
	require.Len(t, parsed.Questions, 1)
	assert.Equal(t, "google.com", parsed.Questions[0].Name)
	assert.Equal(t, dns.TypeA, parsed.Questions[0].QType)
}

func TestPacket_MarshalAndParse_Response(t *testing.T) {
	resp := dns.NewPacket()
	resp.Header.ID = 0xABCD
	resp.Header.Response = true
	resp.Header.RecursionAvailable = true
	resp.Questions = []dns.Question{dns.NewQuestion("example.com", dns.TypeA)}
	resp.Answers = []dns.Record{
		&dns.ARecord{Domain: "example.com", Addr: net.IPv4(93, 184, 216, 34), TTL: 3600},
		&dns.CNAMERecord{Domain: "www.example.com", Host: "example.com", TTL: 3600},
	}

	data, err := resp.Marshal()
	require.NoError(t, err)

	parsed, err := dns.ParsePacket(data)
	require.NoError(t, err)
	assert.True(t, parsed.Header.Response)
	require.Len(t, parsed.Answers, 2)

	a, ok := parsed.Answers[0].(*dns.ARecord)
	require.True(t, ok)
	assert.True(t, a.Addr.Equal(net.IPv4(93, 184, 216, 34)))
}

func TestPacket_WriteRecomputesCounts(t *testing.T) {
	p := dns.NewPacket()
	// Deliberately wrong counts; Write must not trust them.
	p.Header.Questions = 42
	p.Header.Answers = 9000
	p.Questions = []dns.Question{dns.NewQuestion("example.com", dns.TypeA)}
	p.Answers = []dns.Record{&dns.ARecord{Domain: "example.com", Addr: net.IPv4(1, 2, 3, 4), TTL: 60}}

	data, err := p.Marshal()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), p.Header.Questions)
	assert.Equal(t, uint16(1), p.Header.Answers)
	assert.Equal(t, uint16(0), p.Header.AuthoritativeEntries)
	assert.Equal(t, uint16(0), p.Header.ResourceEntries)

	parsed, err := dns.ParsePacket(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), parsed.Header.Answers)
}

func TestPacket_UnknownRecordsCountButDoNotSerialize(t *testing.T) {
	p := dns.NewPacket()
	p.Answers = []dns.Record{
		&dns.UnknownRecord{Domain: "example.com", TypeNum: 16, DataLen: 5, TTL: 30},
		&dns.ARecord{Domain: "example.com", Addr: net.IPv4(1, 2, 3, 4), TTL: 60},
	}

	data, err := p.Marshal()
	require.NoError(t, err)
	// The header says two answers even though only one hit the wire:
	// ANCOUNT (bytes 6-7) is 2, followed by exactly one record's bytes.
	assert.Equal(t, uint16(2), p.Header.Answers)
	assert.Equal(t, []byte{0x00, 0x02}, data[6:8])

	// Decoding those bytes back does not fail: the buffer is zero-padded
	// to its fixed capacity and the decoder trusts the section counts, so
	// the missing second answer reads from the padding as a zero-valued
	// record of an unrecognized type.
	parsed, err := dns.ParsePacket(data)
	require.NoError(t, err)
	require.Len(t, parsed.Answers, 2)

	a, ok := parsed.Answers[0].(*dns.ARecord)
	require.True(t, ok)
	assert.True(t, a.Addr.Equal(net.IPv4(1, 2, 3, 4)))

	phantom, ok := parsed.Answers[1].(*dns.UnknownRecord)
	require.True(t, ok)
	assert.Equal(t, "", phantom.Domain)
	assert.Equal(t, uint16(0), phantom.TypeNum)
	assert.Equal(t, uint16(0), phantom.DataLen)
	assert.Equal(t, uint32(0), phantom.TTL)
}

func TestPacket_FirstAnswerAddress(t *testing.T) {
	p := dns.NewPacket()
	assert.Nil(t, p.FirstAnswerAddress())

	p.Answers = []dns.Record{
		&dns.CNAMERecord{Domain: "www.example.com", Host: "example.com", TTL: 60},
		&dns.ARecord{Domain: "example.com", Addr: net.IPv4(1, 2, 3, 4), TTL: 60},
		&dns.ARecord{Domain: "example.com", Addr: net.IPv4(5, 6, 7, 8), TTL: 60},
	}
	assert.True(t, p.FirstAnswerAddress().Equal(net.IPv4(1, 2, 3, 4)),
		"non-A records are skipped and the first A wins")
}

func referralPacket() *dns.Packet {
	p := dns.NewPacket()
	p.Authorities = []dns.Record{
		&dns.NSRecord{Domain: "example.com", Host: "ns1.example.com", TTL: 86400},
		&dns.NSRecord{Domain: "example.com", Host: "ns2.example.com", TTL: 86400},
		&dns.NSRecord{Domain: "other.org", Host: "ns.other.org", TTL: 86400},
	}
	p.Resources = []dns.Record{
		&dns.ARecord{Domain: "ns2.example.com", Addr: net.IPv4(10, 0, 0, 2), TTL: 86400},
	}
	return p
}

func TestPacket_ResolvedNameServer(t *testing.T) {
	p := referralPacket()

	addr := p.ResolvedNameServer("www.example.com")
	require.NotNil(t, addr)
	assert.True(t, addr.Equal(net.IPv4(10, 0, 0, 2)), "only ns2 has glue")

	assert.Nil(t, p.ResolvedNameServer("www.elsewhere.net"),
		"NS records for unrelated zones must not qualify")

	p.Resources = nil
	assert.Nil(t, p.ResolvedNameServer("www.example.com"),
		"no glue means no resolved server")
}

func TestPacket_UnresolvedNameServer(t *testing.T) {
	p := referralPacket()
	assert.Equal(t, "ns1.example.com", p.UnresolvedNameServer("www.example.com"))
	assert.Equal(t, "ns.other.org", p.UnresolvedNameServer("sub.other.org"))
	assert.Equal(t, "", p.UnresolvedNameServer("www.elsewhere.net"))

	p.Authorities = nil
	assert.Equal(t, "", p.UnresolvedNameServer("www.example.com"))
}

func TestParsePacket_CountOverrunsBuffer(t *testing.T) {
	// A header declaring far more records than a 512-byte datagram can
	// hold must abort the decode instead of reading past the end.
	data := make([]byte, dns.HeaderSize)
	data[6] = 0xFF // ANCOUNT = 0xFF00
	_, err := dns.ParsePacket(data)
	assert.ErrorIs(t, err, dns.ErrEndOfBuffer)
}

func TestParsePacket_OversizedDatagram(t *testing.T) {
	_, err := dns.ParsePacket(make([]byte, dns.PacketSize+1))
	assert.ErrorIs(t, err, dns.ErrEndOfBuffer)
}
