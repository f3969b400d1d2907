package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/pvandermeer/vosdns/internal/dns"
)

// maxReferrals bounds the delegation walk for one query, counting both NS
// referrals and the nested lookups needed for glue-less NS hosts.
const maxReferrals = 16

// IterativeResolver resolves names by walking the delegation tree itself:
// query a root server, follow the NS referral it returns, and repeat until a
// server answers authoritatively. Glue addresses in the additional section
// are used when present; a glue-less referral costs a nested resolution of
// the NS hostname first.
type IterativeResolver struct {
	RootServer string        // HOST:PORT iteration starts from
	Timeout    time.Duration // per-exchange deadline
	Logger     *slog.Logger  // optional
}

// NewIterativeResolver creates a resolver starting its walks at rootServer.
func NewIterativeResolver(rootServer string, timeout time.Duration) *IterativeResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &IterativeResolver{RootServer: rootServer, Timeout: timeout}
}

// Resolve walks the delegation tree for (name, qtype).
func (r *IterativeResolver) Resolve(ctx context.Context, name string, qtype dns.QueryType) (*dns.Packet, error) {
	budget := maxReferrals
	return r.lookup(ctx, name, qtype, r.RootServer, &budget)
}

func (r *IterativeResolver) lookup(ctx context.Context, name string, qtype dns.QueryType, server string, budget *int) (*dns.Packet, error) {
	for {
		if *budget <= 0 {
			return nil, fmt.Errorf("referral limit reached resolving %q", name)
		}
		*budget--
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if r.Logger != nil {
			r.Logger.Debug("iterative step", "qname", name, "qtype", qtype.String(), "server", server)
		}

		// Iterative queries must not ask the server to recurse.
		resp, err := Exchange(ctx, server, name, qtype, false, r.Timeout)
		if err != nil {
			return nil, err
		}

		// An authoritative answer, or a definitive name error, ends the walk.
		if len(resp.Answers) > 0 && resp.Header.ResCode == dns.RCodeNoError {
			return resp, nil
		}
		if resp.Header.ResCode == dns.RCodeNXDomain {
			return resp, nil
		}

		// A referral with glue tells us the next server directly.
		if addr := resp.ResolvedNameServer(name); addr != nil {
			server = net.JoinHostPort(addr.String(), "53")
			continue
		}

		// No glue: resolve the NS hostname before continuing. If there is
		// no usable NS either, the response is the best we have.
		nsHost := resp.UnresolvedNameServer(name)
		if nsHost == "" {
			return resp, nil
		}

		nsResp, err := r.lookup(ctx, nsHost, dns.TypeA, r.RootServer, budget)
		if err != nil {
			return nil, fmt.Errorf("resolve name server %q: %w", nsHost, err)
		}
		addr := nsResp.FirstAnswerAddress()
		if addr == nil {
			return resp, nil
		}
		server = net.JoinHostPort(addr.String(), "53")
	}
}

// Close implements Resolver.
func (r *IterativeResolver) Close() error {
	return nil
}
