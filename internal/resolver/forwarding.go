package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/pvandermeer/vosdns/internal/dns"
)

// Defaults for the forwarding resolver.
const (
	DefaultTimeout    = 3 * time.Second
	DefaultMaxRetries = 3
)

// ForwardingResolver relays queries to one upstream recursive resolver over
// UDP, retrying a bounded number of times on transport errors. There is no
// response caching, no TCP fallback, and no failover set: one upstream, a
// deadline, and a retry budget.
type ForwardingResolver struct {
	Upstream   string        // upstream HOST:PORT
	Timeout    time.Duration // per-attempt deadline
	MaxRetries int           // attempts per query
	Logger     *slog.Logger  // optional
}

// NewForwardingResolver creates a resolver forwarding to upstream,
// normalizing zero settings to the defaults.
func NewForwardingResolver(upstream string, timeout time.Duration, maxRetries int) *ForwardingResolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &ForwardingResolver{Upstream: upstream, Timeout: timeout, MaxRetries: maxRetries}
}

// Resolve forwards the question upstream with recursion desired.
func (r *ForwardingResolver) Resolve(ctx context.Context, name string, qtype dns.QueryType) (*dns.Packet, error) {
	var lastErr error
	for attempt := 0; attempt < r.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := Exchange(ctx, r.Upstream, name, qtype, true, r.Timeout)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if r.Logger != nil {
			r.Logger.Debug("upstream attempt failed",
				"upstream", r.Upstream,
				"qname", name,
				"attempt", attempt+1,
				"error", err,
			)
		}
	}
	return nil, lastErr
}

// Close implements Resolver. The forwarding resolver holds no resources.
func (r *ForwardingResolver) Close() error {
	return nil
}
