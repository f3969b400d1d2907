// Package server implements the UDP DNS server: the listen loop, the
// per-query handler, and the runner tying configuration to both.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/pvandermeer/vosdns/internal/dns"
	"github.com/pvandermeer/vosdns/internal/querylog"
	"github.com/pvandermeer/vosdns/internal/resolver"
	"github.com/pvandermeer/vosdns/internal/stats"
)

// QueryHandler turns one request datagram into one response datagram.
//
// Error contract (the codec itself never decides response codes):
//   - request that does not decode: FORMERR if at least the header is
//     readable, otherwise the datagram is dropped
//   - request without a question: FORMERR
//   - resolver failure (including an upstream reply that does not decode):
//     SERVFAIL
type QueryHandler struct {
	Logger   *slog.Logger      // optional
	Resolver resolver.Resolver // answers the question
	Stats    *stats.DNSStats   // optional counters
	QueryLog *querylog.Store   // optional persistent log
	Timeout  time.Duration     // resolution budget per query (default 4s)
}

// Handle processes a single request datagram and returns the response
// bytes, or nil when no response should be sent.
func (h *QueryHandler) Handle(ctx context.Context, src string, reqBytes []byte) []byte {
	started := time.Now()
	if h.Stats != nil {
		h.Stats.RecordQuery()
	}

	request, err := dns.ParsePacket(reqBytes)
	if err != nil {
		return h.handleParseError(src, reqBytes, err)
	}

	response := responseSkeleton(request)

	if len(request.Questions) == 0 {
		response.Header.ResCode = dns.RCodeFormErr
	} else {
		question := request.Questions[0]
		response.Questions = append(response.Questions, question)
		h.resolveInto(ctx, response, question)
		h.logServed(src, question, response, time.Since(started))
	}

	if h.Stats != nil {
		h.Stats.RecordResponse(uint8(response.Header.ResCode))
		h.Stats.RecordLatency(time.Since(started))
	}

	respBytes, err := response.Marshal()
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("encode response", "src", src, "error", err)
		}
		if h.Stats != nil {
			h.Stats.RecordDropped()
		}
		return nil
	}
	return respBytes
}

// resolveInto runs the resolver within the handler's budget and fills the
// response sections, or marks SERVFAIL.
func (h *QueryHandler) resolveInto(ctx context.Context, response *dns.Packet, question dns.Question) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := h.Resolver.Resolve(ctx, question.Name, question.QType)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("resolution failed", "qname", question.Name, "error", err)
		}
		response.Header.ResCode = dns.RCodeServFail
		return
	}

	response.Header.ResCode = result.Header.ResCode
	response.Answers = append(response.Answers, result.Answers...)
	response.Authorities = append(response.Authorities, result.Authorities...)
	response.Resources = append(response.Resources, result.Resources...)
}

// handleParseError answers an undecodable request with FORMERR when at
// least the header (and, if declared, the question) can be salvaged.
func (h *QueryHandler) handleParseError(src string, reqBytes []byte, parseErr error) []byte {
	if h.Logger != nil {
		h.Logger.Debug("undecodable request", "src", src, "bytes", len(reqBytes), "error", parseErr)
	}

	buffer := dns.NewPacketBuffer()
	if err := buffer.Load(reqBytes); err != nil {
		return h.drop()
	}
	var header dns.Header
	if err := header.Read(buffer); err != nil {
		return h.drop()
	}

	salvaged := dns.NewPacket()
	salvaged.Header.ID = header.ID
	salvaged.Header.RecursionDesired = header.RecursionDesired
	if header.Questions > 0 {
		var q dns.Question
		if err := q.Read(buffer); err == nil {
			salvaged.Questions = append(salvaged.Questions, q)
		}
	}

	response := responseSkeleton(salvaged)
	response.Questions = salvaged.Questions
	response.Header.ResCode = dns.RCodeFormErr

	if h.Stats != nil {
		h.Stats.RecordResponse(uint8(dns.RCodeFormErr))
	}

	respBytes, err := response.Marshal()
	if err != nil {
		return h.drop()
	}
	return respBytes
}

func (h *QueryHandler) drop() []byte {
	if h.Stats != nil {
		h.Stats.RecordDropped()
	}
	return nil
}

// responseSkeleton starts a response for a request: id echoed, RD copied,
// response and recursion-available flags set.
func responseSkeleton(request *dns.Packet) *dns.Packet {
	response := dns.NewPacket()
	response.Header.ID = request.Header.ID
	response.Header.RecursionDesired = request.Header.RecursionDesired
	response.Header.RecursionAvailable = true
	response.Header.Response = true
	return response
}

// logServed writes debug logging and the persistent query log entry for a
// served question.
func (h *QueryHandler) logServed(src string, question dns.Question, response *dns.Packet, took time.Duration) {
	if h.Logger != nil && h.Logger.Enabled(context.Background(), slog.LevelDebug) {
		h.Logger.Debug("dns request",
			"src", src,
			"id", int(response.Header.ID),
			"qname", question.Name,
			"qtype", question.QType.String(),
			"rcode", response.Header.ResCode.String(),
			"answers", len(response.Answers),
			"took_ms", took.Milliseconds(),
		)
	}

	if h.QueryLog != nil {
		err := h.QueryLog.Insert(querylog.Entry{
			Client:   src,
			QName:    question.Name,
			QType:    uint16(question.QType),
			RCode:    uint8(response.Header.ResCode),
			Duration: float64(took.Microseconds()) / 1000.0,
		})
		if err != nil && h.Logger != nil {
			h.Logger.Warn("query log insert failed", "error", err)
		}
	}
}
