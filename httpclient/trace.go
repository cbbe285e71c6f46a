package httpclient

import (
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// attemptTrace collects connection timings of a single attempt from
// httptrace callbacks and turns them into span events.
type attemptTrace struct {
	mu sync.Mutex

	dnsStart, dnsDone         time.Time
	connectStart, connectDone time.Time
	tlsStart, tlsDone         time.Time
	wroteRequest, firstByte   time.Time

	reused     bool
	remoteAddr string
	tlsVersion uint16
}

func (at *attemptTrace) clientTrace() *httptrace.ClientTrace {
	now := func(dst *time.Time) {
		at.mu.Lock()
		*dst = time.Now()
		at.mu.Unlock()
	}

	return &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			at.mu.Lock()
			defer at.mu.Unlock()
			at.reused = info.Reused
			if info.Conn != nil && info.Conn.RemoteAddr() != nil {
				at.remoteAddr = info.Conn.RemoteAddr().String()
			}
		},
		DNSStart:          func(httptrace.DNSStartInfo) { now(&at.dnsStart) },
		DNSDone:           func(httptrace.DNSDoneInfo) { now(&at.dnsDone) },
		ConnectStart:      func(_, _ string) { now(&at.connectStart) },
		ConnectDone:       func(_, _ string, _ error) { now(&at.connectDone) },
		TLSHandshakeStart: func() { now(&at.tlsStart) },
		TLSHandshakeDone: func(state tls.ConnectionState, _ error) {
			at.mu.Lock()
			defer at.mu.Unlock()
			at.tlsDone = time.Now()
			at.tlsVersion = state.Version
		},
		WroteRequest:         func(httptrace.WroteRequestInfo) { now(&at.wroteRequest) },
		GotFirstResponseByte: func() { now(&at.firstByte) },
	}
}

// annotate adds one event per completed phase to span.
func (at *attemptTrace) annotate(span trace.Span) {
	at.mu.Lock()
	defer at.mu.Unlock()

	phase := func(name string, start, done time.Time, extra ...attribute.KeyValue) {
		if start.IsZero() || done.IsZero() {
			return
		}
		attrs := append([]attribute.KeyValue{
			attribute.Float64(name+".duration_ms", float64(done.Sub(start).Microseconds())/1000),
		}, extra...)
		span.AddEvent(name, trace.WithTimestamp(done), trace.WithAttributes(attrs...))
	}

	phase("dns", at.dnsStart, at.dnsDone)
	phase("connect", at.connectStart, at.connectDone)
	phase("tls", at.tlsStart, at.tlsDone, attribute.String("tls.protocol.version", tls.VersionName(at.tlsVersion)))
	phase("ttfb", at.wroteRequest, at.firstByte)

	span.SetAttributes(attribute.Bool("http.connection.reused", at.reused))
	if at.remoteAddr != "" {
		span.SetAttributes(attribute.String("network.peer.address", at.remoteAddr))
	}
}
