package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
)

// TransientClassifier reports whether err is a transient network failure
// worth another attempt.
//
// Only errors are classified. A response with a 4xx or 5xx status is a
// completed attempt and is returned to the caller as is.
type TransientClassifier func(err error) bool

// DefaultTransientClassifier treats timeouts and connection-level failures
// as transient.
//
// Transient:
//   - attempt deadline exceeded, net.Error timeouts
//   - connection refused, reset, aborted; network or host unreachable
//   - DNS lookup failures
//   - unexpected EOF while talking to the server
//
// Not transient:
//   - context cancellation
//   - TLS certificate errors
//   - malformed requests (bad URL, unsupported scheme, body encoding)
//   - rate limiter and circuit breaker rejections
func DefaultTransientClassifier(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if isPermanentError(err) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	return isConnectionError(err)
}

// isConnectionError returns true for timeouts and failures to reach or
// stay connected to the server.
func isConnectionError(err error) bool {
	// 1. Check net.Error interface
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// 2. DNS resolution failures prevent the connection from being established
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	// 3. Dial failures
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	// 4. Syscall connection errors
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	// 5. Server went away mid-exchange
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	// 6. Fallback for wrapped errors that lost their type
	return containsTransientPattern(err)
}

// containsTransientPattern is a fallback for edge cases where type checks fail.
func containsTransientPattern(err error) bool {
	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is down",
		"network unreachable",
		"i/o timeout",
		"timeout awaiting",
		"temporary failure",
		"server closed",
		"broken pipe",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// isPermanentError returns true for errors that will not succeed
// on retry and should fail immediately.
func isPermanentError(err error) bool {
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrCircuitOpen) {
		return true
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}

	if errors.Is(err, syscall.EACCES) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range []string{"x509:", "tls:", "unsupported protocol scheme", "permission denied"} {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// NeverRetryClassifier returns a classifier that never retries.
func NeverRetryClassifier() TransientClassifier {
	return func(error) bool { return false }
}
