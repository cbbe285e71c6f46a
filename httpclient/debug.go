package httpclient

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// curlCommand renders req and its encoded body as a curl invocation.
// GET omits -X; headers are emitted once per value in key order.
//
//	curl -X POST 'https://api.example.com/v1/users' -H 'Content-Type: application/json' -d '{"name":"ada"}'
func curlCommand(req *http.Request, body []byte) string {
	args := []string{"curl"}
	if req.Method != http.MethodGet {
		args = append(args, "-X", req.Method)
	}
	args = append(args, shellQuote(req.URL.String()))

	for _, k := range sortedKeys(req.Header) {
		for _, v := range req.Header[k] {
			args = append(args, "-H", shellQuote(k+": "+v))
		}
	}
	if len(body) > 0 {
		args = append(args, "-d", shellQuote(string(body)))
	}
	return strings.Join(args, " ")
}

func debugAttempt(logger zerolog.Logger, req *http.Request, timeout time.Duration, bodySize int) {
	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("timeout", timeout).
		Int("body_bytes", bodySize).
		Msg("sending request")
}

func debugResult(logger zerolog.Logger, resp *http.Response, bodySize int, elapsed time.Duration) {
	logger.Debug().
		Int("status", resp.StatusCode).
		Str("reason", http.StatusText(resp.StatusCode)).
		Int("body_bytes", bodySize).
		Str("elapsed", fmt.Sprintf("%.3fs", elapsed.Seconds())).
		Msg("response received")
}
