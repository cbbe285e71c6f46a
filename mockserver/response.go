package mockserver

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// GetEcho is the body returned for an unmocked GET.
type GetEcho struct {
	Message string            `json:"message"`
	Params  map[string]string `json:"params"`
}

// PostEcho is the body returned for an unmocked POST.
type PostEcho struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Echo messages.
const (
	MessageGet           = "Mock GET request received"
	MessagePost          = "Mock POST request received"
	MessageInvalidMethod = "Invalid request method"
)

// WriteJSON encodes v as the response body with the given status code.
//
// If encoding fails the error is logged; headers have already been sent.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().
			Err(err).
			Int("status_code", statusCode).
			Msg("failed to encode JSON response")
		WriteText(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(statusCode)
	_, _ = w.Write(data)
}

// WriteText writes a plain text response.
func WriteText(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Length", strconv.Itoa(len(text)))
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(text))
}

// writeMock writes a registered mock.
func writeMock(w http.ResponseWriter, m Mock) {
	for k, v := range m.Headers {
		w.Header().Set(k, v)
	}

	switch body := m.Body.(type) {
	case nil:
		w.WriteHeader(m.status())
	case string:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "text/plain")
		}
		w.WriteHeader(m.status())
		_, _ = w.Write([]byte(body))
	case []byte:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		w.WriteHeader(m.status())
		_, _ = w.Write(body)
	default:
		WriteJSON(w, m.status(), body)
	}
}
