package mockserver

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

type sourceKey struct{}

type sourceRecorder struct {
	source string
}

func withSource(ctx context.Context, src *sourceRecorder) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

func setSource(ctx context.Context, source string) {
	if src, ok := ctx.Value(sourceKey{}).(*sourceRecorder); ok {
		src.source = source
	}
}

// handler answers requests from the store first, then echoes.
type handler struct {
	store *Store
}

// NewRouter returns the mock API router:
//
//   - a request matching a registered Mock gets that Mock, whatever its method
//   - GET echoes the query parameters
//   - POST echoes the JSON body
//   - any other method gets 400 "Invalid request method"
//   - GET /metrics serves Prometheus metrics when m is not nil
func NewRouter(store *Store, m *Metrics, middlewares ...Middleware) http.Handler {
	h := &handler{store: store}

	r := chi.NewRouter()
	for _, mw := range middlewares {
		r.Use(mw)
	}
	if m != nil {
		r.Use(m.Middleware())
	}
	r.Use(h.mocked)

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	r.Get("/*", h.get)
	r.Post("/*", h.post)
	r.MethodNotAllowed(h.invalidMethod)
	r.NotFound(h.invalidMethod)

	return r
}

func (h *handler) mocked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock, ok := h.store.Get(r.Method, r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		setSource(r.Context(), SourceMock)
		writeMock(w, mock)
	})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	WriteJSON(w, http.StatusOK, GetEcho{Message: MessageGet, Params: params})
}

func (h *handler) post(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		setSource(r.Context(), SourceInvalid)
		WriteText(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	var data any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			setSource(r.Context(), SourceInvalid)
			WriteText(w, http.StatusBadRequest, "request body is not JSON")
			return
		}
	}

	WriteJSON(w, http.StatusOK, PostEcho{Message: MessagePost, Data: data})
}

func (h *handler) invalidMethod(w http.ResponseWriter, r *http.Request) {
	setSource(r.Context(), SourceInvalid)
	WriteText(w, http.StatusBadRequest, MessageInvalidMethod)
}
