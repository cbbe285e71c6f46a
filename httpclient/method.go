package httpclient

import "net/http"

// Method is an HTTP verb accepted by the dispatcher.
// Tokens are case-sensitive: "get" is not a valid Method.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodDelete  Method = http.MethodDelete
	MethodPatch   Method = http.MethodPatch
	MethodOptions Method = http.MethodOptions
)

// AllowedMethods lists every Method the dispatcher can send, in declaration order.
var AllowedMethods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodPatch,
	MethodOptions,
}

// ParseMethod converts a token into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate returns an *UnsupportedMethodError unless m is one of AllowedMethods.
func (m Method) Validate() error {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodOptions:
		return nil
	default:
		return &UnsupportedMethodError{Method: string(m)}
	}
}

func (m Method) String() string {
	return string(m)
}
