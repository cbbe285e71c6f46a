package httpclient

import (
	"net/http"
	"net/url"
	"slices"
)

// Mapping is an insertion-ordered map with unique string keys.
// The zero value is an empty Mapping ready to use.
type Mapping[V any] struct {
	keys []string
	data map[string]V
}

// Headers holds request headers.
type Headers = Mapping[string]

// Params holds query parameters.
type Params = Mapping[string]

// NewMapping creates an empty Mapping.
func NewMapping[V any]() *Mapping[V] {
	return &Mapping[V]{data: make(map[string]V)}
}

// NewHeaders creates Headers from alternating key, value pairs.
// A trailing key without value is ignored.
func NewHeaders(kv ...string) *Headers {
	return fromPairs(kv)
}

// NewParams creates Params from alternating key, value pairs.
func NewParams(kv ...string) *Params {
	return fromPairs(kv)
}

func fromPairs(kv []string) *Mapping[string] {
	m := NewMapping[string]()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

// MappingFrom copies a plain map. Keys are inserted in sorted order.
func MappingFrom[V any](src map[string]V) *Mapping[V] {
	m := NewMapping[V]()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		m.Set(k, src[k])
	}
	return m
}

// Set adds key or replaces its value. Replacing keeps the original position.
func (m *Mapping[V]) Set(key string, value V) *Mapping[V] {
	if m.data == nil {
		m.data = make(map[string]V)
	}
	if _, ok := m.data[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.data[key] = value
	return m
}

// Get returns the value of key, or a *MissingKeyError.
func (m *Mapping[V]) Get(key string) (V, error) {
	v, ok := m.data[key]
	if !ok {
		return v, &MissingKeyError{Key: key}
	}
	return v, nil
}

// GetOr returns the value of key, or def when key is absent.
func (m *Mapping[V]) GetOr(key string, def V) V {
	if v, ok := m.data[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (m *Mapping[V]) Has(key string) bool {
	_, ok := m.data[key]
	return ok
}

// Remove deletes key if present.
func (m *Mapping[V]) Remove(key string) {
	if _, ok := m.data[key]; !ok {
		return
	}
	delete(m.data, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Delete deletes key, or returns a *MissingKeyError when it is absent.
func (m *Mapping[V]) Delete(key string) error {
	if !m.Has(key) {
		return &MissingKeyError{Key: key}
	}
	m.Remove(key)
	return nil
}

// Clear removes every key.
func (m *Mapping[V]) Clear() {
	m.keys = nil
	m.data = make(map[string]V)
}

// Len returns the number of keys.
func (m *Mapping[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Mapping[V]) Keys() []string {
	return slices.Clone(m.keys)
}

// Values returns the values in insertion order.
func (m *Mapping[V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.data[k])
	}
	return out
}

// Item is a key/value pair.
type Item[V any] struct {
	Key   string
	Value V
}

// Items returns the key/value pairs in insertion order.
func (m *Mapping[V]) Items() []Item[V] {
	if m == nil {
		return nil
	}
	out := make([]Item[V], 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Item[V]{Key: k, Value: m.data[k]})
	}
	return out
}

// Clone returns an independent copy.
func (m *Mapping[V]) Clone() *Mapping[V] {
	c := NewMapping[V]()
	for _, it := range m.Items() {
		c.Set(it.Key, it.Value)
	}
	return c
}

// applyHeaders copies h onto an http.Header, replacing existing values.
func applyHeaders(dst http.Header, h *Headers) {
	for _, it := range h.Items() {
		dst.Set(it.Key, it.Value)
	}
}

// applyParams merges p into the query of u.
func applyParams(u *url.URL, p *Params) {
	if p.Len() == 0 {
		return
	}
	q := u.Query()
	for _, it := range p.Items() {
		q.Set(it.Key, it.Value)
	}
	u.RawQuery = q.Encode()
}
