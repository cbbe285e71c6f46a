package httpclient

import (
	"maps"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"
)

// SessionJar is the cookie store shared by every request of a Client.
//
// Cookies are keyed by name only, regardless of domain or path, and are sent
// with every request the client makes. Server Set-Cookie headers are stored
// the same way; a cookie with Max-Age < 0 or an expiry in the past removes
// its name.
type SessionJar struct {
	mu      sync.RWMutex
	cookies map[string]*http.Cookie
}

var _ http.CookieJar = (*SessionJar)(nil)

// NewSessionJar creates an empty jar.
func NewSessionJar() *SessionJar {
	return &SessionJar{cookies: make(map[string]*http.Cookie)}
}

// SetCookies implements http.CookieJar.
func (j *SessionJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(j.cookies, c.Name)
			continue
		}
		j.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
}

// Cookies implements http.CookieJar. Cookies are returned sorted by name.
func (j *SessionJar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, name := range slices.Sorted(maps.Keys(j.cookies)) {
		c := j.cookies[name]
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Get returns the value of the named cookie, or a *MissingKeyError.
func (j *SessionJar) Get(name string) (string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	c, ok := j.cookies[name]
	if !ok {
		return "", &MissingKeyError{Key: name}
	}
	return c.Value, nil
}

// All returns every cookie as a name to value map.
func (j *SessionJar) All() map[string]string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make(map[string]string, len(j.cookies))
	for name, c := range j.cookies {
		out[name] = c.Value
	}
	return out
}

// Add sets a cookie, replacing any cookie with the same name.
func (j *SessionJar) Add(name, value string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[name] = &http.Cookie{Name: name, Value: value}
}

// AddAll sets every cookie in values.
func (j *SessionJar) AddAll(values map[string]string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for name, value := range values {
		j.cookies[name] = &http.Cookie{Name: name, Value: value}
	}
}

// Update sets the value of an existing cookie. When the cookie did not exist
// it is created anyway and a *MissingKeyError is returned to report it.
func (j *SessionJar) Update(name, value string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, existed := j.cookies[name]
	j.cookies[name] = &http.Cookie{Name: name, Value: value}
	if !existed {
		return &MissingKeyError{Key: name}
	}
	return nil
}

// Remove deletes the named cookies. With no names it deletes every cookie.
func (j *SessionJar) Remove(names ...string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(names) == 0 {
		clear(j.cookies)
		return
	}
	for _, name := range names {
		delete(j.cookies, name)
	}
}

// Clear deletes every cookie.
func (j *SessionJar) Clear() {
	j.Remove()
}

// Len returns the number of cookies.
func (j *SessionJar) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.cookies)
}
