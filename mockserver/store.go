package mockserver

import (
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Key identifies a mocked route.
type Key struct {
	Method string
	Path   string
}

func newKey(method, path string) Key {
	if path == "" {
		path = "/"
	}
	return Key{Method: strings.ToUpper(method), Path: path}
}

func (k Key) String() string {
	return k.Method + " " + k.Path
}

// Mock is a canned response.
type Mock struct {
	// Status defaults to 200.
	Status int

	// Body is written as is when it is a string or []byte, and as JSON otherwise.
	Body any

	Headers map[string]string
}

func (m Mock) status() int {
	if m.Status == 0 {
		return http.StatusOK
	}
	return m.Status
}

// Store holds mock responses keyed by method and path. It is safe for
// concurrent use, so mocks can change while the server runs.
type Store struct {
	mu    sync.RWMutex
	mocks map[Key]Mock
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{mocks: make(map[Key]Mock)}
}

// Add registers m for method and path, replacing any previous mock.
func (s *Store) Add(method, path string, m Mock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mocks[newKey(method, path)] = m
}

// Remove deletes the mock for method and path. Removing a missing mock is a no-op.
func (s *Store) Remove(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mocks, newKey(method, path))
}

// Get returns the mock for method and path.
func (s *Store) Get(method, path string) (Mock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mocks[newKey(method, path)]
	return m, ok
}

// All returns a copy of every registered mock.
func (s *Store) All() map[Key]Mock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Key]Mock, len(s.mocks))
	for k, v := range s.mocks {
		out[k] = v
	}
	return out
}

// Keys returns the registered keys sorted by path, then method.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	keys := make([]Key, 0, len(s.mocks))
	for k := range s.mocks {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}
		return keys[i].Method < keys[j].Method
	})
	return keys
}
