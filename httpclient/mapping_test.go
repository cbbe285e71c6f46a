package httpclient

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_Order(t *testing.T) {
	m := NewMapping[int]()
	m.Set("b", 1).Set("a", 2).Set("c", 3)
	m.Set("b", 10)

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, []int{10, 2, 3}, m.Values())
	assert.Equal(t, []Item[int]{{"b", 10}, {"a", 2}, {"c", 3}}, m.Items())
}

func TestMapping_Get(t *testing.T) {
	h := NewHeaders("Accept", "application/json")

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "given present key, then returns value",
			key:     "Accept",
			want:    "application/json",
			wantErr: assert.NoError,
		},
		{
			name: "given missing key, then returns MissingKeyError",
			key:  "X-Missing",
			want: "",
			wantErr: func(t assert.TestingT, err error, _ ...any) bool {
				var target *MissingKeyError
				return assert.ErrorIs(t, err, ErrMissingKey) &&
					assert.ErrorAs(t, err, &target) &&
					assert.Equal(t, "X-Missing", target.Key)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Get(tt.key)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapping_RemoveDeleteClear(t *testing.T) {
	p := NewParams("a", "1", "b", "2", "c", "3")

	p.Remove("missing")
	assert.Equal(t, 3, p.Len())

	p.Remove("b")
	assert.Equal(t, []string{"a", "c"}, p.Keys())
	assert.False(t, p.Has("b"))

	require.ErrorIs(t, p.Delete("b"), ErrMissingKey)
	require.NoError(t, p.Delete("a"))
	assert.Equal(t, "default", p.GetOr("a", "default"))
	assert.Equal(t, "3", p.GetOr("c", "default"))

	p.Clear()
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Items())

	p.Set("again", "1")
	assert.Equal(t, []string{"again"}, p.Keys())
}

func TestMapping_CloneIsIndependent(t *testing.T) {
	orig := NewHeaders("A", "1")
	clone := orig.Clone()
	clone.Set("B", "2")
	clone.Set("A", "changed")

	assert.Equal(t, []string{"A"}, orig.Keys())
	assert.Equal(t, "1", orig.GetOr("A", ""))
}

func TestMappingFrom(t *testing.T) {
	m := MappingFrom(map[string]string{"z": "1", "a": "2", "m": "3"})
	assert.Equal(t, []string{"a", "m", "z"}, m.Keys())
}

func TestMapping_NilSafe(t *testing.T) {
	var h *Headers

	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Items())
}

func TestApplyHeadersAndParams(t *testing.T) {
	dst := http.Header{"Accept": []string{"text/plain"}}
	applyHeaders(dst, NewHeaders("Accept", "application/json", "X-Trace", "abc"))

	assert.Equal(t, "application/json", dst.Get("Accept"))
	assert.Equal(t, "abc", dst.Get("X-Trace"))

	u, err := url.Parse("https://example.com/users?page=1")
	require.NoError(t, err)

	applyParams(u, NewParams("page", "2", "q", "go lang"))
	assert.Equal(t, "2", u.Query().Get("page"))
	assert.Equal(t, "go lang", u.Query().Get("q"))

	u2, err := url.Parse("https://example.com/users?keep=1")
	require.NoError(t, err)
	applyParams(u2, nil)
	assert.Equal(t, "keep=1", u2.RawQuery)
}

func TestMapping_ZeroValue(t *testing.T) {
	var h Headers

	assert.NotPanics(t, func() { h.Set("Accept", "text/plain").Set("X-Id", "1") })
	assert.Equal(t, []string{"Accept", "X-Id"}, h.Keys())
	assert.Equal(t, "1", h.GetOr("X-Id", ""))

	var p Params
	assert.False(t, p.Has("q"))
	assert.NoError(t, p.Set("q", "go").Delete("q"))
	assert.Equal(t, 0, p.Len())
}
