package httpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Method
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "given GET, then returns MethodGet", token: "GET", want: MethodGet, wantErr: assert.NoError},
		{name: "given POST, then returns MethodPost", token: "POST", want: MethodPost, wantErr: assert.NoError},
		{name: "given PUT, then returns MethodPut", token: "PUT", want: MethodPut, wantErr: assert.NoError},
		{name: "given DELETE, then returns MethodDelete", token: "DELETE", want: MethodDelete, wantErr: assert.NoError},
		{name: "given PATCH, then returns MethodPatch", token: "PATCH", want: MethodPatch, wantErr: assert.NoError},
		{name: "given OPTIONS, then returns MethodOptions", token: "OPTIONS", want: MethodOptions, wantErr: assert.NoError},
		{name: "given lowercase get, then returns error", token: "get", wantErr: assert.Error},
		{name: "given FETCH, then returns error", token: "FETCH", wantErr: assert.Error},
		{name: "given HEAD, then returns error", token: "HEAD", wantErr: assert.Error},
		{name: "given empty token, then returns error", token: "", wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMethod(tt.token)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnsupportedMethodError(t *testing.T) {
	err := Method("FETCH").Validate()
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUnsupportedMethod)

	var target *UnsupportedMethodError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "FETCH", target.Method)

	for _, m := range AllowedMethods {
		assert.Contains(t, err.Error(), m.String())
	}
}
