package bloburl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResolveRevoke(t *testing.T) {
	r := NewRegistry("app://local")
	data := []byte{1, 2, 3}

	url := r.Create(data)
	assert.True(t, strings.HasPrefix(url, "blob:app://local/"))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Resolve(url)
	require.True(t, ok)
	assert.Equal(t, data, got)

	assert.True(t, r.Revoke(url))
	assert.False(t, r.Revoke(url))
	_, ok = r.Resolve(url)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestCreateIssuesUniqueURLs(t *testing.T) {
	r := NewRegistry("app://local")
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		url := r.Create(nil)
		assert.False(t, seen[url])
		seen[url] = true
	}
	assert.Equal(t, 32, r.Len())
}
