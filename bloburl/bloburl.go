// Package bloburl hands out dereferenceable blob: URLs for in-memory
// binary content. URLs stay valid until explicitly revoked by the owner;
// the registry never frees them on its own.
package bloburl

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps issued URLs to their content.
type Registry struct {
	origin string
	mu     sync.Mutex
	blobs  map[string][]byte
}

// NewRegistry creates a registry issuing URLs under the given origin.
func NewRegistry(origin string) *Registry {
	return &Registry{origin: origin, blobs: make(map[string][]byte)}
}

// Create issues a new URL referencing data and retains the bytes until
// the URL is revoked.
func (r *Registry) Create(data []byte) string {
	url := "blob:" + r.origin + "/" + uuid.NewString()
	r.mu.Lock()
	r.blobs[url] = data
	r.mu.Unlock()
	return url
}

// Resolve returns the content a URL references.
func (r *Registry) Resolve(url string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.blobs[url]
	return data, ok
}

// Revoke drops a URL. It returns false when the URL was never issued or
// is already revoked.
func (r *Registry) Revoke(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[url]; !ok {
		return false
	}
	delete(r.blobs, url)
	return true
}

// Len returns the number of live URLs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
