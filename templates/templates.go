// Package templates is the templating collaborator: a registry of keyed,
// pre-parsed HTML templates with a per-template allow-list of fields that
// are inserted verbatim instead of being auto-escaped.
package templates

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Template names used by the attachment renderer.
const (
	AttachmentPreview   = "attachment/preview"
	AttachmentNoPreview = "attachment/nopreview"
	FrameDocument       = "frame/document"
)

// Fields maps template field names to values.
type Fields map[string]any

// URL marks a string as a trusted URL for attribute interpolation. It
// bypasses scheme filtering, which would otherwise reject app-internal
// origins.
func URL(s string) template.URL { return template.URL(s) }

// Registry holds named templates.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	tmpl *template.Template
	safe map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register parses and stores a template. Fields named in safeFields are
// exempted from auto-escaping: their string values are inserted verbatim
// and must already be escaped by the caller.
func (r *Registry) Register(name, text string, safeFields ...string) error {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("parse template %q: %w", name, err)
	}
	safe := make(map[string]bool, len(safeFields))
	for _, f := range safeFields {
		safe[f] = true
	}
	r.mu.Lock()
	r.entries[name] = &entry{tmpl: tmpl, safe: safe}
	r.mu.Unlock()
	return nil
}

// Render executes a registered template with the given fields.
func (r *Registry) Render(name string, fields Fields) (string, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}

	data := make(map[string]any, len(fields))
	for k, v := range fields {
		if e.safe[k] {
			if s, isString := v.(string); isString {
				data[k] = template.HTML(s)
				continue
			}
		}
		data[k] = v
	}

	var sb strings.Builder
	if err := e.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("execute template %q: %w", name, err)
	}
	return sb.String(), nil
}
