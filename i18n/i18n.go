// Package i18n is the localization collaborator: message catalogs loaded
// from YAML, numeric-argument formatting, and in-place rewriting of
// data-i18n placeholders over a DOM subtree.
package i18n

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rgonek/chat-attachment-renderer/dom"
)

// Attr marks elements whose text content is replaced during Localize.
const Attr = "data-i18n"

// Message keys used by the attachment renderer. Kilobyte and megabyte
// sizes use two distinct keys; the unit boundary is semantic.
const (
	KeySizeKB   = "attachment.sizeKb"
	KeySizeMB   = "attachment.sizeMb"
	KeyDownload = "attachment.download"
)

// Catalog resolves message keys to localized strings.
type Catalog struct {
	messages map[string]string
}

// NewCatalog builds a catalog from an in-memory message table.
func NewCatalog(messages map[string]string) *Catalog {
	copied := make(map[string]string, len(messages))
	for k, v := range messages {
		copied[k] = v
	}
	return &Catalog{messages: copied}
}

// Load parses a YAML message catalog, a flat string-to-string mapping.
func Load(data []byte) (*Catalog, error) {
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	return NewCatalog(messages), nil
}

// Default returns the built-in English catalog.
func Default() *Catalog {
	return NewCatalog(map[string]string{
		KeySizeKB:   "{amount} kB",
		KeySizeMB:   "{amount} MB",
		KeyDownload: "Download",
	})
}

// Has reports whether the catalog carries a message for key.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}

// Get resolves a plain message. Unknown keys resolve to the key itself.
func (c *Catalog) Get(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// Format resolves key and substitutes {amount} with the argument
// rendered to one decimal place. Unknown keys resolve to the key itself.
func (c *Catalog) Format(key string, amount float64) string {
	msg, ok := c.messages[key]
	if !ok {
		return key
	}
	return strings.ReplaceAll(msg, "{amount}", strconv.FormatFloat(amount, 'f', 1, 64))
}

// Localize rewrites recognized placeholders under root in place: every
// descendant carrying data-i18n has its text content replaced by the
// resolved message. Elements with unknown keys are left untouched.
func (c *Catalog) Localize(root *dom.Element) {
	root.EachElement(func(el *dom.Element) bool {
		if key, ok := el.Attr(Attr); ok && c.Has(key) {
			el.SetText(c.Get(key))
		}
		return true
	})
}
