// Package caption renders attachment captions from Markdown to HTML.
package caption

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
)

// ToHTML renders a Markdown caption to HTML. Raw HTML in the source is
// suppressed by the renderer, so the output is safe to insert into the
// template field exempted from re-escaping. Empty input renders empty.
func ToHTML(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render caption markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
