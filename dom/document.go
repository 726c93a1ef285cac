// Package dom implements the minimal host-document model the attachment
// renderer targets: elements backed by golang.org/x/net/html nodes, class
// and attribute manipulation, synchronous event dispatch with bubbling,
// and sandboxed frames with an asynchronous load cycle.
package dom

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns one DOM tree and the element wrappers attached to it.
type Document struct {
	mu       sync.Mutex
	root     *html.Node // DocumentNode
	body     *html.Node
	wrappers map[*html.Node]*Element
}

// NewDocument creates an empty document with the standard html/head/body
// skeleton.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlNode := newElementNode("html")
	head := newElementNode("head")
	body := newElementNode("body")
	htmlNode.AppendChild(head)
	htmlNode.AppendChild(body)
	root.AppendChild(htmlNode)
	return &Document{
		root:     root,
		body:     body,
		wrappers: make(map[*html.Node]*Element),
	}
}

func newElementNode(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// CreateElement creates a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	return d.adopt(newElementNode(tag))
}

// Body returns the document body.
func (d *Document) Body() *Element {
	d.mu.Lock()
	body := d.body
	d.mu.Unlock()
	return d.adopt(body)
}

// SetHTML replaces the whole document tree with the parsed markup.
// Wrappers attached to the old tree, and their listeners, are discarded.
func (d *Document) SetHTML(markup string) error {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("parse document markup: %w", err)
	}
	body := findFirst(root, "body")
	if body == nil {
		return fmt.Errorf("document markup has no body")
	}
	d.mu.Lock()
	d.root = root
	d.body = body
	d.wrappers = make(map[*html.Node]*Element)
	d.mu.Unlock()
	return nil
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	root := d.root
	d.mu.Unlock()
	var sb strings.Builder
	if err := html.Render(&sb, root); err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return sb.String(), nil
}

// adopt returns the canonical wrapper for a node, creating it on first
// use. Repeated lookups of the same node yield the identical *Element, so
// listener registrations survive tree queries.
func (d *Document) adopt(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.wrappers[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.wrappers[n] = el
	return el
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}
