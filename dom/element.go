package dom

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle to one element node of a document.
type Element struct {
	doc  *Document
	node *html.Node

	mu        sync.Mutex
	listeners map[string][]*listener
	nextID    int

	frameMu    sync.Mutex
	contentDoc *Document
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.node.Data }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Parent returns the parent element, or nil at the tree root.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	for p != nil && p.Type != html.ElementNode {
		p = p.Parent
	}
	if p == nil {
		return nil
	}
	return e.doc.adopt(p)
}

// Attr returns an attribute value and whether the attribute is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// SetDataAttr sets a data-* attribute.
func (e *Element) SetDataAttr(name, value string) {
	e.SetAttr("data-"+name, value)
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	val, _ := e.Attr("class")
	return strings.Fields(val)
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends a class unless it is already present.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), name), " "))
}

// RemoveClass drops a class from the class list. Elements without the
// class are left untouched; no class attribute is materialized.
func (e *Element) RemoveClass(name string) {
	if !e.HasClass(name) {
		return
	}
	classes := e.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// SetBackgroundImage sets the inline background-image style property,
// replacing any previous value while leaving other declarations alone.
func (e *Element) SetBackgroundImage(url string) {
	style, _ := e.Attr("style")
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" || strings.HasPrefix(decl, "background-image:") {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, fmt.Sprintf("background-image: url('%s')", url))
	e.SetAttr("style", strings.Join(decls, "; "))
}

// BackgroundImage returns the URL set by SetBackgroundImage, or "".
func (e *Element) BackgroundImage() string {
	style, _ := e.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if rest, ok := strings.CutPrefix(decl, "background-image:"); ok {
			rest = strings.TrimSpace(rest)
			rest = strings.TrimPrefix(rest, "url('")
			return strings.TrimSuffix(rest, "')")
		}
	}
	return ""
}

// SetInnerHTML replaces the element's children with the parsed fragment.
func (e *Element) SetInnerHTML(markup string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	e.removeChildren()
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		e.node.AppendChild(n)
	}
	return nil
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() (string, error) {
	var sb strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", fmt.Errorf("serialize fragment: %w", err)
		}
	}
	return sb.String(), nil
}

// OuterHTML serializes the element itself.
func (e *Element) OuterHTML() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, e.node); err != nil {
		return "", fmt.Errorf("serialize element: %w", err)
	}
	return sb.String(), nil
}

// Append moves a child element of the same document under this one.
func (e *Element) Append(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Text returns the concatenated text content of the subtree.
func (e *Element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return sb.String()
}

// SetText replaces the element's children with a single text node.
func (e *Element) SetText(text string) {
	e.removeChildren()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *Element) removeChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

// FindByClass returns the first descendant element, in document order,
// whose class list contains name, or nil. The receiver itself is not
// considered.
func (e *Element) FindByClass(name string) *Element {
	var found *Element
	e.EachElement(func(el *Element) bool {
		if el.HasClass(name) {
			found = el
			return false
		}
		return true
	})
	return found
}

// EachElement visits every descendant element in document order until fn
// returns false.
func (e *Element) EachElement(fn func(*Element) bool) {
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				if !fn(e.doc.adopt(c)) {
					return false
				}
			}
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(e.node)
}
