package renderer

import (
	"context"
	"fmt"

	"github.com/rgonek/chat-attachment-renderer/dom"
	"github.com/rgonek/chat-attachment-renderer/i18n"
	"github.com/rgonek/chat-attachment-renderer/templates"
)

// RenderStrategy creates the container appropriate to context and
// injects base markup into it, returning the node that actually hosts
// content. That node may differ from the container itself.
type RenderStrategy interface {
	CreateContainer(doc *dom.Document) *dom.Element
	RenderInto(ctx context.Context, markup string, container *dom.Element) (*dom.Element, error)
}

// isolatedStrategy hosts content in a sandboxed sub-document. The
// content hosting node is the sub-document body, available only after
// the frame's load cycle.
type isolatedStrategy struct {
	origin    string
	templates *templates.Registry
	catalog   *i18n.Catalog
}

func (s *isolatedStrategy) CreateContainer(doc *dom.Document) *dom.Element {
	return doc.CreateFrame()
}

func (s *isolatedStrategy) RenderInto(ctx context.Context, markup string, container *dom.Element) (*dom.Element, error) {
	// An already-cancelled context must not start a navigation it will
	// never wait for.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type loaded struct {
		body *dom.Element
		err  error
	}
	done := make(chan loaded, 1)
	// The load handler must be in place before navigation triggers the
	// load event, and must fire at most once.
	container.Once("load", func(*dom.Event) {
		body, err := s.populate(markup, container)
		done <- loaded{body: body, err: err}
	})
	if err := container.Navigate("about:blank"); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.body, res.err
	}
}

func (s *isolatedStrategy) populate(markup string, frame *dom.Element) (*dom.Element, error) {
	sub := frame.ContentDocument()
	if sub == nil {
		return nil, fmt.Errorf("frame has no content document after load")
	}
	docMarkup, err := s.templates.Render(templates.FrameDocument, templates.Fields{
		"BaseURL": templates.URL(s.origin),
		"Content": markup,
	})
	if err != nil {
		return nil, fmt.Errorf("render frame document: %w", err)
	}
	if err := sub.SetHTML(docMarkup); err != nil {
		return nil, fmt.Errorf("install frame document: %w", err)
	}
	body := sub.Body()
	s.catalog.Localize(body)
	// Clicks inside the sandboxed document would otherwise be swallowed;
	// rebroadcast them on the frame element in the embedding document.
	body.On("click", func(ev *dom.Event) {
		frame.Dispatch(&dom.Event{Type: "click", Detail: ev.Detail})
	})
	return body, nil
}

// inlineStrategy hosts content directly in a plain container element.
// Population is synchronous; the uniform contract is kept anyway.
type inlineStrategy struct{}

func (inlineStrategy) CreateContainer(doc *dom.Document) *dom.Element {
	return doc.CreateElement("div")
}

func (inlineStrategy) RenderInto(_ context.Context, markup string, container *dom.Element) (*dom.Element, error) {
	if err := container.SetInnerHTML(markup); err != nil {
		return nil, fmt.Errorf("assign container markup: %w", err)
	}
	return container, nil
}
