package dom

import "fmt"

// Sandbox is the sandbox attribute value applied to created frames. It
// permits same-origin resource access so blob URLs created by the
// embedding page resolve inside the frame.
const Sandbox = "allow-same-origin"

// CreateFrame creates a detached sandboxed frame element.
func (d *Document) CreateFrame() *Element {
	frame := d.CreateElement("iframe")
	frame.SetAttr("sandbox", Sandbox)
	return frame
}

// IsFrame reports whether the element is a frame.
func (e *Element) IsFrame() bool { return e.node.Data == "iframe" }

// ContentDocument returns the frame's content document. It is nil until
// the first navigation completes, and always nil for non-frame elements.
func (e *Element) ContentDocument() *Document {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	return e.contentDoc
}

// Navigate asynchronously installs a fresh blank content document and
// then fires a load event on the frame. The frame model loads every URL
// as a blank document. A load never fires without a navigation; waiters
// must watch their own context.
func (e *Element) Navigate(url string) error {
	if !e.IsFrame() {
		return fmt.Errorf("cannot navigate %q element", e.node.Data)
	}
	_ = url
	go func() {
		e.frameMu.Lock()
		e.contentDoc = NewDocument()
		e.frameMu.Unlock()
		e.Dispatch(&Event{Type: "load"})
	}()
	return nil
}
