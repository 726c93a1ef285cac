package templates

// Built-in templates. The Caption and Content fields carry markup that
// was escaped upstream; everything else is auto-escaped.

const previewText = `<div class="attachment-card">
<div class="attachment-thumbnail"></div>
<div class="attachment-meta"><span class="attachment-name">{{.Name}}</span> <span class="attachment-size">{{.Size}}</span> <span class="attachment-type">{{.Type}}</span></div>
<span class="attachment-download" data-i18n="attachment.download"></span>
{{if .Caption}}<div class="attachment-caption">{{.Caption}}</div>{{end}}
</div>`

const noPreviewText = `<div class="attachment-card{{if .Corrupted}} corrupted{{end}}">
<div class="attachment-icon" data-file-type="{{.Type}}"></div>
<div class="attachment-meta"><span class="attachment-name">{{.Name}}</span> <span class="attachment-size">{{.Size}}</span> <span class="attachment-type">{{.Type}}</span></div>
<span class="attachment-download" data-i18n="attachment.download"></span>
{{if .Caption}}<div class="attachment-caption">{{.Caption}}</div>{{end}}
</div>`

const frameDocumentText = `<!DOCTYPE html>
<html><head><base href="{{.BaseURL}}" target="_blank"></head><body>{{.Content}}</body></html>`

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	mustRegister(r, AttachmentPreview, previewText, "Caption")
	mustRegister(r, AttachmentNoPreview, noPreviewText, "Caption")
	mustRegister(r, FrameDocument, frameDocumentText, "Content")
	return r
}()

// Default returns the registry carrying the built-in attachment and
// frame-document templates.
func Default() *Registry { return defaultRegistry }

func mustRegister(r *Registry, name, text string, safeFields ...string) {
	if err := r.Register(name, text, safeFields...); err != nil {
		panic(err)
	}
}
