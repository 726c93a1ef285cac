package renderer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rgonek/chat-attachment-renderer/caption"
	"github.com/rgonek/chat-attachment-renderer/dom"
	"github.com/rgonek/chat-attachment-renderer/i18n"
	"github.com/rgonek/chat-attachment-renderer/imagemeta"
	"github.com/rgonek/chat-attachment-renderer/templates"
)

// Decoration classes and markers applied during rendering.
const (
	ContainerClass = "attachment"           // marks every attachment container
	ClassPreview   = "preview"              // an image preview was rendered
	ClassNoPreview = "nopreview"            // the generic placeholder was rendered
	ThumbnailClass = "attachment-thumbnail" // node that receives the background image
	TypeAttrName   = "attachment-type"      // data attribute recording the type
)

// Images at or above this size never attempt thumbnailing; decoding them
// is not worth the memory and time.
const thumbnailMaxBytes = 1536 * 1024 // 1.5 MiB

// thumbnailEdgeDIP is the thumbnail edge size in device-independent
// pixels, scaled by the configured display scale.
const thumbnailEdgeDIP = 100

// Sizes of 1000 kB or more are labeled in megabytes. The boundary is a
// kilobyte count, not a byte count.
const kbLabelCeiling = 1000

// Renderer renders one attachment into a container node. One renderer
// serves one attachment-display-site; two renderers never share a
// container.
type Renderer struct {
	attachment Attachment
	strategy   RenderStrategy
	doc        *dom.Document
	cfg        Config
	log        zerolog.Logger

	container *dom.Element
	content   *dom.Element
	warnings  []Warning
}

// New creates a renderer for the attachment. The host strategy is fixed
// here: drafts render into an isolated sub-document, everything else
// inline. No container is created yet.
func New(doc *dom.Document, attachment Attachment, config Config) (*Renderer, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("host document is required")
	}
	if attachment.Blob == nil {
		return nil, fmt.Errorf("attachment blob is required")
	}
	if !attachment.Type.known() {
		return nil, fmt.Errorf("unknown attachment type %q", attachment.Type)
	}

	var strategy RenderStrategy = inlineStrategy{}
	if attachment.IsDraft {
		strategy = &isolatedStrategy{
			origin:    cfg.Origin,
			templates: cfg.Templates,
			catalog:   cfg.Catalog,
		}
	}
	return &Renderer{
		attachment: attachment,
		strategy:   strategy,
		doc:        doc,
		cfg:        cfg,
		log:        cfg.Logger.With().Str("component", "renderer").Str("attachment", attachment.Name).Logger(),
	}, nil
}

// Container returns the container node, creating and decorating it on
// first call. Later calls return the identical node without re-invoking
// the strategy.
func (r *Renderer) Container() *dom.Element {
	if r.container != nil {
		return r.container
	}
	container := r.strategy.CreateContainer(r.doc)
	container.AddClass(ContainerClass)
	container.SetDataAttr(TypeAttrName, string(r.attachment.Type))
	r.container = container
	return container
}

// Content returns the content hosting node decorated by the last
// successful Render, or nil before that.
func (r *Renderer) Content() *dom.Element { return r.content }

// Warnings returns the non-fatal issues recorded so far.
func (r *Renderer) Warnings() []Warning { return r.warnings }

func (r *Renderer) warn(t WarningType, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, Warning{Type: t, Message: msg})
	r.log.Debug().Str("warning", string(t)).Msg(msg)
}

// Render drives the pipeline: thumbnail attempt, markup construction
// (preview or placeholder fallback), strategy delegation, and decoration
// of the content hosting node. Thumbnail failures degrade to the
// placeholder; any other failure is returned. Render is meant to be
// invoked at most once per renderer: a second call restarts the whole
// pipeline with no in-flight guard and may race decoration writes.
func (r *Renderer) Render(ctx context.Context) error {
	thumb := r.deriveThumbnail(ctx)

	markup, class, err := r.buildMarkup(thumb)
	if err != nil {
		return err
	}

	container := r.Container()
	container.AddClass(class)

	content, err := r.strategy.RenderInto(ctx, markup, container)
	if err != nil {
		return fmt.Errorf("render into container: %w", err)
	}
	// For the isolated strategy the content hosting node is not the
	// container, and styling rules need the class on whichever node is
	// reachable from inside.
	content.AddClass(class)

	if thumb.url != "" {
		if node := content.FindByClass(ThumbnailClass); node != nil {
			node.SetBackgroundImage(thumb.url)
		}
	}
	r.content = content
	r.log.Debug().
		Str("class", class).
		Bool("thumbnailSkipped", thumb.skipped).
		Msg("attachment rendered")
	return nil
}

// thumbnail is the explicit outcome of the derivation stage: a URL on
// success, a skip for ineligible attachments, or the probe error for
// undecodable images. Skip and failure both fall back to the
// placeholder; only the failure carries the corrupted marker.
type thumbnail struct {
	url     string
	skipped bool
	err     error
}

func (r *Renderer) deriveThumbnail(ctx context.Context) thumbnail {
	att := r.attachment
	if att.Type != TypeImage {
		r.warn(WarningThumbnailSkipped, "attachment type %q is not thumbnailable", att.Type)
		return thumbnail{skipped: true}
	}
	if att.Blob.Size() >= thumbnailMaxBytes {
		r.warn(WarningThumbnailSkipped, "image size %d exceeds the %d byte thumbnail ceiling", att.Blob.Size(), thumbnailMaxBytes)
		return thumbnail{skipped: true}
	}

	if hook := r.cfg.ThumbnailHook; hook != nil {
		out, err := hook(ctx, ThumbnailInput{
			Name:         att.Name,
			Size:         att.Blob.Size(),
			Blob:         att.Blob,
			DisplayScale: r.cfg.DisplayScale,
		})
		if err != nil {
			r.warn(WarningThumbnailFailed, "thumbnail hook: %v", err)
			return thumbnail{err: err}
		}
		if out.Handled {
			return thumbnail{url: out.URL}
		}
	}

	info, err := imagemeta.Probe(att.Blob.Bytes())
	if err != nil {
		r.warn(WarningThumbnailFailed, "probe image: %v", err)
		return thumbnail{err: err}
	}
	minDim := info.Width
	if info.Height < minDim {
		minDim = info.Height
	}
	scale := thumbnailEdgeDIP * r.cfg.DisplayScale / float64(minDim)
	url := r.cfg.BlobURLs.Create(att.Blob.Bytes()) + imagemeta.DownsampleFragment(scale)
	r.log.Debug().
		Int("width", info.Width).
		Int("height", info.Height).
		Str("mime", info.MIME).
		Msg("thumbnail derived")
	return thumbnail{url: url}
}

func (r *Renderer) buildMarkup(thumb thumbnail) (string, string, error) {
	capHTML, err := caption.ToHTML(r.attachment.Caption)
	if err != nil {
		return "", "", err
	}
	fields := templates.Fields{
		"Type":    string(r.attachment.Type),
		"Name":    DisplayName(r.attachment.Name),
		"Size":    r.sizeLabel(),
		"Caption": capHTML,
	}

	if thumb.url != "" {
		markup, err := r.cfg.Templates.Render(templates.AttachmentPreview, fields)
		if err != nil {
			return "", "", fmt.Errorf("build preview markup: %w", err)
		}
		return markup, ClassPreview, nil
	}

	fields["Corrupted"] = thumb.err != nil
	markup, err := r.cfg.Templates.Render(templates.AttachmentNoPreview, fields)
	if err != nil {
		return "", "", fmt.Errorf("build placeholder markup: %w", err)
	}
	return markup, ClassNoPreview, nil
}

// sizeLabel converts the blob size to a localized label: kilobytes to
// one decimal place below 1000 kB, megabytes to one decimal place from
// there.
func (r *Renderer) sizeLabel() string {
	sizeBytes := float64(r.attachment.Blob.Size())
	key := i18n.KeySizeKB
	amount := sizeBytes / 1024
	if amount >= kbLabelCeiling {
		key = i18n.KeySizeMB
		amount = sizeBytes / (1024 * 1024)
	}
	if !r.cfg.Catalog.Has(key) {
		r.warn(WarningMissingMessage, "message catalog has no %q", key)
	}
	return r.cfg.Catalog.Format(key, amount)
}
