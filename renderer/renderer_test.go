package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgonek/chat-attachment-renderer/bloburl"
	"github.com/rgonek/chat-attachment-renderer/dom"
	"github.com/rgonek/chat-attachment-renderer/i18n"
	"github.com/rgonek/chat-attachment-renderer/templates"
)

func pngBlob(t *testing.T, w, h int) MemoryBlob {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return MemoryBlob(buf.Bytes())
}

// sizedBlob reports a fixed size without carrying content. Pipelines that
// reject on size alone must never ask for the bytes.
type sizedBlob struct{ size int64 }

func (b sizedBlob) Size() int64   { return b.size }
func (b sizedBlob) Bytes() []byte { panic("blob content read for a size-rejected attachment") }

type countingStrategy struct {
	inlineStrategy
	created int
}

func (s *countingStrategy) CreateContainer(doc *dom.Document) *dom.Element {
	s.created++
	return s.inlineStrategy.CreateContainer(doc)
}

func imageAttachment(t *testing.T, draft bool) Attachment {
	t.Helper()
	return Attachment{
		Type:    TypeImage,
		Blob:    pngBlob(t, 400, 300),
		Name:    "photos/cat.png",
		IsDraft: draft,
	}
}

func TestNewValidation(t *testing.T) {
	doc := dom.NewDocument()
	att := imageAttachment(t, false)

	_, err := New(nil, att, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host document")

	_, err = New(doc, Attachment{Type: TypeImage, Name: "x"}, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob")

	_, err = New(doc, Attachment{Type: "archive", Blob: MemoryBlob{1}}, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown attachment type")

	_, err = New(doc, att, Config{DisplayScale: -2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "displayScale")
}

func TestContainerCreatedOnceAndDecorated(t *testing.T) {
	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{})
	require.NoError(t, err)
	strategy := &countingStrategy{}
	r.strategy = strategy

	container := r.Container()
	assert.Same(t, container, r.Container())
	assert.Equal(t, 1, strategy.created)
	assert.True(t, container.HasClass(ContainerClass))

	typ, ok := container.Attr("data-attachment-type")
	require.True(t, ok)
	assert.Equal(t, "image", typ)
}

func TestRenderInlinePreview(t *testing.T) {
	blobs := bloburl.NewRegistry(DefaultOrigin)
	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{BlobURLs: blobs})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	content := r.Content()
	require.NotNil(t, content)
	assert.Same(t, r.Container(), content)
	assert.True(t, content.HasClass(ClassPreview))
	assert.False(t, content.HasClass(ClassNoPreview))

	node := content.FindByClass(ThumbnailClass)
	require.NotNil(t, node)
	url := node.BackgroundImage()
	assert.True(t, strings.HasPrefix(url, "blob:app://local/"), url)
	// Scale 1 against a 300px short edge downsamples to 100/300.
	assert.True(t, strings.HasSuffix(url, "#downsample=0.3333"), url)

	_, ok := blobs.Resolve(url[:strings.Index(url, "#")])
	assert.True(t, ok)
	assert.Empty(t, r.Warnings())

	name := content.FindByClass("attachment-name")
	require.NotNil(t, name)
	assert.Equal(t, "cat.png", name.Text())
}

func TestRenderDisplayScaleWidensThumbnail(t *testing.T) {
	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{DisplayScale: 2})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	node := r.Content().FindByClass(ThumbnailClass)
	require.NotNil(t, node)
	// 100 DIP at scale 2 against a 300px short edge.
	assert.True(t, strings.HasSuffix(node.BackgroundImage(), "#downsample=0.6667"))
}

func TestRenderOversizedImageSkipsThumbnail(t *testing.T) {
	hookCalls := 0
	att := Attachment{Type: TypeImage, Blob: sizedBlob{size: thumbnailMaxBytes}, Name: "big.png"}
	r, err := New(dom.NewDocument(), att, Config{
		ThumbnailHook: func(context.Context, ThumbnailInput) (ThumbnailOutput, error) {
			hookCalls++
			return ThumbnailOutput{Handled: true, URL: "blob:x"}, nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	content := r.Content()
	assert.True(t, content.HasClass(ClassNoPreview))
	assert.Equal(t, 0, hookCalls)

	card := content.FindByClass("attachment-card")
	require.NotNil(t, card)
	assert.False(t, card.HasClass("corrupted"))

	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, WarningThumbnailSkipped, r.Warnings()[0].Type)

	size := content.FindByClass("attachment-size")
	require.NotNil(t, size)
	assert.Equal(t, "1.5 MB", size.Text())
}

func TestRenderNonImageSkipsThumbnail(t *testing.T) {
	att := Attachment{Type: TypeAudio, Blob: MemoryBlob("riff"), Name: "clip.wav"}
	r, err := New(dom.NewDocument(), att, Config{})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	content := r.Content()
	assert.True(t, content.HasClass(ClassNoPreview))
	assert.Nil(t, content.FindByClass(ThumbnailClass))

	icon := content.FindByClass("attachment-icon")
	require.NotNil(t, icon)
	fileType, _ := icon.Attr("data-file-type")
	assert.Equal(t, "audio", fileType)

	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, WarningThumbnailSkipped, r.Warnings()[0].Type)
}

func TestRenderCorruptImageFallsBack(t *testing.T) {
	att := Attachment{Type: TypeImage, Blob: MemoryBlob("not an image"), Name: "broken.png"}
	r, err := New(dom.NewDocument(), att, Config{})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	content := r.Content()
	assert.True(t, content.HasClass(ClassNoPreview))

	card := content.FindByClass("attachment-card")
	require.NotNil(t, card)
	assert.True(t, card.HasClass("corrupted"))

	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, WarningThumbnailFailed, r.Warnings()[0].Type)
}

func TestRenderHookProvidesThumbnail(t *testing.T) {
	blobs := bloburl.NewRegistry(DefaultOrigin)
	var got ThumbnailInput
	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{
		DisplayScale: 2,
		BlobURLs:     blobs,
		ThumbnailHook: func(_ context.Context, in ThumbnailInput) (ThumbnailOutput, error) {
			got = in
			return ThumbnailOutput{Handled: true, URL: "blob:custom/thumb#downsample=0.5000"}, nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	assert.Equal(t, "photos/cat.png", got.Name)
	assert.Equal(t, float64(2), got.DisplayScale)

	node := r.Content().FindByClass(ThumbnailClass)
	require.NotNil(t, node)
	assert.Equal(t, "blob:custom/thumb#downsample=0.5000", node.BackgroundImage())
	assert.Equal(t, 0, blobs.Len())
}

func TestRenderHookFallsThrough(t *testing.T) {
	blobs := bloburl.NewRegistry(DefaultOrigin)
	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{
		BlobURLs: blobs,
		ThumbnailHook: func(context.Context, ThumbnailInput) (ThumbnailOutput, error) {
			return ThumbnailOutput{}, nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	assert.True(t, r.Content().HasClass(ClassPreview))
	assert.Equal(t, 1, blobs.Len())
}

func TestRenderHookErrorMarksCorrupted(t *testing.T) {
	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{
		ThumbnailHook: func(context.Context, ThumbnailInput) (ThumbnailOutput, error) {
			return ThumbnailOutput{}, errors.New("decoder crashed")
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	card := r.Content().FindByClass("attachment-card")
	require.NotNil(t, card)
	assert.True(t, card.HasClass("corrupted"))

	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, WarningThumbnailFailed, r.Warnings()[0].Type)
}

func TestRenderCaption(t *testing.T) {
	att := imageAttachment(t, false)
	att.Caption = "a **bold** cat"
	r, err := New(dom.NewDocument(), att, Config{})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	capNode := r.Content().FindByClass("attachment-caption")
	require.NotNil(t, capNode)
	markup, err := capNode.InnerHTML()
	require.NoError(t, err)
	assert.Contains(t, markup, "<strong>bold</strong>")
}

func TestRenderCancelledContextInline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{})
	require.NoError(t, err)

	// Inline population is synchronous and ignores cancellation.
	require.NoError(t, r.Render(ctx))
	assert.NotNil(t, r.Content())
}

func TestRenderCancelledContextIsolated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(dom.NewDocument(), imageAttachment(t, true), Config{})
	require.NoError(t, err)

	err = r.Render(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, r.Content())
	// Navigation never started.
	assert.Nil(t, r.Container().ContentDocument())
}

func TestRenderTemplateErrorIsFatal(t *testing.T) {
	r, err := New(dom.NewDocument(), imageAttachment(t, false), Config{
		Templates: templates.NewRegistry(),
	})
	require.NoError(t, err)

	err = r.Render(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
	assert.Nil(t, r.Content())
}

func TestSizeLabel(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{500, "0.5 kB"},
		{102400, "100.0 kB"},
		{1023999, "1000.0 kB"},
		{1024000, "1.0 MB"}, // 1000 kB flips the unit
		{1500000, "1.4 MB"},
	}
	for _, tt := range tests {
		att := Attachment{Type: TypeFile, Blob: sizedBlob{size: tt.bytes}, Name: "f"}
		r, err := New(dom.NewDocument(), att, Config{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.sizeLabel(), "bytes=%d", tt.bytes)
	}
}

func TestSizeLabelMissingMessage(t *testing.T) {
	att := Attachment{Type: TypeFile, Blob: sizedBlob{size: 500}, Name: "f"}
	r, err := New(dom.NewDocument(), att, Config{Catalog: i18n.NewCatalog(nil)})
	require.NoError(t, err)

	assert.Equal(t, i18n.KeySizeKB, r.sizeLabel())
	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, WarningMissingMessage, r.Warnings()[0].Type)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "cat.png", DisplayName("photos/2024/cat.png"))
	assert.Equal(t, "cat.png", DisplayName("cat.png"))
	assert.Equal(t, "", DisplayName("photos/"))
	assert.Equal(t, "", DisplayName(""))
}

func TestTypeFromMIME(t *testing.T) {
	assert.Equal(t, TypeImage, TypeFromMIME("image/png"))
	assert.Equal(t, TypeAudio, TypeFromMIME("audio/ogg"))
	assert.Equal(t, TypeVideo, TypeFromMIME("video/mp4"))
	assert.Equal(t, TypeFile, TypeFromMIME("application/pdf"))
	assert.Equal(t, TypeFile, TypeFromMIME(""))
}

func TestRenderIsolated(t *testing.T) {
	r, err := New(dom.NewDocument(), imageAttachment(t, true), Config{})
	require.NoError(t, err)

	container := r.Container()
	assert.True(t, container.IsFrame())

	require.NoError(t, r.Render(context.Background()))

	content := r.Content()
	require.NotNil(t, content)
	assert.NotSame(t, container, content)
	assert.True(t, container.HasClass(ClassPreview))
	assert.True(t, content.HasClass(ClassPreview))

	sub := container.ContentDocument()
	require.NotNil(t, sub)
	assert.Same(t, sub.Body(), content)

	markup, err := sub.HTML()
	require.NoError(t, err)
	assert.Contains(t, markup, `base href="app://local"`)

	assert.Contains(t, content.Text(), "Download")

	node := content.FindByClass(ThumbnailClass)
	require.NotNil(t, node)
	assert.True(t, strings.HasPrefix(node.BackgroundImage(), "blob:app://local/"))
}

func TestIsolatedLoadHandledOnce(t *testing.T) {
	r, err := New(dom.NewDocument(), imageAttachment(t, true), Config{})
	require.NoError(t, err)
	require.NoError(t, r.Render(context.Background()))

	container := r.Container()
	body := container.ContentDocument().Body()

	// A stray load event after the render cycle must not repopulate.
	container.Dispatch(&dom.Event{Type: "load", Target: container})

	assert.Same(t, body, container.ContentDocument().Body())
	assert.Same(t, body, r.Content())
}

func TestIsolatedClickRebroadcast(t *testing.T) {
	r, err := New(dom.NewDocument(), imageAttachment(t, true), Config{})
	require.NoError(t, err)
	require.NoError(t, r.Render(context.Background()))

	container := r.Container()
	clicks := 0
	container.On("click", func(*dom.Event) { clicks++ })

	card := r.Content().FindByClass("attachment-card")
	require.NotNil(t, card)
	card.Dispatch(&dom.Event{Type: "click", Target: card})

	assert.Equal(t, 1, clicks)
}

func TestWarningsAccumulate(t *testing.T) {
	att := Attachment{Type: TypeImage, Blob: MemoryBlob("junk"), Name: "x.png"}
	r, err := New(dom.NewDocument(), att, Config{Catalog: i18n.NewCatalog(nil)})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))

	types := make([]WarningType, 0, len(r.Warnings()))
	for _, w := range r.Warnings() {
		types = append(types, w.Type)
	}
	assert.Equal(t, []WarningType{WarningThumbnailFailed, WarningMissingMessage}, types)
}
