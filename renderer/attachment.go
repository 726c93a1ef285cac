// Package renderer renders message attachments into visual containers.
//
// A Renderer owns one attachment, selects a host strategy at construction
// time (an isolated sandboxed sub-document for drafts, a plain inline
// container otherwise), lazily creates and caches the container, and
// drives the render pipeline: thumbnail derivation, markup construction
// with a placeholder fallback, strategy delegation, and post-render
// decoration of the content hosting node.
package renderer

import "strings"

// AttachmentType classifies the kind of attachment.
type AttachmentType string

const (
	TypeImage AttachmentType = "image"
	TypeAudio AttachmentType = "audio"
	TypeVideo AttachmentType = "video"
	TypeFile  AttachmentType = "file"
)

func (t AttachmentType) known() bool {
	switch t {
	case TypeImage, TypeAudio, TypeVideo, TypeFile:
		return true
	}
	return false
}

// TypeFromMIME maps a MIME type to an attachment type. Anything that is
// not an image, audio, or video MIME maps to TypeFile.
func TypeFromMIME(mime string) AttachmentType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return TypeImage
	case strings.HasPrefix(mime, "audio/"):
		return TypeAudio
	case strings.HasPrefix(mime, "video/"):
		return TypeVideo
	default:
		return TypeFile
	}
}

// Blob is an opaque binary content handle with a known byte size.
type Blob interface {
	Size() int64
	Bytes() []byte
}

// MemoryBlob is a Blob over an in-memory byte slice.
type MemoryBlob []byte

func (b MemoryBlob) Size() int64   { return int64(len(b)) }
func (b MemoryBlob) Bytes() []byte { return b }

// Attachment describes one message attachment. It is owned by the caller
// and read-only from the renderer's perspective.
type Attachment struct {
	Type    AttachmentType
	Blob    Blob
	Name    string
	Caption string // optional Markdown caption
	IsDraft bool   // selects the isolated host strategy
}

// DisplayName returns the final path segment of a path-like name; names
// without a separator are returned unchanged.
func DisplayName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
