package renderer

import "context"

// ThumbnailInput describes an eligible image a thumbnail is derived for.
type ThumbnailInput struct {
	Name         string
	Size         int64
	Blob         Blob
	DisplayScale float64
}

// ThumbnailOutput carries a hook-provided thumbnail reference.
type ThumbnailOutput struct {
	URL     string
	Handled bool
}

// ThumbnailHook can override thumbnail derivation for eligible images.
// Returning an error marks the attachment as corrupted; returning
// Handled false falls through to the built-in derivation.
type ThumbnailHook func(ctx context.Context, in ThumbnailInput) (ThumbnailOutput, error)
