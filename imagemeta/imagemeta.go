// Package imagemeta probes image dimensions and MIME type without fully
// decoding the asset, and builds downsample hints for thumbnail URLs.
package imagemeta

import (
	"bytes"
	"fmt"
	"image"

	// Registered decoders for the header-only dimension probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
)

// Info describes a decodable image.
type Info struct {
	Width  int
	Height int
	MIME   string
}

// Probe reads the image header and returns its natural dimensions and
// sniffed MIME type. The pixel data is never decoded. Undecodable input
// returns an error.
func Probe(data []byte) (Info, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("probe image dimensions: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("image has degenerate dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return Info{
		Width:  cfg.Width,
		Height: cfg.Height,
		MIME:   mimetype.Detect(data).String(),
	}, nil
}

// DownsampleFragment encodes a scale factor as an opaque URL fragment.
// Factors of one or more mean no downsampling and are clamped.
func DownsampleFragment(scale float64) string {
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	return fmt.Sprintf("#downsample=%.4f", scale)
}
