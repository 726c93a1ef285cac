package renderer

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rgonek/chat-attachment-renderer/bloburl"
	"github.com/rgonek/chat-attachment-renderer/i18n"
	"github.com/rgonek/chat-attachment-renderer/templates"
)

// DefaultOrigin is the embedding-page origin assumed when none is given.
const DefaultOrigin = "app://local"

// Config holds renderer configuration.
type Config struct {
	// DisplayScale is the display's device pixel ratio. It is injected
	// rather than read from ambient state so tests can pin it.
	DisplayScale float64
	// Origin is the embedding page origin, used for the frame base URL
	// and issued blob URLs.
	Origin string
	// Templates overrides the built-in template registry.
	Templates *templates.Registry
	// Catalog overrides the built-in English message catalog.
	Catalog *i18n.Catalog
	// BlobURLs overrides the blob URL registry. The renderer creates
	// URLs and never revokes them; lifecycle is the owner's concern.
	BlobURLs *bloburl.Registry
	// ThumbnailHook optionally overrides thumbnail derivation.
	ThumbnailHook ThumbnailHook
	// Logger receives pipeline-stage debug logs. Discards when nil.
	Logger *zerolog.Logger
}

func (c Config) applyDefaults() Config {
	if c.DisplayScale == 0 {
		c.DisplayScale = 1
	}
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}
	if c.Templates == nil {
		c.Templates = templates.Default()
	}
	if c.Catalog == nil {
		c.Catalog = i18n.Default()
	}
	if c.BlobURLs == nil {
		c.BlobURLs = bloburl.NewRegistry(c.Origin)
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.DisplayScale <= 0 {
		return fmt.Errorf("displayScale must be positive, got %g", c.DisplayScale)
	}
	if strings.TrimSpace(c.Origin) == "" {
		return fmt.Errorf("origin must not be empty")
	}
	return nil
}
