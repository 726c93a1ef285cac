// Command attachrender renders a file into an attachment container and
// prints the resulting markup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/rgonek/chat-attachment-renderer/dom"
	"github.com/rgonek/chat-attachment-renderer/i18n"
	"github.com/rgonek/chat-attachment-renderer/renderer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "attachrender: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		inPath      = flag.String("in", "", "input file to render (required)")
		name        = flag.String("name", "", "display name (default: input path)")
		typeFlag    = flag.String("type", "", "attachment type: image, audio, video, file (default: sniffed from content)")
		captionText = flag.String("caption", "", "optional Markdown caption")
		draft       = flag.Bool("draft", false, "render into an isolated sub-document")
		scale       = flag.Float64("scale", 1, "display device pixel ratio")
		langPath    = flag.String("lang", "", "YAML message catalog file")
		outPath     = flag.String("out", "", "output file (default: stdout)")
		verbose     = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		return fmt.Errorf("-in is required")
	}
	data, err := os.ReadFile(*inPath)
	if err != nil {
		return err
	}

	attachmentType, err := resolveType(*typeFlag, data)
	if err != nil {
		return err
	}
	displayName := *name
	if displayName == "" {
		displayName = *inPath
	}

	catalog := i18n.Default()
	if *langPath != "" {
		raw, err := os.ReadFile(*langPath)
		if err != nil {
			return err
		}
		if catalog, err = i18n.Load(raw); err != nil {
			return err
		}
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	doc := dom.NewDocument()
	r, err := renderer.New(doc, renderer.Attachment{
		Type:    attachmentType,
		Blob:    renderer.MemoryBlob(data),
		Name:    displayName,
		Caption: *captionText,
		IsDraft: *draft,
	}, renderer.Config{
		DisplayScale: *scale,
		Catalog:      catalog,
		Logger:       &logger,
	})
	if err != nil {
		return err
	}

	doc.Body().Append(r.Container())
	if err := r.Render(context.Background()); err != nil {
		return err
	}
	for _, w := range r.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Type, w.Message)
	}

	output, err := serialize(r)
	if err != nil {
		return err
	}
	if *outPath == "" {
		fmt.Println(output)
		return nil
	}
	return os.WriteFile(*outPath, []byte(output), 0o644)
}

// resolveType maps the -type flag, falling back to content sniffing.
func resolveType(flagValue string, data []byte) (renderer.AttachmentType, error) {
	switch renderer.AttachmentType(flagValue) {
	case renderer.TypeImage, renderer.TypeAudio, renderer.TypeVideo, renderer.TypeFile:
		return renderer.AttachmentType(flagValue), nil
	case "":
		return renderer.TypeFromMIME(mimetype.Detect(data).String()), nil
	default:
		return "", fmt.Errorf("unknown attachment type %q (allowed: image, audio, video, file)", flagValue)
	}
}

// serialize prints what the strategy produced: the container markup for
// inline renders, the full sub-document for isolated renders (frame
// content does not serialize through the embedding tree).
func serialize(r *renderer.Renderer) (string, error) {
	container := r.Container()
	if sub := container.ContentDocument(); sub != nil {
		return sub.HTML()
	}
	return container.OuterHTML()
}
