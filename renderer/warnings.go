package renderer

// WarningType categorizes non-fatal render pipeline issues.
type WarningType string

const (
	WarningThumbnailSkipped WarningType = "thumbnail_skipped"
	WarningThumbnailFailed  WarningType = "thumbnail_failed"
	WarningMissingMessage   WarningType = "missing_message"
)

// Warning represents a non-fatal issue encountered while rendering.
type Warning struct {
	Type    WarningType `json:"type"`
	Message string      `json:"message"`
}
