// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Accepted media types for corrosion panel images.
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
)

// imageFamilyPrefix is the prefix every submittable media type must carry.
const imageFamilyPrefix = "image/"

// PendingImage is the single image awaiting or undergoing classification.
type PendingImage struct {
	Name      string
	MediaType string
	Path      string
	Data      []byte
}

// IsImage reports whether the declared media type belongs to the image family.
func (p PendingImage) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(p.MediaType), imageFamilyPrefix)
}

// Size returns the payload size in bytes.
func (p PendingImage) Size() int {
	return len(p.Data)
}

// IsAcceptedMediaType reports whether mediaType is one of the types the
// selection boundary admits. Parameters such as charset are ignored.
func IsAcceptedMediaType(mediaType string) bool {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mediaType)), ";")
	switch strings.TrimSpace(base) {
	case MediaTypeJPEG, MediaTypePNG:
		return true
	default:
		return false
	}
}
