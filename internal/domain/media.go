package domain

import (
	"bytes"
	"time"
)

// Allowed content types for image uploads.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MaxFileSize is the maximum allowed upload size in bytes (5 MB).
const MaxFileSize int64 = 5 * 1024 * 1024

// Owner type constants for the upload ledger.
const (
	OwnerTypeReview     = "review"
	OwnerTypeSuggestion = "suggestion"
	OwnerTypeRestaurant = "restaurant"
)

// MediaFile represents an uploaded file tracked in the ledger so that
// admin deletes can purge the backing CDN asset.
type MediaFile struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	OwnerType    string    `json:"owner_type"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAllowedContentType checks whether the given content type is allowed.
func IsAllowedContentType(contentType string) bool {
	return AllowedContentTypes[contentType]
}

// ValidOwnerTypes returns the set of valid owner types.
func ValidOwnerTypes() []string {
	return []string{OwnerTypeReview, OwnerTypeSuggestion, OwnerTypeRestaurant}
}

// IsValidOwnerType checks whether the given owner type is valid.
func IsValidOwnerType(ownerType string) bool {
	for _, t := range ValidOwnerTypes() {
		if t == ownerType {
			return true
		}
	}
	return false
}

// SniffImageType inspects the leading bytes of a file and returns the detected
// image content type, or the empty string when the signature is not one of the
// allowed formats. Declared content types are not trusted; uploads whose magic
// bytes disagree with the declared type are rejected.
func SniffImageType(head []byte) string {
	switch {
	case len(head) >= 3 && bytes.Equal(head[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case len(head) >= 8 && bytes.Equal(head[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png"
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return "image/webp"
	}
	return ""
}
