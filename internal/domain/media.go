package domain

import "time"

// MediaType categorizes stored files.
type MediaType string

const (
	MediaTypeServiceImage MediaType = "SERVICE_IMAGE"
)

// MimeType enumerates accepted upload formats.
type MimeType string

const (
	MimeImagePNG  MimeType = "IMAGE_PNG"
	MimeImageJPEG MimeType = "IMAGE_JPEG"
	MimeImageWebP MimeType = "IMAGE_WEBP"
)

// MimeTypeFromContentType maps an HTTP content type onto the accepted set.
func MimeTypeFromContentType(ct string) (MimeType, bool) {
	switch ct {
	case "image/png":
		return MimeImagePNG, true
	case "image/jpeg", "image/jpg":
		return MimeImageJPEG, true
	case "image/webp":
		return MimeImageWebP, true
	default:
		return "", false
	}
}

// Media is an uploaded image attached to a specialist profile. FileURL is
// the public object-storage URL; rows are soft-deleted so storage cleanup
// can lag behind the database.
type Media struct {
	ID           string
	SpecialistID string
	FileURL      string
	StorageKey   string
	FileSize     int64
	DisplayOrder int
	MimeType     MimeType
	MediaType    MediaType
	CreatedAt    time.Time
	DeletedAt    *time.Time
}
