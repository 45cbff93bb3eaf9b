package dto

import (
	"github.com/spec-kit/specialist-marketplace/internal/service"
)

// CreateOfferingRequest payload for catalog entries. The icon arrives
// as a multipart attachment.
type CreateOfferingRequest struct {
	Title       string  `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

// UpdateOfferingRequest payload for partial catalog updates.
type UpdateOfferingRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

// NewMasterEntryResponse converts a catalog entry with its resolved URL.
func NewMasterEntryResponse(entry *service.OfferingEntry) MasterEntryResponse {
	return MasterEntryResponse{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
		SecureURL:   entry.SecureURL,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}
