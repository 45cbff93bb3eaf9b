package dto

import (
	"time"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// CreateSpecialistRequest payload for new profiles. Files arrive as
// multipart attachments alongside these fields.
type CreateSpecialistRequest struct {
	Title          string   `json:"title" form:"title"`
	Description    string   `json:"description" form:"description"`
	BasePrice      float64  `json:"base_price" form:"base_price"`
	DurationDays   int      `json:"duration_days" form:"duration_days"`
	IsDraft        *bool    `json:"is_draft" form:"is_draft"`
	MasterEntryIDs []string `json:"service_offerings_master_list_ids" form:"service_offerings_master_list_ids"`
	DisplayOrder   []int    `json:"display_order" form:"display_order"`
}

// UpdateSpecialistRequest payload for partial profile updates.
type UpdateSpecialistRequest struct {
	Title              *string   `json:"title" form:"title"`
	Slug               *string   `json:"slug" form:"slug"`
	Description        *string   `json:"description" form:"description"`
	BasePrice          *float64  `json:"base_price" form:"base_price"`
	DurationDays       *int      `json:"duration_days" form:"duration_days"`
	IsDraft            *bool     `json:"is_draft" form:"is_draft"`
	VerificationStatus *string   `json:"verification_status" form:"verification_status"`
	IsVerified         *bool     `json:"is_verified" form:"is_verified"`
	DeletedMediaIDs    []string  `json:"deleted_media_ids" form:"deleted_media_ids"`
	DisplayOrder       []int     `json:"display_order" form:"display_order"`
	MasterEntryIDs     *[]string `json:"service_offerings_master_list_ids" form:"service_offerings_master_list_ids"`
}

// OfferingIDsRequest payload for attaching/detaching catalog entries.
type OfferingIDsRequest struct {
	MasterEntryIDs []string `json:"service_offerings_master_list_ids"`
}

// MediaResponse wire representation of an uploaded image.
type MediaResponse struct {
	ID           string `json:"id"`
	FileURL      string `json:"file_url"`
	FileSize     int64  `json:"file_size"`
	DisplayOrder int    `json:"display_order"`
	MimeType     string `json:"mime_type"`
	MediaType    string `json:"media_type"`
}

// OfferingResponse wire representation of a linked catalog entry.
type OfferingResponse struct {
	ID            string               `json:"id"`
	MasterEntryID string               `json:"service_offerings_master_list_id"`
	MasterEntry   *MasterEntryResponse `json:"service_offerings_master_list,omitempty"`
}

// MasterEntryResponse wire representation of a catalog entry.
type MasterEntryResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	SecureURL   *string   `json:"secure_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SpecialistResponse wire representation of a profile.
type SpecialistResponse struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Slug               string             `json:"slug"`
	Description        string             `json:"description"`
	BasePrice          float64            `json:"base_price"`
	PlatformFee        float64            `json:"platform_fee"`
	FinalPrice         float64            `json:"final_price"`
	DurationDays       int                `json:"duration_days"`
	IsDraft            bool               `json:"is_draft"`
	VerificationStatus string             `json:"verification_status"`
	IsVerified         bool               `json:"is_verified"`
	Offerings          []OfferingResponse `json:"service_offerings"`
	Media              []MediaResponse    `json:"media"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ListMeta matches the pagination envelope of the listing endpoint.
type ListMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewSpecialistResponse converts the domain aggregate.
func NewSpecialistResponse(sp *domain.Specialist) SpecialistResponse {
	offerings := make([]OfferingResponse, 0, len(sp.Offerings))
	for _, offering := range sp.Offerings {
		resp := OfferingResponse{
			ID:            offering.ID,
			MasterEntryID: offering.MasterEntryID,
		}
		if offering.MasterEntry != nil {
			resp.MasterEntry = &MasterEntryResponse{
				ID:          offering.MasterEntry.ID,
				Title:       offering.MasterEntry.Title,
				Description: offering.MasterEntry.Description,
				CreatedAt:   offering.MasterEntry.CreatedAt,
				UpdatedAt:   offering.MasterEntry.UpdatedAt,
			}
		}
		offerings = append(offerings, resp)
	}

	media := make([]MediaResponse, 0, len(sp.Media))
	for _, m := range sp.Media {
		media = append(media, MediaResponse{
			ID:           m.ID,
			FileURL:      m.FileURL,
			FileSize:     m.FileSize,
			DisplayOrder: m.DisplayOrder,
			MimeType:     string(m.MimeType),
			MediaType:    string(m.MediaType),
		})
	}

	return SpecialistResponse{
		ID:                 sp.ID,
		Title:              sp.Title,
		Slug:               sp.Slug,
		Description:        sp.Description,
		BasePrice:          sp.BasePrice,
		PlatformFee:        sp.PlatformFee,
		FinalPrice:         sp.FinalPrice,
		DurationDays:       sp.DurationDays,
		IsDraft:            sp.IsDraft,
		VerificationStatus: string(sp.VerificationStatus),
		IsVerified:         sp.IsVerified,
		Offerings:          offerings,
		Media:              media,
		CreatedAt:          sp.CreatedAt,
		UpdatedAt:          sp.UpdatedAt,
	}
}
