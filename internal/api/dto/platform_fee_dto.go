package dto

import (
	"time"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// CreatePlatformFeeRequest payload for new tiers.
type CreatePlatformFeeRequest struct {
	TierName      string  `json:"tier_name"`
	MinValue      float64 `json:"min_value"`
	MaxValue      float64 `json:"max_value"`
	FeePercentage float64 `json:"platform_fee_percentage"`
}

// UpdatePlatformFeeRequest payload for partial tier updates.
type UpdatePlatformFeeRequest struct {
	TierName      *string  `json:"tier_name"`
	MinValue      *float64 `json:"min_value"`
	MaxValue      *float64 `json:"max_value"`
	FeePercentage *float64 `json:"platform_fee_percentage"`
}

// PlatformFeeResponse wire representation of a tier.
type PlatformFeeResponse struct {
	ID            string    `json:"id"`
	TierName      string    `json:"tier_name"`
	MinValue      float64   `json:"min_value"`
	MaxValue      float64   `json:"max_value"`
	FeePercentage float64   `json:"platform_fee_percentage"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewPlatformFeeResponse converts the domain model.
func NewPlatformFeeResponse(fee *domain.PlatformFee) PlatformFeeResponse {
	return PlatformFeeResponse{
		ID:            fee.ID,
		TierName:      string(fee.TierName),
		MinValue:      fee.MinValue,
		MaxValue:      fee.MaxValue,
		FeePercentage: fee.FeePercentage,
		CreatedAt:     fee.CreatedAt,
		UpdatedAt:     fee.UpdatedAt,
	}
}
