package domain

import "time"

// TierName enumerates the named pricing tiers.
type TierName string

const (
	TierBasic    TierName = "BASIC"
	TierStandard TierName = "STANDARD"
	TierPremium  TierName = "PREMIUM"
)

// PlatformFee maps a base-price range to a platform fee percentage.
// Ranges are inclusive on both ends. Overlap between tiers is not
// enforced; fee computation picks the first match in min_value order.
type PlatformFee struct {
	ID            string
	TierName      TierName
	MinValue      float64
	MaxValue      float64
	FeePercentage float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
