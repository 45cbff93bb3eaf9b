package service

import (
	"math"
	"sort"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// FeeBreakdown is the result of pricing a base amount against the tier table.
type FeeBreakdown struct {
	FeeAmount   float64
	FinalAmount float64
}

// ComputeFee prices baseAmount against the given tier snapshot. Tiers are
// scanned in ascending min_value order and the first tier whose inclusive
// range contains the amount wins; overlapping tiers are resolved by that
// ordering rather than rejected. When no tier matches (or the amount is not
// a usable positive number) the fee degrades to zero instead of failing.
func ComputeFee(tiers []domain.PlatformFee, baseAmount float64) FeeBreakdown {
	if baseAmount <= 0 || math.IsNaN(baseAmount) || math.IsInf(baseAmount, 0) {
		return FeeBreakdown{FeeAmount: 0, FinalAmount: baseAmount}
	}

	ordered := make([]domain.PlatformFee, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinValue < ordered[j].MinValue
	})

	for _, tier := range ordered {
		if baseAmount >= tier.MinValue && baseAmount <= tier.MaxValue {
			fee := baseAmount * tier.FeePercentage / 100
			return FeeBreakdown{FeeAmount: fee, FinalAmount: baseAmount + fee}
		}
	}

	return FeeBreakdown{FeeAmount: 0, FinalAmount: baseAmount}
}
