package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

func tierTable() []domain.PlatformFee {
	return []domain.PlatformFee{
		{TierName: domain.TierPremium, MinValue: 5001, MaxValue: 100000, FeePercentage: 2},
		{TierName: domain.TierBasic, MinValue: 0, MaxValue: 1000, FeePercentage: 5.5},
		{TierName: domain.TierStandard, MinValue: 1001, MaxValue: 5000, FeePercentage: 3.5},
	}
}

func TestComputeFeeMatchesTier(t *testing.T) {
	result := ComputeFee(tierTable(), 500)
	assert.InDelta(t, 27.5, result.FeeAmount, 1e-9)
	assert.InDelta(t, 527.5, result.FinalAmount, 1e-9)
}

func TestComputeFeeInclusiveBoundaries(t *testing.T) {
	lower := ComputeFee(tierTable(), 1001)
	assert.InDelta(t, 1001*3.5/100, lower.FeeAmount, 1e-9)

	upper := ComputeFee(tierTable(), 1000)
	assert.InDelta(t, 55.0, upper.FeeAmount, 1e-9)
}

func TestComputeFeeNoMatchingTier(t *testing.T) {
	result := ComputeFee(tierTable(), 200000)
	assert.Zero(t, result.FeeAmount)
	assert.Equal(t, 200000.0, result.FinalAmount)
}

func TestComputeFeeEmptyTable(t *testing.T) {
	result := ComputeFee(nil, 500)
	assert.Zero(t, result.FeeAmount)
	assert.Equal(t, 500.0, result.FinalAmount)
}

func TestComputeFeeNonPositiveAmount(t *testing.T) {
	for _, amount := range []float64{0, -10} {
		result := ComputeFee(tierTable(), amount)
		assert.Zero(t, result.FeeAmount)
		assert.Equal(t, amount, result.FinalAmount)
	}
}

func TestComputeFeeOverlapFirstMatchWins(t *testing.T) {
	overlapping := []domain.PlatformFee{
		{TierName: domain.TierStandard, MinValue: 500, MaxValue: 2000, FeePercentage: 10},
		{TierName: domain.TierBasic, MinValue: 0, MaxValue: 1000, FeePercentage: 5},
	}

	// 800 sits in both ranges; the tier with the lower min_value wins.
	result := ComputeFee(overlapping, 800)
	assert.InDelta(t, 40.0, result.FeeAmount, 1e-9)
}

func TestComputeFeeSinglePointTier(t *testing.T) {
	tiers := []domain.PlatformFee{
		{TierName: domain.TierBasic, MinValue: 100, MaxValue: 100, FeePercentage: 10},
	}

	hit := ComputeFee(tiers, 100)
	assert.InDelta(t, 10.0, hit.FeeAmount, 1e-9)

	miss := ComputeFee(tiers, 101)
	assert.Zero(t, miss.FeeAmount)
}
