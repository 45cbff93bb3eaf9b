package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/specialist-marketplace/internal/cache"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
	"github.com/spec-kit/specialist-marketplace/internal/repository"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

// PlatformFeeInput carries tier fields for create operations.
type PlatformFeeInput struct {
	TierName      domain.TierName
	MinValue      float64
	MaxValue      float64
	FeePercentage float64
}

// PlatformFeeUpdateInput carries optional tier fields for updates.
type PlatformFeeUpdateInput struct {
	TierName      *domain.TierName
	MinValue      *float64
	MaxValue      *float64
	FeePercentage *float64
}

// PlatformFeeService manages the tier table and prices base amounts
// against it.
type PlatformFeeService struct {
	fees  repository.PlatformFeeRepository
	cache *cache.TierCache
}

// NewPlatformFeeService builds the service. The cache may be nil.
func NewPlatformFeeService(fees repository.PlatformFeeRepository, tierCache *cache.TierCache) *PlatformFeeService {
	return &PlatformFeeService{fees: fees, cache: tierCache}
}

// Create adds a tier after validating its range and name uniqueness.
func (s *PlatformFeeService) Create(ctx context.Context, input PlatformFeeInput) (*domain.PlatformFee, error) {
	if err := validateTier(input.TierName, input.MinValue, input.MaxValue, input.FeePercentage); err != nil {
		return nil, err
	}

	if _, err := s.fees.GetByTierName(ctx, input.TierName); err == nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Platform fee for tier %s already exists", input.TierName), nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	fee := &domain.PlatformFee{
		TierName:      input.TierName,
		MinValue:      input.MinValue,
		MaxValue:      input.MaxValue,
		FeePercentage: input.FeePercentage,
	}
	if err := s.fees.Create(ctx, fee); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return fee, nil
}

// List returns every tier ordered by creation time.
func (s *PlatformFeeService) List(ctx context.Context) ([]domain.PlatformFee, error) {
	return s.fees.List(ctx)
}

// GetByID fetches a single tier.
func (s *PlatformFeeService) GetByID(ctx context.Context, id string) (*domain.PlatformFee, error) {
	fee, err := s.fees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Platform fee not found")
		}
		return nil, err
	}
	return fee, nil
}

// Update applies the given fields to an existing tier, re-validating the
// merged range.
func (s *PlatformFeeService) Update(ctx context.Context, id string, input PlatformFeeUpdateInput) (*domain.PlatformFee, error) {
	fee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.TierName != nil && *input.TierName != fee.TierName {
		if _, err := s.fees.GetByTierName(ctx, *input.TierName); err == nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("Platform fee for tier %s already exists", *input.TierName), nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		fee.TierName = *input.TierName
	}
	if input.MinValue != nil {
		fee.MinValue = *input.MinValue
	}
	if input.MaxValue != nil {
		fee.MaxValue = *input.MaxValue
	}
	if input.FeePercentage != nil {
		fee.FeePercentage = *input.FeePercentage
	}

	if err := validateTier(fee.TierName, fee.MinValue, fee.MaxValue, fee.FeePercentage); err != nil {
		return nil, err
	}

	if err := s.fees.Update(ctx, fee); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Platform fee not found")
		}
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return fee, nil
}

// Delete removes a tier.
func (s *PlatformFeeService) Delete(ctx context.Context, id string) (*domain.PlatformFee, error) {
	fee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fees.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Platform fee not found")
		}
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return fee, nil
}

// Tiers returns the tier table snapshot used for pricing, served from the
// cache when warm.
func (s *PlatformFeeService) Tiers(ctx context.Context) ([]domain.PlatformFee, error) {
	if tiers, ok := s.cache.Get(ctx); ok {
		return tiers, nil
	}
	tiers, err := s.fees.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, tiers)
	return tiers, nil
}

// PriceBase computes the platform fee breakdown for a base amount.
func (s *PlatformFeeService) PriceBase(ctx context.Context, baseAmount float64) (FeeBreakdown, error) {
	tiers, err := s.Tiers(ctx)
	if err != nil {
		return FeeBreakdown{}, err
	}
	return ComputeFee(tiers, baseAmount), nil
}

func validateTier(name domain.TierName, minValue, maxValue, pct float64) error {
	switch name {
	case domain.TierBasic, domain.TierStandard, domain.TierPremium:
	default:
		return apperrors.NewValidationError("tier_name must be one of BASIC, STANDARD, PREMIUM", nil)
	}
	if minValue < 0 {
		return apperrors.NewValidationError("min_value must be non-negative", nil)
	}
	if maxValue <= 0 {
		return apperrors.NewValidationError("max_value must be positive", nil)
	}
	if maxValue < minValue {
		return apperrors.NewValidationError("max_value must be greater than or equal to min_value", nil)
	}
	if pct < 0 || pct > 100 {
		return apperrors.NewValidationError("fee_percentage must be between 0 and 100", nil)
	}
	return nil
}
