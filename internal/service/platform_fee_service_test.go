package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

type feeRepoMock struct {
	createFn        func(ctx context.Context, fee *domain.PlatformFee) error
	updateFn        func(ctx context.Context, fee *domain.PlatformFee) error
	deleteFn        func(ctx context.Context, id string) error
	getByIDFn       func(ctx context.Context, id string) (*domain.PlatformFee, error)
	getByTierNameFn func(ctx context.Context, name domain.TierName) (*domain.PlatformFee, error)
	listFn          func(ctx context.Context) ([]domain.PlatformFee, error)
}

func (m *feeRepoMock) Create(ctx context.Context, fee *domain.PlatformFee) error {
	if m.createFn != nil {
		return m.createFn(ctx, fee)
	}
	return nil
}

func (m *feeRepoMock) Update(ctx context.Context, fee *domain.PlatformFee) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, fee)
	}
	return nil
}

func (m *feeRepoMock) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *feeRepoMock) GetByID(ctx context.Context, id string) (*domain.PlatformFee, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *feeRepoMock) GetByTierName(ctx context.Context, name domain.TierName) (*domain.PlatformFee, error) {
	if m.getByTierNameFn != nil {
		return m.getByTierNameFn(ctx, name)
	}
	return nil, pgx.ErrNoRows
}

func (m *feeRepoMock) List(ctx context.Context) ([]domain.PlatformFee, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func TestPlatformFeeCreate(t *testing.T) {
	var created *domain.PlatformFee
	repo := &feeRepoMock{
		createFn: func(_ context.Context, fee *domain.PlatformFee) error {
			fee.ID = "fee-1"
			created = fee
			return nil
		},
	}
	svc := NewPlatformFeeService(repo, nil)

	fee, err := svc.Create(context.Background(), PlatformFeeInput{
		TierName:      domain.TierBasic,
		MinValue:      0,
		MaxValue:      1000,
		FeePercentage: 5.5,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "fee-1", fee.ID)
	assert.Equal(t, domain.TierBasic, fee.TierName)
}

func TestPlatformFeeCreateDuplicateTier(t *testing.T) {
	repo := &feeRepoMock{
		getByTierNameFn: func(_ context.Context, name domain.TierName) (*domain.PlatformFee, error) {
			return &domain.PlatformFee{ID: "fee-1", TierName: name}, nil
		},
	}
	svc := NewPlatformFeeService(repo, nil)

	_, err := svc.Create(context.Background(), PlatformFeeInput{
		TierName:      domain.TierBasic,
		MinValue:      0,
		MaxValue:      1000,
		FeePercentage: 5,
	})
	require.Error(t, err)
	assert.Equal(t, "Platform fee for tier BASIC already exists", apperrors.ToDomainError(err).Message)
}

func TestPlatformFeeCreateValidation(t *testing.T) {
	svc := NewPlatformFeeService(&feeRepoMock{}, nil)

	cases := []struct {
		name    string
		input   PlatformFeeInput
		message string
	}{
		{
			name:    "unknown tier",
			input:   PlatformFeeInput{TierName: "GOLD", MinValue: 0, MaxValue: 100, FeePercentage: 5},
			message: "tier_name must be one of BASIC, STANDARD, PREMIUM",
		},
		{
			name:    "negative min",
			input:   PlatformFeeInput{TierName: domain.TierBasic, MinValue: -1, MaxValue: 100, FeePercentage: 5},
			message: "min_value must be non-negative",
		},
		{
			name:    "inverted range",
			input:   PlatformFeeInput{TierName: domain.TierBasic, MinValue: 500, MaxValue: 100, FeePercentage: 5},
			message: "max_value must be greater than or equal to min_value",
		},
		{
			name:    "percentage above 100",
			input:   PlatformFeeInput{TierName: domain.TierBasic, MinValue: 0, MaxValue: 100, FeePercentage: 150},
			message: "fee_percentage must be between 0 and 100",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.message, apperrors.ToDomainError(err).Message)
		})
	}
}

func TestPlatformFeeCreateSinglePointRange(t *testing.T) {
	svc := NewPlatformFeeService(&feeRepoMock{}, nil)

	// max == min is a valid single-point range.
	_, err := svc.Create(context.Background(), PlatformFeeInput{
		TierName:      domain.TierBasic,
		MinValue:      100,
		MaxValue:      100,
		FeePercentage: 5,
	})
	assert.NoError(t, err)
}

func TestPlatformFeeGetByIDNotFound(t *testing.T) {
	svc := NewPlatformFeeService(&feeRepoMock{}, nil)

	_, err := svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "Platform fee not found", domainErr.Message)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestPlatformFeeUpdateMergesAndRevalidates(t *testing.T) {
	existing := &domain.PlatformFee{
		ID:            "fee-1",
		TierName:      domain.TierBasic,
		MinValue:      0,
		MaxValue:      1000,
		FeePercentage: 5,
	}
	repo := &feeRepoMock{
		getByIDFn: func(_ context.Context, _ string) (*domain.PlatformFee, error) {
			copied := *existing
			return &copied, nil
		},
	}
	svc := NewPlatformFeeService(repo, nil)

	newMax := 2000.0
	fee, err := svc.Update(context.Background(), "fee-1", PlatformFeeUpdateInput{MaxValue: &newMax})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, fee.MaxValue)
	assert.Equal(t, 5.0, fee.FeePercentage)

	badMax := -5.0
	_, err = svc.Update(context.Background(), "fee-1", PlatformFeeUpdateInput{MaxValue: &badMax})
	require.Error(t, err)
	assert.Equal(t, "max_value must be positive", apperrors.ToDomainError(err).Message)
}

func TestPlatformFeeUpdateRejectsRenameToExistingTier(t *testing.T) {
	repo := &feeRepoMock{
		getByIDFn: func(_ context.Context, _ string) (*domain.PlatformFee, error) {
			return &domain.PlatformFee{ID: "fee-1", TierName: domain.TierBasic, MaxValue: 100, FeePercentage: 5}, nil
		},
		getByTierNameFn: func(_ context.Context, name domain.TierName) (*domain.PlatformFee, error) {
			return &domain.PlatformFee{ID: "fee-2", TierName: name}, nil
		},
	}
	svc := NewPlatformFeeService(repo, nil)

	premium := domain.TierPremium
	_, err := svc.Update(context.Background(), "fee-1", PlatformFeeUpdateInput{TierName: &premium})
	require.Error(t, err)
	assert.Equal(t, "Platform fee for tier PREMIUM already exists", apperrors.ToDomainError(err).Message)
}

func TestPlatformFeeDeleteReturnsRemovedTier(t *testing.T) {
	deleted := false
	repo := &feeRepoMock{
		getByIDFn: func(_ context.Context, _ string) (*domain.PlatformFee, error) {
			return &domain.PlatformFee{ID: "fee-1", TierName: domain.TierBasic}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = true
			assert.Equal(t, "fee-1", id)
			return nil
		},
	}
	svc := NewPlatformFeeService(repo, nil)

	fee, err := svc.Delete(context.Background(), "fee-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "fee-1", fee.ID)
}

func TestPriceBaseUsesTierTable(t *testing.T) {
	repo := &feeRepoMock{
		listFn: func(_ context.Context) ([]domain.PlatformFee, error) {
			return []domain.PlatformFee{
				{TierName: domain.TierBasic, MinValue: 0, MaxValue: 1000, FeePercentage: 5.5},
			}, nil
		},
	}
	svc := NewPlatformFeeService(repo, nil)

	breakdown, err := svc.PriceBase(context.Background(), 500)
	require.NoError(t, err)
	assert.InDelta(t, 27.5, breakdown.FeeAmount, 1e-9)
	assert.InDelta(t, 527.5, breakdown.FinalAmount, 1e-9)
}
