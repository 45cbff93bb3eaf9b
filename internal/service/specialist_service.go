package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
	"github.com/spec-kit/specialist-marketplace/internal/events"
	"github.com/spec-kit/specialist-marketplace/internal/repository"
	"github.com/spec-kit/specialist-marketplace/internal/storage"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

const specialistMediaFolder = "service-images"

// UploadFile is an inbound file ready for object storage.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SpecialistCreateInput describes profile creation payload.
type SpecialistCreateInput struct {
	Title          string
	Description    string
	BasePrice      float64
	DurationDays   int
	IsDraft        *bool
	MasterEntryIDs []string
	DisplayOrder   []int
	Files          []UploadFile
}

// SpecialistUpdateInput describes a partial profile update.
type SpecialistUpdateInput struct {
	Title              *string
	Slug               *string
	Description        *string
	BasePrice          *float64
	DurationDays       *int
	IsDraft            *bool
	VerificationStatus *domain.VerificationStatus
	IsVerified         *bool
	DeletedMediaIDs    []string
	DisplayOrder       []int
	MasterEntryIDs     *[]string
	Files              []UploadFile
}

// SpecialistQuery narrows paginated listings.
type SpecialistQuery struct {
	Page               int
	Limit              int
	Search             *string
	IsDraft            *bool
	VerificationStatus *domain.VerificationStatus
	IsVerified         *bool
}

// PageMeta describes a paginated result window.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// SpecialistService coordinates profile workflows: slug derivation, derived
// pricing via the tier table, catalog links and media uploads.
type SpecialistService struct {
	specialists repository.SpecialistRepository
	offerings   repository.ServiceOfferingRepository
	catalog     repository.OfferingMasterRepository
	media       repository.MediaRepository
	fees        *PlatformFeeService
	store       storage.ObjectStore
	dispatcher  events.Dispatcher
}

// SpecialistDependencies bundles requirements for the specialist service.
type SpecialistDependencies struct {
	SpecialistRepo repository.SpecialistRepository
	OfferingRepo   repository.ServiceOfferingRepository
	CatalogRepo    repository.OfferingMasterRepository
	MediaRepo      repository.MediaRepository
	Fees           *PlatformFeeService
	Store          storage.ObjectStore
	Dispatcher     events.Dispatcher
}

// NewSpecialistService constructs the service.
func NewSpecialistService(deps SpecialistDependencies) *SpecialistService {
	return &SpecialistService{
		specialists: deps.SpecialistRepo,
		offerings:   deps.OfferingRepo,
		catalog:     deps.CatalogRepo,
		media:       deps.MediaRepo,
		fees:        deps.Fees,
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
	}
}

// Create builds a profile with derived pricing and optional media.
func (s *SpecialistService) Create(ctx context.Context, input SpecialistCreateInput) (*domain.Specialist, error) {
	profileSlug := slug.Make(input.Title)

	if _, err := s.specialists.GetBySlug(ctx, profileSlug); err == nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Specialist with slug %q already exists", profileSlug), nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err := s.validateMasterEntryIDs(ctx, input.MasterEntryIDs); err != nil {
		return nil, err
	}
	if err := validateUploadTypes(input.Files); err != nil {
		return nil, err
	}

	breakdown, err := s.fees.PriceBase(ctx, input.BasePrice)
	if err != nil {
		return nil, err
	}

	isDraft := true
	if input.IsDraft != nil {
		isDraft = *input.IsDraft
	}

	sp := &domain.Specialist{
		Title:              input.Title,
		Slug:               profileSlug,
		Description:        input.Description,
		BasePrice:          input.BasePrice,
		PlatformFee:        breakdown.FeeAmount,
		FinalPrice:         breakdown.FinalAmount,
		DurationDays:       input.DurationDays,
		IsDraft:            isDraft,
		VerificationStatus: domain.VerificationPending,
	}
	if err := s.specialists.Create(ctx, sp); err != nil {
		return nil, err
	}

	if err := s.offerings.CreateMany(ctx, sp.ID, input.MasterEntryIDs); err != nil {
		return nil, err
	}

	if err := s.uploadAndAttachMedia(ctx, sp.ID, input.Files, input.DisplayOrder, 0); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventSpecialistCreated, events.SpecialistCreatedPayload{
		SpecialistID: sp.ID,
		Slug:         sp.Slug,
		FinalPrice:   sp.FinalPrice,
	})

	return s.loadRelations(ctx, sp)
}

// List returns profiles matching the query, newest first.
func (s *SpecialistService) List(ctx context.Context, query SpecialistQuery) ([]domain.Specialist, PageMeta, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}

	filter := repository.SpecialistFilter{
		Search:             query.Search,
		IsDraft:            query.IsDraft,
		VerificationStatus: query.VerificationStatus,
		IsVerified:         query.IsVerified,
		Limit:              limit,
		Offset:             (page - 1) * limit,
	}

	specialists, total, err := s.specialists.List(ctx, filter)
	if err != nil {
		return nil, PageMeta{}, err
	}

	for i := range specialists {
		if _, err := s.loadRelations(ctx, &specialists[i]); err != nil {
			return nil, PageMeta{}, err
		}
	}

	totalPages := (total + limit - 1) / limit
	return specialists, PageMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// GetByID fetches one profile with relations.
func (s *SpecialistService) GetByID(ctx context.Context, id string) (*domain.Specialist, error) {
	sp, err := s.specialists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Specialist not found")
		}
		return nil, err
	}
	return s.loadRelations(ctx, sp)
}

// GetBySlug fetches one profile with relations by its slug.
func (s *SpecialistService) GetBySlug(ctx context.Context, profileSlug string) (*domain.Specialist, error) {
	sp, err := s.specialists.GetBySlug(ctx, profileSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Specialist not found")
		}
		return nil, err
	}
	return s.loadRelations(ctx, sp)
}

// Update applies a partial update. Pricing is re-derived whenever the base
// price changes; slug changes re-check uniqueness; removed media rows are
// soft-deleted with storage cleanup deferred to the event worker.
func (s *SpecialistService) Update(ctx context.Context, id string, input SpecialistUpdateInput) (*domain.Specialist, error) {
	sp, err := s.specialists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Specialist not found")
		}
		return nil, err
	}

	if input.Slug != nil && *input.Slug != sp.Slug {
		if _, err := s.specialists.GetBySlug(ctx, *input.Slug); err == nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("Specialist with slug %q already exists", *input.Slug), nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		sp.Slug = *input.Slug
	}

	activeMedia, err := s.media.ListBySpecialist(ctx, sp.ID)
	if err != nil {
		return nil, err
	}

	if len(input.DeletedMediaIDs) > 0 {
		toDelete, err := s.media.GetActiveByIDs(ctx, sp.ID, input.DeletedMediaIDs)
		if err != nil {
			return nil, err
		}
		if len(toDelete) != len(input.DeletedMediaIDs) {
			return nil, apperrors.NewValidationError("One or more media IDs are invalid or already deleted", nil)
		}
		if err := s.media.SoftDeleteByIDs(ctx, input.DeletedMediaIDs); err != nil {
			return nil, err
		}

		keys := make([]string, 0, len(toDelete))
		for _, m := range toDelete {
			keys = append(keys, m.StorageKey)
		}
		s.publish(ctx, events.EventMediaRemoved, events.MediaRemovedPayload{
			SpecialistID: sp.ID,
			StorageKeys:  keys,
		})
	}

	if len(input.Files) > 0 {
		if err := validateUploadTypes(input.Files); err != nil {
			return nil, err
		}
		startingOrder := len(activeMedia) - len(input.DeletedMediaIDs)
		if startingOrder < 0 {
			startingOrder = 0
		}
		if err := s.uploadAndAttachMedia(ctx, sp.ID, input.Files, input.DisplayOrder, startingOrder); err != nil {
			return nil, err
		}
	}

	if input.MasterEntryIDs != nil {
		if err := s.validateMasterEntryIDs(ctx, *input.MasterEntryIDs); err != nil {
			return nil, err
		}
		if err := s.offerings.ReplaceForSpecialist(ctx, sp.ID, *input.MasterEntryIDs); err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		sp.Title = *input.Title
	}
	if input.Description != nil {
		sp.Description = *input.Description
	}
	if input.DurationDays != nil {
		sp.DurationDays = *input.DurationDays
	}
	if input.IsDraft != nil {
		sp.IsDraft = *input.IsDraft
	}
	if input.VerificationStatus != nil {
		sp.VerificationStatus = *input.VerificationStatus
	}
	if input.IsVerified != nil {
		sp.IsVerified = *input.IsVerified
	}
	if input.BasePrice != nil {
		breakdown, err := s.fees.PriceBase(ctx, *input.BasePrice)
		if err != nil {
			return nil, err
		}
		sp.BasePrice = *input.BasePrice
		sp.PlatformFee = breakdown.FeeAmount
		sp.FinalPrice = breakdown.FinalAmount
	}

	if err := s.specialists.Update(ctx, sp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Specialist not found")
		}
		return nil, err
	}

	return s.loadRelations(ctx, sp)
}

// Delete soft-deletes the profile.
func (s *SpecialistService) Delete(ctx context.Context, id string) error {
	if err := s.specialists.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundMessage("Specialist not found")
		}
		return err
	}
	s.publish(ctx, events.EventSpecialistDeleted, events.SpecialistDeletedPayload{SpecialistID: id})
	return nil
}

// AddOfferings attaches catalog entries not already linked.
func (s *SpecialistService) AddOfferings(ctx context.Context, id string, masterEntryIDs []string) (*domain.Specialist, error) {
	sp, err := s.specialists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Specialist not found")
		}
		return nil, err
	}

	if err := s.validateMasterEntryIDs(ctx, masterEntryIDs); err != nil {
		return nil, err
	}

	existing, err := s.offerings.ListMasterEntryIDs(ctx, sp.ID)
	if err != nil {
		return nil, err
	}
	existingSet := make(map[string]struct{}, len(existing))
	for _, eid := range existing {
		existingSet[eid] = struct{}{}
	}

	var fresh []string
	for _, mid := range masterEntryIDs {
		if _, dup := existingSet[mid]; !dup {
			fresh = append(fresh, mid)
		}
	}
	if len(fresh) == 0 {
		return nil, apperrors.NewValidationError("All service offerings already exist for this specialist", nil)
	}

	if err := s.offerings.CreateMany(ctx, sp.ID, fresh); err != nil {
		return nil, err
	}
	return s.loadRelations(ctx, sp)
}

// RemoveOfferings detaches the given catalog entries.
func (s *SpecialistService) RemoveOfferings(ctx context.Context, id string, masterEntryIDs []string) (*domain.Specialist, error) {
	sp, err := s.specialists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Specialist not found")
		}
		return nil, err
	}

	if err := s.offerings.DeleteForSpecialist(ctx, sp.ID, masterEntryIDs); err != nil {
		return nil, err
	}
	return s.loadRelations(ctx, sp)
}

func (s *SpecialistService) validateMasterEntryIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.catalog.CountByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if count != len(ids) {
		return apperrors.NewValidationError("One or more service offering master list IDs are invalid", nil)
	}
	return nil
}

func (s *SpecialistService) uploadAndAttachMedia(ctx context.Context, specialistID string, files []UploadFile, displayOrder []int, startingOrder int) error {
	if len(files) == 0 {
		return nil
	}

	media := make([]domain.Media, 0, len(files))
	for i, file := range files {
		mimeType, ok := domain.MimeTypeFromContentType(file.ContentType)
		if !ok {
			return apperrors.NewValidationError(
				"Unsupported file type. Only PNG, JPEG, and WEBP images are allowed.", nil)
		}

		key, publicURL, err := s.store.Upload(ctx, specialistMediaFolder, file.Filename, file.ContentType, file.Body)
		if err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("File upload failed: %v", err), nil)
		}

		order := startingOrder + i
		if i < len(displayOrder) {
			order = displayOrder[i]
		}

		media = append(media, domain.Media{
			SpecialistID: specialistID,
			FileURL:      publicURL,
			StorageKey:   key,
			FileSize:     file.Size,
			DisplayOrder: order,
			MimeType:     mimeType,
			MediaType:    domain.MediaTypeServiceImage,
		})
	}
	return s.media.CreateMany(ctx, media)
}

func (s *SpecialistService) loadRelations(ctx context.Context, sp *domain.Specialist) (*domain.Specialist, error) {
	offerings, err := s.offerings.ListBySpecialist(ctx, sp.ID)
	if err != nil {
		return nil, err
	}
	media, err := s.media.ListBySpecialist(ctx, sp.ID)
	if err != nil {
		return nil, err
	}
	sp.Offerings = offerings
	sp.Media = media
	return sp, nil
}

func validateUploadTypes(files []UploadFile) error {
	for _, file := range files {
		if _, ok := domain.MimeTypeFromContentType(file.ContentType); !ok {
			return apperrors.NewValidationError(
				"Unsupported file type. Only PNG, JPEG, and WEBP images are allowed.", nil)
		}
	}
	return nil
}

func (s *SpecialistService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
