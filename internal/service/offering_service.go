package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
	"github.com/spec-kit/specialist-marketplace/internal/repository"
	"github.com/spec-kit/specialist-marketplace/internal/storage"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

const offeringMediaFolder = "service-offerings"

// OfferingInput carries catalog entry fields plus an optional illustration.
type OfferingInput struct {
	Title       string
	Description *string
	File        *UploadFile
}

// OfferingEntry is a catalog entry enriched with its public image URL.
type OfferingEntry struct {
	domain.OfferingMasterEntry
	SecureURL *string
}

// OfferingService manages the service-offerings master catalog.
type OfferingService struct {
	catalog repository.OfferingMasterRepository
	store   storage.ObjectStore
	logger  *zap.Logger
}

// NewOfferingService constructs the service.
func NewOfferingService(catalog repository.OfferingMasterRepository, store storage.ObjectStore, logger *zap.Logger) *OfferingService {
	return &OfferingService{catalog: catalog, store: store, logger: logger}
}

// Create stores the optional illustration first, then the catalog row. If
// the row insert fails the uploaded object is removed again.
func (s *OfferingService) Create(ctx context.Context, input OfferingInput) (*OfferingEntry, error) {
	entry := &domain.OfferingMasterEntry{
		Title:       input.Title,
		Description: input.Description,
		BucketName:  offeringMediaFolder,
	}

	var publicURL string
	if input.File != nil {
		key, url, err := s.uploadFile(ctx, *input.File)
		if err != nil {
			return nil, err
		}
		entry.StorageKey = &key
		publicURL = url
	}

	if err := s.catalog.Create(ctx, entry); err != nil {
		if entry.StorageKey != nil {
			if cleanupErr := s.store.Delete(ctx, *entry.StorageKey); cleanupErr != nil {
				s.logger.Warn("failed to delete uploaded file after DB error",
					zap.String("key", *entry.StorageKey), zap.Error(cleanupErr))
			}
		}
		return nil, err
	}

	result := &OfferingEntry{OfferingMasterEntry: *entry}
	if publicURL != "" {
		result.SecureURL = &publicURL
	}
	return result, nil
}

// List returns the catalog newest first with derived image URLs.
func (s *OfferingService) List(ctx context.Context) ([]OfferingEntry, error) {
	entries, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]OfferingEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, s.withURL(entry))
	}
	return result, nil
}

// GetByID fetches one catalog entry.
func (s *OfferingService) GetByID(ctx context.Context, id string) (*OfferingEntry, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Service offering master list not found")
		}
		return nil, err
	}
	enriched := s.withURL(*entry)
	return &enriched, nil
}

// Update applies field changes and optionally replaces the illustration.
// The previous object is deleted best-effort.
func (s *OfferingService) Update(ctx context.Context, id string, input OfferingInput) (*OfferingEntry, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Service offering master list not found")
		}
		return nil, err
	}

	if input.Title != "" {
		entry.Title = input.Title
	}
	if input.Description != nil {
		entry.Description = input.Description
	}

	if input.File != nil {
		key, _, err := s.uploadFile(ctx, *input.File)
		if err != nil {
			return nil, err
		}
		if entry.StorageKey != nil {
			if delErr := s.store.Delete(ctx, *entry.StorageKey); delErr != nil {
				s.logger.Warn("failed to delete old file",
					zap.String("key", *entry.StorageKey), zap.Error(delErr))
			}
		}
		entry.StorageKey = &key
	}

	if err := s.catalog.Update(ctx, entry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Service offering master list not found")
		}
		return nil, err
	}

	enriched := s.withURL(*entry)
	return &enriched, nil
}

// Delete removes the entry and its stored object best-effort.
func (s *OfferingService) Delete(ctx context.Context, id string) (*OfferingEntry, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Service offering master list not found")
		}
		return nil, err
	}

	if entry.StorageKey != nil {
		if delErr := s.store.Delete(ctx, *entry.StorageKey); delErr != nil {
			s.logger.Warn("failed to delete file",
				zap.String("key", *entry.StorageKey), zap.Error(delErr))
		}
	}

	if err := s.catalog.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("Service offering master list not found")
		}
		return nil, err
	}

	enriched := s.withURL(*entry)
	return &enriched, nil
}

func (s *OfferingService) uploadFile(ctx context.Context, file UploadFile) (string, string, error) {
	if _, ok := domain.MimeTypeFromContentType(file.ContentType); !ok {
		return "", "", apperrors.NewValidationError(
			"Unsupported file type. Only PNG, JPEG, and WEBP images are allowed.", nil)
	}
	key, url, err := s.store.Upload(ctx, offeringMediaFolder, file.Filename, file.ContentType, file.Body)
	if err != nil {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("File upload failed: %v", err), nil)
	}
	return key, url, nil
}

func (s *OfferingService) withURL(entry domain.OfferingMasterEntry) OfferingEntry {
	result := OfferingEntry{OfferingMasterEntry: entry}
	if entry.StorageKey != nil {
		url := s.store.PublicURL(*entry.StorageKey)
		result.SecureURL = &url
	}
	return result
}
