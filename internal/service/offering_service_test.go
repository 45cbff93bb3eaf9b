package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

func newTestOfferingService(catalog *catalogRepoMock, store *fakeStore) *OfferingService {
	if catalog == nil {
		catalog = &catalogRepoMock{}
	}
	if store == nil {
		store = &fakeStore{}
	}
	return NewOfferingService(catalog, store, zap.NewNop())
}

func TestOfferingCreateWithIllustration(t *testing.T) {
	store := &fakeStore{}
	var created *domain.OfferingMasterEntry
	catalog := &catalogRepoMock{
		createFn: func(_ context.Context, entry *domain.OfferingMasterEntry) error {
			entry.ID = "entry-1"
			created = entry
			return nil
		},
	}
	svc := newTestOfferingService(catalog, store)

	entry, err := svc.Create(context.Background(), OfferingInput{
		Title: "Tax Filing",
		File: &UploadFile{
			Filename:    "icon.png",
			ContentType: "image/png",
			Body:        strings.NewReader("png"),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	require.NotNil(t, created.StorageKey)
	require.NotNil(t, entry.SecureURL)
	assert.Contains(t, *entry.SecureURL, "icon.png")
	assert.Len(t, store.uploaded, 1)
}

func TestOfferingCreateCleansUpUploadOnRowFailure(t *testing.T) {
	store := &fakeStore{}
	catalog := &catalogRepoMock{
		createFn: func(_ context.Context, _ *domain.OfferingMasterEntry) error {
			return errors.New("insert failed")
		},
	}
	svc := newTestOfferingService(catalog, store)

	_, err := svc.Create(context.Background(), OfferingInput{
		Title: "Tax Filing",
		File: &UploadFile{
			Filename:    "icon.png",
			ContentType: "image/png",
			Body:        strings.NewReader("png"),
		},
	})
	require.Error(t, err)
	assert.Len(t, store.deleted, 1)
}

func TestOfferingCreateRejectsUnsupportedFile(t *testing.T) {
	svc := newTestOfferingService(nil, nil)

	_, err := svc.Create(context.Background(), OfferingInput{
		Title: "Tax Filing",
		File: &UploadFile{
			Filename:    "icon.svg",
			ContentType: "image/svg+xml",
			Body:        strings.NewReader("svg"),
		},
	})
	require.Error(t, err)
	assert.Equal(t, "Unsupported file type. Only PNG, JPEG, and WEBP images are allowed.", apperrors.ToDomainError(err).Message)
}

func TestOfferingGetByIDNotFound(t *testing.T) {
	svc := newTestOfferingService(nil, nil)

	_, err := svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "Service offering master list not found", domainErr.Message)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestOfferingUpdateReplacesIllustration(t *testing.T) {
	store := &fakeStore{}
	oldKey := "service-offerings/old.png"
	catalog := &catalogRepoMock{
		getByIDFn: func(_ context.Context, _ string) (*domain.OfferingMasterEntry, error) {
			return &domain.OfferingMasterEntry{ID: "entry-1", Title: "Tax Filing", StorageKey: &oldKey}, nil
		},
	}
	svc := newTestOfferingService(catalog, store)

	entry, err := svc.Update(context.Background(), "entry-1", OfferingInput{
		File: &UploadFile{
			Filename:    "new.png",
			ContentType: "image/png",
			Body:        strings.NewReader("png"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{oldKey}, store.deleted)
	require.NotNil(t, entry.StorageKey)
	assert.Contains(t, *entry.StorageKey, "new.png")
	// Title untouched when not provided.
	assert.Equal(t, "Tax Filing", entry.Title)
}

func TestOfferingDeleteRemovesStoredObject(t *testing.T) {
	store := &fakeStore{}
	key := "service-offerings/icon.png"
	catalog := &catalogRepoMock{
		getByIDFn: func(_ context.Context, _ string) (*domain.OfferingMasterEntry, error) {
			return &domain.OfferingMasterEntry{ID: "entry-1", StorageKey: &key}, nil
		},
	}
	svc := newTestOfferingService(catalog, store)

	entry, err := svc.Delete(context.Background(), "entry-1")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, store.deleted)
	assert.Equal(t, "entry-1", entry.ID)
}

func TestOfferingListDerivesURLs(t *testing.T) {
	key := "service-offerings/icon.png"
	catalog := &catalogRepoMock{
		listEntsFn: func(_ context.Context) ([]domain.OfferingMasterEntry, error) {
			return []domain.OfferingMasterEntry{
				{ID: "entry-1", StorageKey: &key},
				{ID: "entry-2"},
			}, nil
		},
	}
	svc := newTestOfferingService(catalog, nil)

	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].SecureURL)
	assert.Equal(t, "https://cdn.example.com/"+key, *entries[0].SecureURL)
	assert.Nil(t, entries[1].SecureURL)
}
