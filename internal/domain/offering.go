package domain

import "time"

// OfferingMasterEntry is a catalog entry specialists can attach to their
// profile. StorageKey points at an optional illustration in object storage.
type OfferingMasterEntry struct {
	ID          string
	Title       string
	Description *string
	StorageKey  *string
	BucketName  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceOffering links a specialist to a master-catalog entry.
type ServiceOffering struct {
	ID            string
	SpecialistID  string
	MasterEntryID string
	MasterEntry   *OfferingMasterEntry
	CreatedAt     time.Time
}
