package domain

import "time"

// VerificationStatus enumerates review states for a specialist profile.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Specialist is the aggregate for a published service profile. PlatformFee
// and FinalPrice are derived from BasePrice via the tier table whenever the
// base price is set or changed.
type Specialist struct {
	ID                 string
	Title              string
	Slug               string
	Description        string
	BasePrice          float64
	PlatformFee        float64
	FinalPrice         float64
	DurationDays       int
	IsDraft            bool
	VerificationStatus VerificationStatus
	IsVerified         bool
	Offerings          []ServiceOffering
	Media              []Media
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}
