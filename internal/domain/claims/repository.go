package claims

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// ClaimFilter defines filtering options for claim list queries. Search
// matches claim number, description and claimant name case-insensitively.
type ClaimFilter struct {
	shared.ListFilter
	Status     *ClaimStatus
	ClaimType  *ClaimType
	CarrierID  *uuid.UUID
	CompanyID  *uuid.UUID
	AssignedTo *uuid.UUID
}

// ClaimRepository defines the interface for claim persistence
type ClaimRepository interface {
	// FindByIDForTenant finds a claim by ID scoped to a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Claim, error)

	// FindByClaimNumber finds a claim by its claim number for a tenant
	FindByClaimNumber(ctx context.Context, tenantID uuid.UUID, claimNumber string) (*Claim, error)

	// FindAllForTenant finds claims for a tenant with filtering and pagination
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ClaimFilter) ([]Claim, error)

	// CountForTenant counts claims for a tenant matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ClaimFilter) (int64, error)

	// Save creates or updates a claim
	Save(ctx context.Context, claim *Claim) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, claim *Claim) error

	// DeleteForTenant soft deletes a claim for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByClaimNumber checks if a claim number exists for a tenant
	ExistsByClaimNumber(ctx context.Context, tenantID uuid.UUID, claimNumber string) (bool, error)

	// ExistsForTenant checks that a live claim exists for a tenant
	ExistsForTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

// ClaimItemRepository defines the interface for claim item persistence
type ClaimItemRepository interface {
	// FindByIDForTenant finds an item by ID scoped to a tenant and claim
	FindByIDForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) (*ClaimItem, error)

	// FindByClaim lists live items for a claim, oldest first
	FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]ClaimItem, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *ClaimItem) error

	// DeleteForTenant soft deletes an item
	DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error
}

// ClaimDocumentRepository defines the interface for claim document persistence
type ClaimDocumentRepository interface {
	// FindByIDForTenant finds a document by ID scoped to a tenant and claim
	FindByIDForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) (*ClaimDocument, error)

	// FindByClaim lists live documents for a claim, newest first
	FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]ClaimDocument, error)

	// Save creates or updates a document
	Save(ctx context.Context, document *ClaimDocument) error

	// DeleteForTenant soft deletes a document
	DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error
}

// ClaimNoteRepository defines the interface for claim note persistence
type ClaimNoteRepository interface {
	// FindByClaim lists live notes for a claim, newest first
	FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]ClaimNote, error)

	// Save creates or updates a note
	Save(ctx context.Context, note *ClaimNote) error

	// DeleteForTenant soft deletes a note
	DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error
}

// ClaimAdjustmentRepository defines the interface for adjustment persistence
type ClaimAdjustmentRepository interface {
	// FindByClaim lists live adjustments for a claim, newest first
	FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]ClaimAdjustment, error)

	// Save creates an adjustment
	Save(ctx context.Context, adjustment *ClaimAdjustment) error

	// DeleteForTenant soft deletes an adjustment
	DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error
}

// SubrogationRepository defines the interface for subrogation persistence
type SubrogationRepository interface {
	// FindByIDForTenant finds a record by ID scoped to a tenant and claim
	FindByIDForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) (*SubrogationRecord, error)

	// FindByClaim lists live records for a claim, newest first
	FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]SubrogationRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *SubrogationRecord) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, record *SubrogationRecord) error

	// DeleteForTenant soft deletes a record
	DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error
}

// TimelineRepository defines the interface for the append-only audit log
type TimelineRepository interface {
	// Append stores a new timeline entry
	Append(ctx context.Context, entry *TimelineEntry) error

	// FindByClaim lists entries for a claim, newest first
	FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]TimelineEntry, error)
}
