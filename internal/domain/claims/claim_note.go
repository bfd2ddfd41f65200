package claims

import (
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// ClaimNote is a free-text note attached to a claim. Internal notes are
// hidden from external parties; visibility defaults to external.
type ClaimNote struct {
	shared.TenantEntity
	ClaimID    uuid.UUID  `json:"claim_id"`
	NoteText   string     `json:"note_text"`
	NoteType   string     `json:"note_type"`
	IsInternal bool       `json:"is_internal"`
	AuthorID   *uuid.UUID `json:"author_id"`
}

// NewClaimNote attaches a note to a claim
func NewClaimNote(tenantID, claimID uuid.UUID, text, noteType string, isInternal bool, authorID *uuid.UUID) (*ClaimNote, error) {
	if text == "" {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note text cannot be empty")
	}

	return &ClaimNote{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ClaimID:      claimID,
		NoteText:     text,
		NoteType:     noteType,
		IsInternal:   isInternal,
		AuthorID:     authorID,
	}, nil
}
