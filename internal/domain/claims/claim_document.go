package claims

import (
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// ClaimDocument references an externally stored file attached to a claim.
// The storage key identifies the object in the document store; the register
// itself never holds file content.
type ClaimDocument struct {
	shared.TenantEntity
	ClaimID      uuid.UUID  `json:"claim_id"`
	DocumentType string     `json:"document_type"`
	StorageKey   string     `json:"storage_key"`
	FileName     string     `json:"file_name"`
	ContentType  string     `json:"content_type"`
	FileSize     int64      `json:"file_size"`
	Description  string     `json:"description"`
	UploadedBy   *uuid.UUID `json:"uploaded_by"`
}

// NewClaimDocumentInput carries the fields for attaching a document
type NewClaimDocumentInput struct {
	DocumentType string
	StorageKey   string
	FileName     string
	ContentType  string
	FileSize     int64
	Description  string
	UploadedBy   *uuid.UUID
}

// NewClaimDocument attaches a document reference to a claim
func NewClaimDocument(tenantID, claimID uuid.UUID, input NewClaimDocumentInput) (*ClaimDocument, error) {
	if input.StorageKey == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document storage key cannot be empty")
	}
	if input.FileSize < 0 {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "File size cannot be negative")
	}

	return &ClaimDocument{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ClaimID:      claimID,
		DocumentType: input.DocumentType,
		StorageKey:   input.StorageKey,
		FileName:     input.FileName,
		ContentType:  input.ContentType,
		FileSize:     input.FileSize,
		Description:  input.Description,
		UploadedBy:   input.UploadedBy,
	}, nil
}
