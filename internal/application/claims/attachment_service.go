package claims

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ObjectStorageService defines the interface for object storage operations
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	// UploadURLExpiry is the duration for which upload URLs are valid
	UploadURLExpiry time.Duration
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// AttachmentService owns the item, document and note registers. Every
// operation first confirms the parent claim exists and is live.
type AttachmentService struct {
	claimRepo claims.ClaimRepository
	itemRepo  claims.ClaimItemRepository
	docRepo   claims.ClaimDocumentRepository
	noteRepo  claims.ClaimNoteRepository
	timeline  *TimelineRecorder
	storage   ObjectStorageService
	config    AttachmentServiceConfig
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	claimRepo claims.ClaimRepository,
	itemRepo claims.ClaimItemRepository,
	docRepo claims.ClaimDocumentRepository,
	noteRepo claims.ClaimNoteRepository,
	timeline *TimelineRecorder,
	storage ObjectStorageService,
	config AttachmentServiceConfig,
) *AttachmentService {
	return &AttachmentService{
		claimRepo: claimRepo,
		itemRepo:  itemRepo,
		docRepo:   docRepo,
		noteRepo:  noteRepo,
		timeline:  timeline,
		storage:   storage,
		config:    config,
	}
}

// ===================== Items =====================

// ListItems lists live items for a claim, oldest first
func (s *AttachmentService) ListItems(ctx context.Context, tenantID, claimID uuid.UUID) ([]ItemResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindByClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = *toItemResponse(&item)
	}
	return responses, nil
}

// GetItem gets one claim item
func (s *AttachmentService) GetItem(ctx context.Context, tenantID, claimID, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.findItem(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// AddItem attaches a line item to a claim
func (s *AttachmentService) AddItem(ctx context.Context, tenantID, userID, claimID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	item, err := claims.NewClaimItem(tenantID, claimID, claims.NewClaimItemInput{
		Description:  req.Description,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		TotalValue:   req.TotalValue,
		DamageType:   req.DamageType,
		DamageExtent: req.DamageExtent,
	})
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventItemAdded,
		"Item added to claim", claims.Payload{
			"item_id":     item.ID.String(),
			"total_value": item.TotalValue.String(),
		})

	return toItemResponse(item), nil
}

// UpdateItemRequest carries a partial update to a claim item
type UpdateItemRequest struct {
	Description  *string          `json:"description"`
	Quantity     *decimal.Decimal `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	TotalValue   *decimal.Decimal `json:"total_value"`
	DamageType   *string          `json:"damage_type"`
	DamageExtent *string          `json:"damage_extent"`
}

// UpdateItem applies a partial update to an item, rederiving the total
// value from the effective quantity and unit price when appropriate
func (s *AttachmentService) UpdateItem(ctx context.Context, tenantID, userID, claimID, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.findItem(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}

	changed, err := item.ApplyPatch(claims.ItemPatch{
		Description:  req.Description,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		TotalValue:   req.TotalValue,
		DamageType:   req.DamageType,
		DamageExtent: req.DamageExtent,
	})
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		if err := s.itemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
		s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventItemUpdated,
			"Item updated", claims.Payload{
				"item_id":        item.ID.String(),
				"changed_fields": changed,
			})
	}

	return toItemResponse(item), nil
}

// RemoveItem soft deletes an item
func (s *AttachmentService) RemoveItem(ctx context.Context, tenantID, userID, claimID, id uuid.UUID) error {
	if _, err := s.findItem(ctx, tenantID, claimID, id); err != nil {
		return err
	}

	if err := s.itemRepo.DeleteForTenant(ctx, tenantID, claimID, id); err != nil {
		return err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventItemRemoved,
		"Item removed", claims.Payload{
			"item_id": id.String(),
		})

	return nil
}

// ===================== Documents =====================

// ListDocuments lists live documents for a claim, newest first
func (s *AttachmentService) ListDocuments(ctx context.Context, tenantID, claimID uuid.UUID) ([]DocumentResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	documents, err := s.docRepo.FindByClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}
	responses := make([]DocumentResponse, len(documents))
	for i, doc := range documents {
		responses[i] = *toDocumentResponse(&doc)
	}
	return responses, nil
}

// AddDocumentRequest carries the fields for attaching a document
type AddDocumentRequest struct {
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name" binding:"required"`
	ContentType  string `json:"content_type"`
	FileSize     int64  `json:"file_size"`
	Description  string `json:"description"`
}

// AddDocumentResponse returns the document register row plus a presigned
// upload URL for the client to push the file content
type AddDocumentResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// AddDocument registers a document reference and issues a presigned upload URL
func (s *AttachmentService) AddDocument(ctx context.Context, tenantID, userID, claimID uuid.UUID, req AddDocumentRequest) (*AddDocumentResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("tenants/%s/claims/%s/documents/%s/%s",
		tenantID, claimID, uuid.New(), req.FileName)

	document, err := claims.NewClaimDocument(tenantID, claimID, claims.NewClaimDocumentInput{
		DocumentType: req.DocumentType,
		StorageKey:   storageKey,
		FileName:     req.FileName,
		ContentType:  req.ContentType,
		FileSize:     req.FileSize,
		Description:  req.Description,
		UploadedBy:   &userID,
	})
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	if err := s.docRepo.Save(ctx, document); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventDocumentAdded,
		"Document attached", claims.Payload{
			"document_id":   document.ID.String(),
			"document_type": req.DocumentType,
			"file_name":     req.FileName,
		})

	return &AddDocumentResponse{
		Document:  *toDocumentResponse(document),
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// GetDocument gets one document with a presigned download URL
func (s *AttachmentService) GetDocument(ctx context.Context, tenantID, claimID, id uuid.UUID) (*DocumentResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	document, err := s.docRepo.FindByIDForTenant(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Document not found")
	}

	resp := toDocumentResponse(document)
	downloadURL, _, err := s.storage.GenerateDownloadURL(ctx, document.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to generate download URL",
			zap.String("storage_key", document.StorageKey),
			zap.Error(err))
	} else {
		resp.DownloadURL = downloadURL
	}
	return resp, nil
}

// RemoveDocument soft deletes a document reference. The stored object is
// removed best-effort; the register row is the source of truth.
func (s *AttachmentService) RemoveDocument(ctx context.Context, tenantID, userID, claimID, id uuid.UUID) error {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return err
	}

	document, err := s.docRepo.FindByIDForTenant(ctx, tenantID, claimID, id)
	if err != nil {
		return err
	}
	if document == nil {
		return shared.NewDomainError("NOT_FOUND", "Document not found")
	}

	if err := s.docRepo.DeleteForTenant(ctx, tenantID, claimID, id); err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, document.StorageKey); err != nil {
		logger.FromContext(ctx).Warn("failed to delete stored object",
			zap.String("storage_key", document.StorageKey),
			zap.Error(err))
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventDocumentRemoved,
		"Document removed", claims.Payload{
			"document_id": id.String(),
			"file_name":   document.FileName,
		})

	return nil
}

// ===================== Notes =====================

// ListNotes lists live notes for a claim, newest first
func (s *AttachmentService) ListNotes(ctx context.Context, tenantID, claimID uuid.UUID) ([]NoteResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.FindByClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = *toNoteResponse(&note)
	}
	return responses, nil
}

// AddNoteRequest carries the fields for attaching a note
type AddNoteRequest struct {
	NoteText   string `json:"note_text" binding:"required"`
	NoteType   string `json:"note_type"`
	IsInternal *bool  `json:"is_internal"`
}

// AddNote attaches a note to a claim. Visibility defaults to external.
func (s *AttachmentService) AddNote(ctx context.Context, tenantID, userID, claimID uuid.UUID, req AddNoteRequest) (*NoteResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	isInternal := false
	if req.IsInternal != nil {
		isInternal = *req.IsInternal
	}

	note, err := claims.NewClaimNote(tenantID, claimID, req.NoteText, req.NoteType, isInternal, &userID)
	if err != nil {
		return nil, err
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventNoteAdded,
		"Note added", claims.Payload{
			"note_id":     note.ID.String(),
			"is_internal": note.IsInternal,
		})

	return toNoteResponse(note), nil
}

// RemoveNote soft deletes a note
func (s *AttachmentService) RemoveNote(ctx context.Context, tenantID, userID, claimID, id uuid.UUID) error {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return err
	}

	if err := s.noteRepo.DeleteForTenant(ctx, tenantID, claimID, id); err != nil {
		return err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventNoteRemoved,
		"Note removed", claims.Payload{
			"note_id": id.String(),
		})

	return nil
}

func (s *AttachmentService) ensureClaimExists(ctx context.Context, tenantID, claimID uuid.UUID) error {
	exists, err := s.claimRepo.ExistsForTenant(ctx, tenantID, claimID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("NOT_FOUND", "Claim not found")
	}
	return nil
}

func (s *AttachmentService) findItem(ctx context.Context, tenantID, claimID, id uuid.UUID) (*claims.ClaimItem, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Claim item not found")
	}
	return item, nil
}
