package claims

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ClaimService owns the claim lifecycle: creation, partial updates, filing,
// assignment, generic status transitions, soft deletion and reads.
type ClaimService struct {
	claimRepo claims.ClaimRepository
	itemRepo  claims.ClaimItemRepository
	docRepo   claims.ClaimDocumentRepository
	noteRepo  claims.ClaimNoteRepository
	timeline  *TimelineRecorder
	numbering NumberingConfig
}

// ClaimServiceOption is a functional option for configuring ClaimService
type ClaimServiceOption func(*ClaimService)

// WithNumbering overrides the claim number allocation settings
func WithNumbering(cfg NumberingConfig) ClaimServiceOption {
	return func(s *ClaimService) {
		if cfg.Prefix != "" {
			s.numbering.Prefix = cfg.Prefix
		}
		if cfg.MaxAttempts > 0 {
			s.numbering.MaxAttempts = cfg.MaxAttempts
		}
	}
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claimRepo claims.ClaimRepository,
	itemRepo claims.ClaimItemRepository,
	docRepo claims.ClaimDocumentRepository,
	noteRepo claims.ClaimNoteRepository,
	timeline *TimelineRecorder,
	opts ...ClaimServiceOption,
) *ClaimService {
	s := &ClaimService{
		claimRepo: claimRepo,
		itemRepo:  itemRepo,
		docRepo:   docRepo,
		noteRepo:  noteRepo,
		timeline:  timeline,
		numbering: DefaultNumberingConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateItemRequest is a nested item supplied at claim creation
type CreateItemRequest struct {
	Description  string           `json:"description"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	TotalValue   *decimal.Decimal `json:"total_value"`
	DamageType   string           `json:"damage_type"`
	DamageExtent string           `json:"damage_extent"`
}

// CreateClaimRequest carries the fields for opening a claim
type CreateClaimRequest struct {
	ClaimType        string              `json:"claim_type" binding:"required"`
	Description      string              `json:"description"`
	IncidentDate     *time.Time          `json:"incident_date"`
	IncidentLocation string              `json:"incident_location"`
	ClaimedAmount    decimal.Decimal     `json:"claimed_amount"`
	LoadID           *uuid.UUID          `json:"load_id"`
	OrderID          *uuid.UUID          `json:"order_id"`
	CarrierID        *uuid.UUID          `json:"carrier_id"`
	CompanyID        *uuid.UUID          `json:"company_id"`
	ClaimantName     string              `json:"claimant_name"`
	ClaimantEmail    string              `json:"claimant_email"`
	ClaimantPhone    string              `json:"claimant_phone"`
	DueDate          *time.Time          `json:"due_date"`
	Items            []CreateItemRequest `json:"items"`
}

// CreateClaim opens a new claim in DRAFT status, allocating a tenant-unique
// claim number with a bounded retry on collision. Nested items are created
// in the same operation.
func (s *ClaimService) CreateClaim(ctx context.Context, tenantID, userID uuid.UUID, req CreateClaimRequest) (*ClaimResponse, error) {
	claimNumber, err := s.allocateClaimNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	claim, err := claims.NewClaim(tenantID, userID, claims.NewClaimInput{
		ClaimNumber:      claimNumber,
		ClaimType:        claims.ClaimType(req.ClaimType),
		Description:      req.Description,
		IncidentDate:     req.IncidentDate,
		IncidentLocation: req.IncidentLocation,
		ClaimedAmount:    req.ClaimedAmount,
		LoadID:           req.LoadID,
		OrderID:          req.OrderID,
		CarrierID:        req.CarrierID,
		CompanyID:        req.CompanyID,
		ClaimantName:     req.ClaimantName,
		ClaimantEmail:    req.ClaimantEmail,
		ClaimantPhone:    req.ClaimantPhone,
		DueDate:          req.DueDate,
	})
	if err != nil {
		return nil, err
	}

	if err := s.claimRepo.Save(ctx, claim); err != nil {
		return nil, err
	}

	for _, itemReq := range req.Items {
		item, err := claims.NewClaimItem(tenantID, claim.ID, claims.NewClaimItemInput{
			Description:  itemReq.Description,
			Quantity:     itemReq.Quantity,
			UnitPrice:    itemReq.UnitPrice,
			TotalValue:   itemReq.TotalValue,
			DamageType:   itemReq.DamageType,
			DamageExtent: itemReq.DamageExtent,
		})
		if err != nil {
			return nil, err
		}
		if err := s.itemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimCreated,
		"Claim "+claim.ClaimNumber+" created", claims.Payload{
			"claim_number":   claim.ClaimNumber,
			"claim_type":     claim.ClaimType.String(),
			"claimed_amount": claim.ClaimedAmount.String(),
			"item_count":     len(req.Items),
		})

	return toClaimResponse(claim), nil
}

func (s *ClaimService) allocateClaimNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	for attempt := 0; attempt < s.numbering.MaxAttempts; attempt++ {
		candidate, err := generateClaimNumber(s.numbering.Prefix, time.Now())
		if err != nil {
			return "", err
		}
		exists, err := s.claimRepo.ExistsByClaimNumber(ctx, tenantID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		logger.FromContext(ctx).Warn("claim number collision",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt+1))
	}
	return "", shared.NewDomainError("RESOURCE_EXHAUSTED", "Could not allocate a unique claim number")
}

// ClaimListFilter defines filtering options for claim list queries
type ClaimListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	ClaimType  string     `form:"claim_type"`
	CarrierID  *uuid.UUID `form:"carrier_id"`
	CompanyID  *uuid.UUID `form:"company_id"`
	AssignedTo *uuid.UUID `form:"assigned_to"`
	SortBy     string     `form:"sort_by"`
	SortOrder  string     `form:"sort_order"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// ListClaims lists claims for a tenant with filtering and pagination
func (s *ClaimService) ListClaims(ctx context.Context, tenantID uuid.UUID, filter ClaimListFilter) ([]ClaimResponse, int64, error) {
	domainFilter := claims.ClaimFilter{
		CarrierID:  filter.CarrierID,
		CompanyID:  filter.CompanyID,
		AssignedTo: filter.AssignedTo,
	}
	domainFilter.Search = filter.Search
	domainFilter.SortBy = filter.SortBy
	domainFilter.SortOrder = filter.SortOrder
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Normalize()

	if filter.Status != "" {
		status := claims.ClaimStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.ClaimType != "" {
		claimType := claims.ClaimType(filter.ClaimType)
		domainFilter.ClaimType = &claimType
	}

	results, err := s.claimRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.claimRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClaimResponse, len(results))
	for i, c := range results {
		responses[i] = *toClaimResponse(&c)
	}
	return responses, total, nil
}

// GetClaim gets a claim by ID
func (s *ClaimService) GetClaim(ctx context.Context, tenantID, id uuid.UUID) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toClaimResponse(claim), nil
}

// GetClaimDetail gets a claim with its items, documents, notes and timeline
func (s *ClaimService) GetClaimDetail(ctx context.Context, tenantID, id uuid.UUID) (*ClaimDetailResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.FindByClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	documents, err := s.docRepo.FindByClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.FindByClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	timeline, err := s.timeline.List(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	detail := &ClaimDetailResponse{
		ClaimResponse: *toClaimResponse(claim),
		Items:         make([]ItemResponse, len(items)),
		Documents:     make([]DocumentResponse, len(documents)),
		Notes:         make([]NoteResponse, len(notes)),
		Timeline:      timeline,
	}
	for i, item := range items {
		detail.Items[i] = *toItemResponse(&item)
	}
	for i, doc := range documents {
		detail.Documents[i] = *toDocumentResponse(&doc)
	}
	for i, note := range notes {
		detail.Notes[i] = *toNoteResponse(&note)
	}
	return detail, nil
}

// UpdateClaimRequest carries a partial update. Omitted fields are left
// untouched; Clear flags explicitly detach optional relations and dates.
type UpdateClaimRequest struct {
	ClaimType         *string          `json:"claim_type"`
	Description       *string          `json:"description"`
	IncidentDate      *time.Time       `json:"incident_date"`
	ClearIncidentDate bool             `json:"clear_incident_date"`
	IncidentLocation  *string          `json:"incident_location"`
	ClaimedAmount     *decimal.Decimal `json:"claimed_amount"`
	LoadID            *uuid.UUID       `json:"load_id"`
	ClearLoadID       bool             `json:"clear_load_id"`
	OrderID           *uuid.UUID       `json:"order_id"`
	ClearOrderID      bool             `json:"clear_order_id"`
	CarrierID         *uuid.UUID       `json:"carrier_id"`
	ClearCarrierID    bool             `json:"clear_carrier_id"`
	CompanyID         *uuid.UUID       `json:"company_id"`
	ClearCompanyID    bool             `json:"clear_company_id"`
	ClaimantName      *string          `json:"claimant_name"`
	ClaimantEmail     *string          `json:"claimant_email"`
	ClaimantPhone     *string          `json:"claimant_phone"`
	DueDate           *time.Time       `json:"due_date"`
	ClearDueDate      bool             `json:"clear_due_date"`
}

// UpdateClaim applies a partial update to a claim. Closed claims reject
// updates.
func (s *ClaimService) UpdateClaim(ctx context.Context, tenantID, userID, id uuid.UUID, req UpdateClaimRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	patch := claims.ClaimPatch{
		Description:       req.Description,
		IncidentDate:      req.IncidentDate,
		ClearIncidentDate: req.ClearIncidentDate,
		IncidentLocation:  req.IncidentLocation,
		ClaimedAmount:     req.ClaimedAmount,
		LoadID:            req.LoadID,
		ClearLoadID:       req.ClearLoadID,
		OrderID:           req.OrderID,
		ClearOrderID:      req.ClearOrderID,
		CarrierID:         req.CarrierID,
		ClearCarrierID:    req.ClearCarrierID,
		CompanyID:         req.CompanyID,
		ClearCompanyID:    req.ClearCompanyID,
		ClaimantName:      req.ClaimantName,
		ClaimantEmail:     req.ClaimantEmail,
		ClaimantPhone:     req.ClaimantPhone,
		DueDate:           req.DueDate,
		ClearDueDate:      req.ClearDueDate,
	}
	if req.ClaimType != nil {
		claimType := claims.ClaimType(*req.ClaimType)
		patch.ClaimType = &claimType
	}

	changed, err := claim.ApplyPatch(patch, userID)
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		if err := s.claimRepo.Save(ctx, claim); err != nil {
			return nil, err
		}
		s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimUpdated,
			"Claim "+claim.ClaimNumber+" updated", claims.Payload{
				"changed_fields": changed,
			})
	}

	return toClaimResponse(claim), nil
}

// FileClaimRequest carries the optional dates supplied when filing
type FileClaimRequest struct {
	ReceivedDate *time.Time `json:"received_date"`
	DueDate      *time.Time `json:"due_date"`
}

// FileClaim transitions a DRAFT claim to SUBMITTED
func (s *ClaimService) FileClaim(ctx context.Context, tenantID, userID, id uuid.UUID, req FileClaimRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := claim.File(req.ReceivedDate, req.DueDate, userID); err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, claim); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimSubmitted,
		"Claim "+claim.ClaimNumber+" filed", claims.Payload{
			"received_date": claim.ReceivedDate,
		})

	return toClaimResponse(claim), nil
}

// AssignClaimRequest carries the assignee and optional due date
type AssignClaimRequest struct {
	AssignedTo uuid.UUID  `json:"assigned_to" binding:"required"`
	DueDate    *time.Time `json:"due_date"`
}

// AssignClaim sets the assignee regardless of status
func (s *ClaimService) AssignClaim(ctx context.Context, tenantID, userID, id uuid.UUID, req AssignClaimRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	claim.Assign(req.AssignedTo, req.DueDate, userID)
	if err := s.claimRepo.Save(ctx, claim); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimAssigned,
		"Claim "+claim.ClaimNumber+" assigned", claims.Payload{
			"assigned_to": req.AssignedTo.String(),
		})

	return toClaimResponse(claim), nil
}

// UpdateStatusRequest carries a generic status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatus performs a generic status transition. Closed claims cannot
// reopen into a non-closed status.
func (s *ClaimService) UpdateStatus(ctx context.Context, tenantID, userID, id uuid.UUID, req UpdateStatusRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	previous, err := claim.ChangeStatus(claims.ClaimStatus(req.Status), req.Reason, userID)
	if err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, claim); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventStatusChanged,
		"Claim "+claim.ClaimNumber+" status changed", claims.Payload{
			"previous_status": previous.String(),
			"new_status":      claim.Status.String(),
			"reason":          req.Reason,
		})

	return toClaimResponse(claim), nil
}

// DeleteClaim soft deletes a claim. Allowed from any status.
func (s *ClaimService) DeleteClaim(ctx context.Context, tenantID, userID, id uuid.UUID) error {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.claimRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimDeleted,
		"Claim "+claim.ClaimNumber+" deleted", claims.Payload{
			"status": claim.Status.String(),
		})

	return nil
}

func (s *ClaimService) findClaim(ctx context.Context, tenantID, id uuid.UUID) (*claims.Claim, error) {
	claim, err := s.claimRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Claim not found")
	}
	return claim, nil
}
