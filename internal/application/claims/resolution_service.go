package claims

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ResolutionService owns the approve/deny/pay/close workflow, the
// investigation fields and the adjustment sub-ledger.
type ResolutionService struct {
	claimRepo      claims.ClaimRepository
	adjustmentRepo claims.ClaimAdjustmentRepository
	timeline       *TimelineRecorder
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
}

// ResolutionServiceOption is a functional option for configuring ResolutionService
type ResolutionServiceOption func(*ResolutionService)

// WithIdempotencyStore enables duplicate-payment protection for retried calls
func WithIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) ResolutionServiceOption {
	return func(s *ResolutionService) {
		s.idempotency = store
		s.idempotencyCfg = cfg
	}
}

// NewResolutionService creates a new ResolutionService
func NewResolutionService(
	claimRepo claims.ClaimRepository,
	adjustmentRepo claims.ClaimAdjustmentRepository,
	timeline *TimelineRecorder,
	opts ...ResolutionServiceOption,
) *ResolutionService {
	s := &ResolutionService{
		claimRepo:      claimRepo,
		adjustmentRepo: adjustmentRepo,
		timeline:       timeline,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApproveClaimRequest carries the approval payload
type ApproveClaimRequest struct {
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Disposition    *string         `json:"disposition"`
}

// ApproveClaim approves a claim for payment. Rejected on a closed claim.
func (s *ResolutionService) ApproveClaim(ctx context.Context, tenantID, userID, id uuid.UUID, req ApproveClaimRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	previous, err := claim.Approve(req.ApprovedAmount, toDisposition(req.Disposition), userID)
	if err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, claim); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimApproved,
		"Claim "+claim.ClaimNumber+" approved", claims.Payload{
			"previous_status": previous.String(),
			"new_status":      claim.Status.String(),
			"approved_amount": req.ApprovedAmount.String(),
		})

	return toClaimResponse(claim), nil
}

// DenyClaimRequest carries the denial payload
type DenyClaimRequest struct {
	Reason      string  `json:"reason"`
	Disposition *string `json:"disposition"`
}

// DenyClaim denies a claim and stamps the closed date. Denial carries no
// closed-state guard.
func (s *ResolutionService) DenyClaim(ctx context.Context, tenantID, userID, id uuid.UUID, req DenyClaimRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	previous, err := claim.Deny(req.Reason, toDisposition(req.Disposition), userID)
	if err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, claim); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimDenied,
		"Claim "+claim.ClaimNumber+" denied", claims.Payload{
			"previous_status": previous.String(),
			"reason":          req.Reason,
		})

	return toClaimResponse(claim), nil
}

// PayClaimRequest carries a payment increment. The idempotency key, when
// supplied by a retrying caller, deduplicates at-least-once deliveries.
type PayClaimRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// PayClaim accumulates a payment into the claim's paid amount, auto-closing
// when the approved ceiling is reached. The write uses the optimistic
// version check so concurrent payments cannot both apply against the same
// stale balance.
func (s *ResolutionService) PayClaim(ctx context.Context, tenantID, userID, id uuid.UUID, req PayClaimRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var marked string
	if req.IdempotencyKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled {
		key := fmt.Sprintf("claims:pay:%s:%s:%s", tenantID, id, req.IdempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyCfg.TTL)
		if err != nil {
			logger.FromContext(ctx).Warn("idempotency check failed, proceeding",
				zap.String("key", key), zap.Error(err))
		} else if !fresh {
			logger.FromContext(ctx).Info("duplicate payment suppressed",
				zap.String("claim_id", id.String()),
				zap.String("idempotency_key", req.IdempotencyKey))
			return toClaimResponse(claim), nil
		} else {
			marked = key
		}
	}

	autoClosed, err := claim.Pay(req.Amount, userID)
	if err != nil {
		s.releaseIdempotencyKey(ctx, marked)
		return nil, err
	}
	if err := s.claimRepo.SaveWithLock(ctx, claim); err != nil {
		// The payment never landed; release the key so a retry with the
		// same key is not suppressed as a duplicate.
		s.releaseIdempotencyKey(ctx, marked)
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimPaid,
		"Payment recorded on claim "+claim.ClaimNumber, claims.Payload{
			"amount":      req.Amount.String(),
			"paid_total":  claim.PaidAmount.String(),
			"auto_closed": autoClosed,
		})
	if autoClosed {
		s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimClosed,
			"Claim "+claim.ClaimNumber+" closed automatically on full payment", claims.Payload{
				"paid_total": claim.PaidAmount.String(),
			})
	}

	return toClaimResponse(claim), nil
}

// CloseClaimRequest carries the optional closure reason
type CloseClaimRequest struct {
	Reason string `json:"reason"`
}

// CloseClaim closes a claim unconditionally; closing an already-closed
// claim succeeds and re-stamps the closed date.
func (s *ResolutionService) CloseClaim(ctx context.Context, tenantID, userID, id uuid.UUID, req CloseClaimRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	previous := claim.Close(req.Reason, userID)
	if err := s.claimRepo.Save(ctx, claim); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventClaimClosed,
		"Claim "+claim.ClaimNumber+" closed", claims.Payload{
			"previous_status": previous.String(),
			"reason":          req.Reason,
		})

	return toClaimResponse(claim), nil
}

// UpdateInvestigationRequest carries a partial update to the investigation fields
type UpdateInvestigationRequest struct {
	InvestigationNotes *string `json:"investigation_notes"`
	RootCause          *string `json:"root_cause"`
	PreventionNotes    *string `json:"prevention_notes"`
}

// UpdateInvestigation patches the investigation fields. No status guard.
func (s *ResolutionService) UpdateInvestigation(ctx context.Context, tenantID, userID, id uuid.UUID, req UpdateInvestigationRequest) (*ClaimResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	changed := claim.UpdateInvestigation(claims.InvestigationPatch{
		InvestigationNotes: req.InvestigationNotes,
		RootCause:          req.RootCause,
		PreventionNotes:    req.PreventionNotes,
	}, userID)

	if len(changed) > 0 {
		if err := s.claimRepo.Save(ctx, claim); err != nil {
			return nil, err
		}
		s.timeline.Record(ctx, tenantID, claim.ID, &userID, claims.EventInvestigationUpdated,
			"Investigation updated on claim "+claim.ClaimNumber, claims.Payload{
				"changed_fields": changed,
			})
	}

	return toClaimResponse(claim), nil
}

// ListAdjustments lists live adjustments for a claim, newest first
func (s *ResolutionService) ListAdjustments(ctx context.Context, tenantID, claimID uuid.UUID) ([]AdjustmentResponse, error) {
	if _, err := s.findClaim(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	adjustments, err := s.adjustmentRepo.FindByClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}
	responses := make([]AdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		responses[i] = *toAdjustmentResponse(&a)
	}
	return responses, nil
}

// AddAdjustmentRequest carries a manual financial correction
type AddAdjustmentRequest struct {
	AdjustmentType string          `json:"adjustment_type" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
}

// AddAdjustment records an adjustment against a claim. Adjustments never
// mutate the claim's own amount fields.
func (s *ResolutionService) AddAdjustment(ctx context.Context, tenantID, userID, claimID uuid.UUID, req AddAdjustmentRequest) (*AdjustmentResponse, error) {
	claim, err := s.findClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}

	adjustment, err := claims.NewClaimAdjustment(tenantID, claimID, req.AdjustmentType, req.Amount, req.Reason, &userID)
	if err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventAdjustmentAdded,
		"Adjustment added to claim "+claim.ClaimNumber, claims.Payload{
			"adjustment_id":   adjustment.ID.String(),
			"adjustment_type": req.AdjustmentType,
			"amount":          req.Amount.String(),
		})

	return toAdjustmentResponse(adjustment), nil
}

// RemoveAdjustment soft deletes an adjustment
func (s *ResolutionService) RemoveAdjustment(ctx context.Context, tenantID, userID, claimID, adjustmentID uuid.UUID) error {
	claim, err := s.findClaim(ctx, tenantID, claimID)
	if err != nil {
		return err
	}

	if err := s.adjustmentRepo.DeleteForTenant(ctx, tenantID, claimID, adjustmentID); err != nil {
		return err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventAdjustmentRemoved,
		"Adjustment removed from claim "+claim.ClaimNumber, claims.Payload{
			"adjustment_id": adjustmentID.String(),
		})

	return nil
}

// releaseIdempotencyKey rolls back a freshly marked key after a failed
// write. Best effort: on release failure the key stays burned until its TTL
// expires, which is logged.
func (s *ResolutionService) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Unmark(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("failed to release idempotency key",
			zap.String("key", key), zap.Error(err))
	}
}

func (s *ResolutionService) findClaim(ctx context.Context, tenantID, id uuid.UUID) (*claims.Claim, error) {
	claim, err := s.claimRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Claim not found")
	}
	return claim, nil
}

func toDisposition(value *string) *claims.Disposition {
	if value == nil {
		return nil
	}
	disposition := claims.Disposition(*value)
	return &disposition
}
