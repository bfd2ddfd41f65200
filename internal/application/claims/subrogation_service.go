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

// SubrogationService owns the third-party recovery ledger attached to a
// claim. It touches the parent claim only to confirm it exists.
type SubrogationService struct {
	claimRepo       claims.ClaimRepository
	subrogationRepo claims.SubrogationRepository
	timeline        *TimelineRecorder
	idempotency     shared.IdempotencyStore
	idempotencyCfg  shared.IdempotencyConfig
}

// SubrogationServiceOption is a functional option for configuring SubrogationService
type SubrogationServiceOption func(*SubrogationService)

// WithRecoveryIdempotencyStore enables duplicate-recovery protection
func WithRecoveryIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) SubrogationServiceOption {
	return func(s *SubrogationService) {
		s.idempotency = store
		s.idempotencyCfg = cfg
	}
}

// NewSubrogationService creates a new SubrogationService
func NewSubrogationService(
	claimRepo claims.ClaimRepository,
	subrogationRepo claims.SubrogationRepository,
	timeline *TimelineRecorder,
	opts ...SubrogationServiceOption,
) *SubrogationService {
	s := &SubrogationService{
		claimRepo:       claimRepo,
		subrogationRepo: subrogationRepo,
		timeline:        timeline,
		idempotencyCfg:  shared.DefaultIdempotencyConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListSubrogations lists live subrogation records for a claim, newest first
func (s *SubrogationService) ListSubrogations(ctx context.Context, tenantID, claimID uuid.UUID) ([]SubrogationResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	records, err := s.subrogationRepo.FindByClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}
	responses := make([]SubrogationResponse, len(records))
	for i, r := range records {
		responses[i] = *toSubrogationResponse(&r)
	}
	return responses, nil
}

// GetSubrogation gets one subrogation record
func (s *SubrogationService) GetSubrogation(ctx context.Context, tenantID, claimID, id uuid.UUID) (*SubrogationResponse, error) {
	record, err := s.findRecord(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}
	return toSubrogationResponse(record), nil
}

// CreateSubrogationRequest carries the fields for opening a recovery record
type CreateSubrogationRequest struct {
	PartyName       string           `json:"party_name" binding:"required"`
	PartyType       string           `json:"party_type" binding:"required"`
	Status          *string          `json:"status"`
	AmountSought    decimal.Decimal  `json:"amount_sought"`
	AmountRecovered *decimal.Decimal `json:"amount_recovered"`
	AttorneyName    string           `json:"attorney_name"`
	CaseNumber      string           `json:"case_number"`
	FilingDate      *time.Time       `json:"filing_date"`
	Notes           string           `json:"notes"`
}

// CreateSubrogation opens a recovery record against a third party. Status
// defaults to PENDING and the recovered amount to zero.
func (s *SubrogationService) CreateSubrogation(ctx context.Context, tenantID, userID, claimID uuid.UUID, req CreateSubrogationRequest) (*SubrogationResponse, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}

	input := claims.NewSubrogationInput{
		PartyName:       req.PartyName,
		PartyType:       claims.PartyType(req.PartyType),
		AmountSought:    req.AmountSought,
		AmountRecovered: req.AmountRecovered,
		AttorneyName:    req.AttorneyName,
		CaseNumber:      req.CaseNumber,
		FilingDate:      req.FilingDate,
		Notes:           req.Notes,
	}
	if req.Status != nil {
		status := claims.SubrogationStatus(*req.Status)
		input.Status = &status
	}

	record, err := claims.NewSubrogationRecord(tenantID, claimID, userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.subrogationRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventSubrogationCreated,
		"Subrogation opened against "+record.PartyName, claims.Payload{
			"subrogation_id": record.ID.String(),
			"party_type":     record.PartyType.String(),
			"amount_sought":  record.AmountSought.String(),
		})

	return toSubrogationResponse(record), nil
}

// UpdateSubrogationRequest carries a partial update. Clear flags detach the
// corresponding optional field, distinct from omitting it.
type UpdateSubrogationRequest struct {
	PartyName             *string          `json:"party_name"`
	PartyType             *string          `json:"party_type"`
	Status                *string          `json:"status"`
	AmountSought          *decimal.Decimal `json:"amount_sought"`
	SettlementAmount      *decimal.Decimal `json:"settlement_amount"`
	ClearSettlementAmount bool             `json:"clear_settlement_amount"`
	AttorneyName          *string          `json:"attorney_name"`
	CaseNumber            *string          `json:"case_number"`
	FilingDate            *time.Time       `json:"filing_date"`
	ClearFilingDate       bool             `json:"clear_filing_date"`
	SettlementDate        *time.Time       `json:"settlement_date"`
	ClearSettlementDate   bool             `json:"clear_settlement_date"`
	ClosedDate            *time.Time       `json:"closed_date"`
	ClearClosedDate       bool             `json:"clear_closed_date"`
	ClosureReason         *string          `json:"closure_reason"`
	Notes                 *string          `json:"notes"`
}

// UpdateSubrogation applies a partial update. Closed records are frozen.
func (s *SubrogationService) UpdateSubrogation(ctx context.Context, tenantID, userID, claimID, id uuid.UUID, req UpdateSubrogationRequest) (*SubrogationResponse, error) {
	record, err := s.findRecord(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}

	patch := claims.SubrogationPatch{
		PartyName:             req.PartyName,
		AmountSought:          req.AmountSought,
		SettlementAmount:      req.SettlementAmount,
		ClearSettlementAmount: req.ClearSettlementAmount,
		AttorneyName:          req.AttorneyName,
		CaseNumber:            req.CaseNumber,
		FilingDate:            req.FilingDate,
		ClearFilingDate:       req.ClearFilingDate,
		SettlementDate:        req.SettlementDate,
		ClearSettlementDate:   req.ClearSettlementDate,
		ClosedDate:            req.ClosedDate,
		ClearClosedDate:       req.ClearClosedDate,
		ClosureReason:         req.ClosureReason,
		Notes:                 req.Notes,
	}
	if req.PartyType != nil {
		partyType := claims.PartyType(*req.PartyType)
		patch.PartyType = &partyType
	}
	if req.Status != nil {
		status := claims.SubrogationStatus(*req.Status)
		patch.Status = &status
	}

	changed, err := record.ApplyPatch(patch, userID)
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		if err := s.subrogationRepo.Save(ctx, record); err != nil {
			return nil, err
		}
		s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventSubrogationUpdated,
			"Subrogation against "+record.PartyName+" updated", claims.Payload{
				"subrogation_id": record.ID.String(),
				"changed_fields": changed,
			})
	}

	return toSubrogationResponse(record), nil
}

// RecoverRequest carries a recovery increment
type RecoverRequest struct {
	Amount           decimal.Decimal  `json:"amount"`
	SettlementAmount *decimal.Decimal `json:"settlement_amount"`
	SettlementDate   *time.Time       `json:"settlement_date"`
	IdempotencyKey   string           `json:"idempotency_key"`
}

// RecordRecovery accumulates a recovery into the record, flipping it to
// RECOVERED at the sought ceiling. The write uses the optimistic version
// check against concurrent recoveries.
func (s *SubrogationService) RecordRecovery(ctx context.Context, tenantID, userID, claimID, id uuid.UUID, req RecoverRequest) (*SubrogationResponse, error) {
	record, err := s.findRecord(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}

	var marked string
	if req.IdempotencyKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled {
		key := fmt.Sprintf("claims:recover:%s:%s:%s", tenantID, id, req.IdempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyCfg.TTL)
		if err != nil {
			logger.FromContext(ctx).Warn("idempotency check failed, proceeding",
				zap.String("key", key), zap.Error(err))
		} else if !fresh {
			logger.FromContext(ctx).Info("duplicate recovery suppressed",
				zap.String("subrogation_id", id.String()),
				zap.String("idempotency_key", req.IdempotencyKey))
			return toSubrogationResponse(record), nil
		} else {
			marked = key
		}
	}

	fullyRecovered, err := record.Recover(req.Amount, req.SettlementAmount, req.SettlementDate, userID)
	if err != nil {
		s.releaseIdempotencyKey(ctx, marked)
		return nil, err
	}
	if err := s.subrogationRepo.SaveWithLock(ctx, record); err != nil {
		// The recovery never landed; release the key so a retry with the
		// same key is not suppressed as a duplicate.
		s.releaseIdempotencyKey(ctx, marked)
		return nil, err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventSubrogationRecovery,
		"Recovery recorded against "+record.PartyName, claims.Payload{
			"subrogation_id":  record.ID.String(),
			"amount":          req.Amount.String(),
			"recovered_total": record.AmountRecovered.String(),
			"fully_recovered": fullyRecovered,
		})

	return toSubrogationResponse(record), nil
}

// RemoveSubrogation soft deletes a record
func (s *SubrogationService) RemoveSubrogation(ctx context.Context, tenantID, userID, claimID, id uuid.UUID) error {
	record, err := s.findRecord(ctx, tenantID, claimID, id)
	if err != nil {
		return err
	}

	if err := s.subrogationRepo.DeleteForTenant(ctx, tenantID, claimID, id); err != nil {
		return err
	}

	s.timeline.Record(ctx, tenantID, claimID, &userID, claims.EventSubrogationRemoved,
		"Subrogation against "+record.PartyName+" removed", claims.Payload{
			"subrogation_id": id.String(),
		})

	return nil
}

func (s *SubrogationService) ensureClaimExists(ctx context.Context, tenantID, claimID uuid.UUID) error {
	exists, err := s.claimRepo.ExistsForTenant(ctx, tenantID, claimID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("NOT_FOUND", "Claim not found")
	}
	return nil
}

// releaseIdempotencyKey rolls back a freshly marked key after a failed
// write. Best effort: on release failure the key stays burned until its TTL
// expires, which is logged.
func (s *SubrogationService) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Unmark(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("failed to release idempotency key",
			zap.String("key", key), zap.Error(err))
	}
}

func (s *SubrogationService) findRecord(ctx context.Context, tenantID, claimID, id uuid.UUID) (*claims.SubrogationRecord, error) {
	if err := s.ensureClaimExists(ctx, tenantID, claimID); err != nil {
		return nil, err
	}
	record, err := s.subrogationRepo.FindByIDForTenant(ctx, tenantID, claimID, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Subrogation record not found")
	}
	return record, nil
}
