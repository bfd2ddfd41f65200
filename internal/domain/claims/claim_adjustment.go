package claims

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// ClaimAdjustment is a manual financial correction recorded against a claim
// outside the approve/pay flow. Adjustments never write back into the
// claim's own amount fields; they exist as an audit-visible record.
type ClaimAdjustment struct {
	shared.TenantEntity
	ClaimID        uuid.UUID       `json:"claim_id"`
	AdjustmentType string          `json:"adjustment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	CreatedBy      *uuid.UUID      `json:"created_by"`
}

// NewClaimAdjustment records an adjustment against a claim
func NewClaimAdjustment(tenantID, claimID uuid.UUID, adjustmentType string, amount decimal.Decimal, reason string, createdBy *uuid.UUID) (*ClaimAdjustment, error) {
	if adjustmentType == "" {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment type cannot be empty")
	}

	return &ClaimAdjustment{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		ClaimID:        claimID,
		AdjustmentType: adjustmentType,
		Amount:         amount,
		Reason:         reason,
		CreatedBy:      createdBy,
	}, nil
}
