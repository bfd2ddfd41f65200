package claims

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// ClaimItem is a line item of damaged or lost goods attached to a claim.
// Its total value defaults to quantity times unit price unless the caller
// supplies an explicit override.
type ClaimItem struct {
	shared.TenantEntity
	ClaimID      uuid.UUID       `json:"claim_id"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	DamageType   string          `json:"damage_type"`
	DamageExtent string          `json:"damage_extent"`
}

// NewClaimItemInput carries the fields for creating a claim item
type NewClaimItemInput struct {
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalValue   *decimal.Decimal
	DamageType   string
	DamageExtent string
}

// NewClaimItem creates a claim item. When no explicit total value is given
// it is derived from quantity and unit price.
func NewClaimItem(tenantID, claimID uuid.UUID, input NewClaimItemInput) (*ClaimItem, error) {
	if input.Quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Unit price cannot be negative")
	}

	item := &ClaimItem{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ClaimID:      claimID,
		Description:  input.Description,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		DamageType:   input.DamageType,
		DamageExtent: input.DamageExtent,
	}
	if input.TotalValue != nil {
		item.TotalValue = *input.TotalValue
	} else {
		item.TotalValue = deriveTotalValue(input.Quantity, input.UnitPrice)
	}

	return item, nil
}

// ItemPatch carries a partial update to a claim item
type ItemPatch struct {
	Description  *string
	Quantity     *decimal.Decimal
	UnitPrice    *decimal.Decimal
	TotalValue   *decimal.Decimal
	DamageType   *string
	DamageExtent *string
}

// ApplyPatch applies the fields present in the patch. When quantity or unit
// price changes and no explicit total value is supplied, the total value is
// rederived from the effective quantity and unit price.
func (i *ClaimItem) ApplyPatch(patch ItemPatch) ([]string, error) {
	var changed []string
	recompute := false

	if patch.Description != nil {
		i.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.Quantity != nil {
		if patch.Quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
		}
		i.Quantity = *patch.Quantity
		changed = append(changed, "quantity")
		recompute = true
	}
	if patch.UnitPrice != nil {
		if patch.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Unit price cannot be negative")
		}
		i.UnitPrice = *patch.UnitPrice
		changed = append(changed, "unit_price")
		recompute = true
	}
	if patch.TotalValue != nil {
		i.TotalValue = *patch.TotalValue
		changed = append(changed, "total_value")
		recompute = false
	} else if recompute {
		i.TotalValue = deriveTotalValue(i.Quantity, i.UnitPrice)
		changed = append(changed, "total_value")
	}
	if patch.DamageType != nil {
		i.DamageType = *patch.DamageType
		changed = append(changed, "damage_type")
	}
	if patch.DamageExtent != nil {
		i.DamageExtent = *patch.DamageExtent
		changed = append(changed, "damage_extent")
	}

	if len(changed) > 0 {
		i.Touch()
	}
	return changed, nil
}

func deriveTotalValue(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}
