package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClaimAdjustmentRepository implements claims.ClaimAdjustmentRepository using GORM
type GormClaimAdjustmentRepository struct {
	db *gorm.DB
}

// NewClaimAdjustmentRepository creates a new GORM claim adjustment repository
func NewClaimAdjustmentRepository(db *gorm.DB) claims.ClaimAdjustmentRepository {
	return &GormClaimAdjustmentRepository{db: db}
}

// FindByClaim lists live adjustments for a claim, newest first
func (r *GormClaimAdjustmentRepository) FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimAdjustment, error) {
	var modelList []models.ClaimAdjustmentModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_id = ?", tenantID, claimID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	result := make([]claims.ClaimAdjustment, len(modelList))
	for i, m := range modelList {
		result[i] = *m.ToDomain()
	}
	return result, nil
}

// Save creates an adjustment
func (r *GormClaimAdjustmentRepository) Save(ctx context.Context, adjustment *claims.ClaimAdjustment) error {
	model := models.ClaimAdjustmentModelFromDomain(adjustment)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant soft deletes an adjustment
func (r *GormClaimAdjustmentRepository) DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ClaimAdjustmentModel{}, "tenant_id = ? AND claim_id = ? AND id = ?", tenantID, claimID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
