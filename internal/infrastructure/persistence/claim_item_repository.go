package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClaimItemRepository implements claims.ClaimItemRepository using GORM
type GormClaimItemRepository struct {
	db *gorm.DB
}

// NewClaimItemRepository creates a new GORM claim item repository
func NewClaimItemRepository(db *gorm.DB) claims.ClaimItemRepository {
	return &GormClaimItemRepository{db: db}
}

// FindByIDForTenant finds an item by ID scoped to a tenant and claim
func (r *GormClaimItemRepository) FindByIDForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) (*claims.ClaimItem, error) {
	var model models.ClaimItemModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_id = ? AND id = ?", tenantID, claimID, id).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClaim lists live items for a claim, oldest first
func (r *GormClaimItemRepository) FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimItem, error) {
	var modelList []models.ClaimItemModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_id = ?", tenantID, claimID).
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	result := make([]claims.ClaimItem, len(modelList))
	for i, m := range modelList {
		result[i] = *m.ToDomain()
	}
	return result, nil
}

// Save creates or updates an item
func (r *GormClaimItemRepository) Save(ctx context.Context, item *claims.ClaimItem) error {
	model := models.ClaimItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant soft deletes an item
func (r *GormClaimItemRepository) DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ClaimItemModel{}, "tenant_id = ? AND claim_id = ? AND id = ?", tenantID, claimID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
