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

// GormClaimDocumentRepository implements claims.ClaimDocumentRepository using GORM
type GormClaimDocumentRepository struct {
	db *gorm.DB
}

// NewClaimDocumentRepository creates a new GORM claim document repository
func NewClaimDocumentRepository(db *gorm.DB) claims.ClaimDocumentRepository {
	return &GormClaimDocumentRepository{db: db}
}

// FindByIDForTenant finds a document by ID scoped to a tenant and claim
func (r *GormClaimDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) (*claims.ClaimDocument, error) {
	var model models.ClaimDocumentModel
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

// FindByClaim lists live documents for a claim, newest first
func (r *GormClaimDocumentRepository) FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimDocument, error) {
	var modelList []models.ClaimDocumentModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_id = ?", tenantID, claimID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	result := make([]claims.ClaimDocument, len(modelList))
	for i, m := range modelList {
		result[i] = *m.ToDomain()
	}
	return result, nil
}

// Save creates or updates a document
func (r *GormClaimDocumentRepository) Save(ctx context.Context, document *claims.ClaimDocument) error {
	model := models.ClaimDocumentModelFromDomain(document)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant soft deletes a document
func (r *GormClaimDocumentRepository) DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ClaimDocumentModel{}, "tenant_id = ? AND claim_id = ? AND id = ?", tenantID, claimID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
