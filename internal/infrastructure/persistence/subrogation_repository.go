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

// GormSubrogationRepository implements claims.SubrogationRepository using GORM
type GormSubrogationRepository struct {
	db *gorm.DB
}

// NewSubrogationRepository creates a new GORM subrogation repository
func NewSubrogationRepository(db *gorm.DB) claims.SubrogationRepository {
	return &GormSubrogationRepository{db: db}
}

// FindByIDForTenant finds a record by ID scoped to a tenant and claim
func (r *GormSubrogationRepository) FindByIDForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) (*claims.SubrogationRecord, error) {
	var model models.SubrogationRecordModel
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

// FindByClaim lists live records for a claim, newest first
func (r *GormSubrogationRepository) FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]claims.SubrogationRecord, error) {
	var modelList []models.SubrogationRecordModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_id = ?", tenantID, claimID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	result := make([]claims.SubrogationRecord, len(modelList))
	for i, m := range modelList {
		result[i] = *m.ToDomain()
	}
	return result, nil
}

// Save creates or updates a record
func (r *GormSubrogationRepository) Save(ctx context.Context, record *claims.SubrogationRecord) error {
	model := models.SubrogationRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. Select("*") forces
// zero-valued columns into the update so cleared fields persist.
func (r *GormSubrogationRepository) SaveWithLock(ctx context.Context, record *claims.SubrogationRecord) error {
	model := models.SubrogationRecordModelFromDomain(record)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ? AND id = ? AND version = ?", record.TenantID, record.ID, record.Version-1).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "The record has been modified by another transaction")
	}
	return nil
}

// DeleteForTenant soft deletes a record
func (r *GormSubrogationRepository) DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.SubrogationRecordModel{}, "tenant_id = ? AND claim_id = ? AND id = ?", tenantID, claimID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
