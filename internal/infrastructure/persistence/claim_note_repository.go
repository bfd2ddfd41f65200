package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClaimNoteRepository implements claims.ClaimNoteRepository using GORM
type GormClaimNoteRepository struct {
	db *gorm.DB
}

// NewClaimNoteRepository creates a new GORM claim note repository
func NewClaimNoteRepository(db *gorm.DB) claims.ClaimNoteRepository {
	return &GormClaimNoteRepository{db: db}
}

// FindByClaim lists live notes for a claim, newest first
func (r *GormClaimNoteRepository) FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimNote, error) {
	var modelList []models.ClaimNoteModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_id = ?", tenantID, claimID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	result := make([]claims.ClaimNote, len(modelList))
	for i, m := range modelList {
		result[i] = *m.ToDomain()
	}
	return result, nil
}

// Save creates or updates a note
func (r *GormClaimNoteRepository) Save(ctx context.Context, note *claims.ClaimNote) error {
	model := models.ClaimNoteModelFromDomain(note)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant soft deletes a note
func (r *GormClaimNoteRepository) DeleteForTenant(ctx context.Context, tenantID, claimID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ClaimNoteModel{}, "tenant_id = ? AND claim_id = ? AND id = ?", tenantID, claimID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
