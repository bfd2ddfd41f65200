package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTimelineRepository implements claims.TimelineRepository using GORM.
// The timeline is append-only; the repository exposes no update or delete.
type GormTimelineRepository struct {
	db *gorm.DB
}

// NewTimelineRepository creates a new GORM timeline repository
func NewTimelineRepository(db *gorm.DB) claims.TimelineRepository {
	return &GormTimelineRepository{db: db}
}

// Append stores a new timeline entry
func (r *GormTimelineRepository) Append(ctx context.Context, entry *claims.TimelineEntry) error {
	model := models.ClaimTimelineModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByClaim lists entries for a claim, newest first
func (r *GormTimelineRepository) FindByClaim(ctx context.Context, tenantID, claimID uuid.UUID) ([]claims.TimelineEntry, error) {
	var modelList []models.ClaimTimelineModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_id = ?", tenantID, claimID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	result := make([]claims.TimelineEntry, len(modelList))
	for i, m := range modelList {
		result[i] = *m.ToDomain()
	}
	return result, nil
}
