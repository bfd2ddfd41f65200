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

// GormClaimRepository implements claims.ClaimRepository using GORM
type GormClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new GORM claim repository
func NewClaimRepository(db *gorm.DB) claims.ClaimRepository {
	return &GormClaimRepository{db: db}
}

// FindByIDForTenant finds a claim by ID scoped to a tenant
func (r *GormClaimRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*claims.Claim, error) {
	var model models.ClaimModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClaimNumber finds a claim by its claim number for a tenant
func (r *GormClaimRepository) FindByClaimNumber(ctx context.Context, tenantID uuid.UUID, claimNumber string) (*claims.Claim, error) {
	var model models.ClaimModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim_number = ?", tenantID, claimNumber).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds claims for a tenant with filtering and pagination
func (r *GormClaimRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter claims.ClaimFilter) ([]claims.Claim, error) {
	filter.Normalize()

	sortField := ValidateSortField(filter.SortBy, ClaimSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var modelList []models.ClaimModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClaimModel{}), tenantID, filter)
	err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	result := make([]claims.Claim, len(modelList))
	for i, m := range modelList {
		result[i] = *m.ToDomain()
	}
	return result, nil
}

// CountForTenant counts claims for a tenant matching the filter
func (r *GormClaimRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter claims.ClaimFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClaimModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a claim
func (r *GormClaimRepository) Save(ctx context.Context, claim *claims.Claim) error {
	model := models.ClaimModelFromDomain(claim)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. Select("*") forces
// zero-valued columns into the update so cleared fields persist.
func (r *GormClaimRepository) SaveWithLock(ctx context.Context, claim *claims.Claim) error {
	model := models.ClaimModelFromDomain(claim)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ? AND id = ? AND version = ?", claim.TenantID, claim.ID, claim.Version-1).
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

// DeleteForTenant soft deletes a claim for a tenant
func (r *GormClaimRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ClaimModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByClaimNumber checks if a claim number exists for a tenant
func (r *GormClaimRepository) ExistsByClaimNumber(ctx context.Context, tenantID uuid.UUID, claimNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("tenant_id = ? AND claim_number = ?", tenantID, claimNumber).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsForTenant checks that a live claim exists for a tenant
func (r *GormClaimRepository) ExistsForTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormClaimRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter claims.ClaimFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClaimType != nil {
		query = query.Where("claim_type = ?", *filter.ClaimType)
	}
	if filter.CarrierID != nil {
		query = query.Where("carrier_id = ?", *filter.CarrierID)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("claim_number ILIKE ? OR description ILIKE ? OR claimant_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	return query
}
