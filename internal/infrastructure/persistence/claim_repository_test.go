package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupClaimsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ClaimModel{},
		&models.ClaimItemModel{},
		&models.ClaimDocumentModel{},
		&models.ClaimNoteModel{},
		&models.ClaimAdjustmentModel{},
		&models.SubrogationRecordModel{},
		&models.ClaimTimelineModel{},
	)
	require.NoError(t, err)

	return db
}

func newTestClaim(t *testing.T, tenantID uuid.UUID, claimNumber string) *claims.Claim {
	t.Helper()

	claim, err := claims.NewClaim(tenantID, uuid.New(), claims.NewClaimInput{
		ClaimNumber:   claimNumber,
		ClaimType:     claims.ClaimTypeDamage,
		Description:   "Pallet crushed during transit",
		ClaimedAmount: decimal.NewFromInt(1500),
		ClaimantName:  "Acme Logistics",
	})
	require.NoError(t, err)
	return claim
}

func TestClaimRepository_SaveAndFind(t *testing.T) {
	db := setupClaimsTestDB(t)
	repo := NewClaimRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	claim := newTestClaim(t, tenantID, "CLM-20260115-A1B2C3")
	require.NoError(t, repo.Save(ctx, claim))

	t.Run("finds by id for owning tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, claim.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, claim.ID, found.ID)
		assert.Equal(t, "CLM-20260115-A1B2C3", found.ClaimNumber)
		assert.Equal(t, claims.ClaimStatusDraft, found.Status)
		assert.True(t, found.ClaimedAmount.Equal(decimal.NewFromInt(1500)))
		assert.Nil(t, found.ApprovedAmount)
	})

	t.Run("returns nil for another tenant", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, uuid.New(), claim.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("finds by claim number", func(t *testing.T) {
		found, err := repo.FindByClaimNumber(ctx, tenantID, "CLM-20260115-A1B2C3")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, claim.ID, found.ID)

		missing, err := repo.FindByClaimNumber(ctx, tenantID, "CLM-20260115-ZZZZZZ")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("exists checks", func(t *testing.T) {
		exists, err := repo.ExistsByClaimNumber(ctx, tenantID, "CLM-20260115-A1B2C3")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByClaimNumber(ctx, uuid.New(), "CLM-20260115-A1B2C3")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsForTenant(ctx, tenantID, claim.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestClaimRepository_FindAllForTenant(t *testing.T) {
	db := setupClaimsTestDB(t)
	repo := NewClaimRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first := newTestClaim(t, tenantID, "CLM-20260115-000001")
	second := newTestClaim(t, tenantID, "CLM-20260115-000002")
	third := newTestClaim(t, tenantID, "CLM-20260115-000003")
	_, err := second.ChangeStatus(claims.ClaimStatusSubmitted, "", uuid.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, third))

	otherTenant := newTestClaim(t, uuid.New(), "CLM-20260115-000004")
	require.NoError(t, repo.Save(ctx, otherTenant))

	t.Run("lists only the tenant's claims", func(t *testing.T) {
		result, err := repo.FindAllForTenant(ctx, tenantID, claims.ClaimFilter{})
		require.NoError(t, err)
		assert.Len(t, result, 3)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := claims.ClaimStatusSubmitted
		result, err := repo.FindAllForTenant(ctx, tenantID, claims.ClaimFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, second.ID, result[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := claims.ClaimFilter{ListFilter: shared.ListFilter{Page: 2, PageSize: 2}}
		result, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("counts with filter", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID, claims.ClaimFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		status := claims.ClaimStatusSubmitted
		count, err = repo.CountForTenant(ctx, tenantID, claims.ClaimFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestClaimRepository_SaveWithLock(t *testing.T) {
	db := setupClaimsTestDB(t)
	repo := NewClaimRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	claim := newTestClaim(t, tenantID, "CLM-20260116-0000A1")
	require.NoError(t, repo.Save(ctx, claim))

	t.Run("saves when version matches", func(t *testing.T) {
		description := "Updated after carrier inspection"
		_, err := claim.ApplyPatch(claims.ClaimPatch{Description: &description}, uuid.New())
		require.NoError(t, err)

		require.NoError(t, repo.SaveWithLock(ctx, claim))

		found, err := repo.FindByIDForTenant(ctx, tenantID, claim.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, description, found.Description)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		stale := *claim
		description := "Concurrent edit"
		_, err := stale.ApplyPatch(claims.ClaimPatch{Description: &description}, uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.SaveWithLock(ctx, &stale))

		_, err = claim.ApplyPatch(claims.ClaimPatch{Description: &description}, uuid.New())
		require.NoError(t, err)

		err = repo.SaveWithLock(ctx, claim)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)
	})

	t.Run("rejects a write scoped to another tenant", func(t *testing.T) {
		foreign := newTestClaim(t, tenantID, "CLM-20260116-0000A2")
		require.NoError(t, repo.Save(ctx, foreign))

		foreign.TenantID = uuid.New()
		description := "Cross-tenant write"
		_, err := foreign.ApplyPatch(claims.ClaimPatch{Description: &description}, uuid.New())
		require.NoError(t, err)

		err = repo.SaveWithLock(ctx, foreign)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)
	})
}

func TestClaimRepository_ClaimNumberReuseAfterDelete(t *testing.T) {
	db := setupClaimsTestDB(t)
	repo := NewClaimRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	original := newTestClaim(t, tenantID, "CLM-20260118-0000C3")
	require.NoError(t, repo.Save(ctx, original))

	t.Run("live duplicate number is rejected", func(t *testing.T) {
		duplicate := newTestClaim(t, tenantID, "CLM-20260118-0000C3")
		assert.Error(t, repo.Save(ctx, duplicate))
	})

	t.Run("deleted claim frees its number", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, original.ID))

		exists, err := repo.ExistsByClaimNumber(ctx, tenantID, "CLM-20260118-0000C3")
		require.NoError(t, err)
		assert.False(t, exists)

		replacement := newTestClaim(t, tenantID, "CLM-20260118-0000C3")
		require.NoError(t, repo.Save(ctx, replacement))
	})
}

func TestClaimRepository_DeleteForTenant(t *testing.T) {
	db := setupClaimsTestDB(t)
	repo := NewClaimRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	claim := newTestClaim(t, tenantID, "CLM-20260117-0000B2")
	require.NoError(t, repo.Save(ctx, claim))

	t.Run("rejects another tenant", func(t *testing.T) {
		err := repo.DeleteForTenant(ctx, uuid.New(), claim.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("soft deletes and hides the row", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, claim.ID))

		found, err := repo.FindByIDForTenant(ctx, tenantID, claim.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		exists, err := repo.ExistsForTenant(ctx, tenantID, claim.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		err = repo.DeleteForTenant(ctx, tenantID, claim.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
