package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	claimsapp "github.com/tms/backend/internal/application/claims"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/cache"
	"github.com/tms/backend/internal/infrastructure/persistence"
)

type claimsStack struct {
	claimRepo       claims.ClaimRepository
	subrogationRepo claims.SubrogationRepository
	claimService    *claimsapp.ClaimService
	resolution      *claimsapp.ResolutionService
	subrogation     *claimsapp.SubrogationService
	timeline        *claimsapp.TimelineRecorder
}

func newClaimsStack(t *testing.T, tdb *TestDB) *claimsStack {
	t.Helper()

	claimRepo := persistence.NewClaimRepository(tdb.DB)
	itemRepo := persistence.NewClaimItemRepository(tdb.DB)
	docRepo := persistence.NewClaimDocumentRepository(tdb.DB)
	noteRepo := persistence.NewClaimNoteRepository(tdb.DB)
	adjustmentRepo := persistence.NewClaimAdjustmentRepository(tdb.DB)
	subrogationRepo := persistence.NewSubrogationRepository(tdb.DB)
	timeline := claimsapp.NewTimelineRecorder(persistence.NewTimelineRepository(tdb.DB))

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	idemCfg := shared.DefaultIdempotencyConfig()

	return &claimsStack{
		claimRepo:       claimRepo,
		subrogationRepo: subrogationRepo,
		claimService:    claimsapp.NewClaimService(claimRepo, itemRepo, docRepo, noteRepo, timeline),
		resolution: claimsapp.NewResolutionService(claimRepo, adjustmentRepo, timeline,
			claimsapp.WithIdempotencyStore(store, idemCfg)),
		subrogation: claimsapp.NewSubrogationService(claimRepo, subrogationRepo, timeline,
			claimsapp.WithRecoveryIdempotencyStore(store, idemCfg)),
		timeline: timeline,
	}
}

func TestClaimLifecycle_EndToEnd(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newClaimsStack(t, tdb)
	ctx := t.Context()

	tenantID := uuid.New()
	userID := uuid.New()

	created, err := stack.claimService.CreateClaim(ctx, tenantID, userID, claimsapp.CreateClaimRequest{
		ClaimType:     "DAMAGE",
		Description:   "Reefer unit failure spoiled the load",
		ClaimedAmount: decimal.NewFromInt(5000),
		ClaimantName:  "Polar Produce",
		Items: []claimsapp.CreateItemRequest{
			{Description: "Spoiled berries", Quantity: decimal.NewFromInt(40), UnitPrice: decimal.NewFromInt(125)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", created.Status)

	_, err = stack.claimService.FileClaim(ctx, tenantID, userID, created.ID, claimsapp.FileClaimRequest{})
	require.NoError(t, err)

	approved, err := stack.resolution.ApproveClaim(ctx, tenantID, userID, created.ID, claimsapp.ApproveClaimRequest{
		ApprovedAmount: decimal.NewFromInt(4500),
	})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)

	// Duplicate payment with the same idempotency key applies only once
	first, err := stack.resolution.PayClaim(ctx, tenantID, userID, created.ID, claimsapp.PayClaimRequest{
		Amount:         decimal.NewFromInt(2000),
		IdempotencyKey: "pay-batch-77",
	})
	require.NoError(t, err)
	assert.Equal(t, "2000", first.PaidAmount.String())

	replay, err := stack.resolution.PayClaim(ctx, tenantID, userID, created.ID, claimsapp.PayClaimRequest{
		Amount:         decimal.NewFromInt(2000),
		IdempotencyKey: "pay-batch-77",
	})
	require.NoError(t, err)
	assert.Equal(t, "2000", replay.PaidAmount.String())

	// Paying the remainder reaches the approved ceiling and auto-closes
	final, err := stack.resolution.PayClaim(ctx, tenantID, userID, created.ID, claimsapp.PayClaimRequest{
		Amount: decimal.NewFromInt(2500),
	})
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", final.Status)
	assert.Equal(t, "4500", final.PaidAmount.String())
	assert.NotNil(t, final.ClosedDate)

	entries, err := stack.timeline.List(ctx, tenantID, created.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 5)
}

func TestClaimSearch_UsesCaseInsensitiveMatch(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newClaimsStack(t, tdb)
	ctx := t.Context()

	tenantID := uuid.New()
	userID := uuid.New()

	for _, req := range []claimsapp.CreateClaimRequest{
		{ClaimType: "LOSS", ClaimedAmount: decimal.NewFromInt(100), ClaimantName: "Northwind Traders"},
		{ClaimType: "DELAY", ClaimedAmount: decimal.NewFromInt(200), Description: "northwind shipment stuck at border"},
		{ClaimType: "DAMAGE", ClaimedAmount: decimal.NewFromInt(300), ClaimantName: "Contoso Freight"},
	} {
		_, err := stack.claimService.CreateClaim(ctx, tenantID, userID, req)
		require.NoError(t, err)
	}

	results, total, err := stack.claimService.ListClaims(ctx, tenantID, claimsapp.ClaimListFilter{
		Search: "NORTHWIND",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)
}

func TestClaimTenantIsolation(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newClaimsStack(t, tdb)
	ctx := t.Context()

	tenantA := uuid.New()
	tenantB := uuid.New()
	userID := uuid.New()

	created, err := stack.claimService.CreateClaim(ctx, tenantA, userID, claimsapp.CreateClaimRequest{
		ClaimType:     "SHORTAGE",
		ClaimedAmount: decimal.NewFromInt(750),
	})
	require.NoError(t, err)

	_, err = stack.claimService.GetClaim(ctx, tenantB, created.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	_, total, err := stack.claimService.ListClaims(ctx, tenantB, claimsapp.ClaimListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestClaimOptimisticLocking(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newClaimsStack(t, tdb)
	ctx := t.Context()

	tenantID := uuid.New()
	userID := uuid.New()

	created, err := stack.claimService.CreateClaim(ctx, tenantID, userID, claimsapp.CreateClaimRequest{
		ClaimType:     "DAMAGE",
		ClaimedAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	_, err = stack.claimService.FileClaim(ctx, tenantID, userID, created.ID, claimsapp.FileClaimRequest{})
	require.NoError(t, err)
	_, err = stack.resolution.ApproveClaim(ctx, tenantID, userID, created.ID, claimsapp.ApproveClaimRequest{
		ApprovedAmount: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	// Load two copies of the same version and pay through both
	copyA, err := stack.claimRepo.FindByIDForTenant(ctx, tenantID, created.ID)
	require.NoError(t, err)
	copyB, err := stack.claimRepo.FindByIDForTenant(ctx, tenantID, created.ID)
	require.NoError(t, err)

	_, err = copyA.Pay(decimal.NewFromInt(100), userID)
	require.NoError(t, err)
	require.NoError(t, stack.claimRepo.SaveWithLock(ctx, copyA))

	_, err = copyB.Pay(decimal.NewFromInt(100), userID)
	require.NoError(t, err)
	err = stack.claimRepo.SaveWithLock(ctx, copyB)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENCY_CONFLICT", domainErr.Code)
}

func TestSubrogationRecovery_EndToEnd(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newClaimsStack(t, tdb)
	ctx := t.Context()

	tenantID := uuid.New()
	userID := uuid.New()

	claim, err := stack.claimService.CreateClaim(ctx, tenantID, userID, claimsapp.CreateClaimRequest{
		ClaimType:     "LOSS",
		ClaimedAmount: decimal.NewFromInt(9000),
	})
	require.NoError(t, err)

	record, err := stack.subrogation.CreateSubrogation(ctx, tenantID, userID, claim.ID, claimsapp.CreateSubrogationRequest{
		PartyName:    "Glacier Mutual",
		PartyType:    "INSURER",
		AmountSought: decimal.NewFromInt(6000),
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", record.Status)

	// Duplicate recovery with the same key is suppressed
	_, err = stack.subrogation.RecordRecovery(ctx, tenantID, userID, claim.ID, record.ID, claimsapp.RecoverRequest{
		Amount:         decimal.NewFromInt(2500),
		IdempotencyKey: "wire-20260115",
	})
	require.NoError(t, err)

	replay, err := stack.subrogation.RecordRecovery(ctx, tenantID, userID, claim.ID, record.ID, claimsapp.RecoverRequest{
		Amount:         decimal.NewFromInt(2500),
		IdempotencyKey: "wire-20260115",
	})
	require.NoError(t, err)
	assert.Equal(t, "2500", replay.AmountRecovered.String())

	full, err := stack.subrogation.RecordRecovery(ctx, tenantID, userID, claim.ID, record.ID, claimsapp.RecoverRequest{
		Amount: decimal.NewFromInt(3500),
	})
	require.NoError(t, err)
	assert.Equal(t, "RECOVERED", full.Status)
	assert.Equal(t, "6000", full.AmountRecovered.String())
}
