package claims

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/shared"
)

func newTestClaim(t *testing.T) *Claim {
	t.Helper()
	claim, err := NewClaim(uuid.New(), uuid.New(), NewClaimInput{
		ClaimNumber:   "CLM-20260828-A1B2C3",
		ClaimType:     ClaimTypeDamage,
		Description:   "Crushed pallet of electronics",
		ClaimedAmount: decimal.NewFromInt(100),
		ClaimantName:  "Acme Shippers",
	})
	require.NoError(t, err)
	return claim
}

func TestNewClaim(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name    string
		input   NewClaimInput
		wantErr string
	}{
		{
			name: "valid claim",
			input: NewClaimInput{
				ClaimNumber:   "CLM-20260828-000001",
				ClaimType:     ClaimTypeDamage,
				ClaimedAmount: decimal.NewFromInt(100),
			},
		},
		{
			name: "empty claim number",
			input: NewClaimInput{
				ClaimType:     ClaimTypeDamage,
				ClaimedAmount: decimal.NewFromInt(100),
			},
			wantErr: "INVALID_CLAIM_NUMBER",
		},
		{
			name: "invalid claim type",
			input: NewClaimInput{
				ClaimNumber:   "CLM-20260828-000001",
				ClaimType:     ClaimType("BOGUS"),
				ClaimedAmount: decimal.NewFromInt(100),
			},
			wantErr: "INVALID_CLAIM_TYPE",
		},
		{
			name: "negative claimed amount",
			input: NewClaimInput{
				ClaimNumber:   "CLM-20260828-000001",
				ClaimType:     ClaimTypeLoss,
				ClaimedAmount: decimal.NewFromInt(-1),
			},
			wantErr: "INVALID_AMOUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim, err := NewClaim(tenantID, userID, tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantErr, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ClaimStatusDraft, claim.Status)
			assert.Equal(t, tenantID, claim.TenantID)
			assert.True(t, claim.PaidAmount.IsZero())
			assert.Nil(t, claim.ApprovedAmount)
			require.NotNil(t, claim.CreatedBy)
			assert.Equal(t, userID, *claim.CreatedBy)
			events := claim.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, "claim.created", events[0].EventType())
		})
	}
}

func TestClaimFile(t *testing.T) {
	userID := uuid.New()

	t.Run("draft claim files and defaults received date to now", func(t *testing.T) {
		claim := newTestClaim(t)
		before := time.Now()

		err := claim.File(nil, nil, userID)

		require.NoError(t, err)
		assert.Equal(t, ClaimStatusSubmitted, claim.Status)
		require.NotNil(t, claim.ReceivedDate)
		assert.False(t, claim.ReceivedDate.Before(before))
	})

	t.Run("supplied received date wins", func(t *testing.T) {
		claim := newTestClaim(t)
		received := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

		err := claim.File(&received, nil, userID)

		require.NoError(t, err)
		require.NotNil(t, claim.ReceivedDate)
		assert.True(t, claim.ReceivedDate.Equal(received))
	})

	t.Run("existing received date is kept when none supplied", func(t *testing.T) {
		claim := newTestClaim(t)
		existing := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
		claim.ReceivedDate = &existing

		err := claim.File(nil, nil, userID)

		require.NoError(t, err)
		assert.True(t, claim.ReceivedDate.Equal(existing))
	})

	t.Run("only draft claims can be filed", func(t *testing.T) {
		claim := newTestClaim(t)
		require.NoError(t, claim.File(nil, nil, userID))

		err := claim.File(nil, nil, userID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestClaimApplyPatch(t *testing.T) {
	userID := uuid.New()

	t.Run("applies only present fields and reports them", func(t *testing.T) {
		claim := newTestClaim(t)
		desc := "Updated description"
		amount := decimal.NewFromInt(250)

		changed, err := claim.ApplyPatch(ClaimPatch{
			Description:   &desc,
			ClaimedAmount: &amount,
		}, userID)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"description", "claimed_amount"}, changed)
		assert.Equal(t, desc, claim.Description)
		assert.True(t, claim.ClaimedAmount.Equal(amount))
		assert.Equal(t, "Acme Shippers", claim.ClaimantName)
	})

	t.Run("clear flag detaches optional relation", func(t *testing.T) {
		claim := newTestClaim(t)
		carrierID := uuid.New()
		claim.CarrierID = &carrierID

		changed, err := claim.ApplyPatch(ClaimPatch{ClearCarrierID: true}, userID)

		require.NoError(t, err)
		assert.Equal(t, []string{"carrier_id"}, changed)
		assert.Nil(t, claim.CarrierID)
	})

	t.Run("empty patch changes nothing", func(t *testing.T) {
		claim := newTestClaim(t)
		version := claim.GetVersion()

		changed, err := claim.ApplyPatch(ClaimPatch{}, userID)

		require.NoError(t, err)
		assert.Empty(t, changed)
		assert.Equal(t, version, claim.GetVersion())
	})

	t.Run("closed claim rejects update", func(t *testing.T) {
		claim := newTestClaim(t)
		claim.Close("", userID)
		desc := "too late"

		_, err := claim.ApplyPatch(ClaimPatch{Description: &desc}, userID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestClaimChangeStatus(t *testing.T) {
	userID := uuid.New()

	t.Run("normal transition leaves closed date untouched", func(t *testing.T) {
		claim := newTestClaim(t)

		previous, err := claim.ChangeStatus(ClaimStatusInReview, "escalated", userID)

		require.NoError(t, err)
		assert.Equal(t, ClaimStatusDraft, previous)
		assert.Equal(t, ClaimStatusInReview, claim.Status)
		assert.Nil(t, claim.ClosedDate)
	})

	t.Run("transition to closed stamps closed date", func(t *testing.T) {
		claim := newTestClaim(t)

		_, err := claim.ChangeStatus(ClaimStatusClosed, "", userID)

		require.NoError(t, err)
		assert.Equal(t, ClaimStatusClosed, claim.Status)
		assert.NotNil(t, claim.ClosedDate)
	})

	t.Run("closed claim cannot reopen", func(t *testing.T) {
		claim := newTestClaim(t)
		_, err := claim.ChangeStatus(ClaimStatusClosed, "", userID)
		require.NoError(t, err)

		_, err = claim.ChangeStatus(ClaimStatusInReview, "", userID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("closed to closed is allowed", func(t *testing.T) {
		claim := newTestClaim(t)
		_, err := claim.ChangeStatus(ClaimStatusClosed, "", userID)
		require.NoError(t, err)

		_, err = claim.ChangeStatus(ClaimStatusClosed, "still closed", userID)

		require.NoError(t, err)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		claim := newTestClaim(t)

		_, err := claim.ChangeStatus(ClaimStatus("BOGUS"), "", userID)

		require.Error(t, err)
	})
}

func TestClaimApprove(t *testing.T) {
	userID := uuid.New()

	t.Run("approve from draft", func(t *testing.T) {
		claim := newTestClaim(t)
		amount := decimal.NewFromInt(50)

		previous, err := claim.Approve(amount, nil, userID)

		require.NoError(t, err)
		assert.Equal(t, ClaimStatusDraft, previous)
		assert.Equal(t, ClaimStatusApproved, claim.Status)
		require.NotNil(t, claim.ApprovedAmount)
		assert.True(t, claim.ApprovedAmount.Equal(amount))
	})

	t.Run("approve with disposition", func(t *testing.T) {
		claim := newTestClaim(t)
		disposition := DispositionPaidPartial

		_, err := claim.Approve(decimal.NewFromInt(40), &disposition, userID)

		require.NoError(t, err)
		require.NotNil(t, claim.Disposition)
		assert.Equal(t, DispositionPaidPartial, *claim.Disposition)
	})

	t.Run("approve rejects closed claim", func(t *testing.T) {
		claim := newTestClaim(t)
		claim.Close("", userID)

		_, err := claim.Approve(decimal.NewFromInt(50), nil, userID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		claim := newTestClaim(t)

		_, err := claim.Approve(decimal.NewFromInt(-5), nil, userID)

		require.Error(t, err)
	})
}

func TestClaimDeny(t *testing.T) {
	userID := uuid.New()

	t.Run("deny stamps closed date and reason", func(t *testing.T) {
		claim := newTestClaim(t)

		previous, err := claim.Deny("outside coverage window", nil, userID)

		require.NoError(t, err)
		assert.Equal(t, ClaimStatusDraft, previous)
		assert.Equal(t, ClaimStatusDenied, claim.Status)
		assert.NotNil(t, claim.ClosedDate)
		assert.Equal(t, "outside coverage window", claim.DenialReason)
	})

	t.Run("deny is permitted on a closed claim", func(t *testing.T) {
		claim := newTestClaim(t)
		claim.Close("", userID)

		previous, err := claim.Deny("late denial", nil, userID)

		require.NoError(t, err)
		assert.Equal(t, ClaimStatusClosed, previous)
		assert.Equal(t, ClaimStatusDenied, claim.Status)
	})

	t.Run("empty reason leaves existing denial reason", func(t *testing.T) {
		claim := newTestClaim(t)
		claim.DenialReason = "original reason"

		_, err := claim.Deny("", nil, userID)

		require.NoError(t, err)
		assert.Equal(t, "original reason", claim.DenialReason)
	})
}

func TestClaimPay(t *testing.T) {
	userID := uuid.New()

	approvedClaim := func(t *testing.T, approved int64) *Claim {
		t.Helper()
		claim := newTestClaim(t)
		_, err := claim.Approve(decimal.NewFromInt(approved), nil, userID)
		require.NoError(t, err)
		return claim
	}

	t.Run("partial payment accumulates without closing", func(t *testing.T) {
		claim := approvedClaim(t, 50)

		autoClosed, err := claim.Pay(decimal.NewFromInt(30), userID)

		require.NoError(t, err)
		assert.False(t, autoClosed)
		assert.True(t, claim.PaidAmount.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, ClaimStatusApproved, claim.Status)
	})

	t.Run("payment stamps the payer as last modifier", func(t *testing.T) {
		claim := approvedClaim(t, 50)
		payer := uuid.New()

		_, err := claim.Pay(decimal.NewFromInt(10), payer)

		require.NoError(t, err)
		require.NotNil(t, claim.UpdatedBy)
		assert.Equal(t, payer, *claim.UpdatedBy)
	})

	t.Run("payment reaching approved amount auto-closes", func(t *testing.T) {
		claim := approvedClaim(t, 50)
		_, err := claim.Pay(decimal.NewFromInt(30), userID)
		require.NoError(t, err)

		autoClosed, err := claim.Pay(decimal.NewFromInt(20), userID)

		require.NoError(t, err)
		assert.True(t, autoClosed)
		assert.True(t, claim.PaidAmount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, ClaimStatusClosed, claim.Status)
		assert.NotNil(t, claim.ClosedDate)
	})

	t.Run("one cent short does not close", func(t *testing.T) {
		claim := approvedClaim(t, 50)

		autoClosed, err := claim.Pay(decimal.RequireFromString("49.99"), userID)

		require.NoError(t, err)
		assert.False(t, autoClosed)
		assert.Equal(t, ClaimStatusApproved, claim.Status)

		autoClosed, err = claim.Pay(decimal.RequireFromString("0.01"), userID)

		require.NoError(t, err)
		assert.True(t, autoClosed)
		assert.Equal(t, ClaimStatusClosed, claim.Status)
	})

	t.Run("settled claims accept payments", func(t *testing.T) {
		claim := newTestClaim(t)
		_, err := claim.ChangeStatus(ClaimStatusSettled, "", userID)
		require.NoError(t, err)

		autoClosed, err := claim.Pay(decimal.NewFromInt(10), userID)

		require.NoError(t, err)
		assert.False(t, autoClosed)
		assert.True(t, claim.PaidAmount.Equal(decimal.NewFromInt(10)))
	})

	t.Run("no approved amount never auto-closes", func(t *testing.T) {
		claim := newTestClaim(t)
		_, err := claim.ChangeStatus(ClaimStatusSettled, "", userID)
		require.NoError(t, err)

		autoClosed, err := claim.Pay(decimal.NewFromInt(1000), userID)

		require.NoError(t, err)
		assert.False(t, autoClosed)
		assert.Equal(t, ClaimStatusSettled, claim.Status)
	})

	t.Run("payment rejected outside approved or settled", func(t *testing.T) {
		for _, status := range []ClaimStatus{ClaimStatusDraft, ClaimStatusSubmitted, ClaimStatusInReview, ClaimStatusDenied, ClaimStatusClosed} {
			claim := newTestClaim(t)
			claim.Status = status

			_, err := claim.Pay(decimal.NewFromInt(10), userID)

			require.Error(t, err, "status %s", status)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_STATE", domainErr.Code)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		claim := approvedClaim(t, 50)

		_, err := claim.Pay(decimal.Zero, userID)
		require.Error(t, err)

		_, err = claim.Pay(decimal.NewFromInt(-10), userID)
		require.Error(t, err)
	})

	t.Run("paid amount never decreases across a sequence", func(t *testing.T) {
		claim := approvedClaim(t, 1000)
		previous := decimal.Zero
		for _, amount := range []int64{10, 25, 5, 100} {
			_, err := claim.Pay(decimal.NewFromInt(amount), userID)
			require.NoError(t, err)
			assert.True(t, claim.PaidAmount.GreaterThanOrEqual(previous))
			previous = claim.PaidAmount
		}
		assert.True(t, claim.PaidAmount.Equal(decimal.NewFromInt(140)))
	})
}

func TestClaimClose(t *testing.T) {
	userID := uuid.New()

	t.Run("close is always permitted and idempotent", func(t *testing.T) {
		claim := newTestClaim(t)

		previous := claim.Close("settled offline", userID)

		assert.Equal(t, ClaimStatusDraft, previous)
		assert.Equal(t, ClaimStatusClosed, claim.Status)
		assert.Equal(t, "settled offline", claim.ClosureReason)
		require.NotNil(t, claim.ClosedDate)
		firstClose := *claim.ClosedDate

		time.Sleep(time.Millisecond)
		previous = claim.Close("", userID)

		assert.Equal(t, ClaimStatusClosed, previous)
		assert.Equal(t, ClaimStatusClosed, claim.Status)
		assert.True(t, claim.ClosedDate.After(firstClose))
		assert.Equal(t, "settled offline", claim.ClosureReason)
	})
}

func TestClaimUpdateInvestigation(t *testing.T) {
	userID := uuid.New()

	t.Run("partial patch with no status guard", func(t *testing.T) {
		claim := newTestClaim(t)
		claim.Close("", userID)
		notes := "forklift punctured carton"
		rootCause := "improper stacking"

		changed := claim.UpdateInvestigation(InvestigationPatch{
			InvestigationNotes: &notes,
			RootCause:          &rootCause,
		}, userID)

		assert.ElementsMatch(t, []string{"investigation_notes", "root_cause"}, changed)
		assert.Equal(t, notes, claim.InvestigationNotes)
		assert.Equal(t, rootCause, claim.RootCause)
		assert.Empty(t, claim.PreventionNotes)
	})

	t.Run("empty patch changes nothing", func(t *testing.T) {
		claim := newTestClaim(t)
		changed := claim.UpdateInvestigation(InvestigationPatch{}, userID)
		assert.Empty(t, changed)
	})
}

func TestClaimRemainingApproved(t *testing.T) {
	userID := uuid.New()
	claim := newTestClaim(t)

	assert.True(t, claim.RemainingApproved().IsZero())

	_, err := claim.Approve(decimal.NewFromInt(100), nil, userID)
	require.NoError(t, err)
	_, err = claim.Pay(decimal.NewFromInt(40), userID)
	require.NoError(t, err)

	assert.True(t, claim.RemainingApproved().Equal(decimal.NewFromInt(60)))
}
