package claims

// ClaimStatus represents the lifecycle status of a freight claim
type ClaimStatus string

const (
	ClaimStatusDraft     ClaimStatus = "DRAFT"     // Being prepared, not yet filed
	ClaimStatusSubmitted ClaimStatus = "SUBMITTED" // Filed and awaiting review
	ClaimStatusInReview  ClaimStatus = "IN_REVIEW" // Under active investigation
	ClaimStatusApproved  ClaimStatus = "APPROVED"  // Approved for payment
	ClaimStatusDenied    ClaimStatus = "DENIED"    // Denied, closed date stamped
	ClaimStatusSettled   ClaimStatus = "SETTLED"   // Settled with the claimant, payable
	ClaimStatusClosed    ClaimStatus = "CLOSED"    // Terminal
)

// IsValid checks if the status is a valid ClaimStatus
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusDraft, ClaimStatusSubmitted, ClaimStatusInReview,
		ClaimStatusApproved, ClaimStatusDenied, ClaimStatusSettled, ClaimStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ClaimStatus
func (s ClaimStatus) String() string {
	return string(s)
}

// IsClosed returns true if the claim is in the terminal state
func (s ClaimStatus) IsClosed() bool {
	return s == ClaimStatusClosed
}

// CanAcceptPayment returns true if payments can be applied in this status
func (s ClaimStatus) CanAcceptPayment() bool {
	return s == ClaimStatusApproved || s == ClaimStatusSettled
}

// ClaimType categorizes the nature of the cargo loss
type ClaimType string

const (
	ClaimTypeDamage   ClaimType = "DAMAGE"
	ClaimTypeLoss     ClaimType = "LOSS"
	ClaimTypeShortage ClaimType = "SHORTAGE"
	ClaimTypeDelay    ClaimType = "DELAY"
	ClaimTypeOther    ClaimType = "OTHER"
)

// IsValid checks if the claim type is valid
func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeDamage, ClaimTypeLoss, ClaimTypeShortage, ClaimTypeDelay, ClaimTypeOther:
		return true
	}
	return false
}

// String returns the string representation of ClaimType
func (t ClaimType) String() string {
	return string(t)
}

// Disposition is the resolution category assigned when a claim is
// approved or denied.
type Disposition string

const (
	DispositionPaidInFull  Disposition = "PAID_IN_FULL"
	DispositionPaidPartial Disposition = "PAID_PARTIAL"
	DispositionDenied      Disposition = "DENIED"
	DispositionWithdrawn   Disposition = "WITHDRAWN"
	DispositionSettled     Disposition = "SETTLED"
)

// IsValid checks if the disposition is valid
func (d Disposition) IsValid() bool {
	switch d {
	case DispositionPaidInFull, DispositionPaidPartial, DispositionDenied,
		DispositionWithdrawn, DispositionSettled:
		return true
	}
	return false
}

// String returns the string representation of Disposition
func (d Disposition) String() string {
	return string(d)
}
