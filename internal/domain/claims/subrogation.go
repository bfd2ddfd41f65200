package claims

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// SubrogationStatus tracks the recovery lifecycle of a subrogation record
type SubrogationStatus string

const (
	SubrogationStatusPending    SubrogationStatus = "PENDING"
	SubrogationStatusInProgress SubrogationStatus = "IN_PROGRESS"
	SubrogationStatusRecovered  SubrogationStatus = "RECOVERED"
	SubrogationStatusClosed     SubrogationStatus = "CLOSED"
)

// IsValid checks if the status is a valid SubrogationStatus
func (s SubrogationStatus) IsValid() bool {
	switch s {
	case SubrogationStatusPending, SubrogationStatusInProgress,
		SubrogationStatusRecovered, SubrogationStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of SubrogationStatus
func (s SubrogationStatus) String() string {
	return string(s)
}

// IsClosed returns true when the record accepts no further mutation
func (s SubrogationStatus) IsClosed() bool {
	return s == SubrogationStatusClosed
}

// PartyType identifies the kind of third party a recovery targets
type PartyType string

const (
	PartyTypeCarrier   PartyType = "CARRIER"
	PartyTypeShipper   PartyType = "SHIPPER"
	PartyTypeWarehouse PartyType = "WAREHOUSE"
	PartyTypeInsurer   PartyType = "INSURER"
	PartyTypeOther     PartyType = "OTHER"
)

// IsValid checks if the party type is valid
func (p PartyType) IsValid() bool {
	switch p {
	case PartyTypeCarrier, PartyTypeShipper, PartyTypeWarehouse, PartyTypeInsurer, PartyTypeOther:
		return true
	}
	return false
}

// String returns the string representation of PartyType
func (p PartyType) String() string {
	return string(p)
}

// SubrogationRecord tracks money being recovered from a third party for a
// claim the tenant has paid out. The recovered amount only accumulates;
// reaching the sought amount flips the record to RECOVERED. A CLOSED record
// is frozen.
type SubrogationRecord struct {
	shared.TenantAggregateRoot
	ClaimID          uuid.UUID         `json:"claim_id"`
	PartyName        string            `json:"party_name"`
	PartyType        PartyType         `json:"party_type"`
	Status           SubrogationStatus `json:"status"`
	AmountSought     decimal.Decimal   `json:"amount_sought"`
	AmountRecovered  decimal.Decimal   `json:"amount_recovered"`
	SettlementAmount *decimal.Decimal  `json:"settlement_amount"`
	AttorneyName     string            `json:"attorney_name"`
	CaseNumber       string            `json:"case_number"`
	FilingDate       *time.Time        `json:"filing_date"`
	SettlementDate   *time.Time        `json:"settlement_date"`
	ClosedDate       *time.Time        `json:"closed_date"`
	ClosureReason    string            `json:"closure_reason"`
	Notes            string            `json:"notes"`
}

// NewSubrogationInput carries the fields for opening a subrogation record
type NewSubrogationInput struct {
	PartyName       string
	PartyType       PartyType
	Status          *SubrogationStatus
	AmountSought    decimal.Decimal
	AmountRecovered *decimal.Decimal
	AttorneyName    string
	CaseNumber      string
	FilingDate      *time.Time
	Notes           string
}

// NewSubrogationRecord opens a subrogation record. Status defaults to
// PENDING and the recovered amount to zero when omitted.
func NewSubrogationRecord(tenantID, claimID, createdBy uuid.UUID, input NewSubrogationInput) (*SubrogationRecord, error) {
	if input.PartyName == "" {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
	}
	if !input.PartyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party type is not valid")
	}
	if input.AmountSought.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount sought cannot be negative")
	}

	status := SubrogationStatusPending
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Subrogation status is not valid")
		}
		status = *input.Status
	}
	recovered := decimal.Zero
	if input.AmountRecovered != nil {
		if input.AmountRecovered.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount recovered cannot be negative")
		}
		recovered = *input.AmountRecovered
	}

	r := &SubrogationRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		ClaimID:             claimID,
		PartyName:           input.PartyName,
		PartyType:           input.PartyType,
		Status:              status,
		AmountSought:        input.AmountSought,
		AmountRecovered:     recovered,
		AttorneyName:        input.AttorneyName,
		CaseNumber:          input.CaseNumber,
		FilingDate:          input.FilingDate,
		Notes:               input.Notes,
	}

	return r, nil
}

// SubrogationPatch carries a partial update. Nil pointers leave the stored
// value untouched; Clear flags detach the corresponding date.
type SubrogationPatch struct {
	PartyName             *string
	PartyType             *PartyType
	Status                *SubrogationStatus
	AmountSought          *decimal.Decimal
	SettlementAmount      *decimal.Decimal
	ClearSettlementAmount bool
	AttorneyName          *string
	CaseNumber            *string
	FilingDate            *time.Time
	ClearFilingDate       bool
	SettlementDate        *time.Time
	ClearSettlementDate   bool
	ClosedDate            *time.Time
	ClearClosedDate       bool
	ClosureReason         *string
	Notes                 *string
}

// ApplyPatch applies the fields present in the patch and returns the list
// of changed field names. A closed record rejects any update.
func (r *SubrogationRecord) ApplyPatch(patch SubrogationPatch, updatedBy uuid.UUID) ([]string, error) {
	if r.Status.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot update a closed subrogation record")
	}

	var changed []string

	if patch.PartyName != nil {
		if *patch.PartyName == "" {
			return nil, shared.NewDomainError("INVALID_PARTY", "Party name cannot be empty")
		}
		r.PartyName = *patch.PartyName
		changed = append(changed, "party_name")
	}
	if patch.PartyType != nil {
		if !patch.PartyType.IsValid() {
			return nil, shared.NewDomainError("INVALID_PARTY", "Party type is not valid")
		}
		r.PartyType = *patch.PartyType
		changed = append(changed, "party_type")
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Subrogation status is not valid")
		}
		r.Status = *patch.Status
		if patch.Status.IsClosed() && r.ClosedDate == nil && patch.ClosedDate == nil {
			now := time.Now()
			r.ClosedDate = &now
		}
		changed = append(changed, "status")
	}
	if patch.AmountSought != nil {
		if patch.AmountSought.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount sought cannot be negative")
		}
		r.AmountSought = *patch.AmountSought
		changed = append(changed, "amount_sought")
	}
	if patch.ClearSettlementAmount {
		r.SettlementAmount = nil
		changed = append(changed, "settlement_amount")
	} else if patch.SettlementAmount != nil {
		r.SettlementAmount = patch.SettlementAmount
		changed = append(changed, "settlement_amount")
	}
	if patch.AttorneyName != nil {
		r.AttorneyName = *patch.AttorneyName
		changed = append(changed, "attorney_name")
	}
	if patch.CaseNumber != nil {
		r.CaseNumber = *patch.CaseNumber
		changed = append(changed, "case_number")
	}
	if patch.ClearFilingDate {
		r.FilingDate = nil
		changed = append(changed, "filing_date")
	} else if patch.FilingDate != nil {
		r.FilingDate = patch.FilingDate
		changed = append(changed, "filing_date")
	}
	if patch.ClearSettlementDate {
		r.SettlementDate = nil
		changed = append(changed, "settlement_date")
	} else if patch.SettlementDate != nil {
		r.SettlementDate = patch.SettlementDate
		changed = append(changed, "settlement_date")
	}
	if patch.ClearClosedDate {
		r.ClosedDate = nil
		changed = append(changed, "closed_date")
	} else if patch.ClosedDate != nil {
		r.ClosedDate = patch.ClosedDate
		changed = append(changed, "closed_date")
	}
	if patch.ClosureReason != nil {
		r.ClosureReason = *patch.ClosureReason
		changed = append(changed, "closure_reason")
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
		changed = append(changed, "notes")
	}

	if len(changed) > 0 {
		r.SetUpdatedBy(updatedBy)
		r.Touch()
		r.IncrementVersion()
	}

	return changed, nil
}

// Recover accumulates a recovery into the recovered amount. Settlement
// amount and date are updated only when supplied. When the cumulative
// recovered amount reaches the sought amount the record flips to RECOVERED.
// Returns whether it did.
func (r *SubrogationRecord) Recover(amount decimal.Decimal, settlementAmount *decimal.Decimal, settlementDate *time.Time, recoveredBy uuid.UUID) (bool, error) {
	if r.Status.IsClosed() {
		return false, shared.NewDomainError("INVALID_STATE", "Cannot record a recovery on a closed subrogation record")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return false, shared.NewDomainError("INVALID_AMOUNT", "Recovery amount must be positive")
	}

	r.AmountRecovered = r.AmountRecovered.Add(amount)
	if settlementAmount != nil {
		r.SettlementAmount = settlementAmount
	}
	if settlementDate != nil {
		r.SettlementDate = settlementDate
	}

	fullyRecovered := false
	if r.AmountRecovered.GreaterThanOrEqual(r.AmountSought) {
		r.Status = SubrogationStatusRecovered
		fullyRecovered = true
	}
	r.SetUpdatedBy(recoveredBy)
	r.Touch()
	r.IncrementVersion()

	return fullyRecovered, nil
}

// RemainingSought returns the sought amount not yet recovered, or zero
func (r *SubrogationRecord) RemainingSought() decimal.Decimal {
	remaining := r.AmountSought.Sub(r.AmountRecovered)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
