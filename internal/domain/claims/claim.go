package claims

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// Claim is the aggregate root for a cargo loss/damage claim. It owns the
// lifecycle state machine and the paid-amount accumulation; child records
// (items, documents, notes, adjustments, subrogations, timeline entries)
// reference it by ID.
type Claim struct {
	shared.TenantAggregateRoot
	ClaimNumber string      `json:"claim_number"`
	ClaimType   ClaimType   `json:"claim_type"`
	Status      ClaimStatus `json:"status"`
	Description string      `json:"description"`

	IncidentDate     *time.Time `json:"incident_date"`
	IncidentLocation string     `json:"incident_location"`

	ClaimedAmount  decimal.Decimal  `json:"claimed_amount"`
	ApprovedAmount *decimal.Decimal `json:"approved_amount"`
	PaidAmount     decimal.Decimal  `json:"paid_amount"`
	Disposition    *Disposition     `json:"disposition"`

	LoadID    *uuid.UUID `json:"load_id"`
	OrderID   *uuid.UUID `json:"order_id"`
	CarrierID *uuid.UUID `json:"carrier_id"`
	CompanyID *uuid.UUID `json:"company_id"`

	ClaimantName  string `json:"claimant_name"`
	ClaimantEmail string `json:"claimant_email"`
	ClaimantPhone string `json:"claimant_phone"`

	AssignedTo   *uuid.UUID `json:"assigned_to"`
	ReceivedDate *time.Time `json:"received_date"`
	DueDate      *time.Time `json:"due_date"`
	ClosedDate   *time.Time `json:"closed_date"`

	InvestigationNotes string `json:"investigation_notes"`
	RootCause          string `json:"root_cause"`
	PreventionNotes    string `json:"prevention_notes"`

	DenialReason  string `json:"denial_reason"`
	ClosureReason string `json:"closure_reason"`
}

// NewClaimInput carries the fields required to open a claim
type NewClaimInput struct {
	ClaimNumber      string
	ClaimType        ClaimType
	Description      string
	IncidentDate     *time.Time
	IncidentLocation string
	ClaimedAmount    decimal.Decimal
	LoadID           *uuid.UUID
	OrderID          *uuid.UUID
	CarrierID        *uuid.UUID
	CompanyID        *uuid.UUID
	ClaimantName     string
	ClaimantEmail    string
	ClaimantPhone    string
	DueDate          *time.Time
}

// NewClaim creates a new claim in DRAFT status
func NewClaim(tenantID, createdBy uuid.UUID, input NewClaimInput) (*Claim, error) {
	if input.ClaimNumber == "" {
		return nil, shared.NewDomainError("INVALID_CLAIM_NUMBER", "Claim number cannot be empty")
	}
	if len(input.ClaimNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_CLAIM_NUMBER", "Claim number cannot exceed 50 characters")
	}
	if !input.ClaimType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLAIM_TYPE", "Claim type is not valid")
	}
	if input.ClaimedAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Claimed amount cannot be negative")
	}

	c := &Claim{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		ClaimNumber:         input.ClaimNumber,
		ClaimType:           input.ClaimType,
		Status:              ClaimStatusDraft,
		Description:         input.Description,
		IncidentDate:        input.IncidentDate,
		IncidentLocation:    input.IncidentLocation,
		ClaimedAmount:       input.ClaimedAmount,
		PaidAmount:          decimal.Zero,
		LoadID:              input.LoadID,
		OrderID:             input.OrderID,
		CarrierID:           input.CarrierID,
		CompanyID:           input.CompanyID,
		ClaimantName:        input.ClaimantName,
		ClaimantEmail:       input.ClaimantEmail,
		ClaimantPhone:       input.ClaimantPhone,
		DueDate:             input.DueDate,
	}

	c.AddDomainEvent(NewClaimCreatedEvent(c))

	return c, nil
}

// ClaimPatch carries a partial update. Nil pointers leave the stored value
// untouched; Clear flags detach the corresponding optional relation or date.
type ClaimPatch struct {
	ClaimType         *ClaimType
	Description       *string
	IncidentDate      *time.Time
	ClearIncidentDate bool
	IncidentLocation  *string
	ClaimedAmount     *decimal.Decimal
	LoadID            *uuid.UUID
	ClearLoadID       bool
	OrderID           *uuid.UUID
	ClearOrderID      bool
	CarrierID         *uuid.UUID
	ClearCarrierID    bool
	CompanyID         *uuid.UUID
	ClearCompanyID    bool
	ClaimantName      *string
	ClaimantEmail     *string
	ClaimantPhone     *string
	DueDate           *time.Time
	ClearDueDate      bool
}

// ApplyPatch applies the fields present in the patch and returns the list of
// changed field names. Closed claims reject any update.
func (c *Claim) ApplyPatch(patch ClaimPatch, updatedBy uuid.UUID) ([]string, error) {
	if c.Status.IsClosed() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot update a closed claim")
	}

	var changed []string

	if patch.ClaimType != nil {
		if !patch.ClaimType.IsValid() {
			return nil, shared.NewDomainError("INVALID_CLAIM_TYPE", "Claim type is not valid")
		}
		c.ClaimType = *patch.ClaimType
		changed = append(changed, "claim_type")
	}
	if patch.Description != nil {
		c.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.ClearIncidentDate {
		c.IncidentDate = nil
		changed = append(changed, "incident_date")
	} else if patch.IncidentDate != nil {
		c.IncidentDate = patch.IncidentDate
		changed = append(changed, "incident_date")
	}
	if patch.IncidentLocation != nil {
		c.IncidentLocation = *patch.IncidentLocation
		changed = append(changed, "incident_location")
	}
	if patch.ClaimedAmount != nil {
		if patch.ClaimedAmount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Claimed amount cannot be negative")
		}
		c.ClaimedAmount = *patch.ClaimedAmount
		changed = append(changed, "claimed_amount")
	}
	if patch.ClearLoadID {
		c.LoadID = nil
		changed = append(changed, "load_id")
	} else if patch.LoadID != nil {
		c.LoadID = patch.LoadID
		changed = append(changed, "load_id")
	}
	if patch.ClearOrderID {
		c.OrderID = nil
		changed = append(changed, "order_id")
	} else if patch.OrderID != nil {
		c.OrderID = patch.OrderID
		changed = append(changed, "order_id")
	}
	if patch.ClearCarrierID {
		c.CarrierID = nil
		changed = append(changed, "carrier_id")
	} else if patch.CarrierID != nil {
		c.CarrierID = patch.CarrierID
		changed = append(changed, "carrier_id")
	}
	if patch.ClearCompanyID {
		c.CompanyID = nil
		changed = append(changed, "company_id")
	} else if patch.CompanyID != nil {
		c.CompanyID = patch.CompanyID
		changed = append(changed, "company_id")
	}
	if patch.ClaimantName != nil {
		c.ClaimantName = *patch.ClaimantName
		changed = append(changed, "claimant_name")
	}
	if patch.ClaimantEmail != nil {
		c.ClaimantEmail = *patch.ClaimantEmail
		changed = append(changed, "claimant_email")
	}
	if patch.ClaimantPhone != nil {
		c.ClaimantPhone = *patch.ClaimantPhone
		changed = append(changed, "claimant_phone")
	}
	if patch.ClearDueDate {
		c.DueDate = nil
		changed = append(changed, "due_date")
	} else if patch.DueDate != nil {
		c.DueDate = patch.DueDate
		changed = append(changed, "due_date")
	}

	if len(changed) > 0 {
		c.touch(updatedBy)
		c.AddDomainEvent(NewClaimUpdatedEvent(c, changed))
	}

	return changed, nil
}

// File transitions a DRAFT claim to SUBMITTED. The received date becomes the
// supplied value, or the stored value, or now, in that order.
func (c *Claim) File(receivedDate, dueDate *time.Time, filedBy uuid.UUID) error {
	if c.Status != ClaimStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft claims can be filed")
	}

	c.Status = ClaimStatusSubmitted
	switch {
	case receivedDate != nil:
		c.ReceivedDate = receivedDate
	case c.ReceivedDate == nil:
		now := time.Now()
		c.ReceivedDate = &now
	}
	if dueDate != nil {
		c.DueDate = dueDate
	}
	c.touch(filedBy)
	c.AddDomainEvent(NewClaimSubmittedEvent(c))

	return nil
}

// Assign sets the assignee and optional due date. Assignment is permitted in
// any status as long as the claim is live.
func (c *Claim) Assign(assignee uuid.UUID, dueDate *time.Time, assignedBy uuid.UUID) {
	c.AssignedTo = &assignee
	if dueDate != nil {
		c.DueDate = dueDate
	}
	c.touch(assignedBy)
	c.AddDomainEvent(NewClaimAssignedEvent(c, assignee))
}

// ChangeStatus performs a generic status transition. A closed claim cannot
// reopen into a non-closed status. Transitioning into CLOSED stamps the
// closed date; every other transition leaves an existing closed date alone.
func (c *Claim) ChangeStatus(newStatus ClaimStatus, reason string, changedBy uuid.UUID) (ClaimStatus, error) {
	if !newStatus.IsValid() {
		return c.Status, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Status %q is not valid", newStatus))
	}
	if c.Status.IsClosed() && !newStatus.IsClosed() {
		return c.Status, shared.NewDomainError("INVALID_STATE", "A closed claim cannot be reopened")
	}

	previous := c.Status
	c.Status = newStatus
	if newStatus.IsClosed() {
		now := time.Now()
		c.ClosedDate = &now
	}
	c.touch(changedBy)
	c.AddDomainEvent(NewClaimStatusChangedEvent(c, previous, reason))

	return previous, nil
}

// Approve sets the claim to APPROVED and stores the approved amount, which
// becomes the ceiling for auto-closure on payment.
func (c *Claim) Approve(amount decimal.Decimal, disposition *Disposition, approvedBy uuid.UUID) (ClaimStatus, error) {
	if c.Status.IsClosed() {
		return c.Status, shared.NewDomainError("INVALID_STATE", "Cannot approve a closed claim")
	}
	if amount.IsNegative() {
		return c.Status, shared.NewDomainError("INVALID_AMOUNT", "Approved amount cannot be negative")
	}
	if disposition != nil && !disposition.IsValid() {
		return c.Status, shared.NewDomainError("INVALID_DISPOSITION", "Disposition is not valid")
	}

	previous := c.Status
	c.Status = ClaimStatusApproved
	c.ApprovedAmount = &amount
	if disposition != nil {
		c.Disposition = disposition
	}
	c.touch(approvedBy)
	c.AddDomainEvent(NewClaimApprovedEvent(c, previous))

	return previous, nil
}

// Deny sets the claim to DENIED and stamps the closed date. Denial carries
// no closed-state guard; a denied or even closed claim can be denied again.
func (c *Claim) Deny(reason string, disposition *Disposition, deniedBy uuid.UUID) (ClaimStatus, error) {
	if disposition != nil && !disposition.IsValid() {
		return c.Status, shared.NewDomainError("INVALID_DISPOSITION", "Disposition is not valid")
	}

	previous := c.Status
	now := time.Now()
	c.Status = ClaimStatusDenied
	c.ClosedDate = &now
	if reason != "" {
		c.DenialReason = reason
	}
	if disposition != nil {
		c.Disposition = disposition
	}
	c.touch(deniedBy)
	c.AddDomainEvent(NewClaimDeniedEvent(c, previous, reason))

	return previous, nil
}

// Pay accumulates a payment into the paid amount. Only APPROVED or SETTLED
// claims accept payments. When the cumulative paid amount reaches the
// approved amount the claim auto-closes. Returns whether it did.
func (c *Claim) Pay(amount decimal.Decimal, paidBy uuid.UUID) (bool, error) {
	if !c.Status.CanAcceptPayment() {
		return false, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record a payment on a claim in %s status", c.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return false, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	c.PaidAmount = c.PaidAmount.Add(amount)

	autoClosed := false
	if c.ApprovedAmount != nil && c.PaidAmount.GreaterThanOrEqual(*c.ApprovedAmount) {
		now := time.Now()
		c.Status = ClaimStatusClosed
		c.ClosedDate = &now
		autoClosed = true
	}
	c.touch(paidBy)
	c.AddDomainEvent(NewClaimPaidEvent(c, amount, autoClosed))

	return autoClosed, nil
}

// Close closes the claim unconditionally, stamping the closed date to now.
// Closing an already-closed claim succeeds and re-stamps the date.
func (c *Claim) Close(reason string, closedBy uuid.UUID) ClaimStatus {
	previous := c.Status
	now := time.Now()
	c.Status = ClaimStatusClosed
	c.ClosedDate = &now
	if reason != "" {
		c.ClosureReason = reason
	}
	c.touch(closedBy)
	c.AddDomainEvent(NewClaimClosedEvent(c, previous, reason))

	return previous
}

// InvestigationPatch carries a partial update to the investigation fields
type InvestigationPatch struct {
	InvestigationNotes *string
	RootCause          *string
	PreventionNotes    *string
}

// UpdateInvestigation patches the investigation fields. No status guard.
func (c *Claim) UpdateInvestigation(patch InvestigationPatch, updatedBy uuid.UUID) []string {
	var changed []string
	if patch.InvestigationNotes != nil {
		c.InvestigationNotes = *patch.InvestigationNotes
		changed = append(changed, "investigation_notes")
	}
	if patch.RootCause != nil {
		c.RootCause = *patch.RootCause
		changed = append(changed, "root_cause")
	}
	if patch.PreventionNotes != nil {
		c.PreventionNotes = *patch.PreventionNotes
		changed = append(changed, "prevention_notes")
	}
	if len(changed) > 0 {
		c.touch(updatedBy)
		c.AddDomainEvent(NewClaimInvestigationUpdatedEvent(c, changed))
	}
	return changed
}

// RemainingApproved returns the approved amount still unpaid, or zero when
// no approved amount is set.
func (c *Claim) RemainingApproved() decimal.Decimal {
	if c.ApprovedAmount == nil {
		return decimal.Zero
	}
	remaining := c.ApprovedAmount.Sub(c.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsOverdue returns true if the claim is past its due date and not closed
func (c *Claim) IsOverdue() bool {
	if c.Status.IsClosed() || c.DueDate == nil {
		return false
	}
	return time.Now().After(*c.DueDate)
}

func (c *Claim) touch(userID uuid.UUID) {
	c.SetUpdatedBy(userID)
	c.Touch()
	c.IncrementVersion()
}
