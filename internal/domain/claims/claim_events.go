package claims

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

const claimAggregateType = "Claim"

// ClaimCreatedEvent is raised when a new claim is opened
type ClaimCreatedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber   string          `json:"claim_number"`
	ClaimType     ClaimType       `json:"claim_type"`
	ClaimedAmount decimal.Decimal `json:"claimed_amount"`
}

func NewClaimCreatedEvent(c *Claim) *ClaimCreatedEvent {
	return &ClaimCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.created", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		ClaimType:       c.ClaimType,
		ClaimedAmount:   c.ClaimedAmount,
	}
}

// ClaimUpdatedEvent is raised when claim header fields change
type ClaimUpdatedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber   string   `json:"claim_number"`
	ChangedFields []string `json:"changed_fields"`
}

func NewClaimUpdatedEvent(c *Claim, changed []string) *ClaimUpdatedEvent {
	return &ClaimUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.updated", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		ChangedFields:   changed,
	}
}

// ClaimSubmittedEvent is raised when a draft claim is filed
type ClaimSubmittedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber string `json:"claim_number"`
}

func NewClaimSubmittedEvent(c *Claim) *ClaimSubmittedEvent {
	return &ClaimSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.submitted", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
	}
}

// ClaimAssignedEvent is raised when a claim is assigned to a user
type ClaimAssignedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber string    `json:"claim_number"`
	AssignedTo  uuid.UUID `json:"assigned_to"`
}

func NewClaimAssignedEvent(c *Claim, assignee uuid.UUID) *ClaimAssignedEvent {
	return &ClaimAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.assigned", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		AssignedTo:      assignee,
	}
}

// ClaimStatusChangedEvent is raised on a generic status transition
type ClaimStatusChangedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber    string      `json:"claim_number"`
	PreviousStatus ClaimStatus `json:"previous_status"`
	NewStatus      ClaimStatus `json:"new_status"`
	Reason         string      `json:"reason,omitempty"`
}

func NewClaimStatusChangedEvent(c *Claim, previous ClaimStatus, reason string) *ClaimStatusChangedEvent {
	return &ClaimStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.status_changed", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		PreviousStatus:  previous,
		NewStatus:       c.Status,
		Reason:          reason,
	}
}

// ClaimApprovedEvent is raised when a claim is approved for payment
type ClaimApprovedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber    string          `json:"claim_number"`
	PreviousStatus ClaimStatus     `json:"previous_status"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
}

func NewClaimApprovedEvent(c *Claim, previous ClaimStatus) *ClaimApprovedEvent {
	amount := decimal.Zero
	if c.ApprovedAmount != nil {
		amount = *c.ApprovedAmount
	}
	return &ClaimApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.approved", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		PreviousStatus:  previous,
		ApprovedAmount:  amount,
	}
}

// ClaimDeniedEvent is raised when a claim is denied
type ClaimDeniedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber    string      `json:"claim_number"`
	PreviousStatus ClaimStatus `json:"previous_status"`
	Reason         string      `json:"reason,omitempty"`
}

func NewClaimDeniedEvent(c *Claim, previous ClaimStatus, reason string) *ClaimDeniedEvent {
	return &ClaimDeniedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.denied", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		PreviousStatus:  previous,
		Reason:          reason,
	}
}

// ClaimPaidEvent is raised when a payment is recorded against a claim
type ClaimPaidEvent struct {
	shared.BaseDomainEvent
	ClaimNumber string          `json:"claim_number"`
	Amount      decimal.Decimal `json:"amount"`
	PaidTotal   decimal.Decimal `json:"paid_total"`
	AutoClosed  bool            `json:"auto_closed"`
}

func NewClaimPaidEvent(c *Claim, amount decimal.Decimal, autoClosed bool) *ClaimPaidEvent {
	return &ClaimPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.paid", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		Amount:          amount,
		PaidTotal:       c.PaidAmount,
		AutoClosed:      autoClosed,
	}
}

// ClaimClosedEvent is raised when a claim is closed manually
type ClaimClosedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber    string      `json:"claim_number"`
	PreviousStatus ClaimStatus `json:"previous_status"`
	Reason         string      `json:"reason,omitempty"`
}

func NewClaimClosedEvent(c *Claim, previous ClaimStatus, reason string) *ClaimClosedEvent {
	return &ClaimClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.closed", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		PreviousStatus:  previous,
		Reason:          reason,
	}
}

// ClaimInvestigationUpdatedEvent is raised when investigation fields change
type ClaimInvestigationUpdatedEvent struct {
	shared.BaseDomainEvent
	ClaimNumber   string   `json:"claim_number"`
	ChangedFields []string `json:"changed_fields"`
}

func NewClaimInvestigationUpdatedEvent(c *Claim, changed []string) *ClaimInvestigationUpdatedEvent {
	return &ClaimInvestigationUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("claim.investigation_updated", claimAggregateType, c.ID, c.TenantID),
		ClaimNumber:     c.ClaimNumber,
		ChangedFields:   changed,
	}
}
