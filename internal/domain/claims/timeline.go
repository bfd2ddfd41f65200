package claims

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// Timeline event types. Every mutating operation on a claim or one of its
// child records appends exactly one entry with one of these tags.
const (
	EventClaimCreated         = "CLAIM_CREATED"
	EventClaimUpdated         = "CLAIM_UPDATED"
	EventClaimSubmitted       = "CLAIM_SUBMITTED"
	EventClaimAssigned        = "CLAIM_ASSIGNED"
	EventStatusChanged        = "STATUS_CHANGED"
	EventClaimDeleted         = "CLAIM_DELETED"
	EventClaimApproved        = "CLAIM_APPROVED"
	EventClaimDenied          = "CLAIM_DENIED"
	EventClaimPaid            = "CLAIM_PAID"
	EventClaimClosed          = "CLAIM_CLOSED"
	EventInvestigationUpdated = "INVESTIGATION_UPDATED"
	EventAdjustmentAdded      = "ADJUSTMENT_ADDED"
	EventAdjustmentRemoved    = "ADJUSTMENT_REMOVED"
	EventItemAdded            = "ITEM_ADDED"
	EventItemUpdated          = "ITEM_UPDATED"
	EventItemRemoved          = "ITEM_REMOVED"
	EventDocumentAdded        = "DOCUMENT_ADDED"
	EventDocumentRemoved      = "DOCUMENT_REMOVED"
	EventNoteAdded            = "NOTE_ADDED"
	EventNoteRemoved          = "NOTE_REMOVED"
	EventSubrogationCreated   = "SUBROGATION_CREATED"
	EventSubrogationUpdated   = "SUBROGATION_UPDATED"
	EventSubrogationRecovery  = "SUBROGATION_RECOVERY"
	EventSubrogationRemoved   = "SUBROGATION_REMOVED"
)

// Payload is the structured context attached to a timeline entry, stored
// as JSON.
type Payload map[string]any

// Value implements driver.Valuer for JSONB storage
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB storage
func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		*p = Payload{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Payload: unsupported type")
	}

	if len(bytes) == 0 {
		*p = Payload{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// TimelineEntry is one immutable audit record in a claim's history.
// Entries are append-only; no update or delete operation exists.
type TimelineEntry struct {
	shared.TenantEntity
	ClaimID     uuid.UUID  `json:"claim_id"`
	EventType   string     `json:"event_type"`
	Description string     `json:"description"`
	Payload     Payload    `json:"payload"`
	ActorID     *uuid.UUID `json:"actor_id"`
}

// NewTimelineEntry creates an audit entry for a claim
func NewTimelineEntry(tenantID, claimID uuid.UUID, eventType, description string, payload Payload, actorID *uuid.UUID) (*TimelineEntry, error) {
	if eventType == "" {
		return nil, shared.NewDomainError("INVALID_EVENT", "Event type cannot be empty")
	}

	return &TimelineEntry{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ClaimID:      claimID,
		EventType:    eventType,
		Description:  description,
		Payload:      payload,
		ActorID:      actorID,
	}, nil
}
