package claims

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/claims"
)

// ClaimResponse represents a claim in API responses
type ClaimResponse struct {
	ID                 uuid.UUID        `json:"id"`
	TenantID           uuid.UUID        `json:"tenant_id"`
	ClaimNumber        string           `json:"claim_number"`
	ClaimType          string           `json:"claim_type"`
	Status             string           `json:"status"`
	Description        string           `json:"description,omitempty"`
	IncidentDate       *time.Time       `json:"incident_date,omitempty"`
	IncidentLocation   string           `json:"incident_location,omitempty"`
	ClaimedAmount      decimal.Decimal  `json:"claimed_amount"`
	ApprovedAmount     *decimal.Decimal `json:"approved_amount,omitempty"`
	PaidAmount         decimal.Decimal  `json:"paid_amount"`
	Disposition        *string          `json:"disposition,omitempty"`
	LoadID             *uuid.UUID       `json:"load_id,omitempty"`
	OrderID            *uuid.UUID       `json:"order_id,omitempty"`
	CarrierID          *uuid.UUID       `json:"carrier_id,omitempty"`
	CompanyID          *uuid.UUID       `json:"company_id,omitempty"`
	ClaimantName       string           `json:"claimant_name,omitempty"`
	ClaimantEmail      string           `json:"claimant_email,omitempty"`
	ClaimantPhone      string           `json:"claimant_phone,omitempty"`
	AssignedTo         *uuid.UUID       `json:"assigned_to,omitempty"`
	ReceivedDate       *time.Time       `json:"received_date,omitempty"`
	DueDate            *time.Time       `json:"due_date,omitempty"`
	ClosedDate         *time.Time       `json:"closed_date,omitempty"`
	InvestigationNotes string           `json:"investigation_notes,omitempty"`
	RootCause          string           `json:"root_cause,omitempty"`
	PreventionNotes    string           `json:"prevention_notes,omitempty"`
	DenialReason       string           `json:"denial_reason,omitempty"`
	ClosureReason      string           `json:"closure_reason,omitempty"`
	CreatedBy          *uuid.UUID       `json:"created_by,omitempty"`
	UpdatedBy          *uuid.UUID       `json:"updated_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Version            int              `json:"version"`
}

// ClaimDetailResponse is a claim with its eagerly loaded relations
type ClaimDetailResponse struct {
	ClaimResponse
	Items     []ItemResponse          `json:"items"`
	Documents []DocumentResponse      `json:"documents"`
	Notes     []NoteResponse          `json:"notes"`
	Timeline  []TimelineEntryResponse `json:"timeline"`
}

// ItemResponse represents a claim item in API responses
type ItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ClaimID      uuid.UUID       `json:"claim_id"`
	Description  string          `json:"description,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	DamageType   string          `json:"damage_type,omitempty"`
	DamageExtent string          `json:"damage_extent,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DocumentResponse represents a claim document in API responses
type DocumentResponse struct {
	ID           uuid.UUID  `json:"id"`
	ClaimID      uuid.UUID  `json:"claim_id"`
	DocumentType string     `json:"document_type,omitempty"`
	StorageKey   string     `json:"storage_key"`
	FileName     string     `json:"file_name,omitempty"`
	ContentType  string     `json:"content_type,omitempty"`
	FileSize     int64      `json:"file_size"`
	Description  string     `json:"description,omitempty"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NoteResponse represents a claim note in API responses
type NoteResponse struct {
	ID         uuid.UUID  `json:"id"`
	ClaimID    uuid.UUID  `json:"claim_id"`
	NoteText   string     `json:"note_text"`
	NoteType   string     `json:"note_type,omitempty"`
	IsInternal bool       `json:"is_internal"`
	AuthorID   *uuid.UUID `json:"author_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AdjustmentResponse represents a claim adjustment in API responses
type AdjustmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	ClaimID        uuid.UUID       `json:"claim_id"`
	AdjustmentType string          `json:"adjustment_type"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason,omitempty"`
	CreatedBy      *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SubrogationResponse represents a subrogation record in API responses
type SubrogationResponse struct {
	ID               uuid.UUID        `json:"id"`
	ClaimID          uuid.UUID        `json:"claim_id"`
	PartyName        string           `json:"party_name"`
	PartyType        string           `json:"party_type"`
	Status           string           `json:"status"`
	AmountSought     decimal.Decimal  `json:"amount_sought"`
	AmountRecovered  decimal.Decimal  `json:"amount_recovered"`
	SettlementAmount *decimal.Decimal `json:"settlement_amount,omitempty"`
	AttorneyName     string           `json:"attorney_name,omitempty"`
	CaseNumber       string           `json:"case_number,omitempty"`
	FilingDate       *time.Time       `json:"filing_date,omitempty"`
	SettlementDate   *time.Time       `json:"settlement_date,omitempty"`
	ClosedDate       *time.Time       `json:"closed_date,omitempty"`
	ClosureReason    string           `json:"closure_reason,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          int              `json:"version"`
}

// TimelineEntryResponse represents an audit entry in API responses
type TimelineEntryResponse struct {
	ID          uuid.UUID      `json:"id"`
	ClaimID     uuid.UUID      `json:"claim_id"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description,omitempty"`
	Payload     claims.Payload `json:"payload,omitempty"`
	ActorID     *uuid.UUID     `json:"actor_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toClaimResponse(c *claims.Claim) *ClaimResponse {
	resp := &ClaimResponse{
		ID:                 c.ID,
		TenantID:           c.TenantID,
		ClaimNumber:        c.ClaimNumber,
		ClaimType:          c.ClaimType.String(),
		Status:             c.Status.String(),
		Description:        c.Description,
		IncidentDate:       c.IncidentDate,
		IncidentLocation:   c.IncidentLocation,
		ClaimedAmount:      c.ClaimedAmount,
		ApprovedAmount:     c.ApprovedAmount,
		PaidAmount:         c.PaidAmount,
		LoadID:             c.LoadID,
		OrderID:            c.OrderID,
		CarrierID:          c.CarrierID,
		CompanyID:          c.CompanyID,
		ClaimantName:       c.ClaimantName,
		ClaimantEmail:      c.ClaimantEmail,
		ClaimantPhone:      c.ClaimantPhone,
		AssignedTo:         c.AssignedTo,
		ReceivedDate:       c.ReceivedDate,
		DueDate:            c.DueDate,
		ClosedDate:         c.ClosedDate,
		InvestigationNotes: c.InvestigationNotes,
		RootCause:          c.RootCause,
		PreventionNotes:    c.PreventionNotes,
		DenialReason:       c.DenialReason,
		ClosureReason:      c.ClosureReason,
		CreatedBy:          c.CreatedBy,
		UpdatedBy:          c.UpdatedBy,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Version:            c.Version,
	}
	if c.Disposition != nil {
		disposition := c.Disposition.String()
		resp.Disposition = &disposition
	}
	return resp
}

func toItemResponse(i *claims.ClaimItem) *ItemResponse {
	return &ItemResponse{
		ID:           i.ID,
		ClaimID:      i.ClaimID,
		Description:  i.Description,
		Quantity:     i.Quantity,
		UnitPrice:    i.UnitPrice,
		TotalValue:   i.TotalValue,
		DamageType:   i.DamageType,
		DamageExtent: i.DamageExtent,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func toDocumentResponse(d *claims.ClaimDocument) *DocumentResponse {
	return &DocumentResponse{
		ID:           d.ID,
		ClaimID:      d.ClaimID,
		DocumentType: d.DocumentType,
		StorageKey:   d.StorageKey,
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		FileSize:     d.FileSize,
		Description:  d.Description,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
	}
}

func toNoteResponse(n *claims.ClaimNote) *NoteResponse {
	return &NoteResponse{
		ID:         n.ID,
		ClaimID:    n.ClaimID,
		NoteText:   n.NoteText,
		NoteType:   n.NoteType,
		IsInternal: n.IsInternal,
		AuthorID:   n.AuthorID,
		CreatedAt:  n.CreatedAt,
	}
}

func toAdjustmentResponse(a *claims.ClaimAdjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		ID:             a.ID,
		ClaimID:        a.ClaimID,
		AdjustmentType: a.AdjustmentType,
		Amount:         a.Amount,
		Reason:         a.Reason,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
	}
}

func toSubrogationResponse(r *claims.SubrogationRecord) *SubrogationResponse {
	return &SubrogationResponse{
		ID:               r.ID,
		ClaimID:          r.ClaimID,
		PartyName:        r.PartyName,
		PartyType:        r.PartyType.String(),
		Status:           r.Status.String(),
		AmountSought:     r.AmountSought,
		AmountRecovered:  r.AmountRecovered,
		SettlementAmount: r.SettlementAmount,
		AttorneyName:     r.AttorneyName,
		CaseNumber:       r.CaseNumber,
		FilingDate:       r.FilingDate,
		SettlementDate:   r.SettlementDate,
		ClosedDate:       r.ClosedDate,
		ClosureReason:    r.ClosureReason,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}
}

func toTimelineEntryResponse(e *claims.TimelineEntry) *TimelineEntryResponse {
	return &TimelineEntryResponse{
		ID:          e.ID,
		ClaimID:     e.ClaimID,
		EventType:   e.EventType,
		Description: e.Description,
		Payload:     e.Payload,
		ActorID:     e.ActorID,
		CreatedAt:   e.CreatedAt,
	}
}
