package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/claims"
)

// ClaimModel is the persistence model for the Claim aggregate root.
type ClaimModel struct {
	TenantAggregateModel
	ClaimNumber string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_claim_tenant_number,priority:2,where:deleted_at IS NULL"`
	ClaimType   claims.ClaimType   `gorm:"type:varchar(20);not null;index"`
	Status      claims.ClaimStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Description string             `gorm:"type:text"`

	IncidentDate     *time.Time
	IncidentLocation string `gorm:"type:varchar(500)"`

	ClaimedAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ApprovedAmount *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	PaidAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Disposition    *claims.Disposition `gorm:"type:varchar(20)"`

	LoadID    *uuid.UUID `gorm:"type:uuid;index"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	CarrierID *uuid.UUID `gorm:"type:uuid;index"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`

	ClaimantName  string `gorm:"type:varchar(200)"`
	ClaimantEmail string `gorm:"type:varchar(200)"`
	ClaimantPhone string `gorm:"type:varchar(50)"`

	AssignedTo   *uuid.UUID `gorm:"type:uuid;index"`
	ReceivedDate *time.Time
	DueDate      *time.Time `gorm:"index"`
	ClosedDate   *time.Time

	InvestigationNotes string `gorm:"type:text"`
	RootCause          string `gorm:"type:text"`
	PreventionNotes    string `gorm:"type:text"`

	DenialReason  string `gorm:"type:varchar(1000)"`
	ClosureReason string `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (ClaimModel) TableName() string {
	return "claims"
}

// ToDomain converts the persistence model to a domain Claim
func (m *ClaimModel) ToDomain() *claims.Claim {
	return &claims.Claim{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ClaimNumber:         m.ClaimNumber,
		ClaimType:           m.ClaimType,
		Status:              m.Status,
		Description:         m.Description,
		IncidentDate:        m.IncidentDate,
		IncidentLocation:    m.IncidentLocation,
		ClaimedAmount:       m.ClaimedAmount,
		ApprovedAmount:      m.ApprovedAmount,
		PaidAmount:          m.PaidAmount,
		Disposition:         m.Disposition,
		LoadID:              m.LoadID,
		OrderID:             m.OrderID,
		CarrierID:           m.CarrierID,
		CompanyID:           m.CompanyID,
		ClaimantName:        m.ClaimantName,
		ClaimantEmail:       m.ClaimantEmail,
		ClaimantPhone:       m.ClaimantPhone,
		AssignedTo:          m.AssignedTo,
		ReceivedDate:        m.ReceivedDate,
		DueDate:             m.DueDate,
		ClosedDate:          m.ClosedDate,
		InvestigationNotes:  m.InvestigationNotes,
		RootCause:           m.RootCause,
		PreventionNotes:     m.PreventionNotes,
		DenialReason:        m.DenialReason,
		ClosureReason:       m.ClosureReason,
	}
}

// FromDomain populates the persistence model from a domain Claim
func (m *ClaimModel) FromDomain(c *claims.Claim) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.ClaimNumber = c.ClaimNumber
	m.ClaimType = c.ClaimType
	m.Status = c.Status
	m.Description = c.Description
	m.IncidentDate = c.IncidentDate
	m.IncidentLocation = c.IncidentLocation
	m.ClaimedAmount = c.ClaimedAmount
	m.ApprovedAmount = c.ApprovedAmount
	m.PaidAmount = c.PaidAmount
	m.Disposition = c.Disposition
	m.LoadID = c.LoadID
	m.OrderID = c.OrderID
	m.CarrierID = c.CarrierID
	m.CompanyID = c.CompanyID
	m.ClaimantName = c.ClaimantName
	m.ClaimantEmail = c.ClaimantEmail
	m.ClaimantPhone = c.ClaimantPhone
	m.AssignedTo = c.AssignedTo
	m.ReceivedDate = c.ReceivedDate
	m.DueDate = c.DueDate
	m.ClosedDate = c.ClosedDate
	m.InvestigationNotes = c.InvestigationNotes
	m.RootCause = c.RootCause
	m.PreventionNotes = c.PreventionNotes
	m.DenialReason = c.DenialReason
	m.ClosureReason = c.ClosureReason
}

// ClaimModelFromDomain creates a new persistence model from a domain Claim
func ClaimModelFromDomain(c *claims.Claim) *ClaimModel {
	m := &ClaimModel{}
	m.FromDomain(c)
	return m
}

// ClaimItemModel is the persistence model for claim line items.
type ClaimItemModel struct {
	TenantModel
	ClaimID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description  string          `gorm:"type:varchar(500)"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalValue   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DamageType   string          `gorm:"type:varchar(100)"`
	DamageExtent string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ClaimItemModel) TableName() string {
	return "claim_items"
}

// ToDomain converts the persistence model to a domain ClaimItem
func (m *ClaimItemModel) ToDomain() *claims.ClaimItem {
	return &claims.ClaimItem{
		TenantEntity: m.ToDomainTenantEntity(),
		ClaimID:      m.ClaimID,
		Description:  m.Description,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		TotalValue:   m.TotalValue,
		DamageType:   m.DamageType,
		DamageExtent: m.DamageExtent,
	}
}

// ClaimItemModelFromDomain creates a persistence model from a domain ClaimItem
func ClaimItemModelFromDomain(i *claims.ClaimItem) *ClaimItemModel {
	m := &ClaimItemModel{}
	m.FromDomainTenantEntity(i.TenantEntity)
	m.ClaimID = i.ClaimID
	m.Description = i.Description
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.TotalValue = i.TotalValue
	m.DamageType = i.DamageType
	m.DamageExtent = i.DamageExtent
	return m
}

// ClaimDocumentModel is the persistence model for document references.
type ClaimDocumentModel struct {
	TenantModel
	ClaimID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	DocumentType string     `gorm:"type:varchar(50)"`
	StorageKey   string     `gorm:"type:varchar(1000);not null"`
	FileName     string     `gorm:"type:varchar(500)"`
	ContentType  string     `gorm:"type:varchar(200)"`
	FileSize     int64      `gorm:"not null;default:0"`
	Description  string     `gorm:"type:varchar(1000)"`
	UploadedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ClaimDocumentModel) TableName() string {
	return "claim_documents"
}

// ToDomain converts the persistence model to a domain ClaimDocument
func (m *ClaimDocumentModel) ToDomain() *claims.ClaimDocument {
	return &claims.ClaimDocument{
		TenantEntity: m.ToDomainTenantEntity(),
		ClaimID:      m.ClaimID,
		DocumentType: m.DocumentType,
		StorageKey:   m.StorageKey,
		FileName:     m.FileName,
		ContentType:  m.ContentType,
		FileSize:     m.FileSize,
		Description:  m.Description,
		UploadedBy:   m.UploadedBy,
	}
}

// ClaimDocumentModelFromDomain creates a persistence model from a domain ClaimDocument
func ClaimDocumentModelFromDomain(d *claims.ClaimDocument) *ClaimDocumentModel {
	m := &ClaimDocumentModel{}
	m.FromDomainTenantEntity(d.TenantEntity)
	m.ClaimID = d.ClaimID
	m.DocumentType = d.DocumentType
	m.StorageKey = d.StorageKey
	m.FileName = d.FileName
	m.ContentType = d.ContentType
	m.FileSize = d.FileSize
	m.Description = d.Description
	m.UploadedBy = d.UploadedBy
	return m
}

// ClaimNoteModel is the persistence model for claim notes.
type ClaimNoteModel struct {
	TenantModel
	ClaimID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	NoteText   string     `gorm:"type:text;not null"`
	NoteType   string     `gorm:"type:varchar(50)"`
	IsInternal bool       `gorm:"not null;default:false"`
	AuthorID   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ClaimNoteModel) TableName() string {
	return "claim_notes"
}

// ToDomain converts the persistence model to a domain ClaimNote
func (m *ClaimNoteModel) ToDomain() *claims.ClaimNote {
	return &claims.ClaimNote{
		TenantEntity: m.ToDomainTenantEntity(),
		ClaimID:      m.ClaimID,
		NoteText:     m.NoteText,
		NoteType:     m.NoteType,
		IsInternal:   m.IsInternal,
		AuthorID:     m.AuthorID,
	}
}

// ClaimNoteModelFromDomain creates a persistence model from a domain ClaimNote
func ClaimNoteModelFromDomain(n *claims.ClaimNote) *ClaimNoteModel {
	m := &ClaimNoteModel{}
	m.FromDomainTenantEntity(n.TenantEntity)
	m.ClaimID = n.ClaimID
	m.NoteText = n.NoteText
	m.NoteType = n.NoteType
	m.IsInternal = n.IsInternal
	m.AuthorID = n.AuthorID
	return m
}

// ClaimAdjustmentModel is the persistence model for financial adjustments.
type ClaimAdjustmentModel struct {
	TenantModel
	ClaimID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AdjustmentType string          `gorm:"type:varchar(50);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason         string          `gorm:"type:varchar(1000)"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ClaimAdjustmentModel) TableName() string {
	return "claim_adjustments"
}

// ToDomain converts the persistence model to a domain ClaimAdjustment
func (m *ClaimAdjustmentModel) ToDomain() *claims.ClaimAdjustment {
	return &claims.ClaimAdjustment{
		TenantEntity:   m.ToDomainTenantEntity(),
		ClaimID:        m.ClaimID,
		AdjustmentType: m.AdjustmentType,
		Amount:         m.Amount,
		Reason:         m.Reason,
		CreatedBy:      m.CreatedBy,
	}
}

// ClaimAdjustmentModelFromDomain creates a persistence model from a domain ClaimAdjustment
func ClaimAdjustmentModelFromDomain(a *claims.ClaimAdjustment) *ClaimAdjustmentModel {
	m := &ClaimAdjustmentModel{}
	m.FromDomainTenantEntity(a.TenantEntity)
	m.ClaimID = a.ClaimID
	m.AdjustmentType = a.AdjustmentType
	m.Amount = a.Amount
	m.Reason = a.Reason
	m.CreatedBy = a.CreatedBy
	return m
}

// SubrogationRecordModel is the persistence model for the SubrogationRecord
// aggregate root.
type SubrogationRecordModel struct {
	TenantAggregateModel
	ClaimID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	PartyName        string                   `gorm:"type:varchar(200);not null"`
	PartyType        claims.PartyType         `gorm:"type:varchar(20);not null"`
	Status           claims.SubrogationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	AmountSought     decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	AmountRecovered  decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	SettlementAmount *decimal.Decimal         `gorm:"type:decimal(18,4)"`
	AttorneyName     string                   `gorm:"type:varchar(200)"`
	CaseNumber       string                   `gorm:"type:varchar(100)"`
	FilingDate       *time.Time
	SettlementDate   *time.Time
	ClosedDate       *time.Time
	ClosureReason    string `gorm:"type:varchar(1000)"`
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SubrogationRecordModel) TableName() string {
	return "subrogation_records"
}

// ToDomain converts the persistence model to a domain SubrogationRecord
func (m *SubrogationRecordModel) ToDomain() *claims.SubrogationRecord {
	return &claims.SubrogationRecord{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ClaimID:             m.ClaimID,
		PartyName:           m.PartyName,
		PartyType:           m.PartyType,
		Status:              m.Status,
		AmountSought:        m.AmountSought,
		AmountRecovered:     m.AmountRecovered,
		SettlementAmount:    m.SettlementAmount,
		AttorneyName:        m.AttorneyName,
		CaseNumber:          m.CaseNumber,
		FilingDate:          m.FilingDate,
		SettlementDate:      m.SettlementDate,
		ClosedDate:          m.ClosedDate,
		ClosureReason:       m.ClosureReason,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain SubrogationRecord
func (m *SubrogationRecordModel) FromDomain(r *claims.SubrogationRecord) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.ClaimID = r.ClaimID
	m.PartyName = r.PartyName
	m.PartyType = r.PartyType
	m.Status = r.Status
	m.AmountSought = r.AmountSought
	m.AmountRecovered = r.AmountRecovered
	m.SettlementAmount = r.SettlementAmount
	m.AttorneyName = r.AttorneyName
	m.CaseNumber = r.CaseNumber
	m.FilingDate = r.FilingDate
	m.SettlementDate = r.SettlementDate
	m.ClosedDate = r.ClosedDate
	m.ClosureReason = r.ClosureReason
	m.Notes = r.Notes
}

// SubrogationRecordModelFromDomain creates a persistence model from a domain SubrogationRecord
func SubrogationRecordModelFromDomain(r *claims.SubrogationRecord) *SubrogationRecordModel {
	m := &SubrogationRecordModel{}
	m.FromDomain(r)
	return m
}

// ClaimTimelineModel is the persistence model for the append-only audit
// log. Timeline rows are never updated or deleted.
type ClaimTimelineModel struct {
	TenantModel
	ClaimID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	EventType   string         `gorm:"type:varchar(50);not null;index"`
	Description string         `gorm:"type:varchar(1000)"`
	Payload     claims.Payload `gorm:"type:jsonb;default:'{}'"`
	ActorID     *uuid.UUID     `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ClaimTimelineModel) TableName() string {
	return "claim_timeline"
}

// ToDomain converts the persistence model to a domain TimelineEntry
func (m *ClaimTimelineModel) ToDomain() *claims.TimelineEntry {
	return &claims.TimelineEntry{
		TenantEntity: m.ToDomainTenantEntity(),
		ClaimID:      m.ClaimID,
		EventType:    m.EventType,
		Description:  m.Description,
		Payload:      m.Payload,
		ActorID:      m.ActorID,
	}
}

// ClaimTimelineModelFromDomain creates a persistence model from a domain TimelineEntry
func ClaimTimelineModelFromDomain(e *claims.TimelineEntry) *ClaimTimelineModel {
	m := &ClaimTimelineModel{}
	m.FromDomainTenantEntity(e.TenantEntity)
	m.ClaimID = e.ClaimID
	m.EventType = e.EventType
	m.Description = e.Description
	m.Payload = e.Payload
	m.ActorID = e.ActorID
	return m
}
