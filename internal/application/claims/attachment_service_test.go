package claims

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
)

type attachmentFixture struct {
	service  *AttachmentService
	storage  *fakeObjectStorage
	timeline *fakeTimelineRepo
	tenantID uuid.UUID
	userID   uuid.UUID
	claimID  uuid.UUID
}

func newAttachmentFixture(t *testing.T) *attachmentFixture {
	t.Helper()
	claimRepo := newFakeClaimRepo()
	itemRepo := newFakeItemRepo()
	docRepo := newFakeDocumentRepo()
	noteRepo := newFakeNoteRepo()
	timeline := newFakeTimelineRepo()
	storage := newFakeObjectStorage()
	service := NewAttachmentService(claimRepo, itemRepo, docRepo, noteRepo,
		NewTimelineRecorder(timeline), storage, DefaultAttachmentServiceConfig())

	f := &attachmentFixture{
		service:  service,
		storage:  storage,
		timeline: timeline,
		tenantID: uuid.New(),
		userID:   uuid.New(),
	}
	claim, err := domain.NewClaim(f.tenantID, f.userID, domain.NewClaimInput{
		ClaimNumber:   "CLM-20260828-SEED03",
		ClaimType:     domain.ClaimTypeShortage,
		ClaimedAmount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	require.NoError(t, claimRepo.Save(context.Background(), claim))
	f.claimID = claim.ID
	return f
}

func TestAttachmentItems(t *testing.T) {
	t.Run("add and update rederive total value", func(t *testing.T) {
		f := newAttachmentFixture(t)

		added, err := f.service.AddItem(context.Background(), f.tenantID, f.userID, f.claimID, CreateItemRequest{
			Description: "Pallet of monitors",
			Quantity:    decimal.NewFromInt(4),
			UnitPrice:   decimal.NewFromInt(25),
		})
		require.NoError(t, err)
		assert.True(t, added.TotalValue.Equal(decimal.NewFromInt(100)))

		quantity := decimal.NewFromInt(6)
		updated, err := f.service.UpdateItem(context.Background(), f.tenantID, f.userID, f.claimID, added.ID, UpdateItemRequest{
			Quantity: &quantity,
		})
		require.NoError(t, err)
		assert.True(t, updated.TotalValue.Equal(decimal.NewFromInt(150)))

		events := f.timeline.eventsFor(f.claimID)
		assert.Equal(t, []string{domain.EventItemAdded, domain.EventItemUpdated}, events)
	})

	t.Run("items list oldest first and hide removed rows", func(t *testing.T) {
		f := newAttachmentFixture(t)
		first, err := f.service.AddItem(context.Background(), f.tenantID, f.userID, f.claimID, CreateItemRequest{
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		second, err := f.service.AddItem(context.Background(), f.tenantID, f.userID, f.claimID, CreateItemRequest{
			Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10),
		})
		require.NoError(t, err)

		listed, err := f.service.ListItems(context.Background(), f.tenantID, f.claimID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, first.ID, listed[0].ID)

		require.NoError(t, f.service.RemoveItem(context.Background(), f.tenantID, f.userID, f.claimID, first.ID))

		listed, err = f.service.ListItems(context.Background(), f.tenantID, f.claimID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, second.ID, listed[0].ID)
	})

	t.Run("missing parent claim gates every operation", func(t *testing.T) {
		f := newAttachmentFixture(t)
		bogus := uuid.New()

		_, err := f.service.AddItem(context.Background(), f.tenantID, f.userID, bogus, CreateItemRequest{
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)

		_, err = f.service.ListItems(context.Background(), f.tenantID, bogus)
		require.Error(t, err)
	})
}

func TestAttachmentDocuments(t *testing.T) {
	t.Run("add issues presigned upload url with scoped key", func(t *testing.T) {
		f := newAttachmentFixture(t)

		resp, err := f.service.AddDocument(context.Background(), f.tenantID, f.userID, f.claimID, AddDocumentRequest{
			DocumentType: "BOL",
			FileName:     "bill-of-lading.pdf",
			ContentType:  "application/pdf",
			FileSize:     2048,
		})

		require.NoError(t, err)
		assert.Contains(t, resp.Document.StorageKey, "tenants/"+f.tenantID.String())
		assert.Contains(t, resp.Document.StorageKey, "claims/"+f.claimID.String())
		assert.Contains(t, resp.UploadURL, resp.Document.StorageKey)
		assert.Contains(t, f.timeline.eventsFor(f.claimID), domain.EventDocumentAdded)
	})

	t.Run("get returns a download url", func(t *testing.T) {
		f := newAttachmentFixture(t)
		added, err := f.service.AddDocument(context.Background(), f.tenantID, f.userID, f.claimID, AddDocumentRequest{
			FileName: "photos.zip",
		})
		require.NoError(t, err)

		doc, err := f.service.GetDocument(context.Background(), f.tenantID, f.claimID, added.Document.ID)

		require.NoError(t, err)
		assert.Contains(t, doc.DownloadURL, added.Document.StorageKey)
	})

	t.Run("remove deletes the stored object", func(t *testing.T) {
		f := newAttachmentFixture(t)
		added, err := f.service.AddDocument(context.Background(), f.tenantID, f.userID, f.claimID, AddDocumentRequest{
			FileName: "inspection.pdf",
		})
		require.NoError(t, err)

		require.NoError(t, f.service.RemoveDocument(context.Background(), f.tenantID, f.userID, f.claimID, added.Document.ID))

		exists, err := f.storage.ObjectExists(context.Background(), added.Document.StorageKey)
		require.NoError(t, err)
		assert.False(t, exists)

		listed, err := f.service.ListDocuments(context.Background(), f.tenantID, f.claimID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})
}

func TestAttachmentNotes(t *testing.T) {
	t.Run("visibility defaults to external", func(t *testing.T) {
		f := newAttachmentFixture(t)

		note, err := f.service.AddNote(context.Background(), f.tenantID, f.userID, f.claimID, AddNoteRequest{
			NoteText: "Called the carrier, awaiting response",
		})

		require.NoError(t, err)
		assert.False(t, note.IsInternal)
	})

	t.Run("explicit internal flag is honored", func(t *testing.T) {
		f := newAttachmentFixture(t)
		internal := true

		note, err := f.service.AddNote(context.Background(), f.tenantID, f.userID, f.claimID, AddNoteRequest{
			NoteText:   "Suspect staged damage",
			NoteType:   "INVESTIGATION",
			IsInternal: &internal,
		})

		require.NoError(t, err)
		assert.True(t, note.IsInternal)
	})

	t.Run("add and remove record timeline events", func(t *testing.T) {
		f := newAttachmentFixture(t)
		note, err := f.service.AddNote(context.Background(), f.tenantID, f.userID, f.claimID, AddNoteRequest{
			NoteText: "first note",
		})
		require.NoError(t, err)

		require.NoError(t, f.service.RemoveNote(context.Background(), f.tenantID, f.userID, f.claimID, note.ID))

		events := f.timeline.eventsFor(f.claimID)
		assert.Equal(t, []string{domain.EventNoteAdded, domain.EventNoteRemoved}, events)
	})
}
