package claims

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/domain/shared"
)

// In-memory repository fakes shared by the service tests.

type fakeClaimRepo struct {
	mu                sync.Mutex
	claims            map[uuid.UUID]*claims.Claim
	deleted           map[uuid.UUID]bool
	numberTaken       func(string) bool
	saveErr           error
	lockErr           error
	saveWithLockCalls int
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{
		claims:  make(map[uuid.UUID]*claims.Claim),
		deleted: make(map[uuid.UUID]bool),
	}
}

func (r *fakeClaimRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*claims.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok || r.deleted[id] || c.TenantID != tenantID {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *fakeClaimRepo) FindByClaimNumber(_ context.Context, tenantID uuid.UUID, claimNumber string) (*claims.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.claims {
		if c.TenantID == tenantID && c.ClaimNumber == claimNumber && !r.deleted[id] {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeClaimRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter claims.ClaimFilter) ([]claims.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []claims.Claim
	for id, c := range r.claims {
		if c.TenantID != tenantID || r.deleted[id] {
			continue
		}
		if !claimMatches(c, filter) {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	filter.Normalize()
	start := filter.Offset()
	if start >= len(matched) {
		return nil, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *fakeClaimRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, filter claims.ClaimFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for id, c := range r.claims {
		if c.TenantID == tenantID && !r.deleted[id] && claimMatches(c, filter) {
			total++
		}
	}
	return total, nil
}

func claimMatches(c *claims.Claim, filter claims.ClaimFilter) bool {
	if filter.Status != nil && c.Status != *filter.Status {
		return false
	}
	if filter.ClaimType != nil && c.ClaimType != *filter.ClaimType {
		return false
	}
	if filter.CarrierID != nil && (c.CarrierID == nil || *c.CarrierID != *filter.CarrierID) {
		return false
	}
	if filter.CompanyID != nil && (c.CompanyID == nil || *c.CompanyID != *filter.CompanyID) {
		return false
	}
	if filter.AssignedTo != nil && (c.AssignedTo == nil || *c.AssignedTo != *filter.AssignedTo) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(c.ClaimNumber), needle) &&
			!strings.Contains(strings.ToLower(c.Description), needle) &&
			!strings.Contains(strings.ToLower(c.ClaimantName), needle) {
			return false
		}
	}
	return true
}

func (r *fakeClaimRepo) Save(_ context.Context, claim *claims.Claim) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *claim
	r.claims[claim.ID] = &clone
	return nil
}

func (r *fakeClaimRepo) SaveWithLock(_ context.Context, claim *claims.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveWithLockCalls++
	if r.lockErr != nil {
		return r.lockErr
	}
	clone := *claim
	r.claims[claim.ID] = &clone
	return nil
}

func (r *fakeClaimRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok || r.deleted[id] || c.TenantID != tenantID {
		return shared.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *fakeClaimRepo) ExistsByClaimNumber(_ context.Context, tenantID uuid.UUID, claimNumber string) (bool, error) {
	if r.numberTaken != nil {
		return r.numberTaken(claimNumber), nil
	}
	c, _ := r.FindByClaimNumber(context.Background(), tenantID, claimNumber)
	return c != nil, nil
}

func (r *fakeClaimRepo) ExistsForTenant(_ context.Context, tenantID, id uuid.UUID) (bool, error) {
	c, _ := r.FindByIDForTenant(context.Background(), tenantID, id)
	return c != nil, nil
}

type fakeItemRepo struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*claims.ClaimItem
	deleted map[uuid.UUID]bool
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*claims.ClaimItem), deleted: make(map[uuid.UUID]bool)}
}

func (r *fakeItemRepo) FindByIDForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) (*claims.ClaimItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || r.deleted[id] || item.TenantID != tenantID || item.ClaimID != claimID {
		return nil, nil
	}
	clone := *item
	return &clone, nil
}

func (r *fakeItemRepo) FindByClaim(_ context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []claims.ClaimItem
	for id, item := range r.items {
		if item.TenantID == tenantID && item.ClaimID == claimID && !r.deleted[id] {
			result = append(result, *item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeItemRepo) Save(_ context.Context, item *claims.ClaimItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeItemRepo) DeleteForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || r.deleted[id] || item.TenantID != tenantID || item.ClaimID != claimID {
		return shared.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

type fakeDocumentRepo struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*claims.ClaimDocument
	deleted   map[uuid.UUID]bool
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{documents: make(map[uuid.UUID]*claims.ClaimDocument), deleted: make(map[uuid.UUID]bool)}
}

func (r *fakeDocumentRepo) FindByIDForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) (*claims.ClaimDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.documents[id]
	if !ok || r.deleted[id] || doc.TenantID != tenantID || doc.ClaimID != claimID {
		return nil, nil
	}
	clone := *doc
	return &clone, nil
}

func (r *fakeDocumentRepo) FindByClaim(_ context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []claims.ClaimDocument
	for id, doc := range r.documents {
		if doc.TenantID == tenantID && doc.ClaimID == claimID && !r.deleted[id] {
			result = append(result, *doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeDocumentRepo) Save(_ context.Context, document *claims.ClaimDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *document
	r.documents[document.ID] = &clone
	return nil
}

func (r *fakeDocumentRepo) DeleteForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.documents[id]
	if !ok || r.deleted[id] || doc.TenantID != tenantID || doc.ClaimID != claimID {
		return shared.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

type fakeNoteRepo struct {
	mu      sync.Mutex
	notes   map[uuid.UUID]*claims.ClaimNote
	deleted map[uuid.UUID]bool
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]*claims.ClaimNote), deleted: make(map[uuid.UUID]bool)}
}

func (r *fakeNoteRepo) FindByClaim(_ context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []claims.ClaimNote
	for id, note := range r.notes {
		if note.TenantID == tenantID && note.ClaimID == claimID && !r.deleted[id] {
			result = append(result, *note)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeNoteRepo) Save(_ context.Context, note *claims.ClaimNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *note
	r.notes[note.ID] = &clone
	return nil
}

func (r *fakeNoteRepo) DeleteForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.notes[id]
	if !ok || r.deleted[id] || note.TenantID != tenantID || note.ClaimID != claimID {
		return shared.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

type fakeAdjustmentRepo struct {
	mu          sync.Mutex
	adjustments map[uuid.UUID]*claims.ClaimAdjustment
	deleted     map[uuid.UUID]bool
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{adjustments: make(map[uuid.UUID]*claims.ClaimAdjustment), deleted: make(map[uuid.UUID]bool)}
}

func (r *fakeAdjustmentRepo) FindByClaim(_ context.Context, tenantID, claimID uuid.UUID) ([]claims.ClaimAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []claims.ClaimAdjustment
	for id, a := range r.adjustments {
		if a.TenantID == tenantID && a.ClaimID == claimID && !r.deleted[id] {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeAdjustmentRepo) Save(_ context.Context, adjustment *claims.ClaimAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *adjustment
	r.adjustments[adjustment.ID] = &clone
	return nil
}

func (r *fakeAdjustmentRepo) DeleteForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.adjustments[id]
	if !ok || r.deleted[id] || a.TenantID != tenantID || a.ClaimID != claimID {
		return shared.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

type fakeSubrogationRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*claims.SubrogationRecord
	deleted map[uuid.UUID]bool
	lockErr error
}

func newFakeSubrogationRepo() *fakeSubrogationRepo {
	return &fakeSubrogationRepo{records: make(map[uuid.UUID]*claims.SubrogationRecord), deleted: make(map[uuid.UUID]bool)}
}

func (r *fakeSubrogationRepo) FindByIDForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) (*claims.SubrogationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok || r.deleted[id] || record.TenantID != tenantID || record.ClaimID != claimID {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (r *fakeSubrogationRepo) FindByClaim(_ context.Context, tenantID, claimID uuid.UUID) ([]claims.SubrogationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []claims.SubrogationRecord
	for id, record := range r.records {
		if record.TenantID == tenantID && record.ClaimID == claimID && !r.deleted[id] {
			result = append(result, *record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeSubrogationRepo) Save(_ context.Context, record *claims.SubrogationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *fakeSubrogationRepo) SaveWithLock(ctx context.Context, record *claims.SubrogationRecord) error {
	if r.lockErr != nil {
		return r.lockErr
	}
	return r.Save(ctx, record)
}

func (r *fakeSubrogationRepo) DeleteForTenant(_ context.Context, tenantID, claimID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok || r.deleted[id] || record.TenantID != tenantID || record.ClaimID != claimID {
		return shared.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

type fakeTimelineRepo struct {
	mu      sync.Mutex
	entries []claims.TimelineEntry
}

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{}
}

func (r *fakeTimelineRepo) Append(_ context.Context, entry *claims.TimelineEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeTimelineRepo) FindByClaim(_ context.Context, tenantID, claimID uuid.UUID) ([]claims.TimelineEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []claims.TimelineEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.TenantID == tenantID && e.ClaimID == claimID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeTimelineRepo) eventsFor(claimID uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []string
	for _, e := range r.entries {
		if e.ClaimID == claimID {
			types = append(types, e.EventType)
		}
	}
	return types
}

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key], nil
}

func (s *fakeIdempotencyStore) Unmark(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
	return nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

type fakeObjectStorage struct {
	mu        sync.Mutex
	objects   map[string]bool
	uploadErr error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string]bool)}
}

func (s *fakeObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if s.uploadErr != nil {
		return "", time.Time{}, s.uploadErr
	}
	s.mu.Lock()
	s.objects[storageKey] = true
	s.mu.Unlock()
	return "https://storage.test/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *fakeObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *fakeObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

func (s *fakeObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[storageKey], nil
}
