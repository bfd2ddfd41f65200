package claims

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/claims"
	"github.com/tms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TimelineRecorder is the single chokepoint through which every mutating
// operation appends its audit entry. The append happens after the primary
// write has committed; a failed append is logged and does not roll back or
// fail the operation.
type TimelineRecorder struct {
	repo claims.TimelineRepository
}

// NewTimelineRecorder creates a new TimelineRecorder
func NewTimelineRecorder(repo claims.TimelineRepository) *TimelineRecorder {
	return &TimelineRecorder{repo: repo}
}

// Record appends one audit entry for a claim
func (r *TimelineRecorder) Record(ctx context.Context, tenantID, claimID uuid.UUID, actorID *uuid.UUID, eventType, description string, payload claims.Payload) {
	entry, err := claims.NewTimelineEntry(tenantID, claimID, eventType, description, payload, actorID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to build timeline entry",
			zap.String("claim_id", claimID.String()),
			zap.String("event_type", eventType),
			zap.Error(err))
		return
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("failed to append timeline entry",
			zap.String("claim_id", claimID.String()),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

// List returns the audit history for a claim, newest first
func (r *TimelineRecorder) List(ctx context.Context, tenantID, claimID uuid.UUID) ([]TimelineEntryResponse, error) {
	entries, err := r.repo.FindByClaim(ctx, tenantID, claimID)
	if err != nil {
		return nil, err
	}
	responses := make([]TimelineEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = *toTimelineEntryResponse(&e)
	}
	return responses, nil
}
