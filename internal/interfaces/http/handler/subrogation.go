package handler

import (
	"github.com/gin-gonic/gin"

	claimsapp "github.com/tms/backend/internal/application/claims"
)

// SubrogationHandler serves the third-party recovery endpoints
type SubrogationHandler struct {
	BaseHandler
	service *claimsapp.SubrogationService
}

// NewSubrogationHandler creates a new SubrogationHandler
func NewSubrogationHandler(service *claimsapp.SubrogationService) *SubrogationHandler {
	return &SubrogationHandler{service: service}
}

// List handles GET /claims/:id/subrogations
func (h *SubrogationHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListSubrogations(c.Request.Context(), tenantID, claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /claims/:id/subrogations/:subrogationId
func (h *SubrogationHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "subrogationId")
	if !ok {
		return
	}

	resp, err := h.service.GetSubrogation(c.Request.Context(), tenantID, claimID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /claims/:id/subrogations
func (h *SubrogationHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.CreateSubrogationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateSubrogation(c.Request.Context(), tenantID, userID, claimID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /claims/:id/subrogations/:subrogationId
func (h *SubrogationHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "subrogationId")
	if !ok {
		return
	}

	var req claimsapp.UpdateSubrogationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateSubrogation(c.Request.Context(), tenantID, userID, claimID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Recover handles POST /claims/:id/subrogations/:subrogationId/recover.
// The idempotency key may come from the body or the Idempotency-Key header.
func (h *SubrogationHandler) Recover(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "subrogationId")
	if !ok {
		return
	}

	var req claimsapp.RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader(HeaderIdempotencyKey)
	}

	resp, err := h.service.RecordRecovery(c.Request.Context(), tenantID, userID, claimID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Remove handles DELETE /claims/:id/subrogations/:subrogationId
func (h *SubrogationHandler) Remove(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "subrogationId")
	if !ok {
		return
	}

	if err := h.service.RemoveSubrogation(c.Request.Context(), tenantID, userID, claimID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
