package handler

import (
	"github.com/gin-gonic/gin"

	claimsapp "github.com/tms/backend/internal/application/claims"
)

// HeaderIdempotencyKey carries a client-chosen key that suppresses
// duplicate money movements on retry
const HeaderIdempotencyKey = "Idempotency-Key"

// ResolutionHandler serves the financial resolution endpoints
type ResolutionHandler struct {
	BaseHandler
	service *claimsapp.ResolutionService
}

// NewResolutionHandler creates a new ResolutionHandler
func NewResolutionHandler(service *claimsapp.ResolutionService) *ResolutionHandler {
	return &ResolutionHandler{service: service}
}

// Approve handles POST /claims/:id/approve
func (h *ResolutionHandler) Approve(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.ApproveClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.ApproveClaim(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deny handles POST /claims/:id/deny
func (h *ResolutionHandler) Deny(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.DenyClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.DenyClaim(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Pay handles POST /claims/:id/pay. The idempotency key may come from
// the request body or the Idempotency-Key header.
func (h *ResolutionHandler) Pay(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.PayClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader(HeaderIdempotencyKey)
	}

	resp, err := h.service.PayClaim(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Close handles POST /claims/:id/close
func (h *ResolutionHandler) Close(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.CloseClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CloseClaim(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateInvestigation handles PUT /claims/:id/investigation
func (h *ResolutionHandler) UpdateInvestigation(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.UpdateInvestigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateInvestigation(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAdjustments handles GET /claims/:id/adjustments
func (h *ResolutionHandler) ListAdjustments(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListAdjustments(c.Request.Context(), tenantID, claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddAdjustment handles POST /claims/:id/adjustments
func (h *ResolutionHandler) AddAdjustment(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.AddAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AddAdjustment(c.Request.Context(), tenantID, userID, claimID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveAdjustment handles DELETE /claims/:id/adjustments/:adjustmentId
func (h *ResolutionHandler) RemoveAdjustment(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	adjustmentID, ok := h.PathUUID(c, "adjustmentId")
	if !ok {
		return
	}

	if err := h.service.RemoveAdjustment(c.Request.Context(), tenantID, userID, claimID, adjustmentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
