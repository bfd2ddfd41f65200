package handler

import (
	"github.com/gin-gonic/gin"

	claimsapp "github.com/tms/backend/internal/application/claims"
)

// ClaimHandler serves the claim lifecycle endpoints
type ClaimHandler struct {
	BaseHandler
	service  *claimsapp.ClaimService
	timeline *claimsapp.TimelineRecorder
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(service *claimsapp.ClaimService, timeline *claimsapp.TimelineRecorder) *ClaimHandler {
	return &ClaimHandler{service: service, timeline: timeline}
}

// Create handles POST /claims
func (h *ClaimHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req claimsapp.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.CreateClaim(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /claims
func (h *ClaimHandler) List(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	var filter claimsapp.ClaimListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	claims, total, err := h.service.ListClaims(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, claims, page, pageSize, total)
}

// Get handles GET /claims/:id
func (h *ClaimHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetClaim(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetDetail handles GET /claims/:id/detail
func (h *ClaimHandler) GetDetail(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetClaimDetail(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Timeline handles GET /claims/:id/timeline
func (h *ClaimHandler) Timeline(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	entries, err := h.timeline.List(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Update handles PUT /claims/:id
func (h *ClaimHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateClaim(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /claims/:id
func (h *ClaimHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteClaim(c.Request.Context(), tenantID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// File handles POST /claims/:id/file
func (h *ClaimHandler) File(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.FileClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.FileClaim(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Assign handles POST /claims/:id/assign
func (h *ClaimHandler) Assign(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.AssignClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AssignClaim(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles POST /claims/:id/status
func (h *ClaimHandler) UpdateStatus(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
