package handler

import (
	"github.com/gin-gonic/gin"

	claimsapp "github.com/tms/backend/internal/application/claims"
)

// AttachmentHandler serves claim items, documents and notes
type AttachmentHandler struct {
	BaseHandler
	service *claimsapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(service *claimsapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// ListItems handles GET /claims/:id/items
func (h *AttachmentHandler) ListItems(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListItems(c.Request.Context(), tenantID, claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetItem handles GET /claims/:id/items/:itemId
func (h *AttachmentHandler) GetItem(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.PathUUID(c, "itemId")
	if !ok {
		return
	}

	resp, err := h.service.GetItem(c.Request.Context(), tenantID, claimID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem handles POST /claims/:id/items
func (h *AttachmentHandler) AddItem(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AddItem(c.Request.Context(), tenantID, userID, claimID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateItem handles PUT /claims/:id/items/:itemId
func (h *AttachmentHandler) UpdateItem(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.PathUUID(c, "itemId")
	if !ok {
		return
	}

	var req claimsapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpdateItem(c.Request.Context(), tenantID, userID, claimID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /claims/:id/items/:itemId
func (h *AttachmentHandler) RemoveItem(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.PathUUID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), tenantID, userID, claimID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListDocuments handles GET /claims/:id/documents
func (h *AttachmentHandler) ListDocuments(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListDocuments(c.Request.Context(), tenantID, claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddDocument handles POST /claims/:id/documents. The response carries
// a presigned upload URL alongside the document record.
func (h *AttachmentHandler) AddDocument(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AddDocument(c.Request.Context(), tenantID, userID, claimID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetDocument handles GET /claims/:id/documents/:documentId
func (h *AttachmentHandler) GetDocument(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	documentID, ok := h.PathUUID(c, "documentId")
	if !ok {
		return
	}

	resp, err := h.service.GetDocument(c.Request.Context(), tenantID, claimID, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveDocument handles DELETE /claims/:id/documents/:documentId
func (h *AttachmentHandler) RemoveDocument(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	documentID, ok := h.PathUUID(c, "documentId")
	if !ok {
		return
	}

	if err := h.service.RemoveDocument(c.Request.Context(), tenantID, userID, claimID, documentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListNotes handles GET /claims/:id/notes
func (h *AttachmentHandler) ListNotes(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListNotes(c.Request.Context(), tenantID, claimID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddNote handles POST /claims/:id/notes
func (h *AttachmentHandler) AddNote(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}

	var req claimsapp.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AddNote(c.Request.Context(), tenantID, userID, claimID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveNote handles DELETE /claims/:id/notes/:noteId
func (h *AttachmentHandler) RemoveNote(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}
	claimID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	noteID, ok := h.PathUUID(c, "noteId")
	if !ok {
		return
	}

	if err := h.service.RemoveNote(c.Request.Context(), tenantID, userID, claimID, noteID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
