package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/interfaces/http/dto"
	"github.com/tms/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides shared response helpers for HTTP handlers
type BaseHandler struct{}

// Success writes a 200 response with the standard envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, page, pageSize, total))
}

// Created writes a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorWithCode writes an error response for a normalized API error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	status := dto.GetHTTPStatus(code)
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest writes a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

// Unauthorized writes a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeUnauthorized, message)
}

// NotFound writes a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeNotFound, message)
}

// InternalError writes a 500 response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeInternal, message)
}

// HandleError maps an application or domain error onto an HTTP response.
// Domain errors resolve through the code mapping; anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.ErrorWithCode(c, code, domainErr.Message)
		return
	}

	logger.FromContext(c.Request.Context()).Error("unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	h.InternalError(c, "An internal error occurred")
}

// BindingError writes a 400 response for a failed request bind,
// expanding validator errors into per-field details
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ValidationDetail, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: fe.Error(),
			})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Validation failed", details))
		return
	}
	h.BadRequest(c, "Invalid request body: "+err.Error())
}

// Identity returns the authenticated tenant and user ids. A false
// return means the response has already been written.
func (h *BaseHandler) Identity(c *gin.Context) (tenantID, userID uuid.UUID, ok bool) {
	tenantStr, found := middleware.GetJWTTenantID(c)
	if !found {
		h.Unauthorized(c, "Missing tenant identity")
		return uuid.Nil, uuid.Nil, false
	}
	tenantID, err := uuid.Parse(tenantStr)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant identity")
		return uuid.Nil, uuid.Nil, false
	}

	userStr, found := middleware.GetJWTUserID(c)
	if !found {
		h.Unauthorized(c, "Missing user identity")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(userStr)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, userID, true
}

// PathUUID parses a UUID path parameter. A false return means the
// response has already been written.
func (h *BaseHandler) PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}
