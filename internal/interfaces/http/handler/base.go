package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appcheckout "github.com/shop/backend/internal/application/checkout"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common response utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponse(dto.ErrCodeBadRequest, message, middleware.GetRequestID(c)))
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized,
		dto.NewErrorResponse("UNAUTHORIZED", message, middleware.GetRequestID(c)))
}

// HandleError renders an error. Domain errors keep their code and get the
// mapped HTTP status; a multi-line assembly rejection carries per-item
// details; anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var assemblyErr *appcheckout.AssemblyError
	if errors.As(err, &assemblyErr) {
		details := make([]dto.ErrorDetail, 0, len(assemblyErr.Lines))
		for _, line := range assemblyErr.Lines {
			detail := dto.ErrorDetail{Index: line.Index, Message: line.Err.Error()}
			var lineDomainErr *shared.DomainError
			if errors.As(line.Err, &lineDomainErr) {
				detail.Code = lineDomainErr.Code
				detail.Message = lineDomainErr.Message
			}
			details = append(details, detail)
		}

		code := dto.ErrCodeValidation
		var firstDomainErr *shared.DomainError
		if errors.As(err, &firstDomainErr) {
			code = firstDomainErr.Code
		}
		c.JSON(dto.GetHTTPStatus(code),
			dto.NewErrorResponseWithDetails(code, "Order could not be placed", requestID, details))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
