package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/medrec/records-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Details []string    `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error translates a service failure into an HTTP response. Callers see the
// error kind and message, never internal stack detail.
func Error(c *gin.Context, err error) {
	resp := &Response{
		Status:  "error",
		Message: "internal error",
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	}

	c.JSON(httpStatus(apperrors.CodeOf(err)), resp)
}

func httpStatus(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrAlreadyExists, apperrors.ErrReferentialIntegrity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
