package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/closetloop/marketplace-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps service errors onto the envelope: apierr carries
// its own status and code, anything else is an opaque 500 (raw store errors
// never reach end users).
func RespondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
