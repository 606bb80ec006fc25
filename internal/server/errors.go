package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvps-vip/showcase/internal/adminauth"
	"github.com/mvps-vip/showcase/internal/catalog"
	"github.com/mvps-vip/showcase/internal/logging"
	"github.com/mvps-vip/showcase/internal/media"
	"github.com/mvps-vip/showcase/internal/models"
)

var (
	errAdminDisabled = errors.New("admin access is not configured")
	errMissingToken  = errors.New("missing bearer token")
	errBadRequest    = errors.New("malformed request body")
	errMediaDisabled = errors.New("media storage is not configured")
	errTooLarge      = errors.New("upload exceeds size limit")
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalid), errors.Is(err, errBadRequest),
		errors.Is(err, media.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, adminauth.ErrInvalidCredentials),
		errors.Is(err, adminauth.ErrInvalidToken),
		errors.Is(err, errMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrNoData),
		errors.Is(err, catalog.ErrReadOnly),
		errors.Is(err, errAdminDisabled),
		errors.Is(err, errMediaDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortError writes err as JSON with its mapped status. Internal errors are
// logged and reported without detail.
func abortError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logging.FromContext(c.Request.Context()).Error("request failed", "err", err)
		msg = http.StatusText(status)
	case http.StatusUnauthorized:
		// Token parse detail stays in the logs.
		logging.FromContext(c.Request.Context()).Debug("unauthorized", "err", err)
		if errors.Is(err, adminauth.ErrInvalidToken) {
			msg = adminauth.ErrInvalidToken.Error()
		}
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: c.GetString(requestIDKey)})
}
