package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timely-scheduler/internal/feedback"
	"timely-scheduler/pkg/response"
)

var (
	errMalformedBody = errors.New("malformed request body")
	errMissingUserID = errors.New("user_id is required")
)

// writeError maps use-case errors onto the response envelope.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feedback.ErrInviteNotFound):
		response.NotFound(c, err)
	case errors.Is(err, feedback.ErrEmptyInviteID),
		errors.Is(err, feedback.ErrInvalidStatus),
		errors.Is(err, feedback.ErrPollingDisabled),
		errors.Is(err, errMalformedBody),
		errors.Is(err, errMissingUserID):
		response.Error(c, err, nil)
	default:
		response.InternalError(c, err)
	}
}
