package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timely-scheduler/internal/schedule"
	"timely-scheduler/pkg/response"
)

var (
	errBadRequest    = errors.New("invalid request")
	errMissingUserID = errors.New("user_id is required")
	errBadDeadline   = errors.New("unrecognized deadline")
)

// writeError maps use-case errors onto the response envelope.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrEmptyUserID),
		errors.Is(err, schedule.ErrInvalidTask),
		errors.Is(err, errBadRequest),
		errors.Is(err, errMissingUserID),
		errors.Is(err, errBadDeadline):
		response.Error(c, err, nil)
	default:
		response.InternalError(c, err)
	}
}
