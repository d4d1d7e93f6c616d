package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *handler) processUserID(c *gin.Context) (string, error) {
	userID := c.Param("user_id")
	if userID == "" {
		return "", errMissingUserID
	}
	return userID, nil
}

// processCreateTaskReq binds the body and resolves the deadline.
func (h *handler) processCreateTaskReq(c *gin.Context) (createTaskReq, time.Time, error) {
	var req createTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, time.Time{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	userID, err := h.processUserID(c)
	if err != nil {
		return req, time.Time{}, err
	}
	req.UserID = userID

	res, err := h.parser.ParseDeadline(req.Deadline, h.now())
	if err != nil {
		return req, time.Time{}, fmt.Errorf("%w: %v", errBadDeadline, err)
	}
	return req, res.AbsoluteTime, nil
}

func (h *handler) processListTasksReq(c *gin.Context) (string, listTasksReq, error) {
	var req listTasksReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return "", req, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	userID, err := h.processUserID(c)
	return userID, req, err
}
