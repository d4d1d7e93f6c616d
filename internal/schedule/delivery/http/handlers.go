package http

import (
	"github.com/gin-gonic/gin"

	"timely-scheduler/pkg/log"
	"timely-scheduler/pkg/response"
)

// RunPass godoc
// @Summary     Run a scheduling pass
// @Description Places the user's most urgent pending tasks into free hours and publishes each placement as a calendar invite.
// @Tags        Schedule
// @Produce     json
// @Param       user_id path string true "User ID"
// @Success     200 {object} runPassResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/users/{user_id}/schedule [POST]
func (h *handler) RunPass(c *gin.Context) {
	userID, err := h.processUserID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ctx := log.WithUserID(c.Request.Context(), userID)

	res, err := h.uc.RunPass(ctx, userID)
	if err != nil {
		h.l.Errorf(ctx, "uc.RunPass: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newRunPassResp(res))
}

// CreateTask godoc
// @Summary     Create a task
// @Description Adds a pending task. A zero duration takes the category's typical duration.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       user_id path string        true "User ID"
// @Param       body    body createTaskReq true "Task"
// @Success     200 {object} taskResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/users/{user_id}/tasks [POST]
func (h *handler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	req, deadline, err := h.processCreateTaskReq(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	t, err := h.uc.CreateTask(ctx, req.toInput(deadline))
	if err != nil {
		h.l.Errorf(ctx, "uc.CreateTask: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, newTaskResp(t))
}

// ListTasks godoc
// @Summary     List tasks
// @Description Returns the user's pending tasks, or all tasks with all=true.
// @Tags        Tasks
// @Produce     json
// @Param       user_id path  string true  "User ID"
// @Param       all     query bool   false "Include finished tasks"
// @Success     200 {object} listTasksResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/users/{user_id}/tasks [GET]
func (h *handler) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	userID, req, err := h.processListTasksReq(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	tasks, err := h.uc.ListTasks(ctx, userID, req.All)
	if err != nil {
		h.l.Errorf(ctx, "uc.ListTasks: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newListTasksResp(tasks))
}
