package http

import (
	"io"

	"github.com/gin-gonic/gin"

	"timely-scheduler/pkg/log"
	"timely-scheduler/pkg/response"
)

const maxBodyBytes = 64 << 10

// HandleOutcome godoc
// @Summary     Deliver an invite outcome
// @Description Applies an accepted/declined response to the user's policy. Other statuses are ignored. Repeated deliveries for the same invite are reported as already_handled.
// @Tags        Feedback
// @Accept      json
// @Produce     json
// @Param       X-Timely-Signature header string     true "sha256=<hex HMAC of body>"
// @Param       body               body   outcomeReq true "Outcome"
// @Success     200 {object} outcomeResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Invalid signature"
// @Failure     403 {object} response.Resp "IP not allowed"
// @Failure     429 {object} response.Resp "Rate limited"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /webhook/calendar/outcome [POST]
func (h *handler) HandleOutcome(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "HandleOutcome: %v", err)
		response.Forbidden(c)
		return
	}

	if err := h.security.CheckRateLimit(extractIP(c.Request)); err != nil {
		h.l.Warnf(ctx, "HandleOutcome: %v", err)
		response.TooManyRequests(c)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.l.Errorf(ctx, "HandleOutcome: read body: %v", err)
		response.Error(c, err, nil)
		return
	}

	if err := h.security.ValidateSignature(body, c.GetHeader(SignatureHeader)); err != nil {
		h.l.Warnf(ctx, "HandleOutcome: signature: %v", err)
		response.Unauthorized(c)
		return
	}

	req, err := h.processOutcomeReq(body)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out, err := h.uc.HandleStatus(ctx, req.InviteID, req.Status)
	if err != nil {
		h.l.Errorf(ctx, "uc.HandleStatus: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newOutcomeResp(req.InviteID, out))
}

// Poll godoc
// @Summary     Poll invite responses
// @Description Reads the invitee's response for each of the user's open invites and applies definitive ones.
// @Tags        Feedback
// @Produce     json
// @Param       user_id path string true "User ID"
// @Success     200 {object} pollResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/users/{user_id}/feedback/poll [POST]
func (h *handler) Poll(c *gin.Context) {
	userID, err := h.processPollReq(c.Param("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ctx := log.WithUserID(c.Request.Context(), userID)

	res, err := h.uc.Poll(ctx, userID)
	if err != nil {
		h.l.Errorf(ctx, "uc.Poll: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newPollResp(userID, res))
}
