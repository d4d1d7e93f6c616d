package http

import (
	"strings"

	"timely-scheduler/internal/feedback"
)

type outcomeReq struct {
	InviteID string `json:"invite_id"`
	Status   string `json:"status"`
}

func (r outcomeReq) validate() error {
	if strings.TrimSpace(r.InviteID) == "" {
		return feedback.ErrEmptyInviteID
	}
	if strings.TrimSpace(r.Status) == "" {
		return feedback.ErrInvalidStatus
	}
	return nil
}

type outcomeResp struct {
	InviteID string `json:"invite_id"`
	Outcome  string `json:"outcome"`
}

func (h *handler) newOutcomeResp(inviteID string, out feedback.Outcome) outcomeResp {
	return outcomeResp{InviteID: inviteID, Outcome: string(out)}
}

type pollResp struct {
	UserID   string `json:"user_id"`
	Checked  int    `json:"checked"`
	Applied  int    `json:"applied"`
	Pending  int    `json:"pending"`
	NotFound int    `json:"not_found"`
}

func (h *handler) newPollResp(userID string, res feedback.PollResult) pollResp {
	return pollResp{
		UserID:   userID,
		Checked:  res.Checked,
		Applied:  res.Applied,
		Pending:  res.Pending,
		NotFound: res.NotFound,
	}
}
