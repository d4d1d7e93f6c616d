package http

import (
	"encoding/json"
	"fmt"
)

// processOutcomeReq decodes an already-authenticated webhook body.
func (h *handler) processOutcomeReq(body []byte) (outcomeReq, error) {
	var req outcomeReq
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return req, req.validate()
}

func (h *handler) processPollReq(userID string) (string, error) {
	if userID == "" {
		return "", errMissingUserID
	}
	return userID, nil
}
