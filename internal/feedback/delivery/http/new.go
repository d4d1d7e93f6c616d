package http

import (
	"timely-scheduler/internal/feedback"
	"timely-scheduler/pkg/log"
)

// SignatureHeader carries "sha256=<hex HMAC of body>".
const SignatureHeader = "X-Timely-Signature"

type handler struct {
	l        log.Logger
	uc       feedback.UseCase
	security *SecurityValidator
}

// New creates the HTTP handler for outcome delivery and polling.
func New(l log.Logger, uc feedback.UseCase, sec SecurityConfig) *handler {
	return &handler{
		l:        l,
		uc:       uc,
		security: NewSecurityValidator(sec),
	}
}
