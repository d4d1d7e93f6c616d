package http

import (
	"time"

	"timely-scheduler/internal/schedule"
	"timely-scheduler/pkg/datemath"
	"timely-scheduler/pkg/log"
)

type handler struct {
	l      log.Logger
	uc     schedule.UseCase
	parser *datemath.Parser
	now    func() time.Time
}

// New creates the HTTP handler for tasks and scheduling passes. parser
// resolves relative deadlines such as "tomorrow".
func New(l log.Logger, uc schedule.UseCase, parser *datemath.Parser) *handler {
	return &handler{l: l, uc: uc, parser: parser, now: time.Now}
}
