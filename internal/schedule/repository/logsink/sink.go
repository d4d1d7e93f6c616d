// Package logsink publishes placements to the service log only. It stands in
// for the calendar when none is configured.
package logsink

import (
	"context"

	"github.com/google/uuid"

	"timely-scheduler/internal/model"
	"timely-scheduler/pkg/log"
)

type Sink struct {
	l log.Logger
}

func New(l log.Logger) *Sink {
	return &Sink{l: l}
}

// Publish logs the placement and returns a fresh invite id.
func (s *Sink) Publish(ctx context.Context, p model.Placement) (string, error) {
	id := uuid.NewString()
	s.l.Infof(ctx, "Publish: invite %s task %q %s-%s (%.1fh, offset %d, p=%.3f)",
		id, p.TaskName, p.Start.Format("Mon 15:04"), p.End.Format("15:04"), p.ChunkDuration, p.Offset, p.Probability)
	return id, nil
}
