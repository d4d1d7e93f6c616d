package logsink

import (
	"context"
	"testing"

	"timely-scheduler/internal/model"
	"timely-scheduler/pkg/log"
)

func TestPublishIssuesUniqueIDs(t *testing.T) {
	s := New(log.NewNop())
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := s.Publish(context.Background(), model.Placement{TaskName: "x"})
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if id == "" || seen[id] {
			t.Fatalf("Publish() id %q empty or repeated", id)
		}
		seen[id] = true
	}
}
