package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"timely-scheduler/internal/model"
	repo "timely-scheduler/internal/schedule/repository"
	"timely-scheduler/pkg/gcalendar"
	"timely-scheduler/pkg/log"
)

type fakeClient struct {
	events  []gcalendar.Event
	listReq gcalendar.ListEventsRequest
	created []gcalendar.CreateEventRequest
	err     error
}

func (f *fakeClient) ListEvents(_ context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error) {
	f.listReq = req
	return f.events, f.err
}

func (f *fakeClient) CreateEvent(_ context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &gcalendar.Event{ID: "evt-1", StartTime: req.StartTime, EndTime: req.EndTime}, nil
}

func TestListBusy(t *testing.T) {
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	events := []gcalendar.Event{
		{ID: "a", Summary: "class", StartTime: base.Add(time.Hour), EndTime: base.Add(2 * time.Hour), Status: "confirmed"},
		{ID: "b", Summary: "cancelled", StartTime: base, EndTime: base.Add(time.Hour), Status: "cancelled"},
		{ID: "c", Summary: "free", StartTime: base, EndTime: base.Add(time.Hour), Transparent: true},
		{ID: "d", Summary: "holiday", StartTime: time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), EndTime: time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), AllDay: true},
		{ID: "e", Summary: "zero", StartTime: base, EndTime: base},
	}

	tests := []struct {
		name        string
		blockAllDay bool
		wantLabels  []string
	}{
		{"timed only", false, []string{"class"}},
		{"all day blocks", true, []string{"class", "holiday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{events: events}
			r := New(Config{CalendarID: "primary", BlockAllDay: tt.blockAllDay}, fc, log.NewNop())
			got, err := r.ListBusy(context.Background(), "u1", base, base.Add(48*time.Hour))
			if err != nil {
				t.Fatalf("ListBusy() error = %v", err)
			}
			if len(got) != len(tt.wantLabels) {
				t.Fatalf("ListBusy() = %+v, want labels %v", got, tt.wantLabels)
			}
			for i, label := range tt.wantLabels {
				if got[i].Label != label {
					t.Errorf("busy[%d] = %q, want %q", i, got[i].Label, label)
				}
			}
			if !fc.listReq.TimeMin.Equal(base) || fc.listReq.CalendarID != "primary" {
				t.Errorf("list request = %+v", fc.listReq)
			}
		})
	}

	t.Run("all day uses the user's zone", func(t *testing.T) {
		ny, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skip("tzdata unavailable")
		}
		r := New(Config{BlockAllDay: true, Timezone: ny}, &fakeClient{events: events[3:4]}, log.NewNop())
		got, _ := r.ListBusy(context.Background(), "u1", base, base.Add(48*time.Hour))
		want := time.Date(2024, 5, 7, 0, 0, 0, 0, ny)
		if len(got) != 1 || !got[0].Start.Equal(want) {
			t.Errorf("ListBusy() = %+v, want start %v", got, want)
		}
	})

	t.Run("client error", func(t *testing.T) {
		r := New(Config{}, &fakeClient{err: errors.New("boom")}, log.NewNop())
		if _, err := r.ListBusy(context.Background(), "u1", base, base.Add(time.Hour)); !errors.Is(err, repo.ErrFailedToList) {
			t.Errorf("ListBusy() error = %v, want ErrFailedToList", err)
		}
	})
}

func TestPublish(t *testing.T) {
	start := time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC)
	p := model.Placement{
		ID: "p1", UserID: "u1", TaskID: "t1", TaskName: "essay",
		Start: start, End: start.Add(90 * time.Minute), ChunkDuration: 1.5,
		Context: model.PolicyContext{TaskCategory: "School"},
	}

	fc := &fakeClient{}
	r := New(Config{CalendarID: "primary", AttendeeEmail: "me@example.com"}, fc, log.NewNop())
	id, err := r.Publish(context.Background(), p)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if id != "evt-1" {
		t.Errorf("Publish() id = %q, want evt-1", id)
	}
	req := fc.created[0]
	if req.AttendeeEmail != "me@example.com" || req.Summary != "essay" || !req.EndTime.Equal(p.End) || req.Timezone != "UTC" {
		t.Errorf("create request = %+v", req)
	}
	if req.Properties[PropTaskID] != "t1" || req.Properties[PropPlacementID] != "p1" || req.Properties[PropUserID] != "u1" {
		t.Errorf("properties = %v", req.Properties)
	}

	t.Run("client error", func(t *testing.T) {
		r := New(Config{}, &fakeClient{err: errors.New("quota")}, log.NewNop())
		if _, err := r.Publish(context.Background(), p); !errors.Is(err, repo.ErrFailedToPublish) {
			t.Errorf("Publish() error = %v, want ErrFailedToPublish", err)
		}
	})
}
