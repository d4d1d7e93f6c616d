package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"timely-scheduler/config"
	"timely-scheduler/internal/allocator"
	"timely-scheduler/internal/feedback"
	"timely-scheduler/internal/schedule"
	"timely-scheduler/pkg/log"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Scheduler: config.SchedulerConfig{
			Timezone:        "UTC",
			HorizonHours:    168,
			SleepStartHour:  1,
			SleepEndHour:    5,
			MaxTasksPerPass: 5,
			TopK:            6,
			PreferSplitting: true,
			MaxChunkHours:   2,
			MinChunkHours:   0.5,
		},
		Policy: config.PolicyConfig{
			Epsilon:      0.2,
			LearningRate: 0.5,
			HashBits:     12,
			CacheSize:    8,
			Seed:         3,
			Store:        config.PolicyStoreFile,
			Dir:          filepath.Join(dir, "policies"),
		},
		SQLite:  config.SQLiteConfig{Path: filepath.Join(dir, "timely.db")},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, testConfig(t), log.NewNop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer a.Close(ctx)

	if a.Registry == nil {
		t.Error("Registry is nil with metrics enabled")
	}
	if err := a.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	task, err := a.Schedule.CreateTask(ctx, schedule.CreateTaskInput{
		UserID:             "u1",
		Name:               "write report",
		Category:           "writing",
		TotalDurationHours: 3,
		Deadline:           time.Now().Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	res, err := a.Schedule.RunPass(ctx, "u1")
	if err != nil {
		t.Fatalf("RunPass() error = %v", err)
	}
	if res.Status != allocator.StatusOK || len(res.Scheduled) == 0 {
		t.Fatalf("RunPass() = %+v, want at least one placement", res)
	}
	for _, p := range res.Scheduled {
		if p.InviteID == "" {
			t.Errorf("placement %s has no invite id", p.ID)
		}
	}

	tasks, err := a.Schedule.ListTasks(ctx, "u1", true)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("ListTasks() = %+v, want the created task", tasks)
	}
	if tasks[0].RemainingHours >= task.TotalDurationHours {
		t.Errorf("RemainingHours = %v, want less than %v", tasks[0].RemainingHours, task.TotalDurationHours)
	}

	t.Run("declined invites hand the hours back", func(t *testing.T) {
		for _, p := range res.Scheduled {
			out, err := a.Feedback.OnOutcome(ctx, p.InviteID, false)
			if err != nil || out != feedback.OutcomeApplied {
				t.Fatalf("OnOutcome(%s) = %s, %v; want applied", p.InviteID, out, err)
			}
		}
		tasks, _ := a.Schedule.ListTasks(ctx, "u1", false)
		if len(tasks) != 1 || tasks[0].RemainingHours != task.TotalDurationHours {
			t.Fatalf("ListTasks() = %+v, want the full %vh pending again", tasks, task.TotalDurationHours)
		}

		again, err := a.Schedule.RunPass(ctx, "u1")
		if err != nil || len(again.Scheduled) == 0 {
			t.Errorf("RunPass() after decline = %+v, %v; want a new offer", again, err)
		}
	})

	if err := a.Close(ctx); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Policy.Store = "s3"
	if _, err := Build(context.Background(), cfg, log.NewNop()); err == nil {
		t.Fatal("Build() error = nil, want invalid store error")
	}
}

func TestBuildRecurringBlocks(t *testing.T) {
	ctx := context.Background()
	allWeek := []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

	t.Run("invalid block", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scheduler.RecurringBlocks = []config.RecurringBlockConfig{{Name: "CS101", Weekdays: []string{"someday"}, Start: "09:00", End: "10:00"}}
		if _, err := Build(ctx, cfg, log.NewNop()); err == nil {
			t.Fatal("Build() error = nil, want recurring block error")
		}
	})

	t.Run("blocks cover the user's week", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Scheduler.RecurringBlocks = []config.RecurringBlockConfig{{Name: "busy", UserID: "u1", Weekdays: allWeek, Start: "00:00", End: "24:00"}}
		a, err := Build(ctx, cfg, log.NewNop())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		defer a.Close(ctx)

		for _, user := range []string{"u1", "u2"} {
			if _, err := a.Schedule.CreateTask(ctx, schedule.CreateTaskInput{
				UserID: user, Name: "essay", Category: "hw", TotalDurationHours: 1, Deadline: time.Now().Add(48 * time.Hour),
			}); err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
		}

		blocked, err := a.Schedule.RunPass(ctx, "u1")
		if err != nil {
			t.Fatalf("RunPass(u1) error = %v", err)
		}
		if blocked.Status != allocator.StatusNothingToSchedule || len(blocked.Scheduled) != 0 {
			t.Errorf("RunPass(u1) = %+v, want nothing scheduled", blocked)
		}
		free, err := a.Schedule.RunPass(ctx, "u2")
		if err != nil || len(free.Scheduled) != 1 {
			t.Errorf("RunPass(u2) = %+v, %v; want one placement", free, err)
		}
	})
}
