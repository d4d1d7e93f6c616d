// Package app assembles the scheduling stack from configuration. Both the
// API server and the CLI build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"timely-scheduler/config"
	"timely-scheduler/internal/allocator"
	"timely-scheduler/internal/feedback"
	feedbackSQLite "timely-scheduler/internal/feedback/repository/sqlite"
	feedbackUC "timely-scheduler/internal/feedback/usecase"
	"timely-scheduler/internal/metrics"
	"timely-scheduler/internal/policy"
	"timely-scheduler/internal/recommender"
	"timely-scheduler/internal/schedule"
	scheduleCalendar "timely-scheduler/internal/schedule/repository/calendar"
	"timely-scheduler/internal/schedule/repository/logsink"
	scheduleSQLite "timely-scheduler/internal/schedule/repository/sqlite"
	"timely-scheduler/internal/schedule/repository/weekly"
	scheduleUC "timely-scheduler/internal/schedule/usecase"
	"timely-scheduler/internal/storage/sqlite"
	"timely-scheduler/internal/timegrid"
	"timely-scheduler/pkg/category"
	"timely-scheduler/pkg/datemath"
	"timely-scheduler/pkg/gcalendar"
	"timely-scheduler/pkg/log"
)

// App holds the wired use cases and the resources that need closing.
type App struct {
	Schedule   schedule.UseCase
	Feedback   feedback.UseCase
	Policy     policy.Store
	DateParser *datemath.Parser
	Registry   *prometheus.Registry

	db    *sql.DB
	redis *goredis.Client
	l     log.Logger
}

// Build opens storage and wires every domain. The calendar is optional:
// without credentials, placements go to the log sink and Poll is disabled.
func Build(ctx context.Context, cfg *config.Config, l log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{l: l}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}

	// Storage
	a.db, err = sqlite.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	l.Infof(ctx, "SQLite opened at %s", cfg.SQLite.Path)

	blobs, err := a.blobStore(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	// Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if m, err = metrics.New(a.Registry); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}

	// Policy -> recommender -> allocator
	store, err := policy.New(policy.Config{
		CacheSize:      cfg.Policy.CacheSize,
		HashBits:       cfg.Policy.HashBits,
		LearningRate:   cfg.Policy.LearningRate,
		BaselineUserID: cfg.Policy.BaselineUserID,
	}, blobs, l)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Policy = store

	rec, err := recommender.New(recommender.Config{
		Epsilon:         cfg.Policy.Epsilon,
		MaxChunkHours:   cfg.Scheduler.MaxChunkHours,
		TopK:            cfg.Scheduler.TopK,
		PreferSplitting: cfg.Scheduler.PreferSplitting,
		Seed:            cfg.Policy.Seed,
	}, store, l)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	catalog := category.Default()
	alloc, err := allocator.New(allocator.Config{
		MaxTasksPerPass: cfg.Scheduler.MaxTasksPerPass,
		TopK:            cfg.Scheduler.TopK,
		PreferSplitting: cfg.Scheduler.PreferSplitting,
		MinChunkHours:   cfg.Scheduler.MinChunkHours,
	}, rec, catalog, l)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	// Google Calendar (optional)
	var calendarClient *gcalendar.Client
	if cfg.GoogleCalendar.Enabled() {
		calendarClient, err = gcalendar.New(ctx, gcalendar.Config{
			CredentialsPath: cfg.GoogleCalendar.CredentialsPath,
			TokenPath:       cfg.GoogleCalendar.TokenPath,
		})
		if err != nil {
			l.Warnf(ctx, "Google Calendar not available (optional): %v", err)
			l.Warn(ctx, "Run `go run scripts/gcal-auth/main.go` to generate the token")
			calendarClient = nil
		} else {
			l.Info(ctx, "Google Calendar initialized")
		}
	}

	// Feedback
	var responses feedback.ResponseReader
	if calendarClient != nil {
		responses = calendarClient
	}
	tasks := scheduleSQLite.New(a.db, catalog, l)
	fb := feedbackUC.New(feedbackUC.Config{
		CalendarID:    cfg.GoogleCalendar.CalendarID,
		AttendeeEmail: cfg.GoogleCalendar.AttendeeEmail,
	}, feedbackSQLite.New(a.db, l), store, responses, tasks, m, l)
	a.Feedback = fb

	// Schedule
	busy := []schedule.BusySource{tasks}
	if len(cfg.Scheduler.RecurringBlocks) > 0 {
		recurring, err := recurringBlocks(ctx, cfg, loc, l)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		busy = append(busy, recurring)
	}
	var sink schedule.EventSink = logsink.New(l)
	if calendarClient != nil {
		cal := scheduleCalendar.New(scheduleCalendar.Config{
			CalendarID:    cfg.GoogleCalendar.CalendarID,
			AttendeeEmail: cfg.GoogleCalendar.AttendeeEmail,
			Timezone:      loc,
			BlockAllDay:   cfg.Scheduler.BlockAllDay,
		}, calendarClient, l)
		busy = append(busy, cal)
		sink = cal
	}

	a.Schedule, err = scheduleUC.New(schedule.Config{
		HorizonHours: cfg.Scheduler.HorizonHours,
		Sleep: timegrid.SleepWindow{
			StartHour: cfg.Scheduler.SleepStartHour,
			EndHour:   cfg.Scheduler.SleepEndHour,
		},
		Location: loc,
	}, scheduleUC.Deps{
		Tasks:      tasks,
		Placements: tasks,
		Busy:       busy,
		Allocator:  alloc,
		Sink:       sink,
		Tracker:    fb,
		Metrics:    m,
	}, l)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.DateParser, err = datemath.NewParser(loc.String())
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	return a, nil
}

func recurringBlocks(ctx context.Context, cfg *config.Config, loc *time.Location, l log.Logger) (schedule.BusySource, error) {
	specs := make([]weekly.BlockSpec, len(cfg.Scheduler.RecurringBlocks))
	for i, b := range cfg.Scheduler.RecurringBlocks {
		specs[i] = weekly.BlockSpec{Name: b.Name, UserID: b.UserID, Weekdays: b.Weekdays, Start: b.Start, End: b.End}
	}
	blocks, err := weekly.ParseBlocks(specs)
	if err != nil {
		return nil, fmt.Errorf("scheduler.recurring_blocks: %w", err)
	}
	src, err := weekly.New(weekly.Config{
		Blocks:   blocks,
		Buffer:   time.Duration(cfg.Scheduler.ClassBufferHours * float64(time.Hour)),
		Location: loc,
	}, l)
	if err != nil {
		return nil, err
	}
	l.Infof(ctx, "Recurring blocks: %d weekly occurrences", len(blocks))
	return src, nil
}

func (a *App) blobStore(ctx context.Context, cfg *config.Config) (policy.BlobStore, error) {
	switch cfg.Policy.Store {
	case config.PolicyStoreRedis:
		a.redis = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		a.l.Infof(ctx, "Policies persisted to redis at %s", cfg.Redis.Addr)
		return policy.NewRedisBlobStore(a.redis, cfg.Redis.KeyPrefix)
	default:
		a.l.Infof(ctx, "Policies persisted to %s", cfg.Policy.Dir)
		return policy.NewFileBlobStore(cfg.Policy.Dir)
	}
}

// Ping checks that the database and, when used, redis answer.
func (a *App) Ping(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close persists cached policies and releases storage.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Policy != nil {
		if err := a.Policy.PersistAll(ctx); err != nil {
			errs = append(errs, fmt.Errorf("persist policies: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
