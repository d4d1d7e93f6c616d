package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"timely-scheduler/internal/feedback"
	feedbackHTTP "timely-scheduler/internal/feedback/delivery/http"
	"timely-scheduler/internal/schedule"
	"timely-scheduler/pkg/datemath"
	"timely-scheduler/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Schedule domain
	scheduleUC schedule.UseCase
	dateParser *datemath.Parser

	// Feedback domain
	feedbackUC     feedback.UseCase
	webhookEnabled bool
	webhook        feedbackHTTP.SecurityConfig

	// Observability
	gatherer prometheus.Gatherer
	ready    func(ctx context.Context) error
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Schedule domain
	ScheduleUC schedule.UseCase
	DateParser *datemath.Parser

	// Feedback domain
	FeedbackUC     feedback.UseCase
	WebhookEnabled bool
	Webhook        feedbackHTTP.SecurityConfig

	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
	// ReadyCheck backs /ready; nil always reports ready.
	ReadyCheck func(ctx context.Context) error
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		scheduleUC:     cfg.ScheduleUC,
		dateParser:     cfg.DateParser,
		feedbackUC:     cfg.FeedbackUC,
		webhookEnabled: cfg.WebhookEnabled,
		webhook:        cfg.Webhook,
		gatherer:       cfg.Gatherer,
		ready:          cfg.ReadyCheck,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.scheduleUC == nil {
		return errors.New("schedule use case is required")
	}
	if srv.dateParser == nil {
		return errors.New("date parser is required")
	}
	if srv.feedbackUC == nil {
		return errors.New("feedback use case is required")
	}
	return nil
}

// Handler exposes the engine, mainly for tests.
func (srv *HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
