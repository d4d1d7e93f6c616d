package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	feedbackHTTP "timely-scheduler/internal/feedback/delivery/http"
)

// setupFeedbackDomain registers the poll route and, when enabled, the
// signed outcome webhook.
func (srv HTTPServer) setupFeedbackDomain(ctx context.Context, api *gin.RouterGroup) error {
	h := feedbackHTTP.New(srv.l, srv.feedbackUC, srv.webhook)
	feedbackHTTP.RegisterRoutes(api, h)

	if srv.webhookEnabled {
		feedbackHTTP.RegisterWebhookRoutes(srv.gin.Group("/webhook"), h)
		srv.l.Infof(ctx, "Outcome webhook registered at POST /webhook/calendar/outcome")
	} else {
		srv.l.Infof(ctx, "Outcome webhook disabled, skipping route")
	}

	srv.l.Infof(ctx, "Feedback domain registered")
	return nil
}
