package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	scheduleHTTP "timely-scheduler/internal/schedule/delivery/http"
)

// setupScheduleDomain registers /api/v1/users/:user_id/{schedule,tasks}.
func (srv HTTPServer) setupScheduleDomain(ctx context.Context, api *gin.RouterGroup) error {
	h := scheduleHTTP.New(srv.l, srv.scheduleUC, srv.dateParser)
	scheduleHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Schedule domain registered")
	return nil
}
