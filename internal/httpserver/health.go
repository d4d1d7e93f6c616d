package httpserver

import (
	"github.com/gin-gonic/gin"

	"timely-scheduler/pkg/response"
)

const (
	HealthVersion = "1.0.0"
	ServiceName   = "timely-scheduler"
)

type healthResp struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Error   string `json:"error,omitempty"`
}

func newHealthResp(status string) healthResp {
	return healthResp{Status: status, Service: ServiceName, Version: HealthVersion}
}

// healthCheck godoc
// @Summary Health Check
// @Tags    Health
// @Produce json
// @Success 200 {object} healthResp
// @Router  /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, newHealthResp("healthy"))
}

// readyCheck reports whether storage answers. Backs /ready.
// @Summary Readiness Check
// @Tags    Health
// @Produce json
// @Success 200 {object} healthResp
// @Failure 503 {object} response.Resp
// @Router  /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	if srv.ready != nil {
		if err := srv.ready(c.Request.Context()); err != nil {
			srv.l.Warnf(c.Request.Context(), "readyCheck: %v", err)
			resp := newHealthResp("not_ready")
			resp.Error = err.Error()
			response.ServiceUnavailable(c, resp)
			return
		}
	}
	response.OK(c, newHealthResp("ready"))
}

// liveCheck godoc
// @Summary Liveness Check
// @Tags    Health
// @Produce json
// @Success 200 {object} healthResp
// @Router  /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, newHealthResp("alive"))
}
