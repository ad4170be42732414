package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ Pinger = (*pgxpool.Pool)(nil)

// StatusReport is the health endpoint's body. Status is "ok" while the
// database answers pings and "degraded" once it stops.
type StatusReport struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Version string    `json:"version"`
	DB      string    `json:"db"`
	Uptime  string    `json:"uptime"`
	Time    time.Time `json:"time"`
}

type HealthHandler struct {
	service string
	version string
	db      Pinger
	started time.Time
}

func NewHealthHandler(service, version string, db Pinger) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		db:      db,
		started: time.Now(),
	}
}

// Register mounts the probe under both names so load balancers and humans
// can use whichever they expect.
func (h *HealthHandler) Register(r gin.IRouter) {
	r.GET("/health", h.check)
	r.GET("/healthz", h.check)
}

func (h *HealthHandler) check(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	status, db, code := "ok", "up", http.StatusOK
	if err := h.db.Ping(pingCtx); err != nil {
		status, db, code = "degraded", "down", http.StatusServiceUnavailable
	}

	c.JSON(code, StatusReport{
		Status:  status,
		Service: h.service,
		Version: h.version,
		DB:      db,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Time:    time.Now().UTC(),
	})
}
