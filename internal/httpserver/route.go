package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/metrics"
	"github.com/mohit-mindspick/whatsapp/internal/middleware/auth"
	"github.com/mohit-mindspick/whatsapp/internal/middleware/geofence"
)

const healthMessage = "WhatsApp Service is running"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	WorkOrders *WorkOrderHTTP
	Tasks      *TaskHTTP
	Parts      *PartHTTP
	Users      *UserHTTP

	Auth     *auth.Filter
	Geofence geofence.Options
	DB       Pinger
	Gatherer prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	health := func(c echo.Context) error { return c.String(http.StatusOK, healthMessage) }
	e.GET("/api/v1/whatsapp/health", health)
	e.GET("/whatsapp/health", health)
	e.GET("/actuator/health", up)
	e.GET("/actuator/health/liveness", up)
	e.GET("/actuator/health/readiness", d.readiness)
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.HandlerFor(d.Gatherer)))
	}

	v1 := e.Group("/api/v1", d.Auth.Middleware(), geofence.Middleware(d.Geofence), auth.RequireAuthenticated)

	wo := v1.Group("/workorder")
	wo.GET("/viewmywork", d.WorkOrders.ViewMyWork)
	wo.GET("/detail", d.WorkOrders.Detail)
	wo.GET("/:id/tasks", d.WorkOrders.Tasks)
	wo.POST("/log-hours", d.WorkOrders.LogHours)
	wo.POST("/save-asset-rating", d.WorkOrders.SaveAssetRating)
	wo.POST("/:id/add-comment", d.WorkOrders.AddComment)
	wo.POST("/add-comment", d.WorkOrders.AttachComment)

	task := v1.Group("/task")
	task.GET("/workorder/:workOrderId/task/:taskId/checklist", d.Tasks.Checklist)
	task.POST("/save-checklist-item-response", d.Tasks.SaveChecklistResponses)

	part := v1.Group("/part")
	part.GET("/workorder/:id", d.Parts.List)
	part.PUT("/workorder/:id", d.Parts.Update)
	part.POST("/return", d.Parts.Return)
	part.POST("/collect", d.Parts.Collect)

	user := v1.Group("/user")
	user.GET("/by-phone", d.Users.ByPhone)
	user.GET("/supervisor/by-phone", d.Users.Supervisor)
}

func up(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "UP"})
}

func (d *Deps) readiness(c echo.Context) error {
	if d.DB == nil {
		return up(c)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := d.DB.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("readiness_check_failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
	}
	return up(c)
}
