package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"nextbase/internal/bootstrap"
	"nextbase/internal/platform/mysql"
	"nextbase/internal/platform/redis"
	"nextbase/internal/transport/http/response"
)

type SystemHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewSystemHandler(app *bootstrap.App) *SystemHandler {
	return &SystemHandler{app: app}
}

func (h *SystemHandler) Index(c *gin.Context) {
	response.OK(c, gin.H{
		"name":    h.app.Config.App.Name,
		"version": h.app.Config.App.Version,
		"endpoints": gin.H{
			"system": gin.H{
				"GET /api/time":   "server time",
				"GET /api/health": "service health",
			},
			"users": gin.H{
				"GET /api/users":        "list users (page, limit, order_by, order)",
				"GET /api/users/:id":    "get user",
				"POST /api/users":       "create user",
				"PUT /api/users/:id":    "update user",
				"DELETE /api/users/:id": "delete user",
			},
			"products": gin.H{
				"GET /api/products":        "list products (page, limit, order_by, order, category_id)",
				"GET /api/products/:id":    "get product",
				"POST /api/products":       "create product",
				"PUT /api/products/:id":    "update product",
				"DELETE /api/products/:id": "delete product",
			},
			"categories": gin.H{
				"GET /api/categories":        "list categories (page, limit or all=true)",
				"GET /api/categories/:id":    "get category",
				"POST /api/categories":       "create category",
				"PUT /api/categories/:id":    "update category",
				"DELETE /api/categories/:id": "delete category",
			},
			"files": gin.H{
				"POST /api/upload/single":          "upload one file (field: file)",
				"POST /api/upload/multiple":        "upload several files (field: files)",
				"GET /api/files":                   "list uploaded files",
				"GET /api/files/:filename":         "download a file",
				"GET /api/files/:filename/preview": "text preview of a .txt or .pdf file",
			},
			"audit": gin.H{
				"GET /api/audit-logs": "list change events (entity, entity_id)",
			},
		},
	}, "service is running")
}

func (h *SystemHandler) Time(c *gin.Context) {
	now := time.Now()
	response.OK(c, gin.H{
		"datetime":  response.Timestamp(now),
		"timestamp": now.UnixMilli(),
		"timezone":  timezone(now),
	}, "")
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	mysqlStatus := h.checkMySQL(ctx)
	redisStatus := h.checkRedis(ctx)
	rmqStatus := h.checkRabbitMQ()

	allOK := mysqlStatus.OK && redisStatus.OK && rmqStatus.OK
	status := "healthy"
	statusCode := http.StatusOK
	if !allOK {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(statusCode, response.APIResponse{
		Success: allOK,
		Data: gin.H{
			"status":     status,
			"app":        h.app.Config.App.Name,
			"env":        h.app.Config.App.Env,
			"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
			"memory_mb": gin.H{
				"sys":        toMB(mem.Sys),
				"heap_total": toMB(mem.HeapSys),
				"heap_used":  toMB(mem.HeapAlloc),
			},
			"goroutines": runtime.NumGoroutine(),
			"dependencies": gin.H{
				"mysql":    mysqlStatus,
				"redis":    redisStatus,
				"rabbitmq": rmqStatus,
			},
		},
		Timestamp: response.Timestamp(time.Now()),
	})
}

func (h *SystemHandler) checkMySQL(ctx context.Context) dependencyStatus {
	if h.app.MySQL == nil {
		return dependencyStatus{OK: false, Message: "not connected"}
	}
	if err := mysql.Ping(ctx, h.app.MySQL); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

func (h *SystemHandler) checkRedis(ctx context.Context) dependencyStatus {
	if h.app.Redis == nil {
		return dependencyStatus{OK: true, Message: "disabled"}
	}
	if err := redis.Ping(ctx, h.app.Redis); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

func (h *SystemHandler) checkRabbitMQ() dependencyStatus {
	if !h.app.Config.RabbitMQ.Enabled {
		return dependencyStatus{OK: true, Message: "disabled"}
	}
	if h.app.MQConn == nil || h.app.MQConn.IsClosed() {
		return dependencyStatus{OK: false, Message: "connection closed"}
	}
	return dependencyStatus{OK: true}
}

func toMB(b uint64) uint64 {
	return b / 1024 / 1024
}

// timezone prefers the IANA name of the local zone, falling back to its abbreviation.
func timezone(now time.Time) string {
	if name := now.Location().String(); name != "" && name != "Local" {
		return name
	}
	abbr, _ := now.Zone()
	return abbr
}
