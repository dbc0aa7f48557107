package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/umutkutlutr/CompGradToolbox/config"
	"github.com/umutkutlutr/CompGradToolbox/internal/api/handler"
	"github.com/umutkutlutr/CompGradToolbox/internal/api/middleware"
	"github.com/umutkutlutr/CompGradToolbox/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 权重模块
		weights := v1.Group("/weights")
		{
			weights.GET("", h.Weight.GetWeights)
			weights.PUT("", h.Weight.SetWeights)
		}

		// 分配模块（求解接口限流，防止重跑风暴）
		assignments := v1.Group("/assignments")
		{
			assignments.POST("/run", middleware.RateLimit(rdb, 10, time.Minute), h.Assignment.RunAssignment)
			assignments.GET("", h.Assignment.GetAssignments)
			assignments.POST("/override", h.Assignment.Override)
			assignments.GET("/overrides", h.Assignment.ListOverrides)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/assignments", h.Export.ExportAssignments)
		}
	}

	return r
}
