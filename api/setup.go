package api

import (
	_ "genassist/api/docs"
	"genassist/api/handlers/activity"
	"genassist/api/handlers/commands"
	"genassist/api/handlers/stats"
	"genassist/api/handlers/users"
	"genassist/api/handlers/workflows"
	"genassist/internal/metrics"
	"genassist/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 全部 HTTP 处理器
type Handlers struct {
	Commands  *commands.Handler
	Workflows *workflows.Handler
	Activity  *activity.Handler
	Stats     *stats.Handler
	Users     *users.Handler
}

// NewHandlers 由容器构造处理器
func NewHandlers(c *AppContainer) *Handlers {
	defaultUser := c.Config.Workflow.DefaultUserID
	return &Handlers{
		Commands:  commands.NewHandler(c.Classifier, c.Workflows, defaultUser),
		Workflows: workflows.NewHandler(c.Workflows),
		Activity:  activity.NewHandler(c.Workflows, c.Hub),
		Stats:     stats.NewHandler(c.Workflows, defaultUser),
		Users:     users.NewHandler(c.Users, c.Workflows),
	}
}

// SetupRouter 设置并返回 Gin 路由
func SetupRouter(c *AppContainer) *gin.Engine {
	router := gin.New()

	// 全局中间件
	router.Use(Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(RequestLogger())
	router.Use(CORS())
	router.Use(metrics.PrometheusMiddleware())

	// 公开端点
	router.GET("/health", HealthCheck())
	router.GET("/ready", ReadinessCheck(c.ReadinessDeps()))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	RegisterRoutes(router, NewHandlers(c))
	return router
}
