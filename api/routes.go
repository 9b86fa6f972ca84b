package api

import "github.com/gin-gonic/gin"

// RegisterRoutes 注册 /api 路由，无需认证，统一使用默认用户
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	api := router.Group("/api")

	api.POST("/process-command", h.Commands.ProcessCommand)

	registerWorkflowRoutes(api, h)
	registerActivityRoutes(api, h)
	registerUserRoutes(api, h)

	api.GET("/stats", h.Stats.Get)
}

func registerWorkflowRoutes(api *gin.RouterGroup, h *Handlers) {
	wf := api.Group("/workflows")
	{
		wf.GET("/active", h.Workflows.Active)
		wf.GET("/:id", h.Workflows.Get)
		wf.GET("/:id/history", h.Workflows.History)
		wf.POST("/:id/cancel", h.Workflows.Cancel)
	}
}

func registerActivityRoutes(api *gin.RouterGroup, h *Handlers) {
	act := api.Group("/activity")
	{
		act.GET("/recent", h.Activity.Recent)
		act.GET("/stream", h.Activity.Stream)
	}
}

func registerUserRoutes(api *gin.RouterGroup, h *Handlers) {
	u := api.Group("/users")
	{
		u.POST("/signup", h.Users.Signup)
		u.GET("/:id", h.Users.Get)
		u.GET("/:id/workflows", h.Users.Workflows)
	}
}
