package api

import (
	"github.com/gin-gonic/gin"
	"github.com/octopus12176/tokimeki-checker/internal/api/controller"
	"github.com/octopus12176/tokimeki-checker/internal/api/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(
	r *gin.Engine,
	jwtSecret string,
	authCtrl *controller.AuthController,
	checkCtrl *controller.CheckController,
	historyCtrl *controller.HistoryController,
	savingsCtrl *controller.SavingsController,
) {
	r.Use(middleware.Cors())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/api/v1/auth")
	{
		public.POST("/google", authCtrl.GoogleLogin)
	}

	// API 组
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		protected.GET("/auth/me", authCtrl.Me)
		protected.GET("/questions", checkCtrl.Questions)

		protected.POST("/checks", checkCtrl.Start)
		protected.POST("/checks/:sid/answers", checkCtrl.Answer)
		protected.POST("/checks/:sid/finish", checkCtrl.Finish)

		protected.GET("/history", historyCtrl.List)
		protected.PATCH("/history/:id", historyCtrl.Resolve)
		protected.DELETE("/history/:id", historyCtrl.Delete)
		protected.DELETE("/history", historyCtrl.Clear)

		protected.GET("/savings", savingsCtrl.Overview)
		protected.DELETE("/savings", savingsCtrl.Reset)
	}
}
