package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/controllers"
	"github.com/BerniceZTT/course_funnel/service"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, svc *service.FunnelService) {
	RegisterFunnelRoutes(router, controllers.NewFunnelController(svc))
	RegisterSalesRoutes(router, controllers.NewSalesController(svc))

	// 健康检查路由
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
