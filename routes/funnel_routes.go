package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/controllers"
)

func RegisterFunnelRoutes(router *gin.Engine, fc *controllers.FunnelController) {
	api := router.Group("/api")

	// 漏斗分析
	api.GET("/funnel", fc.GetFunnelAnalytics)
	api.POST("/funnel/sync", fc.SyncFunnelRecords)

	// 顾问业绩
	api.GET("/analytics/consultant", fc.GetConsultantPerformance)

	// 学员阶段
	api.GET("/student/:id/stage", fc.GetStudentStage)
	api.POST("/student/:id/stage", fc.UpdateStudentStage)
}
