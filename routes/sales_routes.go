package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/controllers"
)

func RegisterSalesRoutes(router *gin.Engine, sc *controllers.SalesController) {
	api := router.Group("/api")

	api.GET("/students", sc.GetStudents)
	api.GET("/products", sc.GetProducts)
	api.POST("/sales", sc.CreateSale)

	// 数据看板
	api.GET("/dashboard", sc.GetDashboard)
}
