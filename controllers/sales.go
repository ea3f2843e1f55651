package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/service"
	"github.com/BerniceZTT/course_funnel/utils"
)

// SalesController 学员、课程与成交回报
type SalesController struct {
	Service *service.FunnelService
}

func NewSalesController(svc *service.FunnelService) *SalesController {
	return &SalesController{Service: svc}
}

func (sc *SalesController) GetStudents(c *gin.Context) {
	students, err := sc.Service.ListStudents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	utils.SuccessResponse(c, students, "")
}

func (sc *SalesController) GetProducts(c *gin.Context) {
	products, err := sc.Service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.SuccessResponse(c, products, "")
}

// CreateSale 新增成交回报
func (sc *SalesController) CreateSale(c *gin.Context) {
	var req models.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的请求数据"))
		return
	}

	sale, err := sc.Service.RecordSale(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, sale, "成交回报已新增", http.StatusCreated)
}

// GetDashboard 学员 × 课程成交矩阵
func (sc *SalesController) GetDashboard(c *gin.Context) {
	dash, err := sc.Service.SalesDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dash, "")
}
