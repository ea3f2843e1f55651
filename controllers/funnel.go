package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/service"
	"github.com/BerniceZTT/course_funnel/utils"
)

// FunnelController 漏斗分析与阶段更新
type FunnelController struct {
	Service *service.FunnelService
}

func NewFunnelController(svc *service.FunnelService) *FunnelController {
	return &FunnelController{Service: svc}
}

// bindDateRange 读取 from / to 查询参数，皆为空时返回 nil
func bindDateRange(c *gin.Context) (*models.DateRange, error) {
	var r models.DateRange
	if err := c.ShouldBindQuery(&r); err != nil {
		return nil, utils.CreateBadRequestError("日期参数格式错误")
	}
	if r.IsZero() {
		return nil, nil
	}
	return &r, nil
}

// GetFunnelAnalytics 获取漏斗分析
func (fc *FunnelController) GetFunnelAnalytics(c *gin.Context) {
	r, err := bindDateRange(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := fc.Service.Analytics(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, result, "")
}

// GetConsultantPerformance 获取顾问业绩
func (fc *FunnelController) GetConsultantPerformance(c *gin.Context) {
	r, err := bindDateRange(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := fc.Service.ConsultantPerformance(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, result, "")
}

// GetStudentStage 获取学员流程追踪记录
func (fc *FunnelController) GetStudentStage(c *gin.Context) {
	rec, err := fc.Service.GetStudentFunnel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, rec, "")
}

// UpdateStudentStage 更新学员阶段
func (fc *FunnelController) UpdateStudentStage(c *gin.Context) {
	var req models.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的请求数据"))
		return
	}

	studentID := c.Param("id")
	utils.LogInfo(map[string]interface{}{
		"studentId": studentID,
		"stage":     req.Stage,
	}, "更新学员阶段")

	rec, err := fc.Service.AdvanceStudentStage(c.Request.Context(), studentID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, rec, "阶段已更新")
}

// SyncFunnelRecords 立即同步流程追踪记录
func (fc *FunnelController) SyncFunnelRecords(c *gin.Context) {
	created, err := fc.Service.SyncFunnelRecords(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"created": created}, "")
}
