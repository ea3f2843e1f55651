package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/repository"
	"github.com/BerniceZTT/course_funnel/service"
	"github.com/BerniceZTT/course_funnel/utils"
)

// respondError 将服务层错误转换为 ApiError
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrStoreUnavailable):
		utils.HandleError(c, utils.CreateStoreUnavailableError(err))
	case errors.Is(err, service.ErrStudentNotFound):
		utils.HandleError(c, utils.CreateNotFoundError("学员"))
	case errors.Is(err, service.ErrFunnelRecordNotFound):
		utils.HandleError(c, utils.CreateNotFoundError("流程追踪记录"))
	case errors.Is(err, service.ErrInvalidStage):
		utils.HandleError(c, utils.CreateBadRequestError("阶段不能为空"))
	case errors.Is(err, service.ErrInvalidSale):
		utils.HandleError(c, utils.CreateBadRequestError("学员与课程不能为空，数量不可为负"))
	default:
		utils.HandleError(c, err)
	}
}
