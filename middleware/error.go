package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/utils"
)

// ErrorHandler 全局错误处理中间件
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 如果已经存在响应，不重复处理
		if c.Writer.Written() {
			return
		}

		// 获取最后一个错误
		if err := c.Errors.Last(); err != nil {
			utils.HandleError(c, err.Err)
		}
	}
}
