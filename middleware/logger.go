package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/utils"
)

// Logger 日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		requestID := c.GetString(RequestIDKey)

		// 记录请求信息
		utils.LogApiRequest(method, path, c.Request.URL.Query(), nil, requestID)

		// 处理请求
		c.Next()

		// 记录响应信息
		utils.LogApiResponse(method, path, c.Writer.Status(), time.Since(start), requestID)
	}
}

// Recovery 恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// 记录崩溃信息
		utils.Logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Str("requestId", c.GetString(RequestIDKey)).
			Msg("服务崩溃")

		// 返回500错误
		c.AbortWithStatusJSON(500, gin.H{
			"success": false,
			"error":   "服务器内部错误",
		})
	})
}
