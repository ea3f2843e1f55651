package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/course_funnel/utils"
)

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 请求体记录上限
const maxLoggedBody = 4 << 10

// OperationLogger 记录写入操作（阶段更新、成交回报、同步）的请求内容与结果
func OperationLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loggedMethods[c.Request.Method] {
			c.Next()
			return
		}

		startTime := time.Now()

		// 读取请求体后恢复，供后续处理
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}
		if len(requestBody) > maxLoggedBody {
			requestBody = requestBody[:maxLoggedBody]
		}

		c.Next()

		status := c.Writer.Status()
		event := utils.Logger.Info()
		if status >= 400 {
			event = utils.Logger.Warn()
		}
		event.
			Str("requestId", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("studentId", c.Param("id")).
			Bytes("body", requestBody).
			Int("statusCode", status).
			Dur("duration", time.Since(startTime)).
			Bool("success", status < 400).
			Msg("操作日志")
	}
}

