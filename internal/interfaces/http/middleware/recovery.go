// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"ticket-contest-api/pkg/errors"
	"ticket-contest-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获处理链中的 panic，记录堆栈后统一返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", r),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    errors.CodeInternalError,
				"message": "internal server error",
			})
		}()

		c.Next()
	}
}
