package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoCache 禁止客户端和中间代理缓存响应。所有包含会话内容的页面都必须
// 挂这个中间件，防止登出后通过浏览器回退看到缓存的页面
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Writer.Header().Set("Pragma", "no-cache")
		c.Writer.Header().Set("Expires", "0")
		c.Next()
	}
}
