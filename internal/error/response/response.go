package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"useradmin-http-service/internal/error/code"
)

// HTML 渲染页面模板
func HTML(c *gin.Context, name string, data gin.H) {
	c.HTML(http.StatusOK, name, data)
}

// HTMLWithStatus 使用指定状态码渲染页面模板
func HTMLWithStatus(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, data)
}

// Redirect 302重定向
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrRecordNotFound)
	}
	c.HTML(code.StatusNotFound, "error.html", gin.H{
		"status":  code.StatusNotFound,
		"message": message,
	})
}

// ServerError 服务器错误响应
func ServerError(c *gin.Context) {
	c.HTML(code.StatusInternalServerError, "error.html", gin.H{
		"status":  code.StatusInternalServerError,
		"message": code.GetMessage(code.ErrUnknown),
	})
}

// TooManyRequests 限流响应
func TooManyRequests(c *gin.Context) {
	c.String(code.StatusTooManyRequests, code.GetMessage(code.ErrTooManyRequests))
}
