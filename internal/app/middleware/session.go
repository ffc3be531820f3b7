package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"useradmin-http-service/internal/domain/services"
)

var sessionService services.InterfaceSessionService

// InitSessionMiddleware 初始化会话中间件
func InitSessionMiddleware(s services.InterfaceSessionService) {
	sessionService = s
}

// CurrentUser 在每个请求上解析一次会话Cookie，把当前用户放进请求上下文。
// 没有会话或会话无效时不拦截，只是不设置认证标记
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieValue, err := c.Cookie(services.SessionCookieName)
		if err == nil && cookieValue != "" {
			if sess, err := sessionService.GetSession(cookieValue); err == nil {
				c.Set("session", sess)
				c.Set("userID", sess.UserID)
				c.Set("username", sess.Username)
				c.Set("isStaff", sess.IsStaff)
				c.Set("isAuthenticated", true)
			}
		}
		c.Next()
	}
}

// RequireAuthentication 要求已登录，否则重定向到登录页
func RequireAuthentication(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAuthenticated") {
			c.Redirect(http.StatusFound, loginURL)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff 要求已登录且 is_staff 为真，否则重定向到管理员登录页。
// 与 RequireAuthentication 独立，两者在管理面板路由上叠加使用
func RequireStaff(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAuthenticated") || !c.GetBool("isStaff") {
			c.Redirect(http.StatusFound, loginURL)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated 已登录用户访问登录/注册页时直接跳转走
func RedirectIfAuthenticated(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("isAuthenticated") {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
