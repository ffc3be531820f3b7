package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"useradmin-http-service/internal/app/controllers"
	"useradmin-http-service/internal/app/middleware"
	"useradmin-http-service/internal/domain/services"
	"useradmin-http-service/internal/domain/services/container"
	"useradmin-http-service/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 加载页面模板
	r.LoadHTMLGlob("templates/*.html")

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, nil)

	// 初始化会话中间件
	middleware.InitSessionMiddleware(
		serviceContainer.GetService("session").(services.InterfaceSessionService))

	// 每个请求解析一次当前用户
	r.Use(middleware.CurrentUser())

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// 注册自助账户路由
	registerAccountRoutes(r, container)
	// 注册管理面板路由
	registerAdminRoutes(r, container)
}

// registerAccountRoutes 注册注册/登录/主页/登出路由
func registerAccountRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// 接受凭证的路由挂IP限流 - 每秒允许10个请求，最多突发20个请求
	limiter := middleware.IPRateLimiter(10, 20)

	// 注册页，已登录用户直接跳转主页
	signup := gin.HandlersChain{
		middleware.NoCache(),
		middleware.RedirectIfAuthenticated("/home/"),
		limiter,
		controllers.HandleAccountFunc(container, "signup"),
	}
	r.GET("/", signup...)
	r.POST("/", signup...)

	// 登录页，已登录用户直接跳转主页
	login := gin.HandlersChain{
		middleware.NoCache(),
		middleware.RedirectIfAuthenticated("/home/"),
		limiter,
		controllers.HandleAccountFunc(container, "login"),
	}
	r.GET("/login/", login...)
	r.POST("/login/", login...)

	// 主页，要求已登录
	r.GET("/home/",
		middleware.NoCache(),
		middleware.RequireAuthentication("/login/"),
		controllers.HandleAccountFunc(container, "home"))

	// 登出，清空会话后回到登录页
	r.GET("/logout/", controllers.HandleAccountFunc(container, "logout"))
	r.POST("/logout/", controllers.HandleAccountFunc(container, "logout"))
}

// registerAdminRoutes 注册管理员登录和管理面板路由
func registerAdminRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	limiter := middleware.IPRateLimiter(10, 20)

	// 管理员登录页，已登录用户直接跳转管理面板
	adminLogin := gin.HandlersChain{
		middleware.NoCache(),
		middleware.RedirectIfAuthenticated("/admin_panel/"),
		limiter,
		controllers.HandleAdminFunc(container, "adminLogin"),
	}
	r.GET("/admin_login/", adminLogin...)
	r.POST("/admin_login/", adminLogin...)

	// 管理员登出，清空会话后回到管理员登录页
	r.GET("/logout1/", controllers.HandleAdminFunc(container, "adminLogout"))
	r.POST("/logout1/", controllers.HandleAdminFunc(container, "adminLogout"))

	// 管理面板路由组：认证守卫和管理员守卫独立叠加
	panel := r.Group("/admin_panel")
	panel.Use(
		middleware.NoCache(),
		middleware.RequireAuthentication("/admin_login/"),
		middleware.RequireStaff("/admin_login/"))

	panel.GET("/", controllers.HandleAdminFunc(container, "panel"))
	panel.GET("/search/", controllers.HandleAdminFunc(container, "search"))
	panel.GET("/user/:id/", controllers.HandleAdminFunc(container, "userDetail"))
	panel.GET("/edit/:id/", controllers.HandleAdminFunc(container, "editUser"))
	panel.POST("/edit/:id/", controllers.HandleAdminFunc(container, "editUser"))
	panel.GET("/delete/:id/", controllers.HandleAdminFunc(container, "deleteUser"))
	panel.POST("/delete/:id/", controllers.HandleAdminFunc(container, "deleteUser"))
	panel.GET("/change_password/:id/", controllers.HandleAdminFunc(container, "changePassword"))
	panel.POST("/change_password/:id/", controllers.HandleAdminFunc(container, "changePassword"))
	panel.GET("/create_user/", controllers.HandleAdminFunc(container, "createUser"))
	panel.POST("/create_user/", controllers.HandleAdminFunc(container, "createUser"))
}
