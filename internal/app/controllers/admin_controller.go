package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"useradmin-http-service/internal/app/forms"
	"useradmin-http-service/internal/domain/models"
	"useradmin-http-service/internal/domain/services"
	"useradmin-http-service/internal/domain/services/container"
	"useradmin-http-service/internal/error/response"
	"useradmin-http-service/internal/infrastructure/config"
)

// AdminLoginFailedMessage 管理员登录失败的统一文案。刻意不区分
// “密码错误”和“不是管理员”，避免暴露哪些账户有管理权限
const AdminLoginFailedMessage = "Invalid credentials or not an admin"

// InterfaceAdminController 定义管理面板控制器接口
type InterfaceAdminController interface {
	AdminLogin()
	AdminLogout()
	Panel()
	Search()
	UserDetail()
	EditUser()
	DeleteUser()
	CreateUser()
	ChangePassword()
}

// AdminController 处理管理面板相关的请求
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理面板控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAdminFunc 返回一个处理管理面板请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "adminLogin":
			controller.AdminLogin()
		case "adminLogout":
			controller.AdminLogout()
		case "panel":
			controller.Panel()
		case "search":
			controller.Search()
		case "userDetail":
			controller.UserDetail()
		case "editUser":
			controller.EditUser()
		case "deleteUser":
			controller.DeleteUser()
		case "createUser":
			controller.CreateUser()
		case "changePassword":
			controller.ChangePassword()
		default:
			ctx.String(http.StatusBadRequest, "无效的方法")
		}
	}
}

// AdminLogin 管理员登录页。凭证有效且 is_staff 为真才建立会话
func (c *AdminController) AdminLogin() {
	if c.Ctx.Request.Method == http.MethodGet {
		response.HTML(c.Ctx, "admin_login.html", gin.H{"form": &forms.AdminLoginForm{}})
		return
	}

	var form forms.AdminLoginForm
	_ = c.Ctx.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) == 0 {
		userService := c.Container.GetService("user").(services.InterfaceUserService)
		user, err := userService.Authenticate(form.Username, form.Password)
		if err != nil || !user.IsStaff {
			response.HTML(c.Ctx, "admin_login.html", gin.H{"form": &form, "error": AdminLoginFailedMessage})
			return
		}

		if err := c.startSession(user); err != nil {
			response.ServerError(c.Ctx)
			return
		}
		response.Redirect(c.Ctx, "/admin_panel/")
		return
	}

	response.HTML(c.Ctx, "admin_login.html", gin.H{"form": &form, "errors": errs})
}

// AdminLogout 管理员登出，会话整体销毁后回到管理员登录页
func (c *AdminController) AdminLogout() {
	c.endSession()
	response.Redirect(c.Ctx, "/admin_login/")
}

// Panel 管理面板首页，列出所有账户
func (c *AdminController) Panel() {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	users, err := userService.GetAllUsers()
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}
	response.HTML(c.Ctx, "admin_panel.html", gin.H{"users": users})
}

// Search 按用户名子串搜索账户（大小写不敏感），复用面板页面渲染结果
func (c *AdminController) Search() {
	query := c.Ctx.Query("query")

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	users, err := userService.SearchUsers(query)
	if err != nil {
		response.ServerError(c.Ctx)
		return
	}
	response.HTML(c.Ctx, "admin_panel.html", gin.H{"users": users, "query": query})
}

// UserDetail 查看单个账户详情
func (c *AdminController) UserDetail() {
	id, ok := c.userID()
	if !ok {
		return
	}

	user, ok := c.loadUser(id)
	if !ok {
		return
	}
	response.HTML(c.Ctx, "user_detail.html", gin.H{"user": user})
}

// EditUser 编辑账户。密码字段刻意不在这个表单里，修改密码走专门的页面
func (c *AdminController) EditUser() {
	id, ok := c.userID()
	if !ok {
		return
	}

	user, ok := c.loadUser(id)
	if !ok {
		return
	}

	if c.Ctx.Request.Method == http.MethodGet {
		form := forms.UserChangeForm{
			Username:    user.Username,
			Email:       user.Email,
			PhoneNumber: user.Phone(),
		}
		response.HTML(c.Ctx, "edit_user.html", gin.H{"form": &form, "user_id": id})
		return
	}

	var form forms.UserChangeForm
	_ = c.Ctx.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) == 0 {
		updates := map[string]interface{}{
			"username": form.Username,
			"email":    form.Email,
		}
		// 编辑时手机号允许留空，留空写入NULL（存储层允许为空）
		if form.PhoneNumber == "" {
			updates["phone_number"] = nil
		} else {
			updates["phone_number"] = form.PhoneNumber
		}

		userService := c.Container.GetService("user").(services.InterfaceUserService)
		switch _, err := userService.UpdateUser(id, updates); {
		case err == nil:
			response.Redirect(c.Ctx, "/admin_panel/")
			return
		case errors.Is(err, services.ErrUsernameTaken):
			errs["username"] = err.Error()
		case errors.Is(err, services.ErrPhoneNumberTaken):
			errs["phone_number"] = err.Error()
		case errors.Is(err, services.ErrUserNotFound):
			response.NotFound(c.Ctx, services.ErrUserNotFound.Error())
			return
		default:
			response.ServerError(c.Ctx)
			return
		}
	}

	response.HTML(c.Ctx, "edit_user.html", gin.H{"form": &form, "user_id": id, "errors": errs})
}

// DeleteUser 删除账户。立即执行且不可恢复，没有确认步骤
func (c *AdminController) DeleteUser() {
	id, ok := c.userID()
	if !ok {
		return
	}

	user, ok := c.loadUser(id)
	if !ok {
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c.Ctx, services.ErrUserNotFound.Error())
			return
		}
		response.ServerError(c.Ctx)
		return
	}
	response.HTML(c.Ctx, "delete_user.html", gin.H{"username": user.Username})
}

// CreateUser 管理员创建账户，校验规则与注册页相同
func (c *AdminController) CreateUser() {
	if c.Ctx.Request.Method == http.MethodGet {
		response.HTML(c.Ctx, "create_user.html", gin.H{"form": &forms.SignupForm{}})
		return
	}

	var form forms.SignupForm
	_ = c.Ctx.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) == 0 {
		phone := form.PhoneNumber
		user := &models.User{
			Username:    form.Username,
			Email:       form.Email,
			PhoneNumber: &phone,
			Password:    form.Password1,
		}

		userService := c.Container.GetService("user").(services.InterfaceUserService)
		switch err := userService.CreateUser(user); {
		case err == nil:
			response.Redirect(c.Ctx, "/admin_panel/")
			return
		case errors.Is(err, services.ErrUsernameTaken):
			errs["username"] = err.Error()
		case errors.Is(err, services.ErrPhoneNumberTaken):
			errs["phone_number"] = err.Error()
		default:
			response.ServerError(c.Ctx)
			return
		}
	}

	response.HTML(c.Ctx, "create_user.html", gin.H{"form": &form, "errors": errs})
}

// ChangePassword 重置目标账户的密码。系统没有自助找回密码，只有这里能改
func (c *AdminController) ChangePassword() {
	id, ok := c.userID()
	if !ok {
		return
	}

	user, ok := c.loadUser(id)
	if !ok {
		return
	}

	if c.Ctx.Request.Method == http.MethodGet {
		response.HTML(c.Ctx, "change_password.html", gin.H{"user_id": id, "username": user.Username})
		return
	}

	var form forms.SetPasswordForm
	_ = c.Ctx.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) == 0 {
		userService := c.Container.GetService("user").(services.InterfaceUserService)
		if err := userService.SetPassword(id, form.NewPassword1); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				response.NotFound(c.Ctx, services.ErrUserNotFound.Error())
				return
			}
			response.ServerError(c.Ctx)
			return
		}
		response.Redirect(c.Ctx, "/admin_panel/")
		return
	}

	response.HTML(c.Ctx, "change_password.html", gin.H{"user_id": id, "username": user.Username, "errors": errs})
}

// userID 解析URL中的账户ID，非法ID按NotFound处理
func (c *AdminController) userID() (uint, bool) {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c.Ctx, services.ErrUserNotFound.Error())
		return 0, false
	}
	return uint(id), true
}

// loadUser 加载目标账户，不存在时渲染NotFound页面
func (c *AdminController) loadUser(id uint) (*models.User, bool) {
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c.Ctx, services.ErrUserNotFound.Error())
		} else {
			response.ServerError(c.Ctx)
		}
		return nil, false
	}
	return user, true
}

// startSession 为管理员创建会话并写入Cookie
func (c *AdminController) startSession(user *models.User) error {
	sessionService := c.Container.GetService("session").(services.InterfaceSessionService)
	cookieValue, err := sessionService.CreateSession(user)
	if err != nil {
		return err
	}

	cfg := c.Container.GetService("config").(*config.Config)
	maxAge := cfg.SessionTTLHours * 3600
	c.Ctx.SetCookie(services.SessionCookieName, cookieValue, maxAge, "/", "", false, true)
	return nil
}

// endSession 销毁会话并清除Cookie
func (c *AdminController) endSession() {
	sessionService := c.Container.GetService("session").(services.InterfaceSessionService)
	if cookieValue, err := c.Ctx.Cookie(services.SessionCookieName); err == nil && cookieValue != "" {
		_ = sessionService.FlushSession(cookieValue)
	}
	c.Ctx.SetCookie(services.SessionCookieName, "", -1, "/", "", false, true)
}
