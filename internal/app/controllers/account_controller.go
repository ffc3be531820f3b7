package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"useradmin-http-service/internal/app/forms"
	"useradmin-http-service/internal/domain/models"
	"useradmin-http-service/internal/domain/services"
	"useradmin-http-service/internal/domain/services/container"
	"useradmin-http-service/internal/error/response"
	"useradmin-http-service/internal/infrastructure/config"
)

// InterfaceAccountController 定义账户控制器接口
type InterfaceAccountController interface {
	Signup()
	Login()
	Home()
	Logout()
}

// AccountController 处理注册、登录、登出等自助账户请求
type AccountController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAccountController 创建一个新的账户控制器
func NewAccountController(ctx *gin.Context, container *container.ServiceContainer) *AccountController {
	return &AccountController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAccountFunc 返回一个处理账户请求的Gin处理函数
func HandleAccountFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAccountController(ctx, container)

		switch method {
		case "signup":
			controller.Signup()
		case "login":
			controller.Login()
		case "home":
			controller.Home()
		case "logout":
			controller.Logout()
		default:
			ctx.String(http.StatusBadRequest, "无效的方法")
		}
	}
}

// Signup 注册页。GET渲染空表单，POST校验并创建账户，成功后跳转登录页
func (c *AccountController) Signup() {
	if c.Ctx.Request.Method == http.MethodGet {
		response.HTML(c.Ctx, "signup.html", gin.H{"form": &forms.SignupForm{}})
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
			response.Redirect(c.Ctx, "/login/")
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

	response.HTML(c.Ctx, "signup.html", gin.H{"form": &form, "errors": errs})
}

// Login 登录页。POST成功后建立会话并种下Cookie，跳转主页
func (c *AccountController) Login() {
	if c.Ctx.Request.Method == http.MethodGet {
		response.HTML(c.Ctx, "login.html", gin.H{"form": &forms.LoginForm{}})
		return
	}

	var form forms.LoginForm
	_ = c.Ctx.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) == 0 {
		userService := c.Container.GetService("user").(services.InterfaceUserService)
		user, err := userService.Authenticate(form.Username, form.Password)
		if err != nil {
			errs["__all__"] = "Please enter a correct username and password."
		} else {
			if err := c.startSession(user); err != nil {
				response.ServerError(c.Ctx)
				return
			}
			response.Redirect(c.Ctx, "/home/")
			return
		}
	}

	response.HTML(c.Ctx, "login.html", gin.H{"form": &form, "errors": errs})
}

// Home 登录后的主页
func (c *AccountController) Home() {
	response.HTML(c.Ctx, "home.html", gin.H{"username": c.Ctx.GetString("username")})
}

// Logout 登出。删除Redis中的整个会话键并清掉Cookie，不残留任何会话数据
func (c *AccountController) Logout() {
	c.endSession()
	response.Redirect(c.Ctx, "/login/")
}

// startSession 为用户创建会话并写入Cookie
func (c *AccountController) startSession(user *models.User) error {
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
func (c *AccountController) endSession() {
	sessionService := c.Container.GetService("session").(services.InterfaceSessionService)
	if cookieValue, err := c.Ctx.Cookie(services.SessionCookieName); err == nil && cookieValue != "" {
		_ = sessionService.FlushSession(cookieValue)
	}
	c.Ctx.SetCookie(services.SessionCookieName, "", -1, "/", "", false, true)
}
