package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"useradmin-http-service/internal/app/middleware"
	"useradmin-http-service/internal/domain/models"
	"useradmin-http-service/internal/domain/services"
	"useradmin-http-service/internal/domain/services/container"
	"useradmin-http-service/internal/infrastructure/config"
)

var errUnexpectedCall = errors.New("unexpected service call")

// mockUserService 按需注入各方法的行为，未注入的方法报错
type mockUserService struct {
	getAllFn      func() ([]models.User, error)
	searchFn      func(query string) ([]models.User, error)
	getByIDFn     func(id uint) (*models.User, error)
	getByNameFn   func(username string) (*models.User, error)
	createFn      func(user *models.User) error
	updateFn      func(id uint, updates map[string]interface{}) (*models.User, error)
	deleteFn      func(id uint) error
	authFn        func(username, password string) (*models.User, error)
	setPasswordFn func(id uint, password string) error
}

func (m *mockUserService) GetAllUsers() ([]models.User, error) {
	if m.getAllFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getAllFn()
}

func (m *mockUserService) SearchUsers(query string) ([]models.User, error) {
	if m.searchFn == nil {
		return nil, errUnexpectedCall
	}
	return m.searchFn(query)
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByIDFn(id)
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.getByNameFn == nil {
		return nil, errUnexpectedCall
	}
	return m.getByNameFn(username)
}

func (m *mockUserService) CreateUser(user *models.User) error {
	if m.createFn == nil {
		return errUnexpectedCall
	}
	return m.createFn(user)
}

func (m *mockUserService) UpdateUser(id uint, updates map[string]interface{}) (*models.User, error) {
	if m.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return m.updateFn(id, updates)
}

func (m *mockUserService) DeleteUser(id uint) error {
	if m.deleteFn == nil {
		return errUnexpectedCall
	}
	return m.deleteFn(id)
}

func (m *mockUserService) Authenticate(username, password string) (*models.User, error) {
	if m.authFn == nil {
		return nil, errUnexpectedCall
	}
	return m.authFn(username, password)
}

func (m *mockUserService) SetPassword(id uint, password string) error {
	if m.setPasswordFn == nil {
		return errUnexpectedCall
	}
	return m.setPasswordFn(id, password)
}

// fakeSessionService 内存版会话服务，记录创建次数方便断言
type fakeSessionService struct {
	sessions    map[string]*services.SessionData
	createCount int
}

func newFakeSessionService() *fakeSessionService {
	return &fakeSessionService{sessions: make(map[string]*services.SessionData)}
}

func (s *fakeSessionService) CreateSession(user *models.User) (string, error) {
	s.createCount++
	cookieValue := "cookie-" + user.Username
	s.sessions[cookieValue] = &services.SessionData{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	}
	return cookieValue, nil
}

func (s *fakeSessionService) GetSession(cookieValue string) (*services.SessionData, error) {
	if data, ok := s.sessions[cookieValue]; ok {
		return data, nil
	}
	return nil, services.ErrSessionNotFound
}

func (s *fakeSessionService) FlushSession(cookieValue string) error {
	delete(s.sessions, cookieValue)
	return nil
}

// newTestRouter 构建测试用路由。守卫行为在中间件测试里单独覆盖，
// 这里只给主页挂认证守卫，管理路由直接打到控制器
func newTestRouter(t *testing.T, userSvc services.InterfaceUserService, sessSvc services.InterfaceSessionService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SessionSecretKey: "test-secret",
		SessionTTLHours:  1,
	}
	serviceContainer := container.NewServiceContainer(&gorm.DB{}, cfg, nil)
	serviceContainer.SetService("user", userSvc)
	serviceContainer.SetService("session", sessSvc)

	middleware.InitSessionMiddleware(sessSvc)

	r := gin.New()
	r.LoadHTMLGlob("../../../templates/*.html")
	r.Use(middleware.CurrentUser())

	r.GET("/", HandleAccountFunc(serviceContainer, "signup"))
	r.POST("/", HandleAccountFunc(serviceContainer, "signup"))
	r.GET("/login/", HandleAccountFunc(serviceContainer, "login"))
	r.POST("/login/", HandleAccountFunc(serviceContainer, "login"))
	r.GET("/home/", middleware.RequireAuthentication("/login/"), HandleAccountFunc(serviceContainer, "home"))
	r.GET("/logout/", HandleAccountFunc(serviceContainer, "logout"))

	r.GET("/admin_login/", HandleAdminFunc(serviceContainer, "adminLogin"))
	r.POST("/admin_login/", HandleAdminFunc(serviceContainer, "adminLogin"))
	r.GET("/logout1/", HandleAdminFunc(serviceContainer, "adminLogout"))

	panel := r.Group("/admin_panel")
	panel.GET("/", HandleAdminFunc(serviceContainer, "panel"))
	panel.GET("/search/", HandleAdminFunc(serviceContainer, "search"))
	panel.GET("/user/:id/", HandleAdminFunc(serviceContainer, "userDetail"))
	panel.GET("/edit/:id/", HandleAdminFunc(serviceContainer, "editUser"))
	panel.POST("/edit/:id/", HandleAdminFunc(serviceContainer, "editUser"))
	panel.GET("/delete/:id/", HandleAdminFunc(serviceContainer, "deleteUser"))
	panel.POST("/delete/:id/", HandleAdminFunc(serviceContainer, "deleteUser"))
	panel.GET("/change_password/:id/", HandleAdminFunc(serviceContainer, "changePassword"))
	panel.POST("/change_password/:id/", HandleAdminFunc(serviceContainer, "changePassword"))
	panel.GET("/create_user/", HandleAdminFunc(serviceContainer, "createUser"))
	panel.POST("/create_user/", HandleAdminFunc(serviceContainer, "createUser"))

	return r
}

func getPage(r *gin.Engine, path string, cookieValue string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: cookieValue})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, values url.Values, cookieValue string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: cookieValue})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
