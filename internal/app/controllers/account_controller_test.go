package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"useradmin-http-service/internal/domain/models"
	"useradmin-http-service/internal/domain/services"
)

func validSignupValues() url.Values {
	return url.Values{
		"username":     {"alice"},
		"email":        {"alice@gmail.com"},
		"phone_number": {"+8613912345678"},
		"password1":    {"passw0rd1"},
		"password2":    {"passw0rd1"},
	}
}

func TestSignupPageRenders(t *testing.T) {
	r := newTestRouter(t, &mockUserService{}, newFakeSessionService())

	w := getPage(r, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign Up")
}

func TestSignupSuccessRedirectsToLogin(t *testing.T) {
	var created *models.User
	userSvc := &mockUserService{
		createFn: func(user *models.User) error {
			created = user
			return nil
		},
	}
	r := newTestRouter(t, userSvc, newFakeSessionService())

	w := postForm(r, "/", validSignupValues(), "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))

	require.NotNil(t, created)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice@gmail.com", created.Email)
	require.NotNil(t, created.PhoneNumber)
	assert.Equal(t, "+8613912345678", *created.PhoneNumber)
	assert.False(t, created.IsStaff)
}

func TestSignupRejectsNonGmailEmail(t *testing.T) {
	// createFn未注入: 校验失败时不允许到达账户服务
	r := newTestRouter(t, &mockUserService{}, newFakeSessionService())

	values := validSignupValues()
	values.Set("email", "alice@yahoo.com")
	w := postForm(r, "/", values, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please use your @gmail.com email address.")
}

func TestSignupPasswordMismatch(t *testing.T) {
	r := newTestRouter(t, &mockUserService{}, newFakeSessionService())

	values := validSignupValues()
	values.Set("password2", "different1")
	w := postForm(r, "/", values, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The two password fields didn&#39;t match.")
}

func TestSignupDuplicateUsername(t *testing.T) {
	userSvc := &mockUserService{
		createFn: func(user *models.User) error {
			return services.ErrUsernameTaken
		},
	}
	r := newTestRouter(t, userSvc, newFakeSessionService())

	w := postForm(r, "/", validSignupValues(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A user with that username already exists.")
}

func TestSignupDuplicatePhoneNumber(t *testing.T) {
	userSvc := &mockUserService{
		createFn: func(user *models.User) error {
			return services.ErrPhoneNumberTaken
		},
	}
	r := newTestRouter(t, userSvc, newFakeSessionService())

	w := postForm(r, "/", validSignupValues(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User with this Phone number already exists.")
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	userSvc := &mockUserService{
		authFn: func(username, password string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
	}
	sessSvc := newFakeSessionService()
	r := newTestRouter(t, userSvc, sessSvc)

	w := postForm(r, "/login/", url.Values{
		"username": {"alice"},
		"password": {"passw0rd1"},
	}, "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home/", w.Header().Get("Location"))
	assert.Equal(t, 1, sessSvc.createCount)
	assert.Contains(t, w.Header().Get("Set-Cookie"), services.SessionCookieName+"=")
}

func TestLoginWrongPassword(t *testing.T) {
	userSvc := &mockUserService{
		authFn: func(username, password string) (*models.User, error) {
			return nil, services.ErrInvalidCredentials
		},
	}
	sessSvc := newFakeSessionService()
	r := newTestRouter(t, userSvc, sessSvc)

	w := postForm(r, "/login/", url.Values{
		"username": {"alice"},
		"password": {"wrongpass"},
	}, "")

	// 不区分“用户不存在”和“密码错误”，统一一条文案
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
	assert.Equal(t, 0, sessSvc.createCount)
}

func TestLoginMissingFields(t *testing.T) {
	r := newTestRouter(t, &mockUserService{}, newFakeSessionService())

	w := postForm(r, "/login/", url.Values{}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
}

func TestHomeShowsUsername(t *testing.T) {
	sessSvc := newFakeSessionService()
	cookieValue, err := sessSvc.CreateSession(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)
	r := newTestRouter(t, &mockUserService{}, sessSvc)

	w := getPage(r, "/home/", cookieValue)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome, alice!")
}

func TestHomeRedirectsWithoutSession(t *testing.T) {
	r := newTestRouter(t, &mockUserService{}, newFakeSessionService())

	w := getPage(r, "/home/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))
}

func TestLogoutFlushesSessionAndClearsCookie(t *testing.T) {
	sessSvc := newFakeSessionService()
	cookieValue, err := sessSvc.CreateSession(&models.User{ID: 1, Username: "alice"})
	require.NoError(t, err)
	r := newTestRouter(t, &mockUserService{}, sessSvc)

	w := getPage(r, "/logout/", cookieValue)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))

	// 服务端会话被整体删除
	assert.Empty(t, sessSvc.sessions)

	// Cookie被立即过期
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestLogoutWithoutSessionStillRedirects(t *testing.T) {
	r := newTestRouter(t, &mockUserService{}, newFakeSessionService())

	w := getPage(r, "/logout/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))
}
