package forms

import (
	"regexp"
	"strings"
	"unicode"
)

// 每个页面动作一套独立的校验规则，互不复用。校验结果是“字段名 -> 错误文案”
// 的映射，文案直接渲染到表单页面上

// RequiredFieldMessage 必填字段为空时的提示
const RequiredFieldMessage = "This field is required."

// GmailSuffix 注册邮箱必须使用的域名后缀（大小写敏感）
const GmailSuffix = "@gmail.com"

var (
	// 邮箱格式的结构性检查
	emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// 国际格式手机号: 可选+号，首位非0，共8-15位数字
	phoneRegexp = regexp.MustCompile(`^\+?[1-9][0-9]{7,14}$`)
)

// SignupForm 注册表单，管理面板的“创建用户”也使用同一套规则
type SignupForm struct {
	Username    string `form:"username"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phone_number"`
	Password1   string `form:"password1"`
	Password2   string `form:"password2"`
}

// Validate 校验注册表单，返回字段错误映射，空映射表示通过
func (f *SignupForm) Validate() map[string]string {
	errs := make(map[string]string)

	if f.Username == "" {
		errs["username"] = RequiredFieldMessage
	} else if len(f.Username) > 150 {
		errs["username"] = "Ensure this value has at most 150 characters."
	}

	if f.Email == "" {
		errs["email"] = RequiredFieldMessage
	} else if !emailRegexp.MatchString(f.Email) {
		errs["email"] = "Enter a valid email address."
	} else if !strings.HasSuffix(f.Email, GmailSuffix) {
		errs["email"] = "Please use your @gmail.com email address."
	}

	if f.PhoneNumber == "" {
		errs["phone_number"] = RequiredFieldMessage
	} else if !phoneRegexp.MatchString(f.PhoneNumber) {
		errs["phone_number"] = "Invalid phone number."
	}

	if f.Password1 == "" {
		errs["password1"] = RequiredFieldMessage
	}
	if f.Password2 == "" {
		errs["password2"] = RequiredFieldMessage
	}
	if f.Password1 != "" && f.Password2 != "" {
		if f.Password1 != f.Password2 {
			errs["password2"] = "The two password fields didn't match."
		} else if !passwordMeetsPolicy(f.Password1) {
			errs["password1"] = "Password must be at least 8 characters long and contain both letters and numbers."
		}
	}

	return errs
}

// LoginForm 登录表单，只做形状校验，凭证校验交给账户服务
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Validate 校验登录表单
func (f *LoginForm) Validate() map[string]string {
	errs := make(map[string]string)

	if f.Username == "" {
		errs["username"] = RequiredFieldMessage
	} else if len(f.Username) > 254 {
		errs["username"] = "Ensure this value has at most 254 characters."
	}

	if f.Password == "" {
		errs["password"] = RequiredFieldMessage
	}

	return errs
}

// AdminLoginForm 管理员登录表单。凭证和is_staff检查在控制器里完成，
// 失败只返回一个笼统的错误，避免暴露哪些账户是管理员
type AdminLoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Validate 校验管理员登录表单
func (f *AdminLoginForm) Validate() map[string]string {
	errs := make(map[string]string)

	if f.Username == "" {
		errs["username"] = RequiredFieldMessage
	}
	if f.Password == "" {
		errs["password"] = RequiredFieldMessage
	}

	return errs
}

// UserChangeForm 账户编辑表单。刻意不包含密码字段，密码修改走专门的表单；
// 编辑时手机号允许留空（存储层本就允许为NULL），邮箱不再限制gmail后缀
type UserChangeForm struct {
	Username    string `form:"username"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phone_number"`
}

// Validate 校验账户编辑表单
func (f *UserChangeForm) Validate() map[string]string {
	errs := make(map[string]string)

	if f.Username == "" {
		errs["username"] = RequiredFieldMessage
	} else if len(f.Username) > 150 {
		errs["username"] = "Ensure this value has at most 150 characters."
	}

	if f.Email == "" {
		errs["email"] = RequiredFieldMessage
	} else if !emailRegexp.MatchString(f.Email) {
		errs["email"] = "Enter a valid email address."
	}

	if f.PhoneNumber != "" && !phoneRegexp.MatchString(f.PhoneNumber) {
		errs["phone_number"] = "Invalid phone number."
	}

	return errs
}

// SetPasswordForm 管理员重置目标账户密码的表单
type SetPasswordForm struct {
	NewPassword1 string `form:"new_password1"`
	NewPassword2 string `form:"new_password2"`
}

// Validate 校验密码重置表单
func (f *SetPasswordForm) Validate() map[string]string {
	errs := make(map[string]string)

	if f.NewPassword1 == "" {
		errs["new_password1"] = RequiredFieldMessage
	}
	if f.NewPassword2 == "" {
		errs["new_password2"] = RequiredFieldMessage
	}
	if f.NewPassword1 != "" && f.NewPassword2 != "" {
		if f.NewPassword1 != f.NewPassword2 {
			errs["new_password2"] = "The two password fields didn't match."
		} else if !passwordMeetsPolicy(f.NewPassword1) {
			errs["new_password1"] = "Password must be at least 8 characters long and contain both letters and numbers."
		}
	}

	return errs
}

// passwordMeetsPolicy 密码策略: 至少8个字符，同时包含字母和数字
func passwordMeetsPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
