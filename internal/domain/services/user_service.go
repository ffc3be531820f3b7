package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"useradmin-http-service/internal/domain/models"
	"useradmin-http-service/internal/infrastructure/config"
	"useradmin-http-service/pkg/utils"
)

// 账户服务返回的业务错误。重复字段的错误文案会作为表单错误直接展示给用户
var (
	ErrUserNotFound       = errors.New("User not found")
	ErrUsernameTaken      = errors.New("A user with that username already exists.")
	ErrPhoneNumberTaken   = errors.New("User with this Phone number already exists.")
	ErrInvalidCredentials = errors.New("Invalid username or password")
)

// InterfaceUserService defines the user account service interface
type InterfaceUserService interface {
	GetAllUsers() ([]models.User, error)
	SearchUsers(query string) ([]models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(id uint, updates map[string]interface{}) (*models.User, error)
	DeleteUser(id uint) error
	Authenticate(username, password string) (*models.User, error)
	SetPassword(id uint, password string) error
}

// UserService 提供账户相关的服务
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的账户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllUsers 获取所有账户
func (s *UserService) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// 2 SearchUsers 按用户名做大小写不敏感的子串搜索
func (s *UserService) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + strings.ToLower(query) + "%"
	if err := s.DB.Where("LOWER(username) LIKE ?", pattern).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// 3 GetUserByID 根据ID获取账户
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// 4 GetUserByUsername 根据用户名获取账户
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// 5 CreateUser 创建新账户
func (s *UserService) CreateUser(user *models.User) error {
	// 验证用户名唯一性
	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	// 验证手机号唯一性（手机号可以为空）
	if user.PhoneNumber != nil {
		if err := s.DB.Model(&models.User{}).Where("phone_number = ?", *user.PhoneNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPhoneNumberTaken
		}
	}

	// 密码哈希由模型钩子完成
	return s.DB.Create(user).Error
}

// 6 UpdateUser 更新账户信息
func (s *UserService) UpdateUser(id uint, updates map[string]interface{}) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	// 如果更新用户名，需要检查唯一性
	if username, ok := updates["username"].(string); ok && username != user.Username {
		var count int64
		if err := s.DB.Model(&models.User{}).Where("username = ? AND id != ?", username, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
	}

	// 如果更新手机号，需要检查唯一性
	if phone, ok := updates["phone_number"].(string); ok && phone != user.Phone() {
		var count int64
		if err := s.DB.Model(&models.User{}).Where("phone_number = ? AND id != ?", phone, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrPhoneNumberTaken
		}
	}

	// 如果更新密码，需要进行哈希处理（map更新不会触发模型钩子）
	if password, ok := updates["password"].(string); ok {
		hashedPassword, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashedPassword
	}

	if err := s.DB.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的账户信息
	return s.GetUserByID(id)
}

// 7 DeleteUser 删除账户（硬删除）
func (s *UserService) DeleteUser(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(user).Error
}

// 8 Authenticate 校验用户名密码。失败时统一返回 ErrInvalidCredentials，
// 不区分“用户不存在”和“密码错误”
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// 9 SetPassword 重置指定账户的密码
func (s *UserService) SetPassword(id uint, password string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return s.DB.Model(user).Update("password", hashedPassword).Error
}
