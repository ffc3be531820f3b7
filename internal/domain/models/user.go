package models

import (
	"time"

	"gorm.io/gorm"

	"useradmin-http-service/pkg/utils"
)

// User 系统账户。普通用户与管理员共用一张表，通过 is_staff 区分权限
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(150);unique;not null" json:"username"`
	Email       string    `gorm:"type:varchar(254);not null" json:"email"`
	PhoneNumber *string   `gorm:"type:varchar(20);unique" json:"phone_number"` // 存储层允许为空，注册时必填
	Password    string    `gorm:"type:varchar(100);not null" json:"-"`         // Password not exposed in JSON
	IsStaff     bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Phone 返回手机号字符串，号码为空时返回空串。
// 值接收者，模板里对列表元素也能直接调用
func (u User) Phone() string {
	if u.PhoneNumber == nil {
		return ""
	}
	return *u.PhoneNumber
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// BeforeSave 是一个GORM钩子，在保存记录前运行
func (u *User) BeforeSave(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}
