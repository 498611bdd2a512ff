package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel merepresentasikan tabel users (admin, subject coordinator, tutor)
type UserModel struct {
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserUsername     string     `gorm:"column:user_username;size:120;uniqueIndex;not null" json:"user_username"`
	UserPassword     string     `gorm:"column:user_password;size:255;not null" json:"-"`
	UserRole         string     `gorm:"column:user_role;type:varchar(30);not null" json:"user_role"`
	UserName         string     `gorm:"column:user_name;size:120" json:"user_name"`
	UserEmail        string     `gorm:"column:user_email;size:255" json:"user_email"`
	UserPhone        string     `gorm:"column:user_phone;size:50" json:"user_phone"`
	UserOrganization string     `gorm:"column:user_organization;size:120" json:"user_organization"`
	UserBio          string     `gorm:"column:user_bio;type:text" json:"user_bio"`
	UserStatus       string     `gorm:"column:user_status;type:varchar(20);not null;default:'active'" json:"user_status"`
	UserAuthToken    *string    `gorm:"column:user_auth_token;size:128;uniqueIndex" json:"-"`
	UserLastLoginAt  *time.Time `gorm:"column:user_last_login_at" json:"user_last_login_at,omitempty"`
	UserCreatedAt    time.Time  `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt    time.Time  `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	if m.UserStatus == "" {
		m.UserStatus = "active"
	}
	return nil
}

func (m *UserModel) IsActive() bool {
	return m.UserStatus == "active"
}

// DisplayName: nama tampilan untuk notifikasi dsb (name → username)
func (m *UserModel) DisplayName() string {
	if m.UserName != "" {
		return m.UserName
	}
	return m.UserUsername
}

// OwnerKey: identitas stabil untuk kepemilikan scale record (username, fallback id)
func (m *UserModel) OwnerKey() string {
	if m.UserUsername != "" {
		return m.UserUsername
	}
	return m.UserID.String()
}
