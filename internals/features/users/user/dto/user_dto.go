package dto

import (
	"strings"
	"time"

	"kampusku_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

// ================== REQUEST ==================
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=120"`
	Password string `json:"password" validate:"required,min=6,max=120"`
	Role     string `json:"role" validate:"required,oneof=admin sc tutor"`
	Name     string `json:"name" validate:"omitempty,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=120"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Organization *string `json:"organization" validate:"omitempty,max=120"`
	Bio          *string `json:"bio"`
	Role         *string `json:"role" validate:"omitempty,oneof=admin sc tutor"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *RegisterRequest) ToModel() *model.UserModel {
	return &model.UserModel{
		UserUsername: r.Username,
		UserRole:     r.Role,
		UserName:     r.Name,
		UserEmail:    r.Email,
	}
}

// ================== RESPONSE ==================
type UserResponse struct {
	UserID           uuid.UUID `json:"user_id"`
	UserUsername     string    `json:"user_username"`
	UserRole         string    `json:"user_role"`
	UserName         string    `json:"user_name"`
	UserEmail        string    `json:"user_email"`
	UserPhone        string    `json:"user_phone,omitempty"`
	UserOrganization string    `json:"user_organization,omitempty"`
	UserBio          string    `json:"user_bio,omitempty"`
	UserStatus       string    `json:"user_status"`
	UserLastLoginAt  *string   `json:"user_last_login_at,omitempty"`
	UserCreatedAt    string    `json:"user_created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ================ CONVERSION =================
func ToUserResponse(m *model.UserModel) *UserResponse {
	resp := &UserResponse{
		UserID:           m.UserID,
		UserUsername:     m.UserUsername,
		UserRole:         m.UserRole,
		UserName:         m.DisplayName(),
		UserEmail:        m.UserEmail,
		UserPhone:        m.UserPhone,
		UserOrganization: m.UserOrganization,
		UserBio:          m.UserBio,
		UserStatus:       m.UserStatus,
		UserCreatedAt:    m.UserCreatedAt.Format(time.RFC3339),
	}
	if m.UserLastLoginAt != nil {
		s := m.UserLastLoginAt.Format(time.RFC3339)
		resp.UserLastLoginAt = &s
	}
	return resp
}

func ToUserResponseList(models []model.UserModel) []UserResponse {
	result := make([]UserResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToUserResponse(&models[i]))
	}
	return result
}
