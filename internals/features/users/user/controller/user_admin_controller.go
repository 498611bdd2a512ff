package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/users/user/dto"
	"kampusku_backend/internals/features/users/user/model"
	helper "kampusku_backend/internals/helpers"
)

// UserAdminController: manajemen user oleh admin (route group sudah dijaga OnlyRoles admin)
type UserAdminController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserAdminController(db *gorm.DB) *UserAdminController {
	return &UserAdminController{DB: db, Validate: validator.New()}
}

// 🟢 GET /api/a/users?role=&status=  (+ pagination)
func (ctrl *UserAdminController) GetUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.UserModel{})
	if role := c.Query("role"); role != "" {
		q = q.Where("user_role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("user_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] hitung users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	var users []model.UserModel
	if err := q.Order("user_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&users).Error; err != nil {
		log.Printf("[ERROR] ambil users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar user", dto.ToUserResponseList(users),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 PUT /api/a/users/:id
func (ctrl *UserAdminController) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format ID tidak valid")
	}

	var user model.UserModel
	if err := ctrl.DB.Where("user_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, validationMap(err))
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["user_name"] = *req.Name
	}
	if req.Email != nil {
		updates["user_email"] = *req.Email
	}
	if req.Phone != nil {
		updates["user_phone"] = *req.Phone
	}
	if req.Organization != nil {
		updates["user_organization"] = *req.Organization
	}
	if req.Bio != nil {
		updates["user_bio"] = *req.Bio
	}
	if req.Role != nil {
		updates["user_role"] = *req.Role
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] update user: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui user")
		}
	}

	return helper.JsonUpdated(c, "User berhasil diperbarui", dto.ToUserResponse(&user))
}

// 🟢 POST /api/a/users/:id/status  (toggle active/inactive, admin only)
func (ctrl *UserAdminController) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format ID tidak valid")
	}

	var user model.UserModel
	if err := ctrl.DB.Where("user_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil user")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Status tidak valid (active/inactive)")
	}

	if err := ctrl.DB.Model(&user).Update("user_status", req.Status).Error; err != nil {
		log.Printf("[ERROR] update status user: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui status")
	}
	user.UserStatus = req.Status

	return helper.JsonUpdated(c, "Status user berhasil diperbarui", dto.ToUserResponse(&user))
}
