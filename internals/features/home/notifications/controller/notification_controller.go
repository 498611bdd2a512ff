package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/home/notifications/dto"
	"kampusku_backend/internals/features/home/notifications/model"
	helper "kampusku_backend/internals/helpers"
	helperAuth "kampusku_backend/internals/helpers/auth"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// 🟢 GET /api/u/notifications (+ pagination) — hanya milik caller, terbaru dulu
func (ctrl *NotificationController) GetMyNotifications(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.NotificationModel{}).
		Where("notification_recipient_id = ?", user.UserID)
	if c.Query("unread") == "true" {
		q = q.Where("notification_is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] hitung notifikasi: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung notifikasi")
	}

	var notifs []model.NotificationModel
	if err := q.Order("notification_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&notifs).Error; err != nil {
		log.Printf("[ERROR] ambil notifikasi: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	return helper.JsonList(c, "Daftar notifikasi", dto.ToNotificationResponseList(notifs),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 POST /api/u/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format ID tidak valid")
	}

	var notif model.NotificationModel
	if err := ctrl.DB.
		Where("notification_id = ? AND notification_recipient_id = ?", id, user.UserID).
		First(&notif).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	if !notif.NotificationIsRead {
		if err := ctrl.DB.Model(&notif).
			Update("notification_is_read", true).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui notifikasi")
		}
		notif.NotificationIsRead = true
	}

	return helper.JsonUpdated(c, "Notifikasi ditandai sudah dibaca", dto.ToNotificationResponse(&notif))
}

// 🟢 POST /api/u/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	res := ctrl.DB.Model(&model.NotificationModel{}).
		Where("notification_recipient_id = ? AND notification_is_read = ?", user.UserID, false).
		Update("notification_is_read", true)
	if res.Error != nil {
		log.Printf("[ERROR] tandai semua dibaca: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui notifikasi")
	}

	return helper.JsonUpdated(c, "Semua notifikasi ditandai sudah dibaca", fiber.Map{
		"updated": res.RowsAffected,
	})
}
