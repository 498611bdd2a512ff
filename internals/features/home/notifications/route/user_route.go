package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/features/home/notifications/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
)

// NotificationRoutes: read model notifikasi (polling) untuk semua role
func NotificationRoutes(api fiber.Router, db *gorm.DB) {
	notifCtrl := controller.NewNotificationController(db)

	notif := api.Group("/notifications", authMiddleware.RequireAuth(db))
	notif.Get("/", notifCtrl.GetMyNotifications)
	notif.Post("/:id/read", notifCtrl.MarkAsRead)
	notif.Post("/read-all", notifCtrl.MarkAllAsRead)
}
