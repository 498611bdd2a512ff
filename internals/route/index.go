// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentRoute "kampusku_backend/internals/features/academics/assignments/route"
	courseRoute "kampusku_backend/internals/features/academics/courses/route"
	scaleRoute "kampusku_backend/internals/features/ai_use_scales/scales/route"
	notificationRoute "kampusku_backend/internals/features/home/notifications/route"
	userRoute "kampusku_backend/internals/features/users/user/route"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api")

	// ===================== AUTH / USER BASE =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	userRoute.AuthRoutes(api, db)

	// ===================== GROUPS =====================
	// /api/u → semua role login (scope per role di controller)
	// /api/a → admin & subject coordinator (cek pemilik per record)
	user := api.Group("/u")
	admin := api.Group("/a")

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting User routes...")
	userRoute.AdminUserRoutes(admin, db)

	log.Println("[INFO] Mounting Course routes...")
	courseRoute.CourseRoutes(admin, db)

	log.Println("[INFO] Mounting Assignment routes...")
	assignmentRoute.AssignmentAdminRoutes(admin, db)
	assignmentRoute.AssignmentUserRoutes(user, db)

	log.Println("[INFO] Mounting Scale routes...")
	scaleRoute.ScaleAdminRoutes(admin, db)
	scaleRoute.ScaleUserRoutes(user, db)

	log.Println("[INFO] Mounting Notification routes...")
	notificationRoute.NotificationRoutes(user, db)
}
