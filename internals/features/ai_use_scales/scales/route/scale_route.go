package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/ai_use_scales/scales/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
)

// ScaleAdminRoutes: pembuatan record — admin & subject coordinator
func ScaleAdminRoutes(admin fiber.Router, db *gorm.DB) {
	scaleCtrl := controller.NewScaleController(db)

	scales := admin.Group("/scales",
		authMiddleware.OnlyRoles(db, constants.RoleErrorCoordinator("scale"), constants.CoordinatorAndAbove...))
	scales.Post("/", scaleCtrl.CreateScaleRecord)
}

// ScaleUserRoutes: baca + save version (ownership redirect di controller).
// Tutor ditolak per handler, bukan di middleware, supaya pesan errornya
// spesifik.
func ScaleUserRoutes(user fiber.Router, db *gorm.DB) {
	scaleCtrl := controller.NewScaleController(db)

	scales := user.Group("/scales", authMiddleware.RequireAuth(db))
	scales.Get("/", scaleCtrl.GetScaleRecords)
	scales.Get("/sc-view", scaleCtrl.GetScView)
	scales.Get("/:id", scaleCtrl.GetScaleRecord)
	scales.Post("/:id/versions", scaleCtrl.SaveScaleVersion)
}
