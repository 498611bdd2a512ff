package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/users/user/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
	"kampusku_backend/internals/middlewares"
)

// AuthRoutes: register/login publik, logout butuh identitas
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authCtrl := controller.NewAuthController(db)

	api.Post("/register", authCtrl.Register)
	api.Post("/login", middlewares.LoginRateLimiter(), authCtrl.Login)
	api.Post("/u/logout", authMiddleware.RequireAuth(db), authCtrl.Logout)
}

// AdminUserRoutes: manajemen user, hanya admin
func AdminUserRoutes(admin fiber.Router, db *gorm.DB) {
	userCtrl := controller.NewUserAdminController(db)

	users := admin.Group("/users",
		authMiddleware.OnlyRoles(db, constants.RoleErrorAdmin("manajemen user"), constants.RoleAdmin))
	users.Get("/", userCtrl.GetUsers)
	users.Put("/:id", userCtrl.UpdateUser)
	users.Post("/:id/status", userCtrl.UpdateStatus)
}
