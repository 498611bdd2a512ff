package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/academics/courses/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
)

// CourseRoutes: manajemen course — admin & subject coordinator
func CourseRoutes(admin fiber.Router, db *gorm.DB) {
	courseCtrl := controller.NewCourseController(db)

	courses := admin.Group("/courses",
		authMiddleware.OnlyRoles(db, constants.RoleErrorCoordinator("course"), constants.CoordinatorAndAbove...))
	courses.Get("/", courseCtrl.GetCourses)
	courses.Post("/", courseCtrl.CreateCourse)
	courses.Put("/:id", courseCtrl.UpdateCourse)
	courses.Delete("/:id", courseCtrl.DeleteCourse)
}
