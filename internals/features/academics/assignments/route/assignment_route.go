package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/academics/assignments/controller"
	authMiddleware "kampusku_backend/internals/middlewares/auth"
)

// AssignmentAdminRoutes: create/update/delete + keanggotaan tutor —
// admin & subject coordinator (cek pemilik per record di controller)
func AssignmentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	assignmentCtrl := controller.NewAssignmentController(db)

	assignments := admin.Group("/assignments",
		authMiddleware.OnlyRoles(db, constants.RoleErrorCoordinator("assignment"), constants.CoordinatorAndAbove...))
	assignments.Post("/", assignmentCtrl.CreateAssignment)
	assignments.Put("/:id", assignmentCtrl.UpdateAssignment)
	assignments.Delete("/:id", assignmentCtrl.DeleteAssignment)
	assignments.Put("/:id/tutors", assignmentCtrl.UpdateTutors)
}

// AssignmentUserRoutes: list + template — semua role login, scope per role
// di controller (tutor hanya assignment yang dia pegang)
func AssignmentUserRoutes(user fiber.Router, db *gorm.DB) {
	assignmentCtrl := controller.NewAssignmentController(db)

	assignments := user.Group("/assignments", authMiddleware.RequireAuth(db))
	assignments.Get("/", assignmentCtrl.GetAssignments)
	assignments.Get("/:id/template", assignmentCtrl.GetTemplate)
	assignments.Put("/:id/template", assignmentCtrl.SaveTemplate)
	assignments.Post("/:id/template/publish", assignmentCtrl.PublishTemplate)
	assignments.Post("/:id/template/unpublish", assignmentCtrl.UnpublishTemplate)
}
