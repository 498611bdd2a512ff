package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/academics/courses/dto"
	"kampusku_backend/internals/features/academics/courses/model"
	userModel "kampusku_backend/internals/features/users/user/model"
	helper "kampusku_backend/internals/helpers"
	helperAuth "kampusku_backend/internals/helpers/auth"
)

type CourseController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{DB: db, Validate: validator.New()}
}

// canManageCourse: admin bebas; sc hanya course yang dia koordinasi sendiri
func canManageCourse(u *userModel.UserModel, course *model.CourseModel) bool {
	switch u.UserRole {
	case constants.RoleAdmin:
		return true
	case constants.RoleSC:
		return course.CourseCoordinator == u.UserUsername
	default:
		return false
	}
}

// 🟢 GET /api/a/courses (+ pagination) — admin semua, sc hanya miliknya
func (ctrl *CourseController) GetCourses(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}
	if err := helperAuth.RequireRoles(user, constants.CoordinatorAndAbove...); err != nil {
		return helper.JsonFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.CourseModel{})
	if user.UserRole == constants.RoleSC {
		q = q.Where("course_coordinator = ?", user.UserUsername)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] hitung courses: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	var courses []model.CourseModel
	if err := q.Order("course_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&courses).Error; err != nil {
		log.Printf("[ERROR] ambil courses: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar course", dto.ToCourseResponseList(courses),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 POST /api/a/courses
func (ctrl *CourseController) CreateCourse(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}
	if err := helperAuth.RequireRoles(user, constants.CoordinatorAndAbove...); err != nil {
		return helper.JsonFiberError(c, err)
	}

	var req dto.CourseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Data course tidak lengkap")
	}

	// sc: otomatis jadi coordinator, dan tidak boleh mengatasnamakan sc lain
	if user.UserRole == constants.RoleSC {
		if req.CourseCoordinator == "" {
			req.CourseCoordinator = user.UserUsername
		} else if req.CourseCoordinator != user.UserUsername {
			return helper.JsonError(c, fiber.StatusForbidden, "Coordinator hanya boleh diri sendiri")
		}
	}

	newCourse := req.ToModel()
	if err := ctrl.DB.Create(newCourse).Error; err != nil {
		log.Printf("[ERROR] simpan course: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan course")
	}

	return helper.JsonCreated(c, "Course berhasil dibuat", dto.ToCourseResponse(newCourse))
}

// 🟢 PUT /api/a/courses/:id
func (ctrl *CourseController) UpdateCourse(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format ID tidak valid")
	}

	var course model.CourseModel
	if err := ctrl.DB.Where("course_id = ?", id).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	if !canManageCourse(user, &course) {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke course ini")
	}

	var req dto.CourseUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Data course tidak valid")
	}

	updates := map[string]any{}
	if req.CourseName != nil {
		updates["course_name"] = *req.CourseName
	}
	if req.CourseCode != nil {
		updates["course_code"] = *req.CourseCode
	}
	if req.CourseSemester != nil {
		updates["course_semester"] = *req.CourseSemester
	}
	if req.CourseDescription != nil {
		updates["course_description"] = *req.CourseDescription
	}
	if req.CourseCoordinator != nil {
		// hanya admin boleh memindahkan coordinator
		if user.UserRole != constants.RoleAdmin && *req.CourseCoordinator != user.UserUsername {
			return helper.JsonError(c, fiber.StatusForbidden, "Coordinator hanya boleh diubah admin")
		}
		updates["course_coordinator"] = *req.CourseCoordinator
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&course).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] update course: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui course")
		}
	}

	return helper.JsonUpdated(c, "Course berhasil diperbarui", dto.ToCourseResponse(&course))
}

// 🛑 DELETE /api/a/courses/:id
func (ctrl *CourseController) DeleteCourse(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format ID tidak valid")
	}

	var course model.CourseModel
	if err := ctrl.DB.Where("course_id = ?", id).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil course")
	}

	if !canManageCourse(user, &course) {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke course ini")
	}

	if err := ctrl.DB.Delete(&course).Error; err != nil {
		log.Printf("[ERROR] hapus course: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus course")
	}

	return helper.JsonDeleted(c, "Course berhasil dihapus", nil)
}
