package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	"kampusku_backend/internals/features/academics/assignments/dto"
	"kampusku_backend/internals/features/academics/assignments/model"
	"kampusku_backend/internals/features/academics/assignments/service"
	courseModel "kampusku_backend/internals/features/academics/courses/model"
	notifService "kampusku_backend/internals/features/home/notifications/service"
	userModel "kampusku_backend/internals/features/users/user/model"
	helper "kampusku_backend/internals/helpers"
	helperAuth "kampusku_backend/internals/helpers/auth"
)

type AssignmentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{DB: db, Validate: validator.New()}
}

func (ctrl *AssignmentController) loadAssignment(c *fiber.Ctx) (*model.AssignmentModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Format ID tidak valid")
	}
	var assignment model.AssignmentModel
	if err := ctrl.DB.Where("assignment_id = ?", id).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Assignment tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil assignment")
	}
	return &assignment, nil
}

// scCourseIDs: id course yang dikoordinasi sc (filter list)
func (ctrl *AssignmentController) scCourseIDs(username string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := ctrl.DB.Model(&courseModel.CourseModel{}).
		Where("course_coordinator = ?", username).
		Pluck("course_id", &ids).Error
	return ids, err
}

// 🟢 GET /api/u/assignments (+ pagination) — admin semua, sc course miliknya,
// tutor hanya assignment yang dia pegang
func (ctrl *AssignmentController) GetAssignments(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctrl.DB.Model(&model.AssignmentModel{})

	switch user.UserRole {
	case constants.RoleAdmin:
		// semua
	case constants.RoleSC:
		courseIDs, err := ctrl.scCourseIDs(user.UserUsername)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
		}
		if len(courseIDs) == 0 {
			return helper.JsonList(c, "Daftar assignment", []dto.AssignmentResponse{},
				helper.BuildPaginationFromPage(0, paging.Page, paging.PerPage))
		}
		q = q.Where("assignment_course_id IN ?", courseIDs)
	case constants.RoleTutor:
		q = q.Where("assignment_id IN (?)",
			ctrl.DB.Model(&model.AssignmentTutorModel{}).
				Select("assignment_tutor_assignment_id").
				Where("assignment_tutor_user_id = ?", user.UserID))
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Role tidak dikenal")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	var assignments []model.AssignmentModel
	if err := q.Order("assignment_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&assignments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	return helper.JsonList(c, "Daftar assignment", dto.ToAssignmentResponseList(assignments),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// 🟢 POST /api/a/assignments — admin atau sc pemilik course
func (ctrl *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}
	if err := helperAuth.RequireRoles(user, constants.CoordinatorAndAbove...); err != nil {
		return helper.JsonFiberError(c, err)
	}

	var req dto.AssignmentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Data assignment tidak lengkap")
	}

	// sc hanya boleh membuat assignment di course yang dia koordinasi
	if user.UserRole == constants.RoleSC {
		if req.AssignmentCourseID == nil {
			return helper.JsonError(c, fiber.StatusForbidden, "Assignment sc harus terikat course milik sendiri")
		}
		var course courseModel.CourseModel
		if err := ctrl.DB.Where("course_id = ?", *req.AssignmentCourseID).First(&course).Error; err != nil {
			return helper.JsonError(c, fiber.StatusNotFound, "Course tidak ditemukan")
		}
		if course.CourseCoordinator != user.UserUsername {
			return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke course ini")
		}
	}

	newAssignment := req.ToModel()
	if err := ctrl.DB.Create(newAssignment).Error; err != nil {
		log.Printf("[ERROR] simpan assignment: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan assignment")
	}

	return helper.JsonCreated(c, "Assignment berhasil dibuat", dto.ToAssignmentResponse(newAssignment, nil))
}

// 🟢 PUT /api/a/assignments/:id
func (ctrl *AssignmentController) UpdateAssignment(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	assignment, err := ctrl.loadAssignment(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	ok, err := service.CanManageAssignment(ctrl.DB, user, assignment)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke assignment ini")
	}

	var req dto.AssignmentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Data assignment tidak valid")
	}

	updates := map[string]any{}
	if req.AssignmentName != nil {
		updates["assignment_name"] = *req.AssignmentName
	}
	if req.AssignmentType != nil {
		updates["assignment_type"] = *req.AssignmentType
	}
	if req.AssignmentDescription != nil {
		updates["assignment_description"] = *req.AssignmentDescription
	}
	if req.AssignmentDueDate != nil {
		updates["assignment_due_date"] = *req.AssignmentDueDate
	}
	if req.AssignmentCourseID != nil {
		updates["assignment_course_id"] = *req.AssignmentCourseID
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(assignment).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] update assignment: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui assignment")
		}
	}

	return helper.JsonUpdated(c, "Assignment berhasil diperbarui", dto.ToAssignmentResponse(assignment, nil))
}

// 🛑 DELETE /api/a/assignments/:id
func (ctrl *AssignmentController) DeleteAssignment(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	assignment, err := ctrl.loadAssignment(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	ok, err := service.CanManageAssignment(ctrl.DB, user, assignment)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke assignment ini")
	}

	if err := ctrl.DB.Delete(assignment).Error; err != nil {
		log.Printf("[ERROR] hapus assignment: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus assignment")
	}

	return helper.JsonDeleted(c, "Assignment berhasil dihapus", nil)
}

// 🟢 PUT /api/a/assignments/:id/tutors — ganti set tutor, notifikasi
// hanya ke tutor yang baru ditambahkan
func (ctrl *AssignmentController) UpdateTutors(c *fiber.Ctx) error {
	user, err := helperAuth.RequireActiveUser(c, ctrl.DB)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	assignment, err := ctrl.loadAssignment(c)
	if err != nil {
		return helper.JsonFiberError(c, err)
	}

	ok, err := service.CanManageAssignment(ctrl.DB, user, assignment)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa akses")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Tidak punya akses ke assignment ini")
	}

	var req dto.UpdateTutorsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if req.TutorIDs == nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "tutor_ids wajib diisi")
	}

	// hanya user role tutor yang aktif boleh masuk keanggotaan
	if len(req.TutorIDs) > 0 {
		var count int64
		if err := ctrl.DB.Model(&userModel.UserModel{}).
			Where("user_id IN ? AND user_role = ?", req.TutorIDs, constants.RoleTutor).
			Count(&count).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa tutor")
		}
		if count != int64(len(req.TutorIDs)) {
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Ada tutor_id yang bukan tutor terdaftar")
		}
	}

	added, err := service.ReplaceTutors(ctrl.DB, assignment.AssignmentID, req.TutorIDs)
	if err != nil {
		log.Printf("[ERROR] ganti tutor assignment: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui tutor")
	}

	// fan-out hanya ke tutor baru; set membership sudah commit di atas
	outbox := notifService.NewOutbox()
	recipients, rerr := notifService.RecipientsForAddedTutors(ctrl.DB, added)
	if rerr != nil {
		log.Printf("[ERROR] hitung penerima tutor baru: %v", rerr)
	} else {
		actorName := notifService.UserDisplayName(user, "")
		outbox.Queue(recipients, notifService.Payload{
			Title:       "Penugasan assignment baru",
			Content:     fmt.Sprintf("%s menugaskan Anda pada assignment %q", actorName, assignment.AssignmentName),
			RelatedType: "assignment",
			RelatedID:   assignment.AssignmentID.String(),
		})
	}
	outbox.Flush(ctrl.DB)

	return helper.JsonUpdated(c, "Tutor assignment berhasil diperbarui", fiber.Map{
		"assignment_id": assignment.AssignmentID,
		"tutor_ids":     req.TutorIDs,
		"added":         added,
	})
}
