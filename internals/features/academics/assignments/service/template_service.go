// file: internals/features/academics/assignments/service/template_service.go
package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kampusku_backend/internals/constants"
	assignmentModel "kampusku_backend/internals/features/academics/assignments/model"
	courseModel "kampusku_backend/internals/features/academics/courses/model"
	userModel "kampusku_backend/internals/features/users/user/model"
)

/* =========================
   State machine template
========================= */

// DeriveDeclarationStatus: status deklarasi diturunkan murni dari
// (jumlah rows, flag publish). Tidak ada jalur lain yang boleh mengeset
// status — invariannya: field denormalized di assignment selalu bisa
// dihitung ulang dari template-nya.
//   rows == 0              → missing (publish template kosong tetap missing)
//   rows > 0 && published  → published
//   rows > 0 && !published → draft
func DeriveDeclarationStatus(rowCount int, isPublished bool) string {
	if rowCount == 0 {
		return assignmentModel.DeclarationStatusMissing
	}
	if isPublished {
		return assignmentModel.DeclarationStatusPublished
	}
	return assignmentModel.DeclarationStatusDraft
}

// DecodeRows: parse dokumen JSON rows template → slice map (urutan asli)
func DecodeRows(raw datatypes.JSON) ([]map[string]string, error) {
	if len(raw) == 0 {
		return []map[string]string{}, nil
	}
	var rows []map[string]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func EncodeRows(rows []map[string]string) (datatypes.JSON, error) {
	if rows == nil {
		rows = []map[string]string{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// syncAssignmentFields: tulis ulang field turunan assignment di transaksi
// yang sama dengan perubahan template (satu-satunya jalur update).
func syncAssignmentFields(tx *gorm.DB, assignment *assignmentModel.AssignmentModel, rowCount int, isPublished bool, templateUpdatedAt time.Time) error {
	status := DeriveDeclarationStatus(rowCount, isPublished)
	hasTemplate := rowCount > 0

	err := tx.Model(assignment).Updates(map[string]any{
		"assignment_ai_declaration_status": status,
		"assignment_has_template":          hasTemplate,
		"assignment_template_updated_at":   templateUpdatedAt,
	}).Error
	if err != nil {
		return err
	}
	assignment.AssignmentAIDeclarationStatus = status
	assignment.AssignmentHasTemplate = hasTemplate
	assignment.AssignmentTemplateUpdatedAt = &templateUpdatedAt
	return nil
}

/* =========================
   Resolusi kepemilikan
========================= */

// IsAssignedTutor: apakah user terdaftar sebagai tutor pada assignment
func IsAssignedTutor(db *gorm.DB, userID, assignmentID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&assignmentModel.AssignmentTutorModel{}).
		Where("assignment_tutor_assignment_id = ? AND assignment_tutor_user_id = ?", assignmentID, userID).
		Count(&count).Error
	return count > 0, err
}

// CanManageAssignment: create/update/delete assignment itu sendiri —
// admin, atau sc coordinator dari course-nya. Tutor TIDAK termasuk.
func CanManageAssignment(db *gorm.DB, u *userModel.UserModel, assignment *assignmentModel.AssignmentModel) (bool, error) {
	switch u.UserRole {
	case constants.RoleAdmin:
		return true, nil
	case constants.RoleSC:
		if assignment.AssignmentCourseID == nil {
			return false, nil
		}
		var course courseModel.CourseModel
		err := db.Where("course_id = ?", *assignment.AssignmentCourseID).First(&course).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return course.CourseCoordinator == u.UserUsername, nil
	default:
		return false, nil
	}
}

// CanEditTemplate: semua transisi template (save/publish/unpublish) —
// pengelola assignment, atau tutor aktif yang ditugaskan.
func CanEditTemplate(db *gorm.DB, u *userModel.UserModel, assignment *assignmentModel.AssignmentModel) (bool, error) {
	ok, err := CanManageAssignment(db, u, assignment)
	if err != nil || ok {
		return ok, err
	}
	if u.UserRole == constants.RoleTutor && u.IsActive() {
		return IsAssignedTutor(db, u.UserID, assignment.AssignmentID)
	}
	return false, nil
}

// CanViewAssignment: tutor hanya assignment yang dia pegang
func CanViewAssignment(db *gorm.DB, u *userModel.UserModel, assignment *assignmentModel.AssignmentModel) (bool, error) {
	ok, err := CanManageAssignment(db, u, assignment)
	if err != nil || ok {
		return ok, err
	}
	if u.UserRole == constants.RoleTutor {
		return IsAssignedTutor(db, u.UserID, assignment.AssignmentID)
	}
	return false, nil
}

/* =========================
   Transisi template
========================= */

type SaveTemplateInput struct {
	Rows      []map[string]string
	Publish   bool
	UpdatedBy string
}

// SaveTemplate: create-or-update template + recompute field turunan,
// semuanya dalam satu transaksi. Return template hasil & apakah operasi
// ini menghasilkan state published (pemicu fan-out di caller).
func SaveTemplate(db *gorm.DB, assignment *assignmentModel.AssignmentModel, in SaveTemplateInput) (*assignmentModel.AssignmentTemplateModel, bool, error) {
	raw, err := EncodeRows(in.Rows)
	if err != nil {
		return nil, false, fiber.NewError(fiber.StatusBadRequest, "Format rows tidak valid")
	}

	var tmpl assignmentModel.AssignmentTemplateModel
	now := time.Now()

	err = db.Transaction(func(tx *gorm.DB) error {
		ferr := tx.Where("template_assignment_id = ?", assignment.AssignmentID).First(&tmpl).Error
		if ferr != nil && !errors.Is(ferr, gorm.ErrRecordNotFound) {
			return ferr
		}

		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			tmpl = assignmentModel.AssignmentTemplateModel{
				TemplateAssignmentID: assignment.AssignmentID,
				TemplateRows:         raw,
				TemplateIsPublished:  in.Publish,
				TemplateUpdatedBy:    in.UpdatedBy,
			}
			if in.Publish {
				tmpl.TemplateLastPublishedAt = &now
			}
			if err := tx.Create(&tmpl).Error; err != nil {
				return err
			}
		} else {
			updates := map[string]any{
				"template_rows":         raw,
				"template_is_published": in.Publish,
				"template_updated_by":   in.UpdatedBy,
			}
			if in.Publish {
				updates["template_last_published_at"] = now
			}
			if err := tx.Model(&tmpl).Updates(updates).Error; err != nil {
				return err
			}
			tmpl.TemplateRows = raw
			tmpl.TemplateIsPublished = in.Publish
			tmpl.TemplateUpdatedBy = in.UpdatedBy
			if in.Publish {
				tmpl.TemplateLastPublishedAt = &now
			}
		}

		return syncAssignmentFields(tx, assignment, len(in.Rows), in.Publish, now)
	})
	if err != nil {
		return nil, false, err
	}

	published := in.Publish && len(in.Rows) > 0
	return &tmpl, published, nil
}

// SetPublished: publish/unpublish eksplisit. Publish template kosong
// tetap mengeset flag tapi state assignment tetap missing (no-op efektif).
func SetPublished(db *gorm.DB, assignment *assignmentModel.AssignmentModel, publish bool) (*assignmentModel.AssignmentTemplateModel, bool, error) {
	var tmpl assignmentModel.AssignmentTemplateModel
	now := time.Now()
	rowCount := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_assignment_id = ?", assignment.AssignmentID).First(&tmpl).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Template belum dibuat")
			}
			return err
		}

		rows, err := DecodeRows(tmpl.TemplateRows)
		if err != nil {
			return err
		}
		rowCount = len(rows)

		updates := map[string]any{"template_is_published": publish}
		if publish {
			updates["template_last_published_at"] = now
		}
		if err := tx.Model(&tmpl).Updates(updates).Error; err != nil {
			return err
		}
		tmpl.TemplateIsPublished = publish
		if publish {
			tmpl.TemplateLastPublishedAt = &now
		}

		return syncAssignmentFields(tx, assignment, rowCount, publish, now)
	})
	if err != nil {
		return nil, false, err
	}

	published := publish && rowCount > 0
	return &tmpl, published, nil
}

/* =========================
   Keanggotaan tutor
========================= */

// ReplaceTutors: ganti seluruh set tutor assignment. Return daftar user id
// yang BARU ditambahkan (basis fan-out — tutor lama tidak dinotifikasi).
func ReplaceTutors(db *gorm.DB, assignmentID uuid.UUID, tutorIDs []uuid.UUID) ([]uuid.UUID, error) {
	var added []uuid.UUID

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing []uuid.UUID
		if err := tx.Model(&assignmentModel.AssignmentTutorModel{}).
			Where("assignment_tutor_assignment_id = ?", assignmentID).
			Pluck("assignment_tutor_user_id", &existing).Error; err != nil {
			return err
		}

		existingSet := map[uuid.UUID]struct{}{}
		for _, id := range existing {
			existingSet[id] = struct{}{}
		}
		newSet := map[uuid.UUID]struct{}{}
		for _, id := range tutorIDs {
			newSet[id] = struct{}{}
		}

		var removed []uuid.UUID
		for _, id := range existing {
			if _, keep := newSet[id]; !keep {
				removed = append(removed, id)
			}
		}
		for _, id := range tutorIDs {
			if _, had := existingSet[id]; !had {
				added = append(added, id)
			}
		}

		if len(removed) > 0 {
			if err := tx.
				Where("assignment_tutor_assignment_id = ? AND assignment_tutor_user_id IN ?", assignmentID, removed).
				Delete(&assignmentModel.AssignmentTutorModel{}).Error; err != nil {
				return err
			}
		}
		if len(added) > 0 {
			memberships := make([]assignmentModel.AssignmentTutorModel, 0, len(added))
			for _, id := range added {
				memberships = append(memberships, assignmentModel.AssignmentTutorModel{
					AssignmentTutorAssignmentID: assignmentID,
					AssignmentTutorUserID:       id,
				})
			}
			if err := tx.CreateInBatches(memberships, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}
