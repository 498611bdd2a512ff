package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	assignmentModel "kampusku_backend/internals/features/academics/assignments/model"
	courseModel "kampusku_backend/internals/features/academics/courses/model"
	userModel "kampusku_backend/internals/features/users/user/model"
)

// Perhitungan recipient set per jenis event. Dedupe & filter inactive
// tetap dilakukan lagi di Outbox.Queue (jaring pengaman di titik dispatch).

// RecipientsForSystemScaleSave: scale milik system di-save →
// semua user aktif dengan role admin atau sc.
func RecipientsForSystemScaleSave(db *gorm.DB) ([]*userModel.UserModel, error) {
	var users []userModel.UserModel
	err := db.
		Where("user_status = ? AND user_role IN ?", "active", []string{"admin", "sc"}).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return toPtrs(users), nil
}

// RecipientsForScScaleSave: scale milik sc di-save → semua tutor aktif pada
// assignment yang course-nya dikoordinasi sc tsb, plus user sc pemilik sendiri
// (self-notification memang disengaja — konfirmasi bahwa save berhasil).
func RecipientsForScScaleSave(db *gorm.DB, ownerKey string) ([]*userModel.UserModel, error) {
	// pemilik: cari by username, fallback by id (ownerKey bisa berupa keduanya)
	owner, err := findUserByKey(db, ownerKey)
	if err != nil {
		return nil, err
	}

	coordinatorKeys := []string{ownerKey}
	if owner != nil && owner.UserUsername != "" && owner.UserUsername != ownerKey {
		coordinatorKeys = append(coordinatorKeys, owner.UserUsername)
	}

	var courseIDs []uuid.UUID
	if err := db.Model(&courseModel.CourseModel{}).
		Where("course_coordinator IN ?", coordinatorKeys).
		Pluck("course_id", &courseIDs).Error; err != nil {
		return nil, err
	}

	var recipients []*userModel.UserModel
	if len(courseIDs) > 0 {
		var tutors []userModel.UserModel
		err := db.Model(&userModel.UserModel{}).
			Joins("JOIN assignment_tutors at ON at.assignment_tutor_user_id = users.user_id").
			Joins("JOIN assignments a ON a.assignment_id = at.assignment_tutor_assignment_id").
			Where("a.assignment_course_id IN ? AND users.user_status = ?", courseIDs, "active").
			Distinct("users.*").
			Find(&tutors).Error
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, toPtrs(tutors)...)
	}
	if owner != nil {
		recipients = append(recipients, owner)
	}
	return recipients, nil
}

// RecipientsForTemplatePublish: semua yang punya hak edit assignment ikut
// dinotifikasi — tutor aktif yang ditugaskan, coordinator aktif course-nya,
// dan aktor sendiri.
func RecipientsForTemplatePublish(db *gorm.DB, assignment *assignmentModel.AssignmentModel, actor *userModel.UserModel) ([]*userModel.UserModel, error) {
	var tutors []userModel.UserModel
	err := db.Model(&userModel.UserModel{}).
		Joins("JOIN assignment_tutors at ON at.assignment_tutor_user_id = users.user_id").
		Where("at.assignment_tutor_assignment_id = ? AND users.user_status = ?", assignment.AssignmentID, "active").
		Find(&tutors).Error
	if err != nil {
		return nil, err
	}

	recipients := toPtrs(tutors)

	if assignment.AssignmentCourseID != nil {
		var course courseModel.CourseModel
		err := db.Where("course_id = ?", *assignment.AssignmentCourseID).First(&course).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && course.CourseCoordinator != "" {
			coordinator, err := findUserByKey(db, course.CourseCoordinator)
			if err != nil {
				return nil, err
			}
			if coordinator != nil {
				recipients = append(recipients, coordinator)
			}
		}
	}

	if actor != nil {
		recipients = append(recipients, actor)
	}
	return recipients, nil
}

// RecipientsForAddedTutors: hanya tutor yang BARU ditambahkan — tutor lama
// tidak dinotifikasi ulang.
func RecipientsForAddedTutors(db *gorm.DB, addedIDs []uuid.UUID) ([]*userModel.UserModel, error) {
	if len(addedIDs) == 0 {
		return nil, nil
	}
	var users []userModel.UserModel
	err := db.
		Where("user_id IN ? AND user_status = ?", addedIDs, "active").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return toPtrs(users), nil
}

// findUserByKey: lookup user aktif dengan username, fallback stringified id
func findUserByKey(db *gorm.DB, key string) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := db.Where("user_username = ? AND user_status = ?", key, "active").First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	id, perr := uuid.Parse(key)
	if perr != nil {
		return nil, nil
	}
	err = db.Where("user_id = ? AND user_status = ?", id, "active").First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func toPtrs(users []userModel.UserModel) []*userModel.UserModel {
	out := make([]*userModel.UserModel, 0, len(users))
	for i := range users {
		out = append(out, &users[i])
	}
	return out
}
