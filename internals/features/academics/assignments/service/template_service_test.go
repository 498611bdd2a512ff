package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kampusku_backend/internals/constants"
	assignmentModel "kampusku_backend/internals/features/academics/assignments/model"
	courseModel "kampusku_backend/internals/features/academics/courses/model"
	userModel "kampusku_backend/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&courseModel.CourseModel{},
		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentTutorModel{},
		&assignmentModel.AssignmentTemplateModel{},
	))
	return db
}

func makeUser(t *testing.T, db *gorm.DB, username, role, status string) *userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserUsername: username,
		UserPassword: "x",
		UserRole:     role,
		UserStatus:   status,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func makeCourse(t *testing.T, db *gorm.DB, code, coordinator string) *courseModel.CourseModel {
	t.Helper()
	c := courseModel.CourseModel{
		CourseName:        "Course " + code,
		CourseCode:        code,
		CourseSemester:    "2026-1",
		CourseCoordinator: coordinator,
	}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func makeAssignment(t *testing.T, db *gorm.DB, course *courseModel.CourseModel, name string) *assignmentModel.AssignmentModel {
	t.Helper()
	a := assignmentModel.AssignmentModel{
		AssignmentName:                name,
		AssignmentAIDeclarationStatus: assignmentModel.DeclarationStatusMissing,
	}
	if course != nil {
		a.AssignmentCourseID = &course.CourseID
	}
	require.NoError(t, db.Create(&a).Error)
	return &a
}

func assignTutor(t *testing.T, db *gorm.DB, a *assignmentModel.AssignmentModel, u *userModel.UserModel) {
	t.Helper()
	require.NoError(t, db.Create(&assignmentModel.AssignmentTutorModel{
		AssignmentTutorAssignmentID: a.AssignmentID,
		AssignmentTutorUserID:       u.UserID,
	}).Error)
}

func sampleRows(n int) []map[string]string {
	rows := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]string{
			"task":        "Tugas",
			"level":       "R1",
			"instruction": "Kerjakan sendiri",
		})
	}
	return rows
}

func TestDeriveDeclarationStatus(t *testing.T) {
	tests := []struct {
		name        string
		rowCount    int
		isPublished bool
		want        string
	}{
		{"kosong draft", 0, false, assignmentModel.DeclarationStatusMissing},
		{"kosong publish", 0, true, assignmentModel.DeclarationStatusMissing},
		{"berisi draft", 2, false, assignmentModel.DeclarationStatusDraft},
		{"berisi publish", 2, true, assignmentModel.DeclarationStatusPublished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveDeclarationStatus(tt.rowCount, tt.isPublished))
		})
	}
}

func TestSaveTemplateDraftThenPublish(t *testing.T) {
	db := newTestDB(t)
	course := makeCourse(t, db, "CS101", "coordA")
	assignment := makeAssignment(t, db, course, "Essay 1")

	// save draft: status draft, belum published
	tmpl, published, err := SaveTemplate(db, assignment, SaveTemplateInput{
		Rows: sampleRows(2), Publish: false, UpdatedBy: "coordA",
	})
	require.NoError(t, err)
	assert.False(t, published)
	assert.False(t, tmpl.TemplateIsPublished)
	assert.Equal(t, assignmentModel.DeclarationStatusDraft, assignment.AssignmentAIDeclarationStatus)
	assert.True(t, assignment.AssignmentHasTemplate)
	require.NotNil(t, assignment.AssignmentTemplateUpdatedAt)

	// save kedua dengan publish: entity yang sama dimutasi, bukan row baru
	tmpl2, published, err := SaveTemplate(db, assignment, SaveTemplateInput{
		Rows: sampleRows(3), Publish: true, UpdatedBy: "coordA",
	})
	require.NoError(t, err)
	assert.True(t, published)
	assert.Equal(t, tmpl.TemplateID, tmpl2.TemplateID)
	assert.Equal(t, assignmentModel.DeclarationStatusPublished, assignment.AssignmentAIDeclarationStatus)

	var count int64
	require.NoError(t, db.Model(&assignmentModel.AssignmentTemplateModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSaveTemplateEmptyRowsStaysMissing(t *testing.T) {
	db := newTestDB(t)
	course := makeCourse(t, db, "CS101", "coordA")
	assignment := makeAssignment(t, db, course, "Essay 1")

	// publish template kosong: flag keset tapi state tetap missing,
	// dan tidak dianggap "published" untuk fan-out
	_, published, err := SaveTemplate(db, assignment, SaveTemplateInput{
		Rows: nil, Publish: true, UpdatedBy: "coordA",
	})
	require.NoError(t, err)
	assert.False(t, published)
	assert.Equal(t, assignmentModel.DeclarationStatusMissing, assignment.AssignmentAIDeclarationStatus)
	assert.False(t, assignment.AssignmentHasTemplate)
}

func TestSetPublishedFlipsStateAtomically(t *testing.T) {
	db := newTestDB(t)
	course := makeCourse(t, db, "CS101", "coordA")
	assignment := makeAssignment(t, db, course, "Essay 1")

	_, _, err := SaveTemplate(db, assignment, SaveTemplateInput{
		Rows: sampleRows(1), Publish: false, UpdatedBy: "coordA",
	})
	require.NoError(t, err)

	_, published, err := SetPublished(db, assignment, true)
	require.NoError(t, err)
	assert.True(t, published)
	assert.Equal(t, assignmentModel.DeclarationStatusPublished, assignment.AssignmentAIDeclarationStatus)

	// field turunan di DB ikut transaksi yang sama
	var fresh assignmentModel.AssignmentModel
	require.NoError(t, db.Where("assignment_id = ?", assignment.AssignmentID).First(&fresh).Error)
	assert.Equal(t, assignmentModel.DeclarationStatusPublished, fresh.AssignmentAIDeclarationStatus)
	assert.True(t, fresh.AssignmentHasTemplate)

	_, published, err = SetPublished(db, assignment, false)
	require.NoError(t, err)
	assert.False(t, published)
	assert.Equal(t, assignmentModel.DeclarationStatusDraft, assignment.AssignmentAIDeclarationStatus)
}

func TestSetPublishedWithoutTemplateIsNotFound(t *testing.T) {
	db := newTestDB(t)
	course := makeCourse(t, db, "CS101", "coordA")
	assignment := makeAssignment(t, db, course, "Essay 1")

	_, _, err := SetPublished(db, assignment, true)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestCanEditTemplatePermissions(t *testing.T) {
	db := newTestDB(t)
	course := makeCourse(t, db, "CS101", "coordA")
	assignment := makeAssignment(t, db, course, "Essay 1")

	admin := makeUser(t, db, "admin1", constants.RoleAdmin, constants.StatusActive)
	coordinator := makeUser(t, db, "coordA", constants.RoleSC, constants.StatusActive)
	otherSc := makeUser(t, db, "coordB", constants.RoleSC, constants.StatusActive)
	assigned := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)
	unassigned := makeUser(t, db, "tutor2", constants.RoleTutor, constants.StatusActive)
	inactive := makeUser(t, db, "tutor3", constants.RoleTutor, constants.StatusInactive)

	assignTutor(t, db, assignment, assigned)
	assignTutor(t, db, assignment, inactive)

	tests := []struct {
		name string
		user *userModel.UserModel
		want bool
	}{
		{"admin", admin, true},
		{"coordinator course", coordinator, true},
		{"sc lain", otherSc, false},
		{"tutor ditugaskan", assigned, true},
		{"tutor tidak ditugaskan", unassigned, false},
		{"tutor non-aktif", inactive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanEditTemplate(db, tt.user, assignment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanViewAssignmentUnassignedTutorDenied(t *testing.T) {
	db := newTestDB(t)
	course := makeCourse(t, db, "CS101", "coordA")
	assignment := makeAssignment(t, db, course, "Essay 1")

	_, _, err := SaveTemplate(db, assignment, SaveTemplateInput{
		Rows: sampleRows(1), Publish: true, UpdatedBy: "coordA",
	})
	require.NoError(t, err)

	// template sudah ada & published pun, tutor yang tidak ditugaskan
	// tetap tidak boleh membacanya
	unassigned := makeUser(t, db, "tutor9", constants.RoleTutor, constants.StatusActive)
	ok, err := CanViewAssignment(db, unassigned, assignment)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReplaceTutorsReturnsOnlyAdded(t *testing.T) {
	db := newTestDB(t)
	course := makeCourse(t, db, "CS101", "coordA")
	assignment := makeAssignment(t, db, course, "Essay 1")

	t1 := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)
	t2 := makeUser(t, db, "tutor2", constants.RoleTutor, constants.StatusActive)
	t3 := makeUser(t, db, "tutor3", constants.RoleTutor, constants.StatusActive)

	added, err := ReplaceTutors(db, assignment.AssignmentID, []uuid.UUID{t1.UserID, t2.UserID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{t1.UserID, t2.UserID}, added)

	// ganti set: t2 bertahan, t3 baru — hanya t3 yang dilaporkan added
	added, err = ReplaceTutors(db, assignment.AssignmentID, []uuid.UUID{t2.UserID, t3.UserID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{t3.UserID}, added)

	var remaining []uuid.UUID
	require.NoError(t, db.Model(&assignmentModel.AssignmentTutorModel{}).
		Where("assignment_tutor_assignment_id = ?", assignment.AssignmentID).
		Pluck("assignment_tutor_user_id", &remaining).Error)
	assert.ElementsMatch(t, []uuid.UUID{t2.UserID, t3.UserID}, remaining)

	// set kosong menghapus semua keanggotaan
	added, err = ReplaceTutors(db, assignment.AssignmentID, nil)
	require.NoError(t, err)
	assert.Empty(t, added)

	var count int64
	require.NoError(t, db.Model(&assignmentModel.AssignmentTutorModel{}).
		Where("assignment_tutor_assignment_id = ?", assignment.AssignmentID).
		Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
