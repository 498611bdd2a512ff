package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kampusku_backend/internals/constants"
	assignmentModel "kampusku_backend/internals/features/academics/assignments/model"
	courseModel "kampusku_backend/internals/features/academics/courses/model"
	notifModel "kampusku_backend/internals/features/home/notifications/model"
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
		&notifModel.NotificationModel{},
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

func TestUserDisplayNameFallbackChain(t *testing.T) {
	id := uuid.New()

	withName := &userModel.UserModel{UserID: id, UserName: "Budi", UserUsername: "budi1"}
	assert.Equal(t, "Budi", UserDisplayName(withName, "def"))

	usernameOnly := &userModel.UserModel{UserID: id, UserUsername: "budi1"}
	assert.Equal(t, "budi1", UserDisplayName(usernameOnly, "def"))

	bare := &userModel.UserModel{UserID: id}
	assert.Equal(t, "User "+id.String(), UserDisplayName(bare, "def"))

	assert.Equal(t, "def", UserDisplayName(nil, "def"))
	assert.Equal(t, "System", UserDisplayName(nil, ""))
	assert.Equal(t, "System", UserDisplayName(nil, "   "))
}

func TestNormalizeRecipientsDedupeAndActiveFilter(t *testing.T) {
	active := &userModel.UserModel{UserID: uuid.New(), UserUsername: "a", UserStatus: constants.StatusActive}
	inactive := &userModel.UserModel{UserID: uuid.New(), UserUsername: "b", UserStatus: constants.StatusInactive}
	second := &userModel.UserModel{UserID: uuid.New(), UserUsername: "c", UserStatus: constants.StatusActive}

	got := NormalizeRecipients([]*userModel.UserModel{active, nil, inactive, second, active, second})
	require.Len(t, got, 2)

	// urutan first-seen dipertahankan
	assert.Equal(t, active.UserID, got[0].UserID)
	assert.Equal(t, second.UserID, got[1].UserID)
}

func TestOutboxFlushAfterCommit(t *testing.T) {
	db := newTestDB(t)
	recipient := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)

	outbox := NewOutbox()
	outbox.Queue([]*userModel.UserModel{recipient}, Payload{
		Title:       "  Judul  ",
		Content:     "Isi",
		RelatedType: "scale_record",
		RelatedID:   "abc",
	})
	require.Equal(t, 1, outbox.PendingCount())

	// belum ada baris sebelum Flush
	var count int64
	require.NoError(t, db.Model(&notifModel.NotificationModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	outbox.Flush(db)
	assert.Equal(t, 0, outbox.PendingCount())

	var rows []notifModel.NotificationModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, recipient.UserID, rows[0].NotificationRecipientID)
	assert.Equal(t, "Judul", rows[0].NotificationTitle)
	assert.Equal(t, "scale_record", rows[0].NotificationRelatedType)
	assert.False(t, rows[0].NotificationIsRead)
}

func TestOutboxDiscardOnRollback(t *testing.T) {
	db := newTestDB(t)
	recipient := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)

	outbox := NewOutbox()
	outbox.Queue([]*userModel.UserModel{recipient}, Payload{Title: "Judul", Content: "Isi"})
	outbox.Discard()
	outbox.Flush(db)

	var count int64
	require.NoError(t, db.Model(&notifModel.NotificationModel{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestOutboxSkipsInactiveRecipients(t *testing.T) {
	db := newTestDB(t)
	active := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)
	inactive := makeUser(t, db, "tutor2", constants.RoleTutor, constants.StatusInactive)

	outbox := NewOutbox()
	outbox.Queue([]*userModel.UserModel{active, inactive, active}, Payload{Title: "Judul", Content: "Isi"})
	outbox.Flush(db)

	var rows []notifModel.NotificationModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, active.UserID, rows[0].NotificationRecipientID)
}

func TestRecipientsForSystemScaleSave(t *testing.T) {
	db := newTestDB(t)
	admin := makeUser(t, db, "admin1", constants.RoleAdmin, constants.StatusActive)
	sc := makeUser(t, db, "coordA", constants.RoleSC, constants.StatusActive)
	makeUser(t, db, "coordB", constants.RoleSC, constants.StatusInactive)
	makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)

	got, err := RecipientsForSystemScaleSave(db)
	require.NoError(t, err)
	require.Len(t, got, 2)

	ids := []uuid.UUID{got[0].UserID, got[1].UserID}
	assert.Contains(t, ids, admin.UserID)
	assert.Contains(t, ids, sc.UserID)
}

func TestRecipientsForScScaleSave(t *testing.T) {
	db := newTestDB(t)
	owner := makeUser(t, db, "coordA", constants.RoleSC, constants.StatusActive)
	myTutor := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)
	otherTutor := makeUser(t, db, "tutor2", constants.RoleTutor, constants.StatusActive)
	otherCoord := makeUser(t, db, "coordB", constants.RoleSC, constants.StatusActive)

	myCourse := courseModel.CourseModel{
		CourseName: "C1", CourseCode: "C1", CourseSemester: "2026-1", CourseCoordinator: owner.UserUsername,
	}
	require.NoError(t, db.Create(&myCourse).Error)
	otherCourse := courseModel.CourseModel{
		CourseName: "C2", CourseCode: "C2", CourseSemester: "2026-1", CourseCoordinator: otherCoord.UserUsername,
	}
	require.NoError(t, db.Create(&otherCourse).Error)

	myAssignment := assignmentModel.AssignmentModel{AssignmentName: "A1", AssignmentCourseID: &myCourse.CourseID}
	require.NoError(t, db.Create(&myAssignment).Error)
	otherAssignment := assignmentModel.AssignmentModel{AssignmentName: "A2", AssignmentCourseID: &otherCourse.CourseID}
	require.NoError(t, db.Create(&otherAssignment).Error)

	require.NoError(t, db.Create(&assignmentModel.AssignmentTutorModel{
		AssignmentTutorAssignmentID: myAssignment.AssignmentID, AssignmentTutorUserID: myTutor.UserID,
	}).Error)
	require.NoError(t, db.Create(&assignmentModel.AssignmentTutorModel{
		AssignmentTutorAssignmentID: otherAssignment.AssignmentID, AssignmentTutorUserID: otherTutor.UserID,
	}).Error)

	got, err := RecipientsForScScaleSave(db, owner.UserUsername)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.UserID)
	}
	// tutor pada course milik coordA + coordA sendiri (self-notification);
	// tutor course lain tidak ikut
	assert.Contains(t, ids, myTutor.UserID)
	assert.Contains(t, ids, owner.UserID)
	assert.NotContains(t, ids, otherTutor.UserID)
	assert.NotContains(t, ids, otherCoord.UserID)
}

func TestRecipientsForTemplatePublish(t *testing.T) {
	db := newTestDB(t)
	coordinator := makeUser(t, db, "coordA", constants.RoleSC, constants.StatusActive)
	assigned := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)
	inactive := makeUser(t, db, "tutor2", constants.RoleTutor, constants.StatusInactive)
	actor := makeUser(t, db, "admin1", constants.RoleAdmin, constants.StatusActive)

	course := courseModel.CourseModel{
		CourseName: "C1", CourseCode: "C1", CourseSemester: "2026-1", CourseCoordinator: coordinator.UserUsername,
	}
	require.NoError(t, db.Create(&course).Error)

	assignment := assignmentModel.AssignmentModel{AssignmentName: "A1", AssignmentCourseID: &course.CourseID}
	require.NoError(t, db.Create(&assignment).Error)

	require.NoError(t, db.Create(&assignmentModel.AssignmentTutorModel{
		AssignmentTutorAssignmentID: assignment.AssignmentID, AssignmentTutorUserID: assigned.UserID,
	}).Error)
	require.NoError(t, db.Create(&assignmentModel.AssignmentTutorModel{
		AssignmentTutorAssignmentID: assignment.AssignmentID, AssignmentTutorUserID: inactive.UserID,
	}).Error)

	got, err := RecipientsForTemplatePublish(db, &assignment, actor)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.UserID)
	}
	assert.Contains(t, ids, assigned.UserID)
	assert.Contains(t, ids, coordinator.UserID)
	assert.Contains(t, ids, actor.UserID)
	assert.NotContains(t, ids, inactive.UserID)
}

func TestRecipientsForAddedTutors(t *testing.T) {
	db := newTestDB(t)
	active := makeUser(t, db, "tutor1", constants.RoleTutor, constants.StatusActive)
	inactive := makeUser(t, db, "tutor2", constants.RoleTutor, constants.StatusInactive)

	got, err := RecipientsForAddedTutors(db, []uuid.UUID{active.UserID, inactive.UserID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.UserID, got[0].UserID)

	got, err = RecipientsForAddedTutors(db, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
