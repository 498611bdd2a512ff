package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentTutorModel: join table keanggotaan tutor pada assignment
type AssignmentTutorModel struct {
	AssignmentTutorID           uuid.UUID `gorm:"column:assignment_tutor_id;type:uuid;primaryKey" json:"assignment_tutor_id"`
	AssignmentTutorAssignmentID uuid.UUID `gorm:"column:assignment_tutor_assignment_id;type:uuid;not null;uniqueIndex:uq_assignment_tutor" json:"assignment_tutor_assignment_id"`
	AssignmentTutorUserID       uuid.UUID `gorm:"column:assignment_tutor_user_id;type:uuid;not null;uniqueIndex:uq_assignment_tutor" json:"assignment_tutor_user_id"`
	AssignmentTutorCreatedAt    time.Time `gorm:"column:assignment_tutor_created_at;autoCreateTime" json:"assignment_tutor_created_at"`
}

func (AssignmentTutorModel) TableName() string {
	return "assignment_tutors"
}

func (m *AssignmentTutorModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentTutorID == uuid.Nil {
		m.AssignmentTutorID = uuid.New()
	}
	return nil
}
