package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseModel: mata kuliah. Coordinator disimpan sebagai username sc
// (anchor untuk resolusi kepemilikan assignment & scale record).
type CourseModel struct {
	CourseID          uuid.UUID `gorm:"column:course_id;type:uuid;primaryKey" json:"course_id"`
	CourseName        string    `gorm:"column:course_name;size:120;not null" json:"course_name"`
	CourseCode        string    `gorm:"column:course_code;size:20;not null;uniqueIndex:uq_course_code_semester" json:"course_code"`
	CourseSemester    string    `gorm:"column:course_semester;size:20;not null;uniqueIndex:uq_course_code_semester" json:"course_semester"`
	CourseDescription string    `gorm:"column:course_description;type:text" json:"course_description"`
	CourseCoordinator string    `gorm:"column:course_coordinator;size:120;index" json:"course_coordinator"`
	CourseCreatedAt   time.Time `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt   time.Time `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at"`
}

func (CourseModel) TableName() string {
	return "courses"
}

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	return nil
}
