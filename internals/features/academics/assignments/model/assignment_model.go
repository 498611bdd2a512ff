package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status deklarasi AI (cache denormalized — selalu diturunkan dari template)
const (
	DeclarationStatusMissing   = "missing"
	DeclarationStatusDraft     = "draft"
	DeclarationStatusPublished = "published"
)

type AssignmentModel struct {
	AssignmentID          uuid.UUID  `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssignmentCourseID    *uuid.UUID `gorm:"column:assignment_course_id;type:uuid;index" json:"assignment_course_id"`
	AssignmentName        string     `gorm:"column:assignment_name;size:150;not null" json:"assignment_name"`
	AssignmentType        string     `gorm:"column:assignment_type;size:60" json:"assignment_type"`
	AssignmentDescription string     `gorm:"column:assignment_description;type:text" json:"assignment_description"`
	AssignmentDueDate     *time.Time `gorm:"column:assignment_due_date" json:"assignment_due_date,omitempty"`

	// Field turunan — hanya di-update bersamaan dengan perubahan template
	AssignmentAIDeclarationStatus string     `gorm:"column:assignment_ai_declaration_status;type:varchar(20);not null;default:'missing'" json:"assignment_ai_declaration_status"`
	AssignmentHasTemplate         bool       `gorm:"column:assignment_has_template;not null;default:false" json:"assignment_has_template"`
	AssignmentTemplateUpdatedAt   *time.Time `gorm:"column:assignment_template_updated_at" json:"assignment_template_updated_at,omitempty"`

	AssignmentCreatedAt time.Time `gorm:"column:assignment_created_at;autoCreateTime" json:"assignment_created_at"`
	AssignmentUpdatedAt time.Time `gorm:"column:assignment_updated_at;autoUpdateTime" json:"assignment_updated_at"`
}

func (AssignmentModel) TableName() string {
	return "assignments"
}

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	if m.AssignmentAIDeclarationStatus == "" {
		m.AssignmentAIDeclarationStatus = DeclarationStatusMissing
	}
	return nil
}
