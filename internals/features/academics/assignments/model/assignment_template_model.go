package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssignmentTemplateModel: worksheet deklarasi AI, one-to-one dengan assignment.
// Berbeda dengan scale version: entity ini di-mutate in place, bukan di-version.
type AssignmentTemplateModel struct {
	TemplateID              uuid.UUID      `gorm:"column:template_id;type:uuid;primaryKey" json:"template_id"`
	TemplateAssignmentID    uuid.UUID      `gorm:"column:template_assignment_id;type:uuid;not null;uniqueIndex" json:"template_assignment_id"`
	TemplateRows            datatypes.JSON `gorm:"column:template_rows;type:jsonb" json:"template_rows"`
	TemplateIsPublished     bool           `gorm:"column:template_is_published;not null;default:false" json:"template_is_published"`
	TemplateUpdatedBy       string         `gorm:"column:template_updated_by;size:150" json:"template_updated_by"`
	TemplateLastPublishedAt *time.Time     `gorm:"column:template_last_published_at" json:"template_last_published_at,omitempty"`
	TemplateCreatedAt       time.Time      `gorm:"column:template_created_at;autoCreateTime" json:"template_created_at"`
	TemplateUpdatedAt       time.Time      `gorm:"column:template_updated_at;autoUpdateTime" json:"template_updated_at"`
}

func (AssignmentTemplateModel) TableName() string {
	return "assignment_templates"
}

func (m *AssignmentTemplateModel) BeforeCreate(tx *gorm.DB) error {
	if m.TemplateID == uuid.Nil {
		m.TemplateID = uuid.New()
	}
	return nil
}
