package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScaleLevelModel: satu baris level pada sebuah version (snapshot penuh —
// set level diganti utuh setiap version baru, tidak ada partial update).
// Kode level boleh berulang di dalam satu version; identitas baris adalah
// position, bukan code.
type ScaleLevelModel struct {
	ScaleLevelID              uuid.UUID `gorm:"column:scale_level_id;type:uuid;primaryKey" json:"scale_level_id"`
	ScaleLevelVersionID       uuid.UUID `gorm:"column:scale_level_version_id;type:uuid;not null;index:idx_scale_level_version" json:"scale_level_version_id"`
	ScaleLevelPosition        int       `gorm:"column:scale_level_position;not null" json:"scale_level_position"`
	ScaleLevelCode            string    `gorm:"column:scale_level_code;size:64;not null" json:"scale_level_code"`
	ScaleLevelLabel           string    `gorm:"column:scale_level_label;size:150;not null" json:"scale_level_label"`
	ScaleLevelTitle           string    `gorm:"column:scale_level_title;size:150" json:"scale_level_title"`
	ScaleLevelDescription     string    `gorm:"column:scale_level_description;type:text" json:"scale_level_description"`
	ScaleLevelAIUsage         string    `gorm:"column:scale_level_ai_usage;type:text" json:"scale_level_ai_usage"`
	ScaleLevelInstructions    string    `gorm:"column:scale_level_instructions;type:text" json:"scale_level_instructions"`
	ScaleLevelAcknowledgement string    `gorm:"column:scale_level_acknowledgement;type:text" json:"scale_level_acknowledgement"`
}

func (ScaleLevelModel) TableName() string {
	return "scale_levels"
}

func (m *ScaleLevelModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScaleLevelID == uuid.Nil {
		m.ScaleLevelID = uuid.New()
	}
	return nil
}
