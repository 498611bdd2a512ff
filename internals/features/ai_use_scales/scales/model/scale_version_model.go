package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScaleVersionModel: satu versi rubric. Append-only — tidak pernah
// di-edit atau dihapus; save selalu membuat version = max(existing)+1.
type ScaleVersionModel struct {
	ScaleVersionID        uuid.UUID `gorm:"column:scale_version_id;type:uuid;primaryKey" json:"scale_version_id"`
	ScaleVersionRecordID  uuid.UUID `gorm:"column:scale_version_record_id;type:uuid;not null;uniqueIndex:uq_scale_version_number" json:"scale_version_record_id"`
	ScaleVersionNumber    int       `gorm:"column:scale_version_number;not null;uniqueIndex:uq_scale_version_number" json:"scale_version_number"`
	ScaleVersionUpdatedBy string    `gorm:"column:scale_version_updated_by;size:150" json:"scale_version_updated_by"`
	ScaleVersionNotes     string    `gorm:"column:scale_version_notes;type:text" json:"scale_version_notes"`
	ScaleVersionCreatedAt time.Time `gorm:"column:scale_version_created_at;autoCreateTime" json:"scale_version_created_at"`
}

func (ScaleVersionModel) TableName() string {
	return "scale_versions"
}

func (m *ScaleVersionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScaleVersionID == uuid.Nil {
		m.ScaleVersionID = uuid.New()
	}
	return nil
}
