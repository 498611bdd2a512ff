package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipe kepemilikan scale record
const (
	OwnerTypeSystem = "system"
	OwnerTypeSC     = "sc"
)

// ScaleRecordModel: container bernama untuk rubric AI-use yang di-version.
// Record milik system terlihat semua orang; record milik sc privat
// untuk pemiliknya (dan admin).
type ScaleRecordModel struct {
	ScaleRecordID        uuid.UUID `gorm:"column:scale_record_id;type:uuid;primaryKey" json:"scale_record_id"`
	ScaleRecordName      string    `gorm:"column:scale_record_name;size:150;not null" json:"scale_record_name"`
	ScaleRecordOwnerType string    `gorm:"column:scale_record_owner_type;type:varchar(20);not null;index:idx_scale_record_owner" json:"scale_record_owner_type"`
	ScaleRecordOwnerID   *string   `gorm:"column:scale_record_owner_id;size:150;index:idx_scale_record_owner" json:"scale_record_owner_id"`
	ScaleRecordIsPublic  bool      `gorm:"column:scale_record_is_public;not null;default:false" json:"scale_record_is_public"`
	ScaleRecordCreatedAt time.Time `gorm:"column:scale_record_created_at;autoCreateTime" json:"scale_record_created_at"`
	ScaleRecordUpdatedAt time.Time `gorm:"column:scale_record_updated_at;autoUpdateTime" json:"scale_record_updated_at"`
}

func (ScaleRecordModel) TableName() string {
	return "scale_records"
}

func (m *ScaleRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScaleRecordID == uuid.Nil {
		m.ScaleRecordID = uuid.New()
	}
	return nil
}

func (m *ScaleRecordModel) IsSystemOwned() bool {
	return m.ScaleRecordOwnerType == OwnerTypeSystem
}

// OwnedBy: cek kepemilikan terhadap owner key (username sc, fallback id)
func (m *ScaleRecordModel) OwnedBy(ownerKey string) bool {
	return m.ScaleRecordOwnerType == OwnerTypeSC &&
		m.ScaleRecordOwnerID != nil &&
		*m.ScaleRecordOwnerID == ownerKey
}
