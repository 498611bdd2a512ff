package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationModel: notifikasi in-app per penerima.
// Immutable setelah dibuat, kecuali flag is_read.
type NotificationModel struct {
	NotificationID          uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	NotificationRecipientID uuid.UUID `gorm:"column:notification_recipient_id;type:uuid;not null;index:idx_notification_recipient_read" json:"notification_recipient_id"`
	NotificationTitle       string    `gorm:"column:notification_title;size:255;not null" json:"notification_title"`
	NotificationContent     string    `gorm:"column:notification_content;type:text" json:"notification_content"`
	NotificationBody        string    `gorm:"column:notification_body;type:text" json:"notification_body"`
	NotificationRelatedType string    `gorm:"column:notification_related_type;size:50;index:idx_notification_related" json:"notification_related_type"`
	NotificationRelatedID   string    `gorm:"column:notification_related_id;size:128;index:idx_notification_related" json:"notification_related_id"`
	NotificationIsRead      bool      `gorm:"column:notification_is_read;not null;default:false;index:idx_notification_recipient_read" json:"notification_is_read"`
	NotificationCreatedAt   time.Time `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationID == uuid.Nil {
		m.NotificationID = uuid.New()
	}
	return nil
}
