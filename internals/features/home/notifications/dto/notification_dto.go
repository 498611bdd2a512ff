package dto

import (
	"kampusku_backend/internals/features/home/notifications/model"

	"github.com/google/uuid"
)

// ================== RESPONSE ==================
type NotificationResponse struct {
	NotificationID          uuid.UUID `json:"notification_id"`
	NotificationTitle       string    `json:"notification_title"`
	NotificationContent     string    `json:"notification_content"`
	NotificationBody        string    `json:"notification_body"`
	NotificationRelatedType string    `json:"notification_related_type"`
	NotificationRelatedID   string    `json:"notification_related_id"`
	NotificationIsRead      bool      `json:"notification_is_read"`
	NotificationCreatedAt   string    `json:"notification_created_at"`
}

// ================ CONVERSION =================
func ToNotificationResponse(m *model.NotificationModel) *NotificationResponse {
	return &NotificationResponse{
		NotificationID:          m.NotificationID,
		NotificationTitle:       m.NotificationTitle,
		NotificationContent:     m.NotificationContent,
		NotificationBody:        m.NotificationBody,
		NotificationRelatedType: m.NotificationRelatedType,
		NotificationRelatedID:   m.NotificationRelatedID,
		NotificationIsRead:      m.NotificationIsRead,
		NotificationCreatedAt:   m.NotificationCreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ToNotificationResponseList(models []model.NotificationModel) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToNotificationResponse(&models[i]))
	}
	return result
}
