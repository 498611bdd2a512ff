package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"kampusku_backend/internals/features/ai_use_scales/scales/model"
	"kampusku_backend/internals/features/ai_use_scales/scales/service"
)

// ================== REQUEST ==================
type LevelEntryRequest struct {
	LevelCode       string `json:"level_code" validate:"required,max=64"`
	Label           string `json:"label" validate:"required,max=150"`
	Title           string `json:"title" validate:"omitempty,max=150"`
	Description     string `json:"description"`
	AIUsage         string `json:"ai_usage"`
	Instructions    string `json:"instructions"`
	Acknowledgement string `json:"acknowledgement"`
}

type SaveVersionRequest struct {
	Levels    []LevelEntryRequest `json:"levels" validate:"required,min=1,dive"`
	Notes     string              `json:"notes"`
	UpdatedBy string              `json:"updated_by" validate:"omitempty,max=150"`
}

func (r *SaveVersionRequest) Normalize() {
	for i := range r.Levels {
		r.Levels[i].LevelCode = strings.TrimSpace(r.Levels[i].LevelCode)
		r.Levels[i].Label = strings.TrimSpace(r.Levels[i].Label)
	}
	r.Notes = strings.TrimSpace(r.Notes)
	r.UpdatedBy = strings.TrimSpace(r.UpdatedBy)
}

func (r *SaveVersionRequest) ToServiceInput() service.SaveVersionInput {
	levels := make([]service.LevelInput, 0, len(r.Levels))
	for _, lv := range r.Levels {
		levels = append(levels, service.LevelInput{
			Code:            lv.LevelCode,
			Label:           lv.Label,
			Title:           lv.Title,
			Description:     lv.Description,
			AIUsage:         lv.AIUsage,
			Instructions:    lv.Instructions,
			Acknowledgement: lv.Acknowledgement,
		})
	}
	return service.SaveVersionInput{
		Levels:    levels,
		Notes:     r.Notes,
		UpdatedBy: r.UpdatedBy,
	}
}

type ScaleRecordCreateRequest struct {
	ScaleRecordName     string `json:"scale_record_name" validate:"required,max=150"`
	ScaleRecordIsPublic bool   `json:"scale_record_is_public"`
}

// ================== RESPONSE ==================
type ScaleLevelResponse struct {
	ScaleLevelID    uuid.UUID `json:"scale_level_id"`
	Position        int       `json:"position"`
	LevelCode       string    `json:"level_code"`
	Label           string    `json:"label"`
	Title           string    `json:"title,omitempty"`
	Description     string    `json:"description"`
	AIUsage         string    `json:"ai_usage"`
	Instructions    string    `json:"instructions,omitempty"`
	Acknowledgement string    `json:"acknowledgement,omitempty"`
}

type ScaleVersionResponse struct {
	ScaleVersionID uuid.UUID            `json:"scale_version_id"`
	Version        int                  `json:"version"`
	UpdatedBy      string               `json:"updated_by"`
	Notes          string               `json:"notes,omitempty"`
	CreatedAt      string               `json:"created_at"`
	Levels         []ScaleLevelResponse `json:"levels"`
}

// ScaleRecordResponse: representasi penuh — current version (terbaru)
// dipisahkan dari history (version lebih lama, terbaru dulu).
type ScaleRecordResponse struct {
	ScaleRecordID        uuid.UUID              `json:"scale_record_id"`
	ScaleRecordName      string                 `json:"scale_record_name"`
	ScaleRecordOwnerType string                 `json:"scale_record_owner_type"`
	ScaleRecordOwnerID   *string                `json:"scale_record_owner_id"`
	ScaleRecordIsPublic  bool                   `json:"scale_record_is_public"`
	CurrentVersion       *ScaleVersionResponse  `json:"current_version"`
	History              []ScaleVersionResponse `json:"history"`
	ScaleRecordCreatedAt string                 `json:"scale_record_created_at"`
	ScaleRecordUpdatedAt string                 `json:"scale_record_updated_at"`
}

// ================ CONVERSION =================
func ToScaleLevelResponse(m *model.ScaleLevelModel) ScaleLevelResponse {
	return ScaleLevelResponse{
		ScaleLevelID:    m.ScaleLevelID,
		Position:        m.ScaleLevelPosition,
		LevelCode:       m.ScaleLevelCode,
		Label:           m.ScaleLevelLabel,
		Title:           m.ScaleLevelTitle,
		Description:     m.ScaleLevelDescription,
		AIUsage:         m.ScaleLevelAIUsage,
		Instructions:    m.ScaleLevelInstructions,
		Acknowledgement: m.ScaleLevelAcknowledgement,
	}
}

func ToScaleVersionResponse(v *model.ScaleVersionModel, levels []model.ScaleLevelModel) ScaleVersionResponse {
	levelResponses := make([]ScaleLevelResponse, 0, len(levels))
	for i := range levels {
		levelResponses = append(levelResponses, ToScaleLevelResponse(&levels[i]))
	}
	return ScaleVersionResponse{
		ScaleVersionID: v.ScaleVersionID,
		Version:        v.ScaleVersionNumber,
		UpdatedBy:      v.ScaleVersionUpdatedBy,
		Notes:          v.ScaleVersionNotes,
		CreatedAt:      v.ScaleVersionCreatedAt.Format(time.RFC3339),
		Levels:         levelResponses,
	}
}

// ToScaleRecordResponse: history masuk newest-first; elemen pertama jadi
// current version, sisanya jadi history.
func ToScaleRecordResponse(record *model.ScaleRecordModel, history []service.VersionWithLevels) *ScaleRecordResponse {
	resp := &ScaleRecordResponse{
		ScaleRecordID:        record.ScaleRecordID,
		ScaleRecordName:      record.ScaleRecordName,
		ScaleRecordOwnerType: record.ScaleRecordOwnerType,
		ScaleRecordOwnerID:   record.ScaleRecordOwnerID,
		ScaleRecordIsPublic:  record.ScaleRecordIsPublic,
		History:              []ScaleVersionResponse{},
		ScaleRecordCreatedAt: record.ScaleRecordCreatedAt.Format(time.RFC3339),
		ScaleRecordUpdatedAt: record.ScaleRecordUpdatedAt.Format(time.RFC3339),
	}
	for i := range history {
		vr := ToScaleVersionResponse(&history[i].Version, history[i].Levels)
		if i == 0 {
			resp.CurrentVersion = &vr
			continue
		}
		resp.History = append(resp.History, vr)
	}
	return resp
}
