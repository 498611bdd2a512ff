package dto

import (
	"strings"
	"time"

	"kampusku_backend/internals/features/academics/assignments/model"

	"github.com/google/uuid"
)

// ================== REQUEST ==================
type AssignmentCreateRequest struct {
	AssignmentCourseID    *uuid.UUID `json:"assignment_course_id"`
	AssignmentName        string     `json:"assignment_name" validate:"required,max=150"`
	AssignmentType        string     `json:"assignment_type" validate:"omitempty,max=60"`
	AssignmentDescription string     `json:"assignment_description"`
	AssignmentDueDate     *time.Time `json:"assignment_due_date"`
}

type AssignmentUpdateRequest struct {
	AssignmentCourseID    *uuid.UUID `json:"assignment_course_id"`
	AssignmentName        *string    `json:"assignment_name" validate:"omitempty,max=150"`
	AssignmentType        *string    `json:"assignment_type" validate:"omitempty,max=60"`
	AssignmentDescription *string    `json:"assignment_description"`
	AssignmentDueDate     *time.Time `json:"assignment_due_date"`
}

type UpdateTutorsRequest struct {
	TutorIDs []uuid.UUID `json:"tutor_ids" validate:"required"`
}

// TemplateRow: satu baris worksheet (task / level / instruksi).
// Disimpan apa adanya sebagai dokumen JSON, urutan dipertahankan.
type TemplateRow map[string]string

type TemplateSaveRequest struct {
	Rows      []TemplateRow `json:"rows"`
	Publish   bool          `json:"publish"`
	UpdatedBy string        `json:"updated_by" validate:"omitempty,max=150"`
}

func (r *AssignmentCreateRequest) Normalize() {
	r.AssignmentName = strings.TrimSpace(r.AssignmentName)
	r.AssignmentType = strings.TrimSpace(r.AssignmentType)
}

func (r *AssignmentCreateRequest) ToModel() *model.AssignmentModel {
	return &model.AssignmentModel{
		AssignmentCourseID:    r.AssignmentCourseID,
		AssignmentName:        r.AssignmentName,
		AssignmentType:        r.AssignmentType,
		AssignmentDescription: r.AssignmentDescription,
		AssignmentDueDate:     r.AssignmentDueDate,
	}
}

// ================== RESPONSE ==================
type AssignmentResponse struct {
	AssignmentID                  uuid.UUID   `json:"assignment_id"`
	AssignmentCourseID            *uuid.UUID  `json:"assignment_course_id"`
	AssignmentName                string      `json:"assignment_name"`
	AssignmentType                string      `json:"assignment_type"`
	AssignmentDescription         string      `json:"assignment_description"`
	AssignmentDueDate             *time.Time  `json:"assignment_due_date,omitempty"`
	AssignmentAIDeclarationStatus string      `json:"assignment_ai_declaration_status"`
	AssignmentHasTemplate         bool        `json:"assignment_has_template"`
	AssignmentTemplateUpdatedAt   *time.Time  `json:"assignment_template_updated_at,omitempty"`
	AssignmentTutorIDs            []uuid.UUID `json:"assignment_tutor_ids,omitempty"`
	AssignmentCreatedAt           string      `json:"assignment_created_at"`
	AssignmentUpdatedAt           string      `json:"assignment_updated_at"`
}

type TemplateResponse struct {
	TemplateID              uuid.UUID     `json:"template_id"`
	TemplateAssignmentID    uuid.UUID     `json:"template_assignment_id"`
	TemplateRows            []TemplateRow `json:"template_rows"`
	TemplateIsPublished     bool          `json:"template_is_published"`
	TemplateUpdatedBy       string        `json:"template_updated_by"`
	TemplateLastPublishedAt *time.Time    `json:"template_last_published_at,omitempty"`
	TemplateUpdatedAt       string        `json:"template_updated_at"`
}

// ================ CONVERSION =================
func ToAssignmentResponse(m *model.AssignmentModel, tutorIDs []uuid.UUID) *AssignmentResponse {
	return &AssignmentResponse{
		AssignmentID:                  m.AssignmentID,
		AssignmentCourseID:            m.AssignmentCourseID,
		AssignmentName:                m.AssignmentName,
		AssignmentType:                m.AssignmentType,
		AssignmentDescription:         m.AssignmentDescription,
		AssignmentDueDate:             m.AssignmentDueDate,
		AssignmentAIDeclarationStatus: m.AssignmentAIDeclarationStatus,
		AssignmentHasTemplate:         m.AssignmentHasTemplate,
		AssignmentTemplateUpdatedAt:   m.AssignmentTemplateUpdatedAt,
		AssignmentTutorIDs:            tutorIDs,
		AssignmentCreatedAt:           m.AssignmentCreatedAt.Format(time.RFC3339),
		AssignmentUpdatedAt:           m.AssignmentUpdatedAt.Format(time.RFC3339),
	}
}

func ToAssignmentResponseList(models []model.AssignmentModel) []AssignmentResponse {
	result := make([]AssignmentResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToAssignmentResponse(&models[i], nil))
	}
	return result
}
