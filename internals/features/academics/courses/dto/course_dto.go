package dto

import (
	"strings"
	"time"

	"kampusku_backend/internals/features/academics/courses/model"

	"github.com/google/uuid"
)

// ================== REQUEST ==================
type CourseCreateRequest struct {
	CourseName        string `json:"course_name" validate:"required,max=120"`
	CourseCode        string `json:"course_code" validate:"required,max=20"`
	CourseSemester    string `json:"course_semester" validate:"required,max=20"`
	CourseDescription string `json:"course_description"`
	CourseCoordinator string `json:"course_coordinator" validate:"omitempty,max=120"`
}

type CourseUpdateRequest struct {
	CourseName        *string `json:"course_name" validate:"omitempty,max=120"`
	CourseCode        *string `json:"course_code" validate:"omitempty,max=20"`
	CourseSemester    *string `json:"course_semester" validate:"omitempty,max=20"`
	CourseDescription *string `json:"course_description"`
	CourseCoordinator *string `json:"course_coordinator" validate:"omitempty,max=120"`
}

func (r *CourseCreateRequest) Normalize() {
	r.CourseName = strings.TrimSpace(r.CourseName)
	r.CourseCode = strings.TrimSpace(r.CourseCode)
	r.CourseSemester = strings.TrimSpace(r.CourseSemester)
	r.CourseCoordinator = strings.TrimSpace(r.CourseCoordinator)
}

func (r *CourseCreateRequest) ToModel() *model.CourseModel {
	return &model.CourseModel{
		CourseName:        r.CourseName,
		CourseCode:        r.CourseCode,
		CourseSemester:    r.CourseSemester,
		CourseDescription: r.CourseDescription,
		CourseCoordinator: r.CourseCoordinator,
	}
}

// ================== RESPONSE ==================
type CourseResponse struct {
	CourseID          uuid.UUID `json:"course_id"`
	CourseName        string    `json:"course_name"`
	CourseCode        string    `json:"course_code"`
	CourseSemester    string    `json:"course_semester"`
	CourseDescription string    `json:"course_description"`
	CourseCoordinator string    `json:"course_coordinator"`
	CourseCreatedAt   string    `json:"course_created_at"`
	CourseUpdatedAt   string    `json:"course_updated_at"`
}

// ================ CONVERSION =================
func ToCourseResponse(m *model.CourseModel) *CourseResponse {
	return &CourseResponse{
		CourseID:          m.CourseID,
		CourseName:        m.CourseName,
		CourseCode:        m.CourseCode,
		CourseSemester:    m.CourseSemester,
		CourseDescription: m.CourseDescription,
		CourseCoordinator: m.CourseCoordinator,
		CourseCreatedAt:   m.CourseCreatedAt.Format(time.RFC3339),
		CourseUpdatedAt:   m.CourseUpdatedAt.Format(time.RFC3339),
	}
}

func ToCourseResponseList(models []model.CourseModel) []CourseResponse {
	result := make([]CourseResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToCourseResponse(&models[i]))
	}
	return result
}
