package dto

import (
	"time"

	"github.com/google/uuid"

	"examina/internal/model"
)

type ExamCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ExamBulkCreateRequest creates several exams at once; names already present
// are skipped, not duplicated.
type ExamBulkCreateRequest struct {
	Exams []ExamCreateRequest `json:"exams" binding:"required,min=1,dive"`
}

type ExamActiveStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type ExamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PaperSummaryResponse struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Year     int               `json:"year"`
	PaperSet string            `json:"paper_set"`
	Status   model.PaperStatus `json:"status"`
}
