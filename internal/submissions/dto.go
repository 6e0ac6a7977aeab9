package submissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	"github.com/knitinfo/knitinfo-backend/pkg/types"
)

// SubmissionDTO is the camelCase wire shape for one intake submission.
type SubmissionDTO struct {
	ID          uuid.UUID              `json:"id"`
	Type        enums.SubmissionType   `json:"type"`
	FormData    types.JSONMap          `json:"formData"`
	Attachments types.Attachments      `json:"attachments"`
	Status      enums.SubmissionStatus `json:"status"`
	ReviewNotes *string                `json:"reviewNotes,omitempty"`
	ReviewedAt  *time.Time             `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// ToDTO maps a stored submission to its wire shape.
func ToDTO(s models.Submission) SubmissionDTO {
	attachments := s.Attachments
	if attachments == nil {
		attachments = types.Attachments{}
	}
	return SubmissionDTO{
		ID:          s.ID,
		Type:        s.Type,
		FormData:    s.FormData,
		Attachments: attachments,
		Status:      s.Status,
		ReviewNotes: s.ReviewNotes,
		ReviewedAt:  s.ReviewedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToDTOs maps a stored slice, preserving order.
func ToDTOs(submissions []models.Submission) []SubmissionDTO {
	out := make([]SubmissionDTO, 0, len(submissions))
	for _, s := range submissions {
		out = append(out, ToDTO(s))
	}
	return out
}
