package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	"github.com/knitinfo/knitinfo-backend/pkg/types"
)

// Submission is one intake-form payload awaiting review. FormData is stored
// opaque; its shape depends on the submission type and is only interpreted
// at approval time.
type Submission struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type        enums.SubmissionType   `gorm:"column:type;not null"`
	FormData    types.JSONMap          `gorm:"column:form_data;type:jsonb;not null"`
	Attachments types.Attachments      `gorm:"column:attachments;type:jsonb"`
	Status      enums.SubmissionStatus `gorm:"column:status;not null;default:'pending'"`
	ReviewNotes *string                `gorm:"column:review_notes"`
	ReviewedAt  *time.Time             `gorm:"column:reviewed_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the snake_case table name.
func (Submission) TableName() string {
	return "form_submissions"
}
