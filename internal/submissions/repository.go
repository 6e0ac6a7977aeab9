package submissions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
)

// Repository persists intake submissions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new submission.
func (r *Repository) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

// FindByID loads one submission.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, err
	}
	return &submission, nil
}

// List returns submissions newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.SubmissionStatus) ([]models.Submission, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var submissions []models.Submission
	if err := q.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// Update saves the full submission row.
func (r *Repository) Update(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	if err := r.db.WithContext(ctx).Save(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

// Delete removes a submission outright. Rejection uses this; there is no
// retained rejected record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Submission{}).Error
}
