package submissions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/knitinfo/knitinfo-backend/internal/companies"
	"github.com/knitinfo/knitinfo-backend/pkg/db"
	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/types"
)

// defaultApprovalNote is stamped on submissions approved without custom
// review notes.
const defaultApprovalNote = "Approved and published to directory"

// Service runs the intake and review workflow. Approval is the only
// transition that creates a company, and only this code path performs it.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmissionDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SubmissionDTO, error)
	List(ctx context.Context, rawStatus string) ([]SubmissionDTO, error)
	Approve(ctx context.Context, id uuid.UUID, reviewNotes *string) (uuid.UUID, error)
	Reject(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, input SetStatusInput) (*SetStatusResult, error)
}

// SubmitInput is the public intake payload.
type SubmitInput struct {
	Type        string             `json:"type" validate:"required"`
	FormData    types.JSONMap      `json:"formData" validate:"required"`
	Attachments []types.Attachment `json:"attachments,omitempty" validate:"omitempty,dive"`
}

// SetStatusInput is the generic review transition payload.
type SetStatusInput struct {
	Status      string  `json:"status" validate:"required"`
	ReviewNotes *string `json:"reviewNotes,omitempty" validate:"omitempty,max=1024"`
}

// SetStatusResult reports the transition outcome. CompanyID is set only
// when the transition was an approval.
type SetStatusResult struct {
	Status    enums.SubmissionStatus `json:"status"`
	CompanyID *uuid.UUID             `json:"companyId,omitempty"`
}

type service struct {
	repo      *Repository
	companies *companies.Repository
	dbClient  *db.Client
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the submissions service.
func NewService(repo *Repository, companyRepo *companies.Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "submissions: repository is required")
	}
	if companyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "submissions: companies repository is required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "submissions: db client is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "submissions: logger is required")
	}
	return &service{
		repo:      repo,
		companies: companyRepo,
		dbClient:  dbClient,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmissionDTO, error) {
	submissionType, err := enums.ParseSubmissionType(strings.ToLower(strings.TrimSpace(input.Type)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid submission type")
	}
	if len(input.FormData) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "formData must not be empty")
	}

	created, err := s.repo.Create(ctx, &models.Submission{
		Type:        submissionType,
		FormData:    input.FormData,
		Attachments: types.Attachments(input.Attachments),
		Status:      enums.SubmissionStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing submission")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"submission_id": created.ID,
		"type":          created.Type,
	}), "submission received")

	dto := ToDTO(*created)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SubmissionDTO, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*submission)
	return &dto, nil
}

func (s *service) List(ctx context.Context, rawStatus string) ([]SubmissionDTO, error) {
	var status *enums.SubmissionStatus
	if trimmed := strings.ToLower(strings.TrimSpace(rawStatus)); trimmed != "" {
		parsed, err := enums.ParseSubmissionStatus(trimmed)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		status = &parsed
	}

	submissions, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing submissions")
	}
	return ToDTOs(submissions), nil
}

// Approve publishes an add_data submission as a company listing. The company
// insert and the status flip commit together; a failed insert leaves the
// submission pending.
func (s *service) Approve(ctx context.Context, id uuid.UUID, reviewNotes *string) (uuid.UUID, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	if submission.Type != enums.SubmissionTypeAddData {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only add_data submissions can be approved into listings").
			WithDetails(map[string]any{"type": submission.Type})
	}
	if submission.Status.IsResolved() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission already reviewed").
			WithDetails(map[string]any{"status": submission.Status})
	}

	company, err := companyFromFormData(submission.FormData)
	if err != nil {
		return uuid.Nil, err
	}

	notes := defaultApprovalNote
	if reviewNotes != nil && strings.TrimSpace(*reviewNotes) != "" {
		notes = strings.TrimSpace(*reviewNotes)
	}

	var companyID uuid.UUID
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.companies.WithTx(tx).Create(ctx, company)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publishing approved company")
		}
		companyID = created.ID

		reviewedAt := s.now()
		submission.Status = enums.SubmissionStatusApproved
		submission.ReviewNotes = &notes
		submission.ReviewedAt = &reviewedAt
		if _, err := s.repo.WithTx(tx).Update(ctx, submission); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking submission approved")
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"submission_id": submission.ID,
		"company_id":    companyID,
	}), "submission approved")

	return companyID, nil
}

// Reject deletes the submission outright; there is no retained rejected
// record and nothing to retrieve afterwards.
func (s *service) Reject(ctx context.Context, id uuid.UUID) error {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if submission.Status.IsResolved() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "submission already reviewed").
			WithDetails(map[string]any{"status": submission.Status})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting rejected submission")
	}

	s.logg.Info(s.logg.WithField(ctx, "submission_id", id), "submission rejected")
	return nil
}

// SetStatus is the generic transition endpoint. It delegates to the same
// Approve and Reject paths, so an approval here creates the company exactly
// like the dedicated endpoint does.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, input SetStatusInput) (*SetStatusResult, error) {
	status, err := enums.ParseSubmissionStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	switch status {
	case enums.SubmissionStatusApproved:
		companyID, err := s.Approve(ctx, id, input.ReviewNotes)
		if err != nil {
			return nil, err
		}
		return &SetStatusResult{Status: enums.SubmissionStatusApproved, CompanyID: &companyID}, nil
	case enums.SubmissionStatusRejected:
		if err := s.Reject(ctx, id); err != nil {
			return nil, err
		}
		return &SetStatusResult{Status: enums.SubmissionStatusRejected}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be approved or rejected")
	}
}
