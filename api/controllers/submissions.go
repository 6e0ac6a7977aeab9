package controllers

import (
	"net/http"
	"strings"

	"github.com/knitinfo/knitinfo-backend/api/responses"
	"github.com/knitinfo/knitinfo-backend/api/validators"
	"github.com/knitinfo/knitinfo-backend/internal/submissions"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
)

// CreateSubmission accepts a public intake form. New submissions always
// start pending review.
func CreateSubmission(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		var input submissions.SubmitInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, submission)
	}
}

// ListSubmissions returns submissions newest first, optionally filtered by
// status.
func ListSubmissions(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		status := strings.TrimSpace(r.URL.Query().Get("status"))
		items, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"count":       len(items),
			"submissions": items,
		})
	}
}

// GetSubmission returns one submission by id.
func GetSubmission(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		id, err := parseIDParam(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submission, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, submission)
	}
}

type approveSubmissionRequest struct {
	ReviewNotes *string `json:"reviewNotes" validate:"omitempty,max=1000"`
}

// maxReviewNotesLen bounds the free-text note stored with a review decision.
const maxReviewNotesLen = 1000

// cleanReviewNotes trims and bounds the note; whitespace-only notes become
// nil so the default approval note applies.
func cleanReviewNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	cleaned := validators.SanitizeString(*notes, maxReviewNotesLen)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// ApproveSubmission publishes an add_data submission into the directory
// and marks it approved, atomically.
func ApproveSubmission(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		id, err := parseIDParam(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req approveSubmissionRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		companyID, err := svc.Approve(r.Context(), id, cleanReviewNotes(req.ReviewNotes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status":    "approved",
			"companyId": companyID,
		})
	}
}

// SetSubmissionStatus resolves a submission to approved or rejected.
func SetSubmissionStatus(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		id, err := parseIDParam(r, "submissionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input submissions.SetStatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input.ReviewNotes = cleanReviewNotes(input.ReviewNotes)
		result, err := svc.SetStatus(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
