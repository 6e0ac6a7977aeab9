package controllers

import (
	"net/http"

	"github.com/knitinfo/knitinfo-backend/api/responses"
	"github.com/knitinfo/knitinfo-backend/api/validators"
	"github.com/knitinfo/knitinfo-backend/internal/priorities"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
)

// SetPriority creates or replaces the ranking override for a company
// within a category.
func SetPriority(svc priorities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "priorities service unavailable"))
			return
		}

		var input priorities.SetPriorityInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		override, err := svc.SetPriority(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, override)
	}
}

// ListPriorities returns every override, including expired ones, so admins
// can audit past promotions.
func ListPriorities(svc priorities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "priorities service unavailable"))
			return
		}

		overrides, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"count":      len(overrides),
			"priorities": overrides,
		})
	}
}

// GetPriority returns one override by id.
func GetPriority(svc priorities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "priorities service unavailable"))
			return
		}

		id, err := parseIDParam(r, "priorityID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		override, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, override)
	}
}

// DeletePriority removes an override so the company falls back to its
// computed rank.
func DeletePriority(svc priorities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "priorities service unavailable"))
			return
		}

		id, err := parseIDParam(r, "priorityID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
