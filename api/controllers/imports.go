package controllers

import (
	"net/http"
	"strings"

	"github.com/knitinfo/knitinfo-backend/api/responses"
	"github.com/knitinfo/knitinfo-backend/internal/importer"
	"github.com/knitinfo/knitinfo-backend/pkg/config"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
)

// multipartMemoryBytes caps how much of the upload stays in memory before
// spilling to disk.
const multipartMemoryBytes = 4 << 20

// ImportCategory accepts a multipart spreadsheet upload and replaces the
// named category's listings with the sheet contents.
func ImportCategory(engine *importer.Engine, cfg config.ImportConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import engine unavailable"))
			return
		}

		if cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		}

		if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart upload"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		rawCategory := strings.TrimSpace(r.FormValue("category"))
		if rawCategory == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category is required"))
			return
		}
		category, ok := enums.ParseCategory(rawCategory)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").WithDetails(map[string]any{"category": rawCategory}))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "spreadsheet file is required"))
			return
		}
		defer file.Close()

		result, err := engine.ReplaceCategory(r.Context(), file, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
