package importer

import (
	"context"
	"io"
	"time"

	"gorm.io/gorm"

	"github.com/knitinfo/knitinfo-backend/internal/companies"
	"github.com/knitinfo/knitinfo-backend/pkg/db"
	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/metrics"
)

// Result reports one category replace run. Errors carries the non-fatal
// per-row failures; the run still succeeds as long as at least one row was
// valid.
type Result struct {
	InsertedCount int      `json:"insertedCount"`
	DeletedCount  int      `json:"deletedCount"`
	Errors        []string `json:"errors"`
}

// Engine performs the spreadsheet bulk replace for one category: parse,
// normalize, then swap the category's rows inside a single transaction.
type Engine struct {
	parser   SheetParser
	dbClient *db.Client
	repo     *companies.Repository
	logg     *logger.Logger
	metrics  *metrics.Metrics
}

// NewEngine wires the replace engine.
func NewEngine(parser SheetParser, dbClient *db.Client, repo *companies.Repository, logg *logger.Logger, m *metrics.Metrics) (*Engine, error) {
	if parser == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "importer: sheet parser is required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "importer: db client is required")
	}
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "importer: companies repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "importer: logger is required")
	}
	return &Engine{
		parser:   parser,
		dbClient: dbClient,
		repo:     repo,
		logg:     logg,
		metrics:  m,
	}, nil
}

// ReplaceCategory replaces every listing in the category with the upload's
// valid rows. Row-level failures are collected, not raised; the delete only
// happens when at least one row survived normalization, and delete+insert
// run in one transaction so a failed insert never leaves the category empty.
func (e *Engine) ReplaceCategory(ctx context.Context, file io.Reader, category enums.Category) (*Result, error) {
	start := time.Now()
	ctx = e.logg.WithCategory(ctx, category.String())

	rows, err := e.parser.Parse(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable spreadsheet")
	}

	valid := make([]models.Company, 0, len(rows))
	rowErrors := []string{}
	for i, row := range rows {
		company, rowErr := NormalizeRow(row, category, i)
		if rowErr != nil {
			rowErrors = append(rowErrors, rowErr.Error())
			continue
		}
		valid = append(valid, company)
	}

	if len(valid) == 0 {
		// Nothing usable arrived; keep the existing listings untouched.
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no valid rows in upload").
			WithDetails(map[string]any{"rowErrors": rowErrors})
	}

	var deleted int64
	err = e.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := e.repo.WithTx(tx)

		removed, err := txRepo.DeleteByCategory(ctx, category)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing category listings")
		}
		deleted = removed

		if err := txRepo.CreateBatch(ctx, valid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting replacement listings")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.ObserveImport(category.String(), len(valid), int(deleted), len(rowErrors), time.Since(start))
	e.logg.Info(e.logg.WithFields(ctx, map[string]any{
		"inserted":   len(valid),
		"deleted":    deleted,
		"row_errors": len(rowErrors),
	}), "category replace completed")

	return &Result{
		InsertedCount: len(valid),
		DeletedCount:  int(deleted),
		Errors:        rowErrors,
	}, nil
}
