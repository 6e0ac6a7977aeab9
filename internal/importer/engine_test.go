package importer

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/knitinfo/knitinfo-backend/internal/companies"
	"github.com/knitinfo/knitinfo-backend/pkg/db"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/metrics"
	"github.com/rs/zerolog"
)

type stubParser struct {
	rows []map[string]string
	err  error
}

func (p *stubParser) Parse(io.Reader) ([]map[string]string, error) {
	return p.rows, p.err
}

func setupImporterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	companiesTable := `
CREATE TABLE IF NOT EXISTS companies (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  phone TEXT NOT NULL,
  contact_person TEXT,
  email TEXT,
  website TEXT,
  address TEXT,
  description TEXT,
  gst_number TEXT,
  certifications TEXT,
  products TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(companiesTable).Error)
	require.NoError(t, conn.Exec(`DELETE FROM companies`).Error)
	return conn
}

func newTestEngine(t *testing.T, conn *gorm.DB, parser SheetParser) (*Engine, *companies.Repository) {
	t.Helper()

	repo := companies.NewRepository(conn)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	engine, err := NewEngine(parser, db.NewWithConn(conn), repo, logg, metrics.New())
	require.NoError(t, err)
	return engine, repo
}

func TestReplaceCategorySwapsListings(t *testing.T) {
	conn := setupImporterTestDB(t)
	ctx := context.Background()

	parser := &stubParser{rows: []map[string]string{
		{"COMPANY NAME": "Old Mill"},
	}}
	engine, repo := newTestEngine(t, conn, parser)

	first, err := engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryYarn)
	require.NoError(t, err)
	assert.Equal(t, 1, first.InsertedCount)
	assert.Equal(t, 0, first.DeletedCount)

	parser.rows = []map[string]string{
		{"COMPANY NAME": "New Mill A", "PHONE": "0421-111", "PRODUCTS": "Cotton, Viscose"},
		{"COMPANY NAME": "New Mill B"},
		{"PHONE": "no name here"},
	}

	second, err := engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryYarn)
	require.NoError(t, err)
	assert.Equal(t, 2, second.InsertedCount)
	assert.Equal(t, 1, second.DeletedCount)
	require.Len(t, second.Errors, 1)
	assert.Contains(t, second.Errors[0], "row 4")

	listed, err := repo.ListByCategory(ctx, enums.CategoryYarn)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	names := []string{listed[0].Name, listed[1].Name}
	assert.ElementsMatch(t, []string{"New Mill A", "New Mill B"}, names)
}

func TestReplaceCategoryZeroValidRowsLeavesStoreUntouched(t *testing.T) {
	conn := setupImporterTestDB(t)
	ctx := context.Background()

	seeded := &stubParser{rows: []map[string]string{
		{"COMPANY NAME": "Keep Me"},
	}}
	engine, repo := newTestEngine(t, conn, seeded)
	_, err := engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryDyeing)
	require.NoError(t, err)

	seeded.rows = []map[string]string{
		{"PHONE": "only phone"},
		{"EMAIL": "only@email.example"},
	}

	_, err = engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryDyeing)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	count, err := repo.CountByCategory(ctx, enums.CategoryDyeing)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestReplaceCategoryDoesNotTouchOtherCategories(t *testing.T) {
	conn := setupImporterTestDB(t)
	ctx := context.Background()

	parser := &stubParser{rows: []map[string]string{
		{"COMPANY NAME": "Printing House"},
	}}
	engine, repo := newTestEngine(t, conn, parser)
	_, err := engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryPrinting)
	require.NoError(t, err)

	parser.rows = []map[string]string{
		{"COMPANY NAME": "Embroidery Works"},
	}
	_, err = engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryEmbroidery)
	require.NoError(t, err)

	printing, err := repo.CountByCategory(ctx, enums.CategoryPrinting)
	require.NoError(t, err)
	assert.EqualValues(t, 1, printing)
}

func TestReplaceCategoryPersistsNormalizedFields(t *testing.T) {
	conn := setupImporterTestDB(t)
	ctx := context.Background()

	longPhone := strings.Repeat("7", 60)
	parser := &stubParser{rows: []map[string]string{
		{
			"COMPANY NAME":   "Detail Mill",
			"PHONE":          longPhone,
			"CONTACT PERSON": "R. Kumar",
			"PRODUCTS":       "Collar, Cuff ,Rib",
		},
	}}
	engine, repo := newTestEngine(t, conn, parser)

	_, err := engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryAccessories)
	require.NoError(t, err)

	listed, err := repo.ListByCategory(ctx, enums.CategoryAccessories)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got := listed[0]
	assert.Equal(t, "Detail Mill", got.Name)
	assert.Equal(t, longPhone[:50], got.Phone)
	require.NotNil(t, got.ContactPerson)
	assert.Equal(t, "R. Kumar", *got.ContactPerson)
	assert.Equal(t, []string{"Collar", "Cuff", "Rib"}, []string(got.Products))
	assert.Equal(t, enums.CompanyStatusActive, got.Status)
}

func TestReplaceCategoryUnreadableSheetFailsValidation(t *testing.T) {
	conn := setupImporterTestDB(t)

	parser := &stubParser{err: assert.AnError}
	engine, _ := newTestEngine(t, conn, parser)

	_, err := engine.ReplaceCategory(context.Background(), strings.NewReader("x"), enums.CategoryYarn)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestReplaceCategoryEmptySheetFailsWithoutDelete(t *testing.T) {
	conn := setupImporterTestDB(t)
	ctx := context.Background()

	seed := &stubParser{rows: []map[string]string{
		{"COMPANY NAME": "Garment Hub"},
	}}
	engine, repo := newTestEngine(t, conn, seed)
	_, err := engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryGarments)
	require.NoError(t, err)

	seed.rows = nil
	_, err = engine.ReplaceCategory(ctx, strings.NewReader("x"), enums.CategoryGarments)
	require.Error(t, err)

	count, err := repo.CountByCategory(ctx, enums.CategoryGarments)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
