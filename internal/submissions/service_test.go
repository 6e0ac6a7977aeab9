package submissions

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/knitinfo/knitinfo-backend/internal/companies"
	"github.com/knitinfo/knitinfo-backend/pkg/db"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/types"
)

func setupSubmissionsTestDB(t *testing.T) *gorm.DB {
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
	submissionsTable := `
CREATE TABLE IF NOT EXISTS form_submissions (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  form_data TEXT NOT NULL,
  attachments TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  review_notes TEXT,
  reviewed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(companiesTable).Error)
	require.NoError(t, conn.Exec(submissionsTable).Error)
	require.NoError(t, conn.Exec(`DELETE FROM companies`).Error)
	require.NoError(t, conn.Exec(`DELETE FROM form_submissions`).Error)
	return conn
}

func newSubmissionsService(t *testing.T) (Service, *companies.Repository) {
	t.Helper()

	conn := setupSubmissionsTestDB(t)
	repo := NewRepository(conn)
	companyRepo := companies.NewRepository(conn)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(repo, companyRepo, db.NewWithConn(conn), logg)
	require.NoError(t, err)
	return svc, companyRepo
}

func addDataForm() types.JSONMap {
	return types.JSONMap{
		"name":     "Form Mill",
		"category": "Yarn",
		"phone":    "0421-555",
		"products": "Cotton, Viscose",
	}
}

func TestSubmitStoresPendingSubmission(t *testing.T) {
	svc, _ := newSubmissionsService(t)

	created, err := svc.Submit(context.Background(), SubmitInput{
		Type:     "add_data",
		FormData: addDataForm(),
		Attachments: []types.Attachment{
			{Name: "brochure.pdf", Type: "application/pdf", Size: 1024},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.SubmissionTypeAddData, created.Type)
	assert.Equal(t, enums.SubmissionStatusPending, created.Status)
	assert.Len(t, created.Attachments, 1)
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	svc, _ := newSubmissionsService(t)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Type:     "complaint",
		FormData: addDataForm(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSubmitRejectsEmptyFormData(t *testing.T) {
	svc, _ := newSubmissionsService(t)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Type:     "add_data",
		FormData: types.JSONMap{},
	})
	require.Error(t, err)
}

func TestApproveCreatesCompanyAndMarksApproved(t *testing.T) {
	svc, companyRepo := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{Type: "add_data", FormData: addDataForm()})
	require.NoError(t, err)

	companyID, err := svc.Approve(ctx, created.ID, nil)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, companyID)

	company, err := companyRepo.FindByID(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Form Mill", company.Name)
	assert.Equal(t, enums.CategoryYarn, company.Category)
	assert.Equal(t, []string{"Cotton", "Viscose"}, []string(company.Products))

	reviewed, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewNotes)
	assert.Equal(t, defaultApprovalNote, *reviewed.ReviewNotes)
	assert.NotNil(t, reviewed.ReviewedAt)
}

func TestApproveTwiceFailsWithoutDuplicateCompany(t *testing.T) {
	svc, companyRepo := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{Type: "add_data", FormData: addDataForm()})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, nil)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	count, err := companyRepo.CountByCategory(ctx, enums.CategoryYarn)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestApproveRejectsNonAddDataSubmission(t *testing.T) {
	svc, _ := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{
		Type:     "advertise",
		FormData: types.JSONMap{"message": "banner slot please"},
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestApproveIncompleteFormDataLeavesSubmissionPending(t *testing.T) {
	svc, companyRepo := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{
		Type:     "add_data",
		FormData: types.JSONMap{"name": "No Phone Mill", "category": "Yarn"},
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// Nothing mutated: still pending, no company published.
	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionStatusPending, after.Status)

	count, err := companyRepo.CountByCategory(ctx, enums.CategoryYarn)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestRejectMakesSubmissionUnretrievable(t *testing.T) {
	svc, _ := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{Type: "add_data", FormData: addDataForm()})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSetStatusApprovedCreatesCompany(t *testing.T) {
	svc, companyRepo := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{Type: "add_data", FormData: addDataForm()})
	require.NoError(t, err)

	notes := "verified by phone"
	result, err := svc.SetStatus(ctx, created.ID, SetStatusInput{Status: "approved", ReviewNotes: &notes})
	require.NoError(t, err)
	require.NotNil(t, result.CompanyID)

	company, err := companyRepo.FindByID(ctx, *result.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Form Mill", company.Name)

	reviewed, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reviewed.ReviewNotes)
	assert.Equal(t, "verified by phone", *reviewed.ReviewNotes)
}

func TestSetStatusRejectedDeletes(t *testing.T) {
	svc, _ := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{Type: "add_data", FormData: addDataForm()})
	require.NoError(t, err)

	result, err := svc.SetStatus(ctx, created.ID, SetStatusInput{Status: "rejected"})
	require.NoError(t, err)
	assert.Nil(t, result.CompanyID)

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
}

func TestSetStatusPendingIsInvalid(t *testing.T) {
	svc, _ := newSubmissionsService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, SubmitInput{Type: "add_data", FormData: addDataForm()})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, created.ID, SetStatusInput{Status: "pending"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newSubmissionsService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitInput{Type: "add_data", FormData: addDataForm()})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitInput{Type: "collaborate", FormData: types.JSONMap{"note": "let's talk"}})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, first.ID, nil)
	require.NoError(t, err)

	pending, err := svc.List(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, enums.SubmissionTypeCollaborate, pending[0].Type)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, "weird")
	require.Error(t, err)
}
