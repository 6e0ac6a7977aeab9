package companies

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/pagination"
)

// Repository wires together company persistence helpers.
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

// FindByID loads one company.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, err
	}
	return &company, nil
}

// ListByCategory returns every listing in the category. The category value
// is already canonical by the time it reaches the store, so the exact match
// here is safe.
func (r *Repository) ListByCategory(ctx context.Context, category enums.Category) ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// CountByCategory counts the listings that a category replace would remove.
func (r *Repository) CountByCategory(ctx context.Context, category enums.Category) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("category = ?", category).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteByCategory removes every listing in the category and reports how
// many rows went away.
func (r *Repository) DeleteByCategory(ctx context.Context, category enums.Category) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("category = ?", category).
		Delete(&models.Company{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// CreateBatch bulk-inserts the provided rows in a single statement.
func (r *Repository) CreateBatch(ctx context.Context, rows []models.Company) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// Create inserts one company row.
func (r *Repository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// Update saves the full company row.
func (r *Repository) Update(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := r.db.WithContext(ctx).Save(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes a company by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Company{}).Error
}

// SearchByName finds companies whose name contains the query, newest first,
// using keyset pagination.
func (r *Repository) SearchByName(ctx context.Context, query string, params pagination.Params) ([]models.Company, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	q := r.db.WithContext(ctx).
		Where("lower(name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(query))+"%").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var companies []models.Company
	if err := q.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}
