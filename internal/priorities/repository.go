package priorities

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
)

// Repository persists priority overrides.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one override.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PriorityOverride, error) {
	var override models.PriorityOverride
	if err := r.db.WithContext(ctx).First(&override, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "priority override not found")
		}
		return nil, err
	}
	return &override, nil
}

// FindByNameAndCategory resolves the upsert key: company name matched
// case-insensitively within the category. Returns nil when absent.
func (r *Repository) FindByNameAndCategory(ctx context.Context, name string, category enums.Category) (*models.PriorityOverride, error) {
	var override models.PriorityOverride
	err := r.db.WithContext(ctx).
		Where("lower(company_name) = ? AND category = ?", strings.ToLower(strings.TrimSpace(name)), category).
		First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

// Create inserts a new override.
func (r *Repository) Create(ctx context.Context, override *models.PriorityOverride) (*models.PriorityOverride, error) {
	if override.ID == uuid.Nil {
		override.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(override).Error; err != nil {
		return nil, err
	}
	return override, nil
}

// Update saves the full override row.
func (r *Repository) Update(ctx context.Context, override *models.PriorityOverride) (*models.PriorityOverride, error) {
	if err := r.db.WithContext(ctx).Save(override).Error; err != nil {
		return nil, err
	}
	return override, nil
}

// Delete removes an override by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PriorityOverride{}).Error
}

// List returns every override, newest first. Expired temporary entries are
// included; callers surface their status instead of hiding them.
func (r *Repository) List(ctx context.Context) ([]models.PriorityOverride, error) {
	var overrides []models.PriorityOverride
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

// ActiveForCategory returns the overrides that still apply to the category
// at the given instant. Permanent entries carry a NULL expiry and always
// qualify; temporary ones qualify until their write-time expiry passes.
func (r *Repository) ActiveForCategory(ctx context.Context, category enums.Category, now time.Time) ([]models.PriorityOverride, error) {
	var overrides []models.PriorityOverride
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("position ASC").
		Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}
