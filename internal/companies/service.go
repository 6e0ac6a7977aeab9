package companies

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
	"github.com/knitinfo/knitinfo-backend/pkg/pagination"
)

// OverrideSource supplies the active priority overrides for a category at a
// given instant. Satisfied by the priorities repository.
type OverrideSource interface {
	ActiveForCategory(ctx context.Context, category enums.Category, now time.Time) ([]models.PriorityOverride, error)
}

// Service exposes company listing and admin CRUD.
type Service interface {
	ListByCategory(ctx context.Context, rawCategory string) ([]CompanyDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	Create(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, params pagination.Params) ([]CompanyDTO, string, error)
}

// CreateCompanyInput is the admin create payload.
type CreateCompanyInput struct {
	Name           string   `json:"name" validate:"required,min=2,max=255"`
	Category       string   `json:"category" validate:"required"`
	Phone          string   `json:"phone" validate:"required,max=50"`
	ContactPerson  *string  `json:"contactPerson,omitempty" validate:"omitempty,max=255"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Website        *string  `json:"website,omitempty" validate:"omitempty,max=512"`
	Address        *string  `json:"address,omitempty"`
	Description    *string  `json:"description,omitempty"`
	GSTNumber      *string  `json:"gstNumber,omitempty" validate:"omitempty,max=64"`
	Certifications *string  `json:"certifications,omitempty"`
	Products       []string `json:"products,omitempty"`
}

// UpdateCompanyInput is the admin update payload; nil fields stay untouched
// except Products, which replaces the stored list when present.
type UpdateCompanyInput struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Category       *string  `json:"category,omitempty"`
	Phone          *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	ContactPerson  *string  `json:"contactPerson,omitempty" validate:"omitempty,max=255"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	Website        *string  `json:"website,omitempty" validate:"omitempty,max=512"`
	Address        *string  `json:"address,omitempty"`
	Description    *string  `json:"description,omitempty"`
	GSTNumber      *string  `json:"gstNumber,omitempty" validate:"omitempty,max=64"`
	Certifications *string  `json:"certifications,omitempty"`
	Products       []string `json:"products,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

type service struct {
	repo      *Repository
	overrides OverrideSource
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the company service.
func NewService(repo *Repository, overrides OverrideSource, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies: repository is required")
	}
	if overrides == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies: override source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "companies: logger is required")
	}
	return &service{
		repo:      repo,
		overrides: overrides,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) ListByCategory(ctx context.Context, rawCategory string) ([]CompanyDTO, error) {
	category, ok := enums.ParseCategory(rawCategory)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
			WithDetails(map[string]any{"category": rawCategory})
	}

	listing, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing companies")
	}

	now := s.now()
	overrides, err := s.overrides.ActiveForCategory(ctx, category, now)
	if err != nil {
		// Ranking degrades to the base ordering when the override read
		// fails; the listing itself still serves.
		s.logg.Error(ctx, "priority override lookup failed, serving base order", err)
		overrides = nil
	}

	return ToDTOs(ApplyOverrides(listing, overrides, now)), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*company)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error) {
	category, ok := enums.ParseCategory(input.Category)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
			WithDetails(map[string]any{"category": input.Category})
	}

	company := models.Company{
		Name:           strings.TrimSpace(input.Name),
		Category:       category,
		Phone:          truncatePhone(input.Phone),
		ContactPerson:  trimOptional(input.ContactPerson),
		Email:          trimOptional(input.Email),
		Website:        trimOptional(input.Website),
		Address:        trimOptional(input.Address),
		Description:    trimOptional(input.Description),
		GSTNumber:      trimOptional(input.GSTNumber),
		Certifications: trimOptional(input.Certifications),
		Products:       pq.StringArray(cleanProducts(input.Products)),
		Status:         enums.CompanyStatusActive,
	}

	created, err := s.repo.Create(ctx, &company)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating company")
	}
	dto := ToDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		company.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		category, ok := enums.ParseCategory(*input.Category)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
				WithDetails(map[string]any{"category": *input.Category})
		}
		company.Category = category
	}
	if input.Phone != nil {
		company.Phone = truncatePhone(*input.Phone)
	}
	if input.ContactPerson != nil {
		company.ContactPerson = trimOptional(input.ContactPerson)
	}
	if input.Email != nil {
		company.Email = trimOptional(input.Email)
	}
	if input.Website != nil {
		company.Website = trimOptional(input.Website)
	}
	if input.Address != nil {
		company.Address = trimOptional(input.Address)
	}
	if input.Description != nil {
		company.Description = trimOptional(input.Description)
	}
	if input.GSTNumber != nil {
		company.GSTNumber = trimOptional(input.GSTNumber)
	}
	if input.Certifications != nil {
		company.Certifications = trimOptional(input.Certifications)
	}
	if input.Products != nil {
		company.Products = pq.StringArray(cleanProducts(input.Products))
	}
	if input.Status != nil {
		status := enums.CompanyStatus(strings.ToLower(strings.TrimSpace(*input.Status)))
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown company status").
				WithDetails(map[string]any{"status": *input.Status})
		}
		company.Status = status
	}

	updated, err := s.repo.Update(ctx, company)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating company")
	}
	dto := ToDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting company")
	}
	return nil
}

func (s *service) Search(ctx context.Context, query string, params pagination.Params) ([]CompanyDTO, string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}

	rows, err := s.repo.SearchByName(ctx, query, params)
	if err != nil {
		return nil, "", err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return ToDTOs(rows), next, nil
}

func truncatePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) > 50 {
		return phone[:50]
	}
	return phone
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cleanProducts(values []string) []string {
	out := []string{}
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
