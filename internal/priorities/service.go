package priorities

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/logger"
)

// Service manages priority overrides for the admin surface.
type Service interface {
	SetPriority(ctx context.Context, input SetPriorityInput) (*PriorityDTO, error)
	List(ctx context.Context) ([]PriorityDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PriorityDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SetPriorityInput is the upsert payload. The (companyName, category) pair
// is the upsert key; repeated calls edit the existing override in place.
type SetPriorityInput struct {
	CompanyName  string  `json:"companyName" validate:"required,min=2,max=255"`
	Category     string  `json:"category" validate:"required"`
	Position     int     `json:"position" validate:"required,min=1"`
	PriorityType string  `json:"priorityType" validate:"required"`
	Duration     *int    `json:"duration,omitempty" validate:"omitempty,min=1"`
	DurationUnit *string `json:"durationUnit,omitempty"`
}

type service struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the priorities service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "priorities: repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "priorities: logger is required")
	}
	return &service{
		repo: repo,
		logg: logg,
		now:  time.Now,
	}, nil
}

func (s *service) SetPriority(ctx context.Context, input SetPriorityInput) (*PriorityDTO, error) {
	category, ok := enums.ParseCategory(input.Category)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category").
			WithDetails(map[string]any{"category": input.Category})
	}
	if input.Position < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position must be at least 1")
	}
	priorityType, err := enums.ParsePriorityType(strings.ToLower(strings.TrimSpace(input.PriorityType)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority type")
	}

	var (
		duration     *int
		durationUnit *enums.DurationUnit
		expiresAt    *time.Time
	)
	if priorityType == enums.PriorityTypeTemporary {
		if input.Duration == nil || input.DurationUnit == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "temporary overrides require duration and durationUnit")
		}
		unit, err := enums.ParseDurationUnit(strings.ToLower(strings.TrimSpace(*input.DurationUnit)))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid duration unit")
		}
		// Expiry is fixed at write time and never recomputed.
		expiry := unit.AddTo(s.now(), *input.Duration)
		duration = input.Duration
		durationUnit = &unit
		expiresAt = &expiry
	}

	name := strings.TrimSpace(input.CompanyName)

	existing, err := s.repo.FindByNameAndCategory(ctx, name, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up priority override")
	}

	var saved *models.PriorityOverride
	if existing != nil {
		existing.CompanyName = name
		existing.Position = input.Position
		existing.PriorityType = priorityType
		existing.Duration = duration
		existing.DurationUnit = durationUnit
		existing.ExpiresAt = expiresAt
		saved, err = s.repo.Update(ctx, existing)
	} else {
		saved, err = s.repo.Create(ctx, &models.PriorityOverride{
			CompanyName:  name,
			Category:     category,
			Position:     input.Position,
			PriorityType: priorityType,
			Duration:     duration,
			DurationUnit: durationUnit,
			ExpiresAt:    expiresAt,
		})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving priority override")
	}

	dto := ToDTO(*saved, s.now())
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]PriorityDTO, error) {
	overrides, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing priority overrides")
	}
	return ToDTOs(overrides, s.now()), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PriorityDTO, error) {
	override, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(*override, s.now())
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting priority override")
	}
	return nil
}
