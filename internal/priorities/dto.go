package priorities

import (
	"time"

	"github.com/google/uuid"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
)

// Status values surfaced on the wire. Expiry is computed at read time, so
// an override flips to expired the moment its timestamp passes without any
// background sweep.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// PriorityDTO is the camelCase wire shape for one override.
type PriorityDTO struct {
	ID           uuid.UUID           `json:"id"`
	CompanyName  string              `json:"companyName"`
	Category     enums.Category      `json:"category"`
	Position     int                 `json:"position"`
	PriorityType enums.PriorityType  `json:"priorityType"`
	Duration     *int                `json:"duration,omitempty"`
	DurationUnit *enums.DurationUnit `json:"durationUnit,omitempty"`
	ExpiresAt    *time.Time          `json:"expiresAt,omitempty"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ToDTO maps a stored override, deriving its status at the given instant.
func ToDTO(o models.PriorityOverride, now time.Time) PriorityDTO {
	status := StatusActive
	if o.ExpiredAt(now) {
		status = StatusExpired
	}
	return PriorityDTO{
		ID:           o.ID,
		CompanyName:  o.CompanyName,
		Category:     o.Category,
		Position:     o.Position,
		PriorityType: o.PriorityType,
		Duration:     o.Duration,
		DurationUnit: o.DurationUnit,
		ExpiresAt:    o.ExpiresAt,
		Status:       status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToDTOs maps a stored slice, preserving order.
func ToDTOs(overrides []models.PriorityOverride, now time.Time) []PriorityDTO {
	out := make([]PriorityDTO, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, ToDTO(o, now))
	}
	return out
}
