package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/knitinfo/knitinfo-backend/pkg/enums"
)

// PriorityOverride pins or promotes a company's rank within its category
// listing. CompanyName matches case-insensitively against companies.name.
// ExpiresAt is computed once at write time for temporary overrides and
// never recomputed; expiry is evaluated at read time.
type PriorityOverride struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyName  string              `gorm:"column:company_name;not null"`
	Category     enums.Category      `gorm:"column:category;not null"`
	Position     int                 `gorm:"column:position;not null"`
	PriorityType enums.PriorityType  `gorm:"column:priority_type;not null"`
	Duration     *int                `gorm:"column:duration"`
	DurationUnit *enums.DurationUnit `gorm:"column:duration_unit"`
	ExpiresAt    *time.Time          `gorm:"column:expires_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the snake_case table name.
func (PriorityOverride) TableName() string {
	return "priority_overrides"
}

// ExpiredAt reports whether the override has lapsed at the given instant.
// Permanent overrides never expire.
func (p PriorityOverride) ExpiredAt(now time.Time) bool {
	if p.PriorityType != enums.PriorityTypeTemporary || p.ExpiresAt == nil {
		return false
	}
	return now.After(*p.ExpiresAt)
}
