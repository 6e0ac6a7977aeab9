package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/knitinfo/knitinfo-backend/pkg/enums"
)

// Company represents one directory listing.
type Company struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	Category       enums.Category      `gorm:"column:category;not null"`
	Phone          string              `gorm:"column:phone;size:50;not null"`
	ContactPerson  *string             `gorm:"column:contact_person"`
	Email          *string             `gorm:"column:email"`
	Website        *string             `gorm:"column:website"`
	Address        *string             `gorm:"column:address"`
	Description    *string             `gorm:"column:description"`
	GSTNumber      *string             `gorm:"column:gst_number"`
	Certifications *string             `gorm:"column:certifications"`
	Products       pq.StringArray      `gorm:"column:products;type:text[]"`
	Status         enums.CompanyStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the snake_case table name.
func (Company) TableName() string {
	return "companies"
}
