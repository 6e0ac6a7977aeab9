package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
)

// CompanyDTO is the camelCase wire shape for one listing. The store schema
// stays snake_case; this is the single translation point.
type CompanyDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Category       enums.Category      `json:"category"`
	Phone          string              `json:"phone"`
	ContactPerson  *string             `json:"contactPerson,omitempty"`
	Email          *string             `json:"email,omitempty"`
	Website        *string             `json:"website,omitempty"`
	Address        *string             `json:"address,omitempty"`
	Description    *string             `json:"description,omitempty"`
	GSTNumber      *string             `json:"gstNumber,omitempty"`
	Certifications *string             `json:"certifications,omitempty"`
	Products       []string            `json:"products"`
	Status         enums.CompanyStatus `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ToDTO maps a stored company to its wire shape.
func ToDTO(c models.Company) CompanyDTO {
	products := []string(c.Products)
	if products == nil {
		products = []string{}
	}
	return CompanyDTO{
		ID:             c.ID,
		Name:           c.Name,
		Category:       c.Category,
		Phone:          c.Phone,
		ContactPerson:  c.ContactPerson,
		Email:          c.Email,
		Website:        c.Website,
		Address:        c.Address,
		Description:    c.Description,
		GSTNumber:      c.GSTNumber,
		Certifications: c.Certifications,
		Products:       products,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToDTOs maps a stored slice, preserving order.
func ToDTOs(companies []models.Company) []CompanyDTO {
	out := make([]CompanyDTO, 0, len(companies))
	for _, c := range companies {
		out = append(out, ToDTO(c))
	}
	return out
}
