package submissions

import (
	"strings"

	"github.com/lib/pq"

	"github.com/knitinfo/knitinfo-backend/internal/importer"
	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	pkgerrors "github.com/knitinfo/knitinfo-backend/pkg/errors"
	"github.com/knitinfo/knitinfo-backend/pkg/types"
)

// companyFromFormData maps an add_data form payload onto a company insert.
// Products may arrive as a string or a list; both are coerced through the
// same split/trim contract the spreadsheet import uses, so listings look
// identical at read time regardless of how they entered.
func companyFromFormData(form types.JSONMap) (*models.Company, error) {
	name := stringField(form, "name", "companyName")
	rawCategory := stringField(form, "category")
	phone := stringField(form, "phone", "phoneNumber", "mobile")

	if name == "" || rawCategory == "" || phone == "" {
		missing := []string{}
		if name == "" {
			missing = append(missing, "name")
		}
		if rawCategory == "" {
			missing = append(missing, "category")
		}
		if phone == "" {
			missing = append(missing, "phone")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission form data is incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	category, ok := enums.ParseCategory(rawCategory)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category in form data").
			WithDetails(map[string]any{"category": rawCategory})
	}

	if len(phone) > 50 {
		phone = phone[:50]
	}

	company := &models.Company{
		Name:           name,
		Category:       category,
		Phone:          phone,
		ContactPerson:  optionalStringField(form, "contactPerson", "contact"),
		Email:          optionalStringField(form, "email"),
		Website:        optionalStringField(form, "website"),
		Address:        optionalStringField(form, "address", "location"),
		Description:    optionalStringField(form, "description", "about"),
		GSTNumber:      optionalStringField(form, "gstNumber", "gst", "gstin"),
		Certifications: optionalStringField(form, "certifications"),
		Products:       pq.StringArray(productsField(form)),
		Status:         enums.CompanyStatusActive,
	}
	return company, nil
}

func stringField(form types.JSONMap, keys ...string) string {
	for _, key := range keys {
		if raw, ok := form[key]; ok {
			if s, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

func optionalStringField(form types.JSONMap, keys ...string) *string {
	value := stringField(form, keys...)
	if value == "" {
		return nil
	}
	return &value
}

func productsField(form types.JSONMap) []string {
	raw, ok := form["products"]
	if !ok {
		return []string{}
	}
	switch v := raw.(type) {
	case string:
		return importer.SplitProducts(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return importer.NormalizeProductList(parts)
	case []string:
		return importer.NormalizeProductList(v)
	}
	return []string{}
}
