package importer

import (
	"fmt"
	"strings"

	"github.com/knitinfo/knitinfo-backend/pkg/db/models"
	"github.com/knitinfo/knitinfo-backend/pkg/enums"
)

// maxPhoneLen matches the phone column width; longer values are truncated
// silently rather than rejected.
const maxPhoneLen = 50

// headerRowOffset converts a 0-based data row index into the 1-based
// spreadsheet line number (row 1 is the header).
const headerRowOffset = 2

// fieldAliases maps each company field to the spreadsheet headers we accept
// for it, in priority order. Real uploads arrive with wildly inconsistent
// header casing, so each field tries several spellings.
var fieldAliases = map[string][]string{
	"name":           {"COMPANY NAME", "Company Name", "company_name", "COMPANY", "Company", "NAME", "Name", "name"},
	"phone":          {"PHONE", "Phone", "phone", "PHONE NUMBER", "Phone Number", "phone_number", "MOBILE", "Mobile", "CONTACT NUMBER", "Contact Number"},
	"contactPerson":  {"CONTACT PERSON", "Contact Person", "contact_person", "CONTACT", "Contact", "OWNER", "Owner"},
	"email":          {"EMAIL", "Email", "email", "EMAIL ID", "Email Id", "E-MAIL", "E-mail"},
	"website":        {"WEBSITE", "Website", "website", "WEB", "Web", "URL", "Url"},
	"address":        {"ADDRESS", "Address", "address", "LOCATION", "Location"},
	"description":    {"DESCRIPTION", "Description", "description", "ABOUT", "About", "DETAILS", "Details"},
	"gstNumber":      {"GST", "Gst", "gst", "GST NUMBER", "GST Number", "gst_number", "GSTIN", "Gstin"},
	"certifications": {"CERTIFICATIONS", "Certifications", "certifications", "CERTIFICATES", "Certificates", "CERTIFICATION", "Certification"},
	"products":       {"PRODUCTS", "Products", "products", "PRODUCT", "Product", "ITEMS", "Items"},
}

// RowError reports a single malformed spreadsheet row. Row is the 1-based
// line number as the uploader sees it in their spreadsheet tool.
type RowError struct {
	Row     int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NormalizeRow extracts a company insert from one raw spreadsheet row. Only
// the company name is mandatory; every other field degrades to empty.
// The category always comes from the upload target, never from the sheet.
func NormalizeRow(row map[string]string, category enums.Category, index int) (models.Company, *RowError) {
	name := pickField(row, "name")
	if name == "" {
		return models.Company{}, &RowError{
			Row:     index + headerRowOffset,
			Message: "missing company name",
		}
	}

	phone := pickField(row, "phone")
	if len(phone) > maxPhoneLen {
		phone = phone[:maxPhoneLen]
	}

	company := models.Company{
		Name:     name,
		Category: category,
		Phone:    phone,
		Products: SplitProducts(pickField(row, "products")),
		Status:   enums.CompanyStatusActive,
	}

	company.ContactPerson = optionalField(row, "contactPerson")
	company.Email = optionalField(row, "email")
	company.Website = optionalField(row, "website")
	company.Address = optionalField(row, "address")
	company.Description = optionalField(row, "description")
	company.GSTNumber = optionalField(row, "gstNumber")
	company.Certifications = optionalField(row, "certifications")

	return company, nil
}

// SplitProducts turns a free-text product cell into a clean list: split on
// commas, trim each piece, drop empties. Duplicates are preserved. This is
// the single products contract; the approval workflow reuses it so data
// entered via either path has the same shape at read time.
func SplitProducts(raw string) []string {
	out := []string{}
	for _, piece := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(piece)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// NormalizeProductList applies the SplitProducts contract to an already
// split list, flattening any comma-joined entries inside it.
func NormalizeProductList(values []string) []string {
	out := []string{}
	for _, value := range values {
		out = append(out, SplitProducts(value)...)
	}
	return out
}

func pickField(row map[string]string, field string) string {
	for _, alias := range fieldAliases[field] {
		if value, ok := row[alias]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func optionalField(row map[string]string, field string) *string {
	value := pickField(row, field)
	if value == "" {
		return nil
	}
	return &value
}
