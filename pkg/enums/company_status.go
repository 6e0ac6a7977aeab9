package enums

import "fmt"

// CompanyStatus describes the lifecycle state of a directory listing.
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
	CompanyStatusPending  CompanyStatus = "pending"
)

var validCompanyStatuses = []CompanyStatus{
	CompanyStatusActive,
	CompanyStatusInactive,
	CompanyStatusPending,
}

// String implements fmt.Stringer.
func (s CompanyStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CompanyStatus.
func (s CompanyStatus) IsValid() bool {
	for _, candidate := range validCompanyStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCompanyStatus converts the raw string to CompanyStatus.
func ParseCompanyStatus(value string) (CompanyStatus, error) {
	for _, candidate := range validCompanyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid company status %q", value)
}
