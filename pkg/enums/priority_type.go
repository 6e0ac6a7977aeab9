package enums

import "fmt"

// PriorityType distinguishes permanent pins from time-boxed promotions.
type PriorityType string

const (
	PriorityTypePermanent PriorityType = "permanent"
	PriorityTypeTemporary PriorityType = "temporary"
)

var validPriorityTypes = []PriorityType{
	PriorityTypePermanent,
	PriorityTypeTemporary,
}

// String implements fmt.Stringer.
func (p PriorityType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriorityType.
func (p PriorityType) IsValid() bool {
	for _, candidate := range validPriorityTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriorityType converts the raw string to PriorityType.
func ParsePriorityType(value string) (PriorityType, error) {
	for _, candidate := range validPriorityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid priority type %q", value)
}
