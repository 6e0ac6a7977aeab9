package enums

import (
	"fmt"
	"time"
)

// DurationUnit is the unit attached to a temporary priority override.
type DurationUnit string

const (
	DurationUnitDays   DurationUnit = "days"
	DurationUnitMonths DurationUnit = "months"
	DurationUnitYears  DurationUnit = "years"
)

var validDurationUnits = []DurationUnit{
	DurationUnitDays,
	DurationUnitMonths,
	DurationUnitYears,
}

// String implements fmt.Stringer.
func (d DurationUnit) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DurationUnit.
func (d DurationUnit) IsValid() bool {
	for _, candidate := range validDurationUnits {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDurationUnit converts the raw string to DurationUnit.
func ParseDurationUnit(value string) (DurationUnit, error) {
	for _, candidate := range validDurationUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid duration unit %q", value)
}

// AddTo returns base shifted forward by n units. Months and years use
// calendar arithmetic so a 1-month override created Jan 31 expires Mar 2/3,
// matching time.Time.AddDate semantics.
func (d DurationUnit) AddTo(base time.Time, n int) time.Time {
	switch d {
	case DurationUnitDays:
		return base.AddDate(0, 0, n)
	case DurationUnitMonths:
		return base.AddDate(0, n, 0)
	case DurationUnitYears:
		return base.AddDate(n, 0, 0)
	}
	return base
}
