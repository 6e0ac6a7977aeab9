package enums

import "fmt"

// SubmissionType identifies which public intake form produced a submission.
type SubmissionType string

const (
	SubmissionTypeAddData     SubmissionType = "add_data"
	SubmissionTypeAdvertise   SubmissionType = "advertise"
	SubmissionTypeCollaborate SubmissionType = "collaborate"
)

var validSubmissionTypes = []SubmissionType{
	SubmissionTypeAddData,
	SubmissionTypeAdvertise,
	SubmissionTypeCollaborate,
}

// String implements fmt.Stringer.
func (s SubmissionType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionType.
func (s SubmissionType) IsValid() bool {
	for _, candidate := range validSubmissionTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionType converts the raw string to SubmissionType.
func ParseSubmissionType(value string) (SubmissionType, error) {
	for _, candidate := range validSubmissionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission type %q", value)
}
