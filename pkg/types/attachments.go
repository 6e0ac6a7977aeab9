package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attachment holds metadata about an uploaded file. Only metadata is stored;
// the bytes live with the upload collaborator.
type Attachment struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Size    int64  `json:"size,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// Attachments is a JSONB-persisted list of attachment metadata records.
type Attachments []Attachment

// Value marshals the list into JSON for Postgres.
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the list.
func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("attachments: unsupported scan type %T", value)
	}

	result := Attachments{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*a = result
	return nil
}
