package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexibleID accepts ids sent as JSON numbers or strings
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

// String returns the raw id
func (id FlexibleID) String() string {
	return string(id)
}

// Customer is the caller identity sent by the storefront when no token is used
type Customer struct {
	ID    FlexibleID `json:"id"`
	Email string     `json:"email"`
}
