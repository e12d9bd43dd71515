package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attribute is a single NFT trait. Attribute order is user-defined and
// preserved through storage.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// AttributeList stores ordered traits as a JSONB column.
type AttributeList []Attribute

func (a AttributeList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func (a *AttributeList) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported attribute list source %T", src)
	}
}
