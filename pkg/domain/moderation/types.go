package moderation

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type PatternsJSON []string

func (p PatternsJSON) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PatternsJSON) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("expected []byte or string, got %T", value)
	}
}
