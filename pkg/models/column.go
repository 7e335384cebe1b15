package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn stores Data as a JSON text column.
type JSONColumn[T any] struct {
	Data T
}

// Value implements driver.Valuer.
func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON column: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. NULL leaves Data at its zero value.
func (j *JSONColumn[T]) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONColumn", value)
	}
	if err := json.Unmarshal(b, &j.Data); err != nil {
		return fmt.Errorf("failed to unmarshal JSON column: %w", err)
	}
	return nil
}
