package frontbase

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores V JSON-encoded in a BLOB column.
type JSON[T any] struct {
	V T
}

// FrontbaseDataType implements DataTyper.
func (JSON[T]) FrontbaseDataType() DataType {
	return Blob{}
}

// Value implements driver.Valuer.
func (j JSON[T]) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

// Scan implements sql.Scanner.
func (j *JSON[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("json: cannot scan %T", src)
	}
	return json.Unmarshal(data, &j.V)
}
