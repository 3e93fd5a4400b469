package frontbase

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Data is a value cell of a result row.
type Data interface {
	data()
	// Value returns the cell as a plain Go value (nil for NULL).
	Value() any
}

type (
	DataNull      struct{}
	DataInteger   int64
	DataReal      float64
	DataText      string
	DataBlob      []byte
	DataBits      []byte
	DataTimestamp time.Time
)

func (DataNull) data()      {}
func (DataInteger) data()   {}
func (DataReal) data()      {}
func (DataText) data()      {}
func (DataBlob) data()      {}
func (DataBits) data()      {}
func (DataTimestamp) data() {}

func (DataNull) Value() any        { return nil }
func (d DataInteger) Value() any   { return int64(d) }
func (d DataReal) Value() any      { return float64(d) }
func (d DataText) Value() any      { return string(d) }
func (d DataBlob) Value() any      { return []byte(d) }
func (d DataBits) Value() any      { return []byte(d) }
func (d DataTimestamp) Value() any { return time.Time(d) }

// DataOf converts a driver value to a cell.
func DataOf(v any) Data {
	switch val := v.(type) {
	case nil:
		return DataNull{}
	case Data:
		return val
	case int64:
		return DataInteger(val)
	case int:
		return DataInteger(val)
	case int32:
		return DataInteger(val)
	case bool:
		if val {
			return DataInteger(1)
		}
		return DataInteger(0)
	case float64:
		return DataReal(val)
	case float32:
		return DataReal(val)
	case string:
		return DataText(val)
	case []byte:
		return DataBlob(append([]byte(nil), val...))
	case time.Time:
		return DataTimestamp(val)
	case Bit96:
		return DataBits(val[:])
	default:
		return DataText(fmt.Sprint(val))
	}
}

// typeName names the cell's kind in decoding errors.
func typeName(d Data) string {
	switch d.(type) {
	case DataNull:
		return "NULL"
	case DataInteger:
		return "INTEGER"
	case DataReal:
		return "REAL"
	case DataText:
		return "TEXT"
	case DataBlob:
		return "BLOB"
	case DataBits:
		return "BITS"
	case DataTimestamp:
		return "TIMESTAMP"
	default:
		return fmt.Sprintf("%T", d)
	}
}

// Row maps column identifiers to cells.
type Row map[string]Data

// DecodingError reports a row cell that is missing or cannot be converted
// to the requested Go type.
type DecodingError struct {
	Key  string
	Want string
	Got  string
	Err  error
}

func (e *DecodingError) Error() string {
	msg := fmt.Sprintf("decode %q: want %s, got %s", e.Key, e.Want, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// IsDecodingError reports whether err is or wraps a *DecodingError.
func IsDecodingError(err error) bool {
	var de *DecodingError
	return errors.As(err, &de)
}

// Decode converts the cell under key into dst, which must be a pointer.
// Destinations implementing sql.Scanner (uuid.UUID, Bit96, JSON) receive
// the cell's plain value.
func (r Row) Decode(key string, dst any) error {
	cell, ok := r[key]
	if !ok {
		return &DecodingError{Key: key, Want: fmt.Sprintf("%T", dst), Got: "missing"}
	}
	if err := decodeCell(cell, dst); err != nil {
		return &DecodingError{Key: key, Want: fmt.Sprintf("%T", dst), Got: typeName(cell), Err: err}
	}
	return nil
}

var (
	errNull     = errors.New("value is NULL")
	errOverflow = errors.New("value out of range")
)

// maxExactFloat is the largest integer magnitude a float64 holds exactly.
const maxExactFloat = 1 << 53

func decodeCell(cell Data, dst any) error {
	if _, isNull := cell.(DataNull); isNull {
		return errNull
	}
	if scanner, ok := dst.(sql.Scanner); ok {
		return scanner.Scan(cell.Value())
	}

	switch d := dst.(type) {
	case *[]byte:
		switch c := cell.(type) {
		case DataBlob:
			*d = append([]byte(nil), c...)
		case DataBits:
			*d = append([]byte(nil), c...)
		case DataText:
			*d = []byte(c)
		default:
			return errors.New("not binary")
		}
		return nil
	case *time.Time:
		c, ok := cell.(DataTimestamp)
		if !ok {
			return errors.New("not a timestamp")
		}
		*d = time.Time(c)
		return nil
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("unsupported destination %T", dst)
	}
	ev := rv.Elem()

	// Named types (enum raw values) decode through their underlying kind.
	switch ev.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c, ok := cell.(DataInteger)
		if !ok {
			return errors.New("not an integer")
		}
		if ev.OverflowInt(int64(c)) {
			return errOverflow
		}
		ev.SetInt(int64(c))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		c, ok := cell.(DataInteger)
		if !ok {
			return errors.New("not an integer")
		}
		if c < 0 || ev.OverflowUint(uint64(c)) {
			return errOverflow
		}
		ev.SetUint(uint64(c))
	case reflect.Float32, reflect.Float64:
		var f float64
		switch c := cell.(type) {
		case DataReal:
			f = float64(c)
		case DataInteger:
			if c > maxExactFloat || c < -maxExactFloat {
				return errOverflow
			}
			f = float64(c)
		default:
			return errors.New("not a number")
		}
		if ev.OverflowFloat(f) {
			return errOverflow
		}
		ev.SetFloat(f)
	case reflect.Bool:
		c, ok := cell.(DataInteger)
		if !ok {
			return errors.New("not a boolean")
		}
		switch c {
		case 0:
			ev.SetBool(false)
		case 1:
			ev.SetBool(true)
		default:
			return errOverflow
		}
	case reflect.String:
		switch c := cell.(type) {
		case DataText:
			ev.SetString(string(c))
		case DataBlob:
			ev.SetString(string(c))
		default:
			return errors.New("not text")
		}
	default:
		return fmt.Errorf("unsupported destination %T", dst)
	}
	return nil
}
