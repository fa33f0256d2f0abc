package filter

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/remdragon/worm/schema/field"
)

// normalize converts v to the canonical representation of the logical type:
// int64 for signed integers, uint64 for unsigned ones, and the natural Go
// type otherwise. Integers of any Go kind are accepted when they fit.
func normalize(t field.Type, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value for %s", ErrValueType, t)
	}
	rv := reflect.ValueOf(v)
	switch t {
	case field.TypeInt32, field.TypeInt64:
		lo, hi := int64(math.MinInt32), int64(math.MaxInt32)
		if t == field.TypeInt64 {
			lo, hi = math.MinInt64, math.MaxInt64
		}
		switch {
		case isInt(rv) && rv.Int() >= lo && rv.Int() <= hi:
			return rv.Int(), nil
		case isUint(rv) && rv.Uint() <= uint64(hi):
			return int64(rv.Uint()), nil
		}
	case field.TypeUint32, field.TypeUint64:
		hi := uint64(math.MaxUint32)
		if t == field.TypeUint64 {
			hi = math.MaxUint64
		}
		switch {
		case isInt(rv) && rv.Int() >= 0 && uint64(rv.Int()) <= hi:
			return uint64(rv.Int()), nil
		case isUint(rv) && rv.Uint() <= hi:
			return rv.Uint(), nil
		}
	case field.TypeString:
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
	case field.TypeBool:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	case field.TypeFloat64:
		if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
			return rv.Float(), nil
		}
	case field.TypeBytes:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
	}
	return nil, fmt.Errorf("%w: %T(%v) does not fit %s", ErrValueType, v, v, t)
}

func isInt(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// format renders a normalized value as it appears in a condition, unquoted.
func format(v any) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
