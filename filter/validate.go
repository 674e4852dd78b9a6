package filter

import (
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/m4gshm/crudr/model/util"
)

const (
	CodeFieldTooLong     = "field_too_long"
	CodeTypeMismatch     = "type_mismatch"
	CodeInvalidSortField = "invalid_sort_field"

	DateLayout         = "2006-01-02"
	DateTimeLayout     = time.RFC3339
	DateTimeAltLayout  = "2006-01-02 15:04:05"
	DefaultPage        = 1
	DefaultLimit       = 50
	entityFieldTooLong = "too_long"
	entityFieldInvalid = "invalid"
)

// Violation is a field scoped validation failure.
type Violation struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func message(entity, field, suffix string) string {
	return entity + "." + field + "." + suffix
}

// Validate decodes the query parameters that match controls; unknown parameters are ignored.
func (s *Schema) Validate(query url.Values) (*Values, []Violation) {
	var (
		values     = &Values{values: map[string]any{}}
		violations []Violation
		entity     = util.Snake(s.Entity)
	)
	for _, c := range s.Controls {
		raw := query.Get(c.Name)
		if len(raw) == 0 {
			continue
		}
		owner := entity
		if IsReserved(c.Name) || len(owner) == 0 {
			owner = ReservedEntity
		}
		if c.MaxLength > 0 && utf8.RuneCountInString(raw) > c.MaxLength {
			violations = append(violations, Violation{Code: CodeFieldTooLong, Field: c.Name, Message: message(owner, c.Name, entityFieldTooLong)})
			continue
		}
		if c.Name == Sort {
			keys, sortViolations := SortConstraint{Allowed: s.SortFields}.Validate(raw)
			violations = append(violations, sortViolations...)
			values.sort = keys
			continue
		}
		value, err := decode(c.ValueType, raw)
		if err != nil {
			violations = append(violations, Violation{Code: CodeTypeMismatch, Field: c.Name, Message: message(owner, c.Name, entityFieldInvalid)})
			continue
		}
		values.values[c.Name] = value
	}
	return values, violations
}

func decode(valueType ValueType, raw string) (any, error) {
	switch valueType {
	case ValueInteger:
		return strconv.ParseInt(raw, 10, 64)
	case ValueNumber:
		return strconv.ParseFloat(raw, 64)
	case ValueDate:
		return time.Parse(DateLayout, raw)
	case ValueDateTime:
		if t, err := time.Parse(DateTimeLayout, raw); err == nil {
			return t, nil
		}
		return time.Parse(DateTimeAltLayout, raw)
	default:
		return raw, nil
	}
}

// Values holds decoded filter parameters.
type Values struct {
	values map[string]any
	sort   []SortKey
}

func (v *Values) Has(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.values[name]
	return ok
}

func (v *Values) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.values[name]
	return val, ok
}

func (v *Values) Text(name string) (string, bool) {
	return typed[string](v, name)
}

func (v *Values) Int(name string) (int64, bool) {
	return typed[int64](v, name)
}

func (v *Values) Float(name string) (float64, bool) {
	return typed[float64](v, name)
}

func (v *Values) Time(name string) (time.Time, bool) {
	return typed[time.Time](v, name)
}

func (v *Values) Sort() []SortKey {
	if v == nil {
		return nil
	}
	return v.sort
}

func (v *Values) Page() int {
	if p, ok := v.Int(Page); ok && p > 0 {
		return int(p)
	}
	return DefaultPage
}

func (v *Values) Limit() int {
	if l, ok := v.Int(Limit); ok && l > 0 {
		return int(l)
	}
	return DefaultLimit
}

// Filters returns decoded values of the non reserved controls.
func (v *Values) Filters() map[string]any {
	result := map[string]any{}
	if v == nil {
		return result
	}
	for k, val := range v.values {
		if !IsReserved(k) {
			result[k] = val
		}
	}
	return result
}

func typed[T any](v *Values, name string) (T, bool) {
	var zero T
	val, ok := v.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := val.(T)
	return t, ok
}
