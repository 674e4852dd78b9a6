package filter

import (
	"strings"

	"github.com/m4gshm/gollections/collection/immutable"
)

type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// ParseSort parses comma separated sort keys, "-" marks descending order, "+" is optional.
func ParseSort(value string) []SortKey {
	var keys []SortKey
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		desc := strings.HasPrefix(p, "-")
		p = strings.TrimPrefix(strings.TrimPrefix(p, "-"), "+")
		if len(p) > 0 {
			keys = append(keys, SortKey{Field: p, Desc: desc})
		}
	}
	return keys
}

// SortConstraint rejects sort keys outside of the allowed fields.
type SortConstraint struct {
	Allowed []string
}

func (c SortConstraint) Validate(value string) ([]SortKey, []Violation) {
	allowed := immutable.NewSet(c.Allowed...)
	keys := ParseSort(value)
	var violations []Violation
	for _, key := range keys {
		if !allowed.Contains(key.Field) {
			violations = append(violations, Violation{
				Code:    CodeInvalidSortField,
				Field:   Sort,
				Message: message(ReservedEntity, Sort, key.Field+".not_sortable"),
			})
		}
	}
	if len(violations) > 0 {
		return nil, violations
	}
	return keys, nil
}
