package filter

import (
	"github.com/m4gshm/gollections/collection/immutable"
	"github.com/m4gshm/gollections/slice"
)

type Kind string

const (
	KindExact     Kind = "exact"
	KindRange     Kind = "range"
	KindReference Kind = "reference"
)

type ValueType string

const (
	ValueText      ValueType = "text"
	ValueInteger   ValueType = "integer"
	ValueNumber    ValueType = "number"
	ValueDate      ValueType = "date"
	ValueDateTime  ValueType = "datetime"
	ValueReference ValueType = "reference"
)

// reserved controls
const (
	Sort  = "sort"
	Page  = "page"
	Limit = "limit"
)

const (
	TextMaxLength    = 255
	NumericMaxLength = 7

	MinSuffix = "_min"
	MaxSuffix = "_max"

	// ReservedEntity replaces the entity name in violation messages of reserved controls.
	ReservedEntity = "filter"
)

var reserved = immutable.NewSet(Sort, Page, Limit)

func IsReserved(name string) bool {
	return reserved.Contains(name)
}

// Control is one filter input.
type Control struct {
	Name      string    `json:"name" yaml:"name"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Base      string    `json:"base" yaml:"base"`
	ValueType ValueType `json:"valueType" yaml:"valueType"`
	MaxLength int       `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Related   string    `json:"related,omitempty" yaml:"related,omitempty"`
}

// Schema is the ordered set of filter controls of an entity.
type Schema struct {
	Entity     string    `json:"entity" yaml:"entity"`
	Controls   []Control `json:"controls" yaml:"controls"`
	SortFields []string  `json:"sortFields" yaml:"sortFields"`
}

func (s *Schema) Control(name string) (Control, bool) {
	return slice.First(s.Controls, func(c Control) bool { return c.Name == name })
}

func (s *Schema) Names() []string {
	return slice.Convert(s.Controls, func(c Control) string { return c.Name })
}

// Fields returns the base names of the non reserved controls, without repeats.
func (s *Schema) Fields() []string {
	var fields []string
	for _, c := range s.Controls {
		if IsReserved(c.Name) || (len(fields) > 0 && fields[len(fields)-1] == c.Base) {
			continue
		}
		fields = append(fields, c.Base)
	}
	return fields
}
