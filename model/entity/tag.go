package entity

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	TagName = "crud"

	optRef         = "ref"
	optReferential = "referential"
	optDate        = "date"
	optDateTime    = "datetime"
	optNullable    = "nullable"
	optInline      = "inline"
	optRelation    = "rel"
)

type fieldTag struct {
	name        string
	skip        bool
	referential bool
	date        bool
	dateTime    bool
	nullable    bool
	inline      bool
	relation    RelationKind
}

// parseFieldTag parses `crud:"name,opt,opt=val"`.
func parseFieldTag(tag string) (fieldTag, error) {
	st := reflect.StructTag(tag)
	value, ok := st.Lookup(TagName)
	if !ok {
		return fieldTag{name: jsonName(st)}, nil
	}
	parts := strings.Split(value, ",")
	result := fieldTag{name: strings.TrimSpace(parts[0])}
	if result.name == "-" {
		return fieldTag{skip: true}, nil
	}
	for _, part := range parts[1:] {
		key, val, hasVal := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case optRef, optReferential:
			result.referential = true
		case optDate:
			result.date = true
		case optDateTime:
			result.dateTime = true
		case optNullable:
			result.nullable = true
		case optInline:
			result.inline = true
		case optRelation:
			kind, ok := ParseRelationKind(val)
			if !hasVal || !ok {
				return fieldTag{}, fmt.Errorf("unsupported relation kind '%s'", val)
			}
			result.relation = kind
		case "":
		default:
			return fieldTag{}, fmt.Errorf("unsupported tag option '%s'", key)
		}
	}
	if result.date && result.dateTime {
		return fieldTag{}, fmt.Errorf("options %s and %s are mutually exclusive", optDate, optDateTime)
	}
	if len(result.name) == 0 {
		result.name = jsonName(st)
	}
	return result, nil
}

func jsonName(st reflect.StructTag) string {
	name, _, _ := strings.Cut(st.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func isManyToManyGorm(tag string) bool {
	return strings.Contains(reflect.StructTag(tag).Get("gorm"), "many2many:")
}
