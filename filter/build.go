package filter

import (
	"github.com/m4gshm/gollections/collection/mutable"

	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/entity"
)

type addFunc func(b *builder, name string, field entity.Field)

var nativeFilters = map[entity.Type]addFunc{
	entity.TypeInteger:  rangeFilter(ValueInteger),
	entity.TypeFloat:    rangeFilter(ValueNumber),
	entity.TypeDate:     rangeFilter(ValueDate),
	entity.TypeDateTime: rangeFilter(ValueDateTime),
}

// Build composes the filter schema for the requested fields of the entity.
// Unknown fields become text filters, reserved and repeated names are skipped.
func Build(cfg *entity.Config, fields []string, sortFields []string) *Schema {
	b := &builder{
		schema:    &Schema{SortFields: append([]string{}, sortFields...)},
		requested: mutable.NewSet[string](),
		names:     mutable.NewSet[string](),
	}
	if cfg != nil {
		b.schema.Entity = cfg.EntityName
	}
	for _, name := range fields {
		if IsReserved(name) || !b.requested.AddNew(name) {
			continue
		}
		var (
			field entity.Field
			ok    bool
		)
		if cfg != nil {
			field, ok = cfg.Field(name)
		}
		switch {
		case !ok:
			textFilter(b, name, field)
		case !field.IsNative():
			referenceFilter(b, name, field)
		default:
			add, ok := nativeFilters[field.Type]
			if !ok {
				add = textFilter
			}
			add(b, name, field)
		}
	}
	b.add(Control{Name: Sort, Kind: KindExact, Base: Sort, ValueType: ValueText, MaxLength: TextMaxLength})
	b.add(Control{Name: Page, Kind: KindExact, Base: Page, ValueType: ValueInteger, MaxLength: NumericMaxLength})
	b.add(Control{Name: Limit, Kind: KindExact, Base: Limit, ValueType: ValueInteger, MaxLength: NumericMaxLength})
	logger.Debugw("filter schema built", "entity", b.schema.Entity, "controls", b.schema.Names())
	return b.schema
}

type builder struct {
	schema    *Schema
	requested *mutable.Set[string]
	names     *mutable.Set[string]
}

func (b *builder) add(c Control) {
	if b.names.AddNew(c.Name) {
		b.schema.Controls = append(b.schema.Controls, c)
	}
}

func textFilter(b *builder, name string, _ entity.Field) {
	b.add(Control{Name: name, Kind: KindExact, Base: name, ValueType: ValueText, MaxLength: TextMaxLength})
}

func rangeFilter(valueType ValueType) addFunc {
	return func(b *builder, name string, _ entity.Field) {
		for _, n := range []string{name, name + MinSuffix, name + MaxSuffix} {
			b.add(Control{Name: n, Kind: KindRange, Base: name, ValueType: valueType})
		}
	}
}

func referenceFilter(b *builder, name string, field entity.Field) {
	c := Control{Name: name, Kind: KindReference, Base: name, ValueType: ValueReference}
	if field.Related != nil {
		c.Related = field.Related.FullName()
	}
	b.add(c)
}
