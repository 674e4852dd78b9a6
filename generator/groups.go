package generator

import (
	"github.com/m4gshm/crudr/model/entity"
	"github.com/m4gshm/crudr/model/util"
)

const (
	fullGroupSuffix  = "_full"
	idGroupSuffix    = "_id"
	ReferentialGroup = "referential_short"
)

// SerializationGroups lists the serialization groups of the entity, its parent level included.
func SerializationGroups(cfg *entity.Config) []string {
	groups := []string{util.Snake(cfg.EntityName) + fullGroupSuffix}
	ancestors := cfg.Ancestors(entity.MaxDepth)
	for _, parent := range ancestors {
		groups = append(groups, util.Snake(parent.EntityName)+fullGroupSuffix)
	}
	referential := false
	for _, field := range cfg.AllFields(entity.MaxDepth) {
		if field.Referential {
			if !referential {
				referential = true
				groups = append(groups, ReferentialGroup)
			}
		} else if !field.IsNative() && (field.Relation == entity.ManyToOne || field.Relation == entity.OneToOne) {
			groups = append(groups, util.Snake(field.Name)+idGroupSuffix)
		}
	}
	return groups
}
