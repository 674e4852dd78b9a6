package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newInvoiceConfig() *Config {
	customer := &Config{EntityName: "Customer", Fields: []Field{
		{Name: "id", Type: TypeInteger, Relation: RelationNone},
		{Name: "code", Type: TypeString, Relation: RelationNone, Referential: true},
	}}
	return &Config{
		EntityName: "Invoice",
		Fields: []Field{
			{Name: "amount", Type: TypeFloat, Relation: RelationNone},
			{Name: "customer", Type: TypeRelation, Relation: ManyToOne, Related: &Ref{Name: "Customer"}},
		},
		Parent: customer,
	}
}

func Test_NativeFieldNames(t *testing.T) {
	cfg := newInvoiceConfig()
	assert.Equal(t, []string{"amount"}, cfg.NativeFieldNames(false))
	assert.Equal(t, []string{"id", "code", "amount"}, cfg.NativeFieldNames(true))
}

func Test_FieldLookup(t *testing.T) {
	cfg := newInvoiceConfig()
	f, ok := cfg.Field("code")
	assert.True(t, ok)
	assert.True(t, f.Referential)
	assert.False(t, cfg.HasField("missing"))
	assert.Equal(t, []string{"id", "code", "amount", "customer"}, fieldNames(cfg.AllFields(MaxDepth)))
	assert.Equal(t, []string{"amount", "customer"}, fieldNames(cfg.AllFields(0)))
}

func Test_FieldValidate(t *testing.T) {
	assert.NoError(t, Field{Name: "a", Type: TypeString, Relation: RelationNone}.Validate())
	assert.Error(t, Field{Name: "a", Type: TypeRelation, Relation: ManyToOne}.Validate())
	assert.Error(t, Field{Name: "a", Type: TypeString, Relation: RelationNone, Related: &Ref{Name: "X"}}.Validate())
	assert.Error(t, Field{Name: "a", Type: TypeString, Relation: OneToOne, Related: &Ref{Name: "X"}}.Validate())
	assert.Equal(t, "pkg.X", Ref{Name: "X", PkgPath: "pkg"}.FullName())
}
