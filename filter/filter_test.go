package filter

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4gshm/crudr/model/entity"
)

func invoiceConfig() *entity.Config {
	return &entity.Config{
		EntityName: "Invoice",
		PkgPath:    "acme/billing",
		Fields: []entity.Field{
			{Name: "amount", Type: entity.TypeFloat, Relation: entity.RelationNone},
			{Name: "dueDate", Type: entity.TypeDate, Relation: entity.RelationNone},
			{Name: "customer", Type: entity.TypeRelation, Relation: entity.ManyToOne, Related: &entity.Ref{Name: "Customer", PkgPath: "acme/billing"}},
			{Name: "note", Type: entity.TypeString, Relation: entity.RelationNone},
			{Name: "sort", Type: entity.TypeString, Relation: entity.RelationNone},
		},
		Parent: &entity.Config{EntityName: "Document", Fields: []entity.Field{
			{Name: "id", Type: entity.TypeInteger, Relation: entity.RelationNone},
			{Name: "createdAt", Type: entity.TypeDateTime, Relation: entity.RelationNone},
		}},
	}
}

func Test_BuildInvoice(t *testing.T) {
	schema := Build(invoiceConfig(), []string{"amount", "dueDate", "customer"}, nil)

	assert.Equal(t, []string{
		"amount", "amount_min", "amount_max",
		"dueDate", "dueDate_min", "dueDate_max",
		"customer",
		"sort", "page", "limit",
	}, schema.Names())

	customer, ok := schema.Control("customer")
	require.True(t, ok)
	assert.Equal(t, Control{Name: "customer", Kind: KindReference, Base: "customer", ValueType: ValueReference, Related: "acme/billing.Customer"}, customer)

	amountMax, _ := schema.Control("amount_max")
	assert.Equal(t, Control{Name: "amount_max", Kind: KindRange, Base: "amount", ValueType: ValueNumber}, amountMax)

	dueMin, _ := schema.Control("dueDate_min")
	assert.Equal(t, ValueDate, dueMin.ValueType)

	assert.Equal(t, []string{"amount", "dueDate", "customer"}, schema.Fields())
}

func Test_BuildReservedOnce(t *testing.T) {
	schema := Build(invoiceConfig(), []string{"limit", "note", "sort", "page", "note"}, []string{"note"})

	assert.Equal(t, []string{"note", "sort", "page", "limit"}, schema.Names())
	sortControl, _ := schema.Control(Sort)
	assert.Equal(t, Control{Name: Sort, Kind: KindExact, Base: Sort, ValueType: ValueText, MaxLength: TextMaxLength}, sortControl)
	page, _ := schema.Control(Page)
	assert.Equal(t, NumericMaxLength, page.MaxLength)
}

func Test_BuildUnknownAndInherited(t *testing.T) {
	schema := Build(invoiceConfig(), []string{"unknown", "id", "createdAt"}, nil)

	assert.Equal(t, []string{
		"unknown",
		"id", "id_min", "id_max",
		"createdAt", "createdAt_min", "createdAt_max",
		"sort", "page", "limit",
	}, schema.Names())
	unknown, _ := schema.Control("unknown")
	assert.Equal(t, Control{Name: "unknown", Kind: KindExact, Base: "unknown", ValueType: ValueText, MaxLength: TextMaxLength}, unknown)
	id, _ := schema.Control("id_min")
	assert.Equal(t, ValueInteger, id.ValueType)
}

func Test_BuildNoEntity(t *testing.T) {
	schema := Build(nil, []string{"q"}, nil)
	assert.Equal(t, []string{"q", "sort", "page", "limit"}, schema.Names())
}

func Test_ValidateValues(t *testing.T) {
	schema := Build(invoiceConfig(), []string{"amount", "dueDate", "note"}, []string{"amount", "dueDate"})

	values, violations := schema.Validate(url.Values{
		"amount_min": {"10.5"},
		"dueDate":    {"2024-02-01"},
		"note":       {"march"},
		"sort":       {"-amount,+dueDate"},
		"page":       {"2"},
		"unknown":    {"x"},
	})
	assert.Empty(t, violations)

	amount, ok := values.Float("amount_min")
	assert.True(t, ok)
	assert.Equal(t, 10.5, amount)
	due, ok := values.Time("dueDate")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), due)
	note, _ := values.Text("note")
	assert.Equal(t, "march", note)
	assert.Equal(t, []SortKey{{Field: "amount", Desc: true}, {Field: "dueDate"}}, values.Sort())
	assert.Equal(t, 2, values.Page())
	assert.Equal(t, DefaultLimit, values.Limit())
	assert.False(t, values.Has("unknown"))
	assert.Equal(t, map[string]any{"amount_min": 10.5, "dueDate": due, "note": "march"}, values.Filters())
}

func Test_ValidateViolations(t *testing.T) {
	schema := Build(invoiceConfig(), []string{"amount", "note"}, []string{"amount"})

	_, violations := schema.Validate(url.Values{
		"amount": {"ten"},
		"note":   {strings.Repeat("n", TextMaxLength+1)},
		"sort":   {"note,-amount"},
		"limit":  {"12345678"},
	})

	assert.Equal(t, []Violation{
		{Code: CodeTypeMismatch, Field: "amount", Message: "invoice.amount.invalid"},
		{Code: CodeFieldTooLong, Field: "note", Message: "invoice.note.too_long"},
		{Code: CodeInvalidSortField, Field: "sort", Message: "filter.sort.note.not_sortable"},
		{Code: CodeFieldTooLong, Field: "limit", Message: "filter.limit.too_long"},
	}, violations)
}

func Test_SortConstraintEmptyAllowed(t *testing.T) {
	keys, violations := SortConstraint{}.Validate("amount")
	assert.Nil(t, keys)
	assert.Len(t, violations, 1)

	keys, violations = SortConstraint{Allowed: []string{"amount"}}.Validate(" amount , ")
	assert.Empty(t, violations)
	assert.Equal(t, []SortKey{{Field: "amount"}}, keys)
}

func Test_ValidateDateTime(t *testing.T) {
	schema := Build(invoiceConfig(), []string{"createdAt"}, nil)

	values, violations := schema.Validate(url.Values{
		"createdAt_min": {"2024-02-01T10:00:00Z"},
		"createdAt_max": {"2024-02-02 11:30:00"},
		"createdAt":     {"yesterday"},
	})
	require.Len(t, violations, 1)
	assert.Equal(t, Violation{Code: CodeTypeMismatch, Field: "createdAt", Message: "invoice.createdAt.invalid"}, violations[0])

	minTime, _ := values.Time("createdAt_min")
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), minTime.UTC())
	maxTime, _ := values.Time("createdAt_max")
	assert.Equal(t, time.Date(2024, 2, 2, 11, 30, 0, 0, time.UTC), maxTime)
}
