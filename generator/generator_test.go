package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/entity"
)

func init() {
	logger.Init(false)
}

const billingPkg = "github.com/acme/billing"

func invoiceConfig() *entity.Config {
	return &entity.Config{
		EntityName:  "Invoice",
		ContextName: "Billing",
		ModuleName:  "APIBundle",
		PkgPath:     billingPkg,
		Fields: []entity.Field{
			{Name: "amount", Type: entity.TypeFloat, Relation: entity.RelationNone},
			{Name: "dueDate", Type: entity.TypeDate, Relation: entity.RelationNone},
			{Name: "customer", Type: entity.TypeRelation, Relation: entity.ManyToOne, Related: &entity.Ref{Name: "Customer", PkgPath: billingPkg}},
			{Name: "lines", Type: entity.TypeRelation, Relation: entity.OneToMany, Related: &entity.Ref{Name: "InvoiceLine", PkgPath: billingPkg}},
		},
		Parent: &entity.Config{
			EntityName: "Document",
			ModuleName: "APIBundle",
			PkgPath:    billingPkg,
			Fields: []entity.Field{
				{Name: "id", Type: entity.TypeInteger, Relation: entity.RelationNone},
				{Name: "number", Type: entity.TypeString, Relation: entity.RelationNone, Referential: true},
				{Name: "owner", Type: entity.TypeRelation, Relation: entity.ManyToOne, Related: &entity.Ref{Name: "Customer", PkgPath: billingPkg}, Referential: true},
				{Name: "archive", Type: entity.TypeRelation, Relation: entity.OneToOne, Related: &entity.Ref{Name: "Archive", PkgPath: billingPkg}},
			},
		},
	}
}

func newGenerator(t *testing.T, opts ...Option) (*Generator, string) {
	t.Helper()
	root := t.TempDir()
	g, err := New(append([]Option{WithRoot(root)}, opts...)...)
	require.NoError(t, err)
	return g, root
}

func Test_RoutePrefix(t *testing.T) {
	assert.Equal(t, "api", RoutePrefix("APIBundle", ""))
	assert.Equal(t, "api_billing", RoutePrefix("APIBundle", "Billing"))
	assert.Equal(t, "api_billing_invoices", RoutePrefix("APIBundle", "Billing/Invoices"))
	assert.Equal(t, "api_billing_invoices", RoutePrefix("APIBundle", "Billing\\Invoices"))
	assert.Equal(t, "acme_shop", RoutePrefix("AcmeShopBundle", ""))
	assert.Equal(t, "api_billing_invoice_line", RouteName(&entity.Config{EntityName: "InvoiceLine", ModuleName: "APIBundle", ContextName: "Billing"}))
	assert.Equal(t, "invoice", RouteName(&entity.Config{EntityName: "Invoice"}))
}

func Test_SerializationGroups(t *testing.T) {
	assert.Equal(t, []string{"invoice_full", "document_full", "referential_short", "archive_id", "customer_id"}, SerializationGroups(invoiceConfig()))

	noParent := invoiceConfig()
	noParent.Parent = nil
	assert.Equal(t, []string{"invoice_full", "customer_id"}, SerializationGroups(noParent))
}

func Test_Content(t *testing.T) {
	g, _ := newGenerator(t)
	content := g.Content(invoiceConfig())

	assert.Equal(t, "APIBundle/Controller/Billing", content["namespace"])
	assert.Equal(t, "billing", content["package"])
	assert.Equal(t, "controller.Base", content["parent"])
	assert.Equal(t, "billing1.Invoice", content["entity_type"])
	assert.Equal(t, "Invoice", content["entity_pascal_name"])
	assert.Equal(t, "invoice", content["entity_route_name"])
	assert.Equal(t, "invoice", content["entity_url_name"])
	assert.Equal(t, "api_billing", content["route_name_prefix"])
	assert.Equal(t, "api_billing_invoice", content["route_name"])
	assert.Equal(t, "routing/Billing/Invoice.yml", content["routing_url"])
	assert.Equal(t, "APIBundle:Billing/Invoice", content["routing_controller_path"])
	assert.Equal(t, []string{"amount", "dueDate"}, content["native_fields_names"])
	assert.Equal(t, []string{"id", "number", "amount", "dueDate"}, content["filter_sort_fields"])
	assert.Equal(t, []Import{
		{Alias: "controller", Path: ControllerPackagePath},
		{Alias: "filter", Path: FilterPackagePath},
		{Alias: "billing1", Path: billingPkg},
	}, content["uses"])
}

func Test_GenerateInvoice(t *testing.T) {
	g, root := newGenerator(t)

	result, err := g.Generate(invoiceConfig())
	require.NoError(t, err)
	require.NoError(t, result.IndexErr)

	assert.Equal(t, filepath.Join(root, "Controller", "Billing", "InvoiceController.go"), result.Controller.Path)
	assert.Equal(t, filepath.Join(root, "Resources", "config", "routing", "Billing", "Invoice.yml"), result.Routing.Path)
	assert.True(t, result.Controller.Written)
	assert.True(t, result.Routing.Written)
	assert.True(t, result.IndexChanged)

	controllerSrc, err := os.ReadFile(result.Controller.Path)
	require.NoError(t, err)
	src := string(controllerSrc)
	assert.Contains(t, src, "package billing")
	assert.Contains(t, src, "type InvoiceController struct")
	assert.Contains(t, src, `Groups: []string{"invoice_full", "document_full", "referential_short", "archive_id", "customer_id"}`)
	assert.Contains(t, src, "new(billing1.Invoice)")
	assert.Contains(t, src, `{Name: "amount_min", Kind: filter.Kind("range")`)

	routing, err := os.ReadFile(result.Routing.Path)
	require.NoError(t, err)
	assert.Contains(t, string(routing), "api_billing_invoice_list:")

	index, err := os.ReadFile(filepath.Join(root, IndexPath))
	require.NoError(t, err)
	names, err := RouteNames(index)
	require.NoError(t, err)
	assert.Equal(t, 1, names.Len())
	assert.True(t, names.Contains("api_billing_invoice"))
	assert.Equal(t, 1, strings.Count(string(index), "resource:"))
}

func Test_GenerateIdempotentIndex(t *testing.T) {
	g, root := newGenerator(t)
	indexPath := filepath.Join(root, IndexPath)

	_, err := g.Generate(invoiceConfig())
	require.NoError(t, err)
	first, err := os.ReadFile(indexPath)
	require.NoError(t, err)

	result, err := g.Generate(invoiceConfig())
	require.NoError(t, err)
	assert.False(t, result.IndexChanged)
	second, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func Test_GenerateSeveralEntities(t *testing.T) {
	g, root := newGenerator(t)

	line := invoiceConfig()
	line.EntityName = "InvoiceLine"
	_, err := g.Generate(line)
	require.NoError(t, err)
	result, err := g.Generate(invoiceConfig())
	require.NoError(t, err)
	assert.True(t, result.IndexChanged)

	index, err := os.ReadFile(filepath.Join(root, IndexPath))
	require.NoError(t, err)
	names, err := RouteNames(index)
	require.NoError(t, err)
	assert.Equal(t, 2, names.Len())
	assert.True(t, names.Contains("api_billing_invoice_line"))
	assert.True(t, names.Contains("api_billing_invoice"))
}

func Test_GenerateOverwritePolicy(t *testing.T) {
	g, _ := newGenerator(t)
	cfg := invoiceConfig()

	first, err := g.Generate(cfg)
	require.NoError(t, err)
	handEdited := []byte("package billing\n\n// hand edited\n")
	require.NoError(t, os.WriteFile(first.Controller.Path, handEdited, 0o644))

	skipped, err := g.Generate(cfg)
	require.NoError(t, err)
	assert.False(t, skipped.Controller.Written)
	assert.False(t, skipped.Routing.Written)
	kept, err := os.ReadFile(first.Controller.Path)
	require.NoError(t, err)
	assert.Equal(t, handEdited, kept)

	g.Overwrite = true
	replaced, err := g.Generate(cfg)
	require.NoError(t, err)
	assert.True(t, replaced.Controller.Written)
	overwritten, err := os.ReadFile(first.Controller.Path)
	require.NoError(t, err)
	assert.Equal(t, replaced.Controller.Content, overwritten)
}

func Test_GenerateTemplateError(t *testing.T) {
	templates, err := DefaultTemplates()
	require.NoError(t, err)
	require.NoError(t, templates.Parse(TemplateRouting, "{{.unknown_key}}"))
	g, root := newGenerator(t, WithTemplates(templates))

	_, err = g.Generate(invoiceConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateRender))
	var renderErr *TemplateRenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, TemplateRouting, renderErr.Template)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func Test_GenerateNoPackagePath(t *testing.T) {
	g, root := newGenerator(t)
	cfg := invoiceConfig()
	cfg.PkgPath = ""

	_, err := g.Generate(cfg)
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func Test_ImportSet(t *testing.T) {
	set := newImportSet("billing")

	assert.Equal(t, "controller", set.add(ControllerPackagePath))
	assert.Equal(t, "controller", set.add(ControllerPackagePath))
	assert.Equal(t, "billing1", set.add(billingPkg))
	assert.Equal(t, "billing2", set.add("github.com/other/billing"))
	assert.Equal(t, []Import{
		{Alias: "controller", Path: ControllerPackagePath},
		{Alias: "billing1", Path: billingPkg},
		{Alias: "billing2", Path: "github.com/other/billing"},
	}, set.list)
}

func Test_ParseTemplateError(t *testing.T) {
	err := (&TemplateSet{}).Parse(TemplateController, "{{.broken")
	var renderErr *TemplateRenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, TemplateController, renderErr.Template)
}

func Test_GenerateIndexFailureSwallowed(t *testing.T) {
	g, root := newGenerator(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, IndexPath), 0o755))

	result, err := g.Generate(invoiceConfig())
	require.NoError(t, err)
	assert.True(t, errors.Is(result.IndexErr, ErrIndexUpdate))
	assert.False(t, result.IndexChanged)
	assert.True(t, result.Controller.Written)
	assert.True(t, result.Routing.Written)
}

func Test_GenerateParts(t *testing.T) {
	g, root := newGenerator(t, WithParts(PartRouting))

	result, err := g.Generate(invoiceConfig())
	require.NoError(t, err)
	assert.False(t, result.Controller.Written)
	assert.True(t, result.Routing.Written)
	assert.Empty(t, result.IndexPath)
	_, err = os.Stat(filepath.Join(root, IndexPath))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func Test_MergeIndex(t *testing.T) {
	block := []byte("api_billing_invoice:\n    resource: \"routing/Billing/Invoice.yml\"\n")

	//a route sharing the prefix does not hide the missing one
	existing := []byte("api_billing_invoice_line:\n    resource: \"routing/Billing/InvoiceLine.yml\"\n")
	merged, changed := MergeIndex(existing, "api_billing_invoice", block)
	assert.True(t, changed)
	assert.Equal(t, string(existing)+"\n"+string(block), string(merged))

	same, changed := MergeIndex(merged, "api_billing_invoice", block)
	assert.False(t, changed)
	assert.Equal(t, merged, same)

	created, changed := MergeIndex(nil, "api_billing_invoice", block)
	assert.True(t, changed)
	assert.Equal(t, block, created)
}

func Test_HasRouteFallback(t *testing.T) {
	unparsable := []byte("- api_billing_invoice\n- other")
	assert.True(t, HasRoute(unparsable, "api_billing_invoice"))
	assert.True(t, HasRoute(unparsable, "api_billing"))
	assert.False(t, HasRoute([]byte("api_billing_invoice_line: {}\n"), "api_billing_invoice"))
}

func Test_LoadTemplatesOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplateBundleRouting+".tmpl"), []byte("{{.route_name}}: {resource: {{quote .routing_url}}}\n"), 0o644))

	templates, err := LoadTemplates(dir)
	require.NoError(t, err)
	g, root := newGenerator(t, WithTemplates(templates))

	_, err = g.Generate(invoiceConfig())
	require.NoError(t, err)
	index, err := os.ReadFile(filepath.Join(root, IndexPath))
	require.NoError(t, err)
	assert.Equal(t, "api_billing_invoice: {resource: \"routing/Billing/Invoice.yml\"}\n", string(index))
}
