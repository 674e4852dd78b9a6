package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/m4gshm/gollections/slice"

	"github.com/m4gshm/crudr/filter"
	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/util"
)

const (
	// ProblemPrefix prefixes every error message of a response.
	ProblemPrefix = "core.error."

	TotalCountHeader = "X-Total-Count"
	GroupsHeader     = "X-Serialization-Groups"

	idParam = "id"
)

var ErrNotFound = errors.New("entity not found")

// Repository persists entities of one type.
type Repository interface {
	List(ctx context.Context, values *filter.Values) (items []any, total int, err error)
	Get(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, entity any) (any, error)
	Update(ctx context.Context, id string, entity any) (any, error)
	Delete(ctx context.Context, id string) error
}

// Base implements the CRUD handlers of a generated controller.
type Base struct {
	Entity string
	Groups []string
	Fields []string
	Filter *filter.Schema
	Repo   Repository
	// New allocates an entity to decode request bodies into.
	New func() any
}

// Register mounts the handlers on path and path/:id.
func (b *Base) Register(group *gin.RouterGroup, path string) {
	path = "/" + strings.Trim(path, "/")
	item := strings.TrimSuffix(path, "/") + "/:" + idParam
	group.GET(path, b.List)
	group.GET(item, b.Get)
	group.POST(path, b.Create)
	group.PUT(item, b.Update)
	group.DELETE(item, b.Delete)
}

func (b *Base) List(c *gin.Context) {
	schema := b.Filter
	if schema == nil {
		schema = filter.Build(nil, nil, nil)
	}
	values, violations := schema.Validate(c.Request.URL.Query())
	if len(violations) > 0 {
		b.problem(c, http.StatusBadRequest, slice.Convert(violations, func(v filter.Violation) string { return v.Message })...)
		return
	}
	items, total, err := b.Repo.List(c.Request.Context(), values)
	if err != nil {
		b.fail(c, err)
		return
	}
	if items == nil {
		items = []any{}
	}
	c.Header(TotalCountHeader, strconv.Itoa(total))
	b.render(c, http.StatusOK, items)
}

func (b *Base) Get(c *gin.Context) {
	item, err := b.Repo.Get(c.Request.Context(), c.Param(idParam))
	if err != nil {
		b.fail(c, err)
		return
	}
	b.render(c, http.StatusOK, item)
}

func (b *Base) Create(c *gin.Context) {
	obj, ok := b.bind(c)
	if !ok {
		return
	}
	created, err := b.Repo.Create(c.Request.Context(), obj)
	if err != nil {
		b.fail(c, err)
		return
	}
	b.render(c, http.StatusCreated, created)
}

func (b *Base) Update(c *gin.Context) {
	obj, ok := b.bind(c)
	if !ok {
		return
	}
	updated, err := b.Repo.Update(c.Request.Context(), c.Param(idParam), obj)
	if err != nil {
		b.fail(c, err)
		return
	}
	b.render(c, http.StatusOK, updated)
}

func (b *Base) Delete(c *gin.Context) {
	if err := b.Repo.Delete(c.Request.Context(), c.Param(idParam)); err != nil {
		b.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (b *Base) bind(c *gin.Context) (any, bool) {
	var obj any
	if b.New != nil {
		obj = b.New()
	} else {
		obj = &map[string]any{}
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.Debugf("bind %s: %v", b.Entity, err)
		b.problem(c, http.StatusBadRequest, b.message("invalid_body"))
		return nil, false
	}
	return obj, true
}

func (b *Base) render(c *gin.Context, status int, body any) {
	if len(b.Groups) > 0 {
		c.Header(GroupsHeader, strings.Join(b.Groups, ","))
	}
	c.JSON(status, body)
}

func (b *Base) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		b.problem(c, http.StatusNotFound, b.message("not_found"))
		return
	}
	logger.Errorf("%s: %v", b.Entity, err)
	b.problem(c, http.StatusInternalServerError, "internal")
}

func (b *Base) problem(c *gin.Context, status int, messages ...string) {
	c.AbortWithStatusJSON(status, gin.H{"errors": slice.Convert(messages, func(m string) string { return ProblemPrefix + m })})
}

func (b *Base) message(suffix string) string {
	return util.Snake(b.Entity) + "." + suffix
}
