package ginfilter

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/m4gshm/crudr/filter"
)

const valuesKey = "crudr.filter.values"

// Middleware validates the request query against the schema.
// Violations abort the request with 400, decoded values are stored in the context.
func Middleware(schema *filter.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, violations := schema.Validate(c.Request.URL.Query())
		if len(violations) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": violations})
			return
		}
		c.Set(valuesKey, values)
		c.Next()
	}
}

// FromContext returns the values stored by Middleware or nil.
func FromContext(c *gin.Context) *filter.Values {
	if v, ok := c.Get(valuesKey); ok {
		if values, ok := v.(*filter.Values); ok {
			return values
		}
	}
	return nil
}
