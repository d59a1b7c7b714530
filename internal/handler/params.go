package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/middleware"
	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

// parseListQuery reads the shared pagination and visibility parameters.
// include_inactive is honored for admin callers only.
func parseListQuery(c *gin.Context) models.ListQuery {
	var q models.ListQuery
	if skip, err := strconv.Atoi(c.DefaultQuery("skip", "0")); err == nil {
		q.Skip = skip
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultLimit))); err == nil {
		q.Limit = limit
	}
	q.Search = strings.TrimSpace(c.Query("search"))
	if c.Query("include_inactive") == "true" {
		claims := middleware.CurrentUser(c)
		q.IncludeInactive = claims != nil && claims.IsAdmin()
	}
	q.Normalize()
	return q
}

// pathID parses the numeric {id} path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// queryInt64 parses an optional numeric query parameter.
func queryInt64(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

// queryInt parses an optional int query parameter.
func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
