package response

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

// Page is the envelope every general list endpoint returns. Total always
// reflects the filtered count regardless of skip/limit.
type Page struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

// List sends a paginated listing response. A nil item slice is rendered as
// an empty JSON array so the envelope always carries an array.
func List(c *gin.Context, items interface{}, total, skip, limit int) {
	if v := reflect.ValueOf(items); items == nil || (v.Kind() == reflect.Slice && v.IsNil()) {
		items = []interface{}{}
	}
	c.JSON(http.StatusOK, Page{Items: items, Total: total, Skip: skip, Limit: limit})
}

// JSON sends a plain success payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"error": appErr})
}
